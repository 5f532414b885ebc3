package vto

// ComputeGrowthAdjustment возвращает табличную поправку на рост для стадии CVMS
func (e *Engine) ComputeGrowthAdjustment(g GrowthAssessment) (AdjustmentVector, error) {
	if !g.Stage.Valid() {
		return AdjustmentVector{}, invalid(ErrInvalidStage, "growth.stage", int(g.Stage))
	}
	return e.growth[g.Stage], nil
}
