package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Krimson/dental-vto/planner/internal/metrics"
	"github.com/Krimson/dental-vto/planner/internal/vto"
	"github.com/Krimson/dental-vto/planner/pkg/models"
)

// PlannerService связывает движок расчета с транспортами
type PlannerService struct {
	engine  *vto.Engine
	metrics *metrics.Metrics

	now   func() time.Time
	newID func() string
}

// NewPlannerService создает сервис. metrics может быть nil.
func NewPlannerService(engine *vto.Engine, m *metrics.Metrics) *PlannerService {
	return &PlannerService{
		engine:  engine,
		metrics: m,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Calculate выполняет полный расчет и оформляет ответ
func (s *PlannerService) Calculate(ctx context.Context, transport string, in vto.Input) (*models.CalculationResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := s.now()
	result, err := s.engine.RunFullVTO(in)
	s.metrics.ObserveCalculation(transport, s.now().Sub(start), errorCode(err))
	if err != nil {
		return nil, err
	}

	upper, lower := result.Final()

	return &models.CalculationResponse{
		CalculationID: s.newID(),
		Status:        models.StatusCalculated,
		CreatedAt:     start.UTC(),
		Result:        result,
		Final: models.FinalMovements{
			Upper: upper.Movements(),
			Lower: lower.Movements(),
		},
		Spaces: models.SpaceStatusBlock{
			UpperRight: result.UpperBalance.Right.Status,
			UpperLeft:  result.UpperBalance.Left.Status,
			LowerRight: result.LowerBalance.Right.Status,
			LowerLeft:  result.LowerBalance.Left.Status,
		},
	}, nil
}

// Growth возвращает поправку на рост для стадии CVMS
func (s *PlannerService) Growth(ctx context.Context, req models.GrowthRequest) (vto.AdjustmentVector, error) {
	if err := ctx.Err(); err != nil {
		return vto.AdjustmentVector{}, err
	}
	return s.engine.ComputeGrowthAdjustment(vto.GrowthAssessment{Stage: req.Stage})
}

// Space возвращает анализ места одной дуги
func (s *PlannerService) Space(ctx context.Context, req models.SpaceRequest) (vto.SpaceAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return vto.SpaceAnalysis{}, err
	}
	if err := s.engine.ValidateMeasurement(req.Measurement); err != nil {
		return vto.SpaceAnalysis{}, err
	}
	return s.engine.ComputeArchDiscrepancy(req.Measurement, req.Arch)
}

// Tables возвращает действующие справочные таблицы
func (s *PlannerService) Tables() *vto.Tables {
	return s.engine.Tables()
}

func errorCode(err error) string {
	if err == nil {
		return ""
	}
	if code := vto.Code(err); code != "" {
		return code
	}
	return "internal"
}
