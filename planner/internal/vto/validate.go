package vto

import "math"

// ValidateMeasurement проверяет что все измерения конечны и правдоподобны.
// Значения не ограничиваются и не подставляются по умолчанию.
func (e *Engine) ValidateMeasurement(m Measurement) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"measurement.r6", m.R6},
		{"measurement.l6", m.L6},
		{"measurement.d", m.D},
		{"measurement.s", m.S},
		{"measurement.midline", m.Midline},
		{"measurement.upper_midline", m.UpperMidline},
		{"measurement.skeletal_midline", m.SkeletalMidline},
	}

	for _, f := range fields {
		if err := e.validateOffset(f.name, f.value); err != nil {
			return err
		}
	}

	// D - расстояние, отрицательным быть не может
	if m.D < 0 {
		return invalid(ErrInvalidMeasurement, "measurement.d", m.D)
	}
	return e.validateOffset("measurement.midline", MidlineDelta(m))
}

func (e *Engine) validateOffset(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > e.tables.Limits.MaxOffset {
		return invalid(ErrInvalidMeasurement, field, v)
	}
	return nil
}

func (e *Engine) validateSide(prefix string, d SideDiscrepancy) error {
	if err := e.validateOffset(prefix+".anterior_crowding", d.AnteriorCrowding); err != nil {
		return err
	}
	if err := e.validateOffset(prefix+".curve_of_spee", d.CurveOfSpee); err != nil {
		return err
	}
	if d.Midline != nil {
		if err := e.validateOffset(prefix+".midline", *d.Midline); err != nil {
			return err
		}
	}
	return e.validateOffset(prefix+".incisor_position", d.IncisorPosition)
}

func normalizeGoal(g TreatmentGoal) (TreatmentGoal, error) {
	right, err := normalizeClass("goal.right", g.Right)
	if err != nil {
		return g, err
	}
	left, err := normalizeClass("goal.left", g.Left)
	if err != nil {
		return g, err
	}
	return TreatmentGoal{Right: right, Left: left}, nil
}

func normalizeClass(field string, c Class) (Class, error) {
	switch c {
	case "":
		// без явной цели лечим в I класс
		return ClassI, nil
	case ClassI, ClassII, ClassIII:
		return c, nil
	}
	return c, invalid(ErrInvalidGoal, field, c)
}
