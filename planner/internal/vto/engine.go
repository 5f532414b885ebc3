// Package vto реализует расчет визуальной цели лечения (VTO) по методике
// McLaughlin/Bennett/Trevisi: поправку на рост по стадии CVMS, анализ места
// для каждой дуги и восемь последовательных шагов перемещения зубов.
//
// Все функции чистые: Engine хранит только неизменяемые таблицы и может
// использоваться из нескольких горутин без блокировок.
package vto

import "fmt"

// Engine выполняет расчет с фиксированным набором таблиц
type Engine struct {
	tables *Tables
	growth [MaxStage + 1]AdjustmentVector
}

// NewEngine создает движок. При tables == nil используются DefaultTables.
func NewEngine(tables *Tables) (*Engine, error) {
	if tables == nil {
		tables = DefaultTables()
	}
	if err := tables.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{tables: tables.Clone()}
	for _, row := range e.tables.Growth {
		e.growth[row.Stage] = row.AdjustmentVector
	}
	return e, nil
}

// Tables возвращает копию таблиц движка
func (e *Engine) Tables() *Tables {
	return e.tables.Clone()
}

// RunFullVTO выполняет полный расчет: рост, анализ места верхней и нижней дуги,
// восемь шагов и коррекцию средней линии. Ошибка прерывает расчет целиком.
func (e *Engine) RunFullVTO(in Input) (*Result, error) {
	if err := e.ValidateMeasurement(in.Measurement); err != nil {
		return nil, err
	}

	growth, err := e.ComputeGrowthAdjustment(in.Growth)
	if err != nil {
		return nil, err
	}
	if in.SkipGrowth {
		growth = AdjustmentVector{}
	}

	upperInput, err := withArch(in.Upper, ArchUpper)
	if err != nil {
		return nil, err
	}
	lowerInput, err := withArch(in.Lower, ArchLower)
	if err != nil {
		return nil, err
	}

	upper, err := e.ComputeArchDiscrepancy(in.Measurement, upperInput)
	if err != nil {
		return nil, fmt.Errorf("upper arch: %w", err)
	}
	lower, err := e.ComputeArchDiscrepancy(in.Measurement, lowerInput)
	if err != nil {
		return nil, fmt.Errorf("lower arch: %w", err)
	}

	goal, err := normalizeGoal(in.Goal)
	if err != nil {
		return nil, err
	}

	steps, err := e.ComputeStepMovements(in.Measurement, growth, upper, lower, goal)
	if err != nil {
		return nil, err
	}

	return &Result{
		Steps:             steps,
		MidlineCorrection: MidlineCorrection(in.Measurement),
		Growth:            growth,
		Upper:             upper,
		Lower:             lower,
		UpperBalance:      upper.WithGrowth(growth),
		LowerBalance:      lower.WithGrowth(growth),
		Goal:              goal,
	}, nil
}

// withArch проставляет дугу в копии входных данных; пустое значение допустимо
func withArch(d ArchDiscrepancy, arch Arch) (ArchDiscrepancy, error) {
	if d.Arch == "" {
		d.Arch = arch
		return d, nil
	}
	if d.Arch != arch {
		return d, invalid(ErrInvalidMeasurement, string(arch)+".arch", d.Arch)
	}
	return d, nil
}

// MidlineDelta возвращает расхождение нижней зубной и скелетной средних линий
func MidlineDelta(m Measurement) float64 {
	return m.Midline - m.SkeletalMidline
}

// MidlineCorrection возвращает перемещение нижних резцов к скелетной средней линии
func MidlineCorrection(m Measurement) float64 {
	return 0 - MidlineDelta(m) // 0 - x, чтобы нулевое смещение не давало -0
}
