package vto

import (
	"errors"
	"fmt"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ErrInvalidTables возвращается при некорректных справочных таблицах
var ErrInvalidTables = errors.New("invalid reference tables")

const weightTolerance = 1e-9

// GrowthRow - строка таблицы роста для одной стадии CVMS
type GrowthRow struct {
	Stage            Stage `json:"stage" yaml:"stage"`
	AdjustmentVector `yaml:",inline"`
}

// Allocation - доли распределения остатка места между фронтальным и боковым сегментами
type Allocation struct {
	Anterior  float64 `json:"anterior" yaml:"anterior"`
	Posterior float64 `json:"posterior" yaml:"posterior"`
}

// Limits - пределы физически правдоподобных значений
type Limits struct {
	MaxOffset float64 `json:"max_offset" yaml:"max_offset"`
}

// Tables - справочные коэффициенты методики
type Tables struct {
	Growth       []GrowthRow               `json:"growth_stages" yaml:"growth_stages"`
	Procedures   map[ProcedureKind]float64 `json:"procedures" yaml:"procedures"`
	Allocation   map[Class]Allocation      `json:"allocation" yaml:"allocation"`
	IncisorShare float64                   `json:"incisor_share" yaml:"incisor_share"`
	CanineShare  float64                   `json:"canine_share" yaml:"canine_share"`
	MolarTargets map[Class]float64         `json:"molar_targets" yaml:"molar_targets"`
	Limits       Limits                    `json:"limits" yaml:"limits"`
}

// DefaultTables возвращает встроенные таблицы.
// Клиника подставляет опубликованные коэффициенты через LoadTables.
func DefaultTables() *Tables {
	return &Tables{
		Growth: []GrowthRow{
			{Stage: 1, AdjustmentVector: AdjustmentVector{Anteroposterior: 1.5, Vertical: 1.0, UpperSpace: 0.5, LowerSpace: 0}},
			{Stage: 2, AdjustmentVector: AdjustmentVector{Anteroposterior: 2.0, Vertical: 1.5, UpperSpace: 0.5, LowerSpace: 0}},
			{Stage: 3, AdjustmentVector: AdjustmentVector{Anteroposterior: 3.0, Vertical: 2.0, UpperSpace: 1.0, LowerSpace: 0.5}},
			{Stage: 4, AdjustmentVector: AdjustmentVector{Anteroposterior: 2.0, Vertical: 1.5, UpperSpace: 0.5, LowerSpace: 0.5}},
			{Stage: 5, AdjustmentVector: AdjustmentVector{Anteroposterior: 0.5, Vertical: 0.5}},
			{Stage: 6},
		},
		Procedures: map[ProcedureKind]float64{
			ProcedureExtraction:    7.0,
			ProcedureStripping:     1.0,
			ProcedureExpansion:     1.0,
			ProcedureDistalization: 2.0,
			ProcedureAnchorageLoss: -1.5,
		},
		Allocation: map[Class]Allocation{
			ClassI:   {Anterior: 0.55, Posterior: 0.45},
			ClassII:  {Anterior: 0.65, Posterior: 0.35},
			ClassIII: {Anterior: 0.45, Posterior: 0.55},
		},
		IncisorShare: 0.55,
		CanineShare:  0.45,
		MolarTargets: map[Class]float64{
			ClassI:   0,
			ClassII:  3.5,
			ClassIII: -3.5,
		},
		Limits: Limits{MaxOffset: 25},
	}
}

// LoadTables читает таблицы из YAML файла.
// Ключи, отсутствующие в файле, сохраняют встроенные значения.
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tables %s: %w", path, err)
	}

	tables := DefaultTables()
	if err := yaml.Unmarshal(data, tables); err != nil {
		return nil, fmt.Errorf("parse tables %s: %w", path, err)
	}

	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return tables, nil
}

// Validate проверяет полноту и согласованность таблиц
func (t *Tables) Validate() error {
	seen := make(map[Stage]bool, len(t.Growth))
	for _, row := range t.Growth {
		if !row.Stage.Valid() {
			return fmt.Errorf("%w: growth stage %d out of range", ErrInvalidTables, row.Stage)
		}
		if seen[row.Stage] {
			return fmt.Errorf("%w: duplicate growth stage %d", ErrInvalidTables, row.Stage)
		}
		seen[row.Stage] = true

		v := row.AdjustmentVector
		if !finite(v.Anteroposterior, v.Vertical, v.UpperSpace, v.LowerSpace) {
			return fmt.Errorf("%w: growth stage %d has non-finite values", ErrInvalidTables, row.Stage)
		}
	}
	for s := MinStage; s <= MaxStage; s++ {
		if !seen[s] {
			return fmt.Errorf("%w: growth stage %d missing", ErrInvalidTables, s)
		}
	}

	for _, kind := range ProcedureKinds {
		if _, ok := t.Procedures[kind]; !ok {
			return fmt.Errorf("%w: procedure %q missing", ErrInvalidTables, kind)
		}
	}
	for kind, gain := range t.Procedures {
		if !slices.Contains(ProcedureKinds, kind) {
			return fmt.Errorf("%w: unknown procedure %q", ErrInvalidTables, kind)
		}
		if !finite(gain) {
			return fmt.Errorf("%w: procedure %q has non-finite gain", ErrInvalidTables, kind)
		}
	}

	for _, class := range Classes {
		a, ok := t.Allocation[class]
		if !ok {
			return fmt.Errorf("%w: allocation for %s missing", ErrInvalidTables, class)
		}
		if a.Anterior < 0 || a.Posterior < 0 || math.Abs(a.Anterior+a.Posterior-1) > weightTolerance {
			return fmt.Errorf("%w: allocation for %s must be non-negative and sum to 1", ErrInvalidTables, class)
		}

		target, ok := t.MolarTargets[class]
		if !ok {
			return fmt.Errorf("%w: molar target for %s missing", ErrInvalidTables, class)
		}
		if !finite(target) {
			return fmt.Errorf("%w: molar target for %s is not finite", ErrInvalidTables, class)
		}
	}

	for class := range t.Allocation {
		if !slices.Contains(Classes, class) {
			return fmt.Errorf("%w: allocation for unknown class %q", ErrInvalidTables, class)
		}
	}
	for class := range t.MolarTargets {
		if !slices.Contains(Classes, class) {
			return fmt.Errorf("%w: molar target for unknown class %q", ErrInvalidTables, class)
		}
	}

	if t.IncisorShare < 0 || t.CanineShare < 0 || math.Abs(t.IncisorShare+t.CanineShare-1) > weightTolerance {
		return fmt.Errorf("%w: incisor and canine shares must be non-negative and sum to 1", ErrInvalidTables)
	}

	if !(t.Limits.MaxOffset > 0) || math.IsInf(t.Limits.MaxOffset, 0) {
		return fmt.Errorf("%w: limits.max_offset must be positive", ErrInvalidTables)
	}

	return nil
}

// Clone возвращает глубокую копию таблиц
func (t *Tables) Clone() *Tables {
	c := *t
	c.Growth = append([]GrowthRow(nil), t.Growth...)

	c.Procedures = make(map[ProcedureKind]float64, len(t.Procedures))
	for k, v := range t.Procedures {
		c.Procedures[k] = v
	}
	c.Allocation = make(map[Class]Allocation, len(t.Allocation))
	for k, v := range t.Allocation {
		c.Allocation[k] = v
	}
	c.MolarTargets = make(map[Class]float64, len(t.MolarTargets))
	for k, v := range t.MolarTargets {
		c.MolarTargets[k] = v
	}
	return &c
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
