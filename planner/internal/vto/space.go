package vto

import (
	"fmt"
	"math"
	"slices"
)

// ComputeArchDiscrepancy рассчитывает остаток места для одной дуги.
// Стороны считаются независимо. Компонент средней линии нижней дуги выводится
// из Measurement.Midline (справа +x, слева -x). У верхней дуги он задается по
// сторонам, а без явного значения так же выводится из UpperMidline.
func (e *Engine) ComputeArchDiscrepancy(m Measurement, d ArchDiscrepancy) (SpaceAnalysis, error) {
	prefix := string(d.Arch)

	var midline float64
	switch d.Arch {
	case ArchLower:
		midline = m.Midline
		if d.Right.Midline != nil {
			return SpaceAnalysis{}, invalid(ErrInvalidMeasurement, prefix+".right.midline", *d.Right.Midline)
		}
		if d.Left.Midline != nil {
			return SpaceAnalysis{}, invalid(ErrInvalidMeasurement, prefix+".left.midline", *d.Left.Midline)
		}
	case ArchUpper:
		midline = m.UpperMidline
	default:
		return SpaceAnalysis{}, invalid(ErrInvalidMeasurement, "arch", d.Arch)
	}

	if err := e.validateOffset(prefix+".midline", midline); err != nil {
		return SpaceAnalysis{}, err
	}
	if err := e.validateSide(prefix+".right", d.Right); err != nil {
		return SpaceAnalysis{}, err
	}
	if err := e.validateSide(prefix+".left", d.Left); err != nil {
		return SpaceAnalysis{}, err
	}

	gainedRight, gainedLeft, err := e.procedureGains(prefix, d.Procedures)
	if err != nil {
		return SpaceAnalysis{}, err
	}

	right := sideSpace(d.Right, midlineComponent(d.Right, midline), gainedRight)
	left := sideSpace(d.Left, midlineComponent(d.Left, 0-midline), gainedLeft)

	return SpaceAnalysis{
		Arch:    d.Arch,
		Right:   right,
		Left:    left,
		Initial: right.Initial + left.Initial,
		Gained:  right.Gained + left.Gained,
		Net:     right.Remaining + left.Remaining,
	}, nil
}

func midlineComponent(d SideDiscrepancy, derived float64) float64 {
	if d.Midline != nil {
		return *d.Midline
	}
	return derived
}

func sideSpace(d SideDiscrepancy, midline, gained float64) SideSpace {
	initial := d.AnteriorCrowding + d.CurveOfSpee + midline + d.IncisorPosition
	return SideSpace{
		AnteriorCrowding: d.AnteriorCrowding,
		CurveOfSpee:      d.CurveOfSpee,
		Midline:          midline,
		IncisorPosition:  d.IncisorPosition,
		Initial:          initial,
		Gained:           gained,
		Remaining:        initial + gained,
	}
}

// procedureGains суммирует эффект процедур по сторонам
func (e *Engine) procedureGains(prefix string, procedures []Procedure) (right, left float64, err error) {
	for i, p := range procedures {
		field := fmt.Sprintf("%s.procedures[%d]", prefix, i)

		gain, ok := e.tables.Procedures[p.Kind]
		if !ok || !slices.Contains(ProcedureKinds, p.Kind) {
			return 0, 0, invalid(ErrInvalidProcedure, field+".kind", p.Kind)
		}

		if p.Amount != nil {
			amount := *p.Amount
			if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 || amount > e.tables.Limits.MaxOffset {
				return 0, 0, invalid(ErrInvalidMeasurement, field+".amount", amount)
			}
			// величина из запроса, знак из таблицы
			gain = math.Copysign(amount, gain)
		}

		switch p.Side {
		case SideRight:
			right += gain
		case SideLeft:
			left += gain
		case SideBoth:
			right += gain
			left += gain
		default:
			return 0, 0, invalid(ErrInvalidProcedure, field+".side", p.Side)
		}
	}
	return right, left, nil
}
