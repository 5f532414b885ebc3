// Package wizard описывает пошаговый сбор входных данных VTO:
// исходные позиции -> анализ места -> цель лечения -> расчет.
package wizard

import (
	"errors"
	"fmt"

	"github.com/Krimson/dental-vto/planner/internal/vto"
)

// Ошибки последовательности шагов
var (
	ErrOutOfOrder  = errors.New("wizard step submitted out of order")
	ErrIncomplete  = errors.New("wizard is not complete")
	ErrAtFirstStep = errors.New("wizard is at the first step")
)

// Stage - этап сбора данных
type Stage string

const (
	StageInitialPositions Stage = "initial_positions"
	StageArchDiscrepancy  Stage = "arch_discrepancy"
	StageMovement         Stage = "movement"
	StageComplete         Stage = "complete"
)

var order = []Stage{StageInitialPositions, StageArchDiscrepancy, StageMovement, StageComplete}

// Wizard - неизменяемое состояние мастера; каждый переход возвращает новое значение
type Wizard struct {
	stage Stage
	input vto.Input
}

// New создает мастер на первом этапе
func New() Wizard {
	return Wizard{stage: StageInitialPositions}
}

// Stage возвращает текущий этап
func (w Wizard) Stage() Stage {
	if w.stage == "" {
		return StageInitialPositions
	}
	return w.stage
}

// Complete сообщает, собраны ли все данные
func (w Wizard) Complete() bool {
	return w.stage == StageComplete
}

// SubmitPositions принимает исходные позиции и стадию роста
func (w Wizard) SubmitPositions(m vto.Measurement, g vto.GrowthAssessment, skipGrowth bool) (Wizard, error) {
	if err := w.expect(StageInitialPositions); err != nil {
		return w, err
	}
	w.input.Measurement = m
	w.input.Growth = g
	w.input.SkipGrowth = skipGrowth
	w.stage = StageArchDiscrepancy
	return w, nil
}

// SubmitDiscrepancy принимает анализ места обеих дуг
func (w Wizard) SubmitDiscrepancy(upper, lower vto.ArchDiscrepancy) (Wizard, error) {
	if err := w.expect(StageArchDiscrepancy); err != nil {
		return w, err
	}
	// процедуры копируются, чтобы мастер не делил срез с вызывающим
	upper.Procedures = append([]vto.Procedure(nil), upper.Procedures...)
	lower.Procedures = append([]vto.Procedure(nil), lower.Procedures...)
	w.input.Upper = upper
	w.input.Lower = lower
	w.stage = StageMovement
	return w, nil
}

// SubmitGoal принимает цель лечения и завершает сбор
func (w Wizard) SubmitGoal(goal vto.TreatmentGoal) (Wizard, error) {
	if err := w.expect(StageMovement); err != nil {
		return w, err
	}
	w.input.Goal = goal
	w.stage = StageComplete
	return w, nil
}

// Back возвращает на предыдущий этап; введенные данные сохраняются
func (w Wizard) Back() (Wizard, error) {
	idx := w.index()
	if idx == 0 {
		return w, ErrAtFirstStep
	}
	w.stage = order[idx-1]
	return w, nil
}

// Input возвращает собранные данные для vto.Engine.RunFullVTO
func (w Wizard) Input() (vto.Input, error) {
	if !w.Complete() {
		return vto.Input{}, fmt.Errorf("%w: at %s", ErrIncomplete, w.Stage())
	}
	return w.input, nil
}

func (w Wizard) expect(stage Stage) error {
	if w.Stage() != stage {
		return fmt.Errorf("%w: expected %s, at %s", ErrOutOfOrder, stage, w.Stage())
	}
	return nil
}

func (w Wizard) index() int {
	for i, s := range order {
		if s == w.Stage() {
			return i
		}
	}
	return 0
}
