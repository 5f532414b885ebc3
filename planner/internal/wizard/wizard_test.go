package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krimson/dental-vto/planner/internal/vto"
)

func TestWizard_FullSequence(t *testing.T) {
	m := vto.Measurement{R6: 2, L6: 1, D: 3, Midline: 0.5}
	upper := vto.ArchDiscrepancy{Right: vto.SideDiscrepancy{AnteriorCrowding: -2}}
	lower := vto.ArchDiscrepancy{
		Left:       vto.SideDiscrepancy{AnteriorCrowding: -1},
		Procedures: []vto.Procedure{{Kind: vto.ProcedureStripping, Side: vto.SideBoth}},
	}
	goal := vto.TreatmentGoal{Right: vto.ClassII, Left: vto.ClassI}

	w := New()
	assert.Equal(t, StageInitialPositions, w.Stage())

	w, err := w.SubmitPositions(m, vto.GrowthAssessment{Stage: 4}, false)
	require.NoError(t, err)
	assert.Equal(t, StageArchDiscrepancy, w.Stage())

	w, err = w.SubmitDiscrepancy(upper, lower)
	require.NoError(t, err)
	assert.Equal(t, StageMovement, w.Stage())

	_, err = w.Input()
	assert.ErrorIs(t, err, ErrIncomplete)

	w, err = w.SubmitGoal(goal)
	require.NoError(t, err)
	assert.True(t, w.Complete())

	in, err := w.Input()
	require.NoError(t, err)
	assert.Equal(t, vto.Input{
		Measurement: m,
		Growth:      vto.GrowthAssessment{Stage: 4},
		Upper:       upper,
		Lower:       lower,
		Goal:        goal,
	}, in)

	e, err := vto.NewEngine(nil)
	require.NoError(t, err)
	_, err = e.RunFullVTO(in)
	require.NoError(t, err)
}

func TestWizard_OutOfOrder(t *testing.T) {
	w := New()

	_, err := w.SubmitGoal(vto.TreatmentGoal{})
	assert.ErrorIs(t, err, ErrOutOfOrder)

	_, err = w.SubmitDiscrepancy(vto.ArchDiscrepancy{}, vto.ArchDiscrepancy{})
	assert.ErrorIs(t, err, ErrOutOfOrder)

	var zero Wizard
	_, err = zero.SubmitPositions(vto.Measurement{}, vto.GrowthAssessment{Stage: 1}, false)
	assert.NoError(t, err, "zero value starts at the first stage")
}

func TestWizard_TransitionsDoNotMutate(t *testing.T) {
	w := New()
	next, err := w.SubmitPositions(vto.Measurement{R6: 1}, vto.GrowthAssessment{Stage: 2}, true)
	require.NoError(t, err)

	assert.Equal(t, StageInitialPositions, w.Stage())
	assert.Equal(t, StageArchDiscrepancy, next.Stage())

	procedures := []vto.Procedure{{Kind: vto.ProcedureExtraction, Side: vto.SideLeft}}
	next, err = next.SubmitDiscrepancy(vto.ArchDiscrepancy{Procedures: procedures}, vto.ArchDiscrepancy{})
	require.NoError(t, err)
	procedures[0].Kind = vto.ProcedureExpansion

	next, err = next.SubmitGoal(vto.TreatmentGoal{})
	require.NoError(t, err)
	in, err := next.Input()
	require.NoError(t, err)
	assert.Equal(t, vto.ProcedureExtraction, in.Upper.Procedures[0].Kind)
	assert.True(t, in.SkipGrowth)
}

func TestWizard_Back(t *testing.T) {
	w := New()
	_, err := w.Back()
	assert.ErrorIs(t, err, ErrAtFirstStep)

	w, err = w.SubmitPositions(vto.Measurement{D: 1}, vto.GrowthAssessment{Stage: 5}, false)
	require.NoError(t, err)
	w, err = w.SubmitDiscrepancy(vto.ArchDiscrepancy{}, vto.ArchDiscrepancy{})
	require.NoError(t, err)

	w, err = w.Back()
	require.NoError(t, err)
	assert.Equal(t, StageArchDiscrepancy, w.Stage())

	w, err = w.Back()
	require.NoError(t, err)
	assert.Equal(t, StageInitialPositions, w.Stage())

	// повторная отправка перезаписывает позиции
	w, err = w.SubmitPositions(vto.Measurement{D: 2}, vto.GrowthAssessment{Stage: 5}, false)
	require.NoError(t, err)
	w, err = w.SubmitDiscrepancy(vto.ArchDiscrepancy{}, vto.ArchDiscrepancy{})
	require.NoError(t, err)
	w, err = w.SubmitGoal(vto.TreatmentGoal{})
	require.NoError(t, err)

	in, err := w.Input()
	require.NoError(t, err)
	assert.Equal(t, 2.0, in.Measurement.D)
}
