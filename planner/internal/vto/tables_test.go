package vto

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTables(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultTables_Valid(t *testing.T) {
	require.NoError(t, DefaultTables().Validate())
}

func TestLoadTables_OverridesDefaults(t *testing.T) {
	path := writeTables(t, `
procedures:
  extraction: 7.5
molar_targets:
  class_ii: 7.0
`)

	tables, err := LoadTables(path)
	require.NoError(t, err)

	assert.Equal(t, 7.5, tables.Procedures[ProcedureExtraction])
	assert.Equal(t, 1.0, tables.Procedures[ProcedureStripping])
	assert.Equal(t, 7.0, tables.MolarTargets[ClassII])
	assert.Len(t, tables.Growth, 6)

	e, err := NewEngine(tables)
	require.NoError(t, err)

	res, err := e.ComputeArchDiscrepancy(Measurement{}, ArchDiscrepancy{
		Arch:       ArchLower,
		Procedures: []Procedure{{Kind: ProcedureExtraction, Side: SideBoth}},
	})
	require.NoError(t, err)
	assert.Equal(t, 15.0, res.Net)
}

func TestLoadTables_GrowthStages(t *testing.T) {
	path := writeTables(t, `
growth_stages:
  - {stage: 1, anteroposterior: 1, vertical: 1, upper_space: 0, lower_space: 0}
  - {stage: 2, anteroposterior: 2, vertical: 1, upper_space: 0, lower_space: 0}
  - {stage: 3, anteroposterior: 4, vertical: 2, upper_space: 1, lower_space: 1}
  - {stage: 4, anteroposterior: 2, vertical: 1, upper_space: 0, lower_space: 0}
  - {stage: 5, anteroposterior: 1, vertical: 0, upper_space: 0, lower_space: 0}
  - {stage: 6, anteroposterior: 0, vertical: 0, upper_space: 0, lower_space: 0}
`)

	tables, err := LoadTables(path)
	require.NoError(t, err)

	e, err := NewEngine(tables)
	require.NoError(t, err)

	got, err := e.ComputeGrowthAdjustment(GrowthAssessment{Stage: 3})
	require.NoError(t, err)
	assert.Equal(t, AdjustmentVector{Anteroposterior: 4, Vertical: 2, UpperSpace: 1, LowerSpace: 1}, got)
}

func TestLoadTables_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing stage", "growth_stages:\n  - {stage: 1}\n"},
		{"stage out of range", "growth_stages:\n  - {stage: 0}\n"},
		{"weights do not sum", "allocation:\n  class_i: {anterior: 0.5, posterior: 0.6}\n"},
		{"shares do not sum", "incisor_share: 0.9\n"},
		{"zero limit", "limits:\n  max_offset: 0\n"},
		{"misspelled procedure", "procedures:\n  extration: 7.0\n"},
		{"unknown allocation class", "allocation:\n  class_iv: {anterior: 0.5, posterior: 0.5}\n"},
		{"unknown molar target", "molar_targets:\n  class_iv: 1.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTables(writeTables(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidTables)
		})
	}

	_, err := LoadTables(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	_, err = LoadTables(writeTables(t, "procedures: [1, 2"))
	assert.Error(t, err)
}

func TestNewEngine_CopiesTables(t *testing.T) {
	tables := DefaultTables()
	e, err := NewEngine(tables)
	require.NoError(t, err)

	tables.Procedures[ProcedureExtraction] = 100
	tables.Growth[2].Anteroposterior = 100

	assert.Equal(t, 7.0, e.Tables().Procedures[ProcedureExtraction])
	got, err := e.ComputeGrowthAdjustment(GrowthAssessment{Stage: 3})
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.Anteroposterior)

	// копия из Tables() тоже не влияет на движок
	e.Tables().Procedures[ProcedureExtraction] = 0
	assert.Equal(t, 7.0, e.Tables().Procedures[ProcedureExtraction])
}

func TestMovements_Labels(t *testing.T) {
	s := Segments{
		R6:  Vector{Horizontal: -2},
		R3:  Vector{Horizontal: 1, Vertical: 0.01},
		Inc: Vector{Horizontal: -0.5, Vertical: -1},
		L3:  Vector{Horizontal: 0.04},
		L6:  Vector{Horizontal: 3, Vertical: 4},
	}

	got := s.Movements()
	require.Len(t, got, 5)

	assert.Equal(t, ToothMovement{Tooth: ToothR6, Vector: s.R6, Magnitude: 2, Horizontal: "distal"}, got[0])
	assert.Equal(t, "mesial", got[1].Horizontal)
	assert.Empty(t, got[1].Vertical)
	assert.Equal(t, "right", got[2].Horizontal)
	assert.Equal(t, "intrusion", got[2].Vertical)
	assert.Empty(t, got[3].Horizontal)
	assert.Equal(t, 5.0, got[4].Magnitude)
	assert.Equal(t, "extrusion", got[4].Vertical)
}

func TestSideSpace_Status(t *testing.T) {
	assert.Equal(t, "balanced", SideSpace{Remaining: 0.04}.Status())
	assert.Equal(t, "balanced", SideSpace{Remaining: -0.04}.Status())
	assert.Equal(t, "crowding", SideSpace{Remaining: -1}.Status())
	assert.Equal(t, "spacing", SideSpace{Remaining: 0.5}.Status())
}

func TestSpaceAnalysis_WithGrowth(t *testing.T) {
	g := AdjustmentVector{UpperSpace: 1.0, LowerSpace: 0.5}

	upper := SpaceAnalysis{Arch: ArchUpper, Right: SideSpace{Remaining: -0.4}, Left: SideSpace{Remaining: -2}}
	got := upper.WithGrowth(g)
	assert.Equal(t, ArchUpper, got.Arch)
	assert.InDelta(t, 0.5, got.Growth, 1e-9)
	assert.InDelta(t, 0.1, got.Right.Remaining, 1e-9)
	assert.Equal(t, "spacing", got.Right.Status)
	assert.InDelta(t, -1.5, got.Left.Remaining, 1e-9)
	assert.Equal(t, "crowding", got.Left.Status)

	lower := SpaceAnalysis{Arch: ArchLower, Right: SideSpace{Remaining: -0.25}}
	assert.Equal(t, SideBalance{Remaining: 0, Status: "balanced"}, lower.WithGrowth(g).Right)
}
