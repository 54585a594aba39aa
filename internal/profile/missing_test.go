package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BryanOD95/data-workshops/internal/dataset"
)

func profileFrame(t *testing.T) *dataset.Frame {
	t.Helper()
	f, err := dataset.New(
		dataset.Column{Name: "invoice", Values: []dataset.Value{
			dataset.String("A"), dataset.String("B"), dataset.String("C"), dataset.String("D"),
		}},
		dataset.Column{Name: "customer_id", Values: []dataset.Value{
			dataset.String("1"), dataset.Null(), dataset.Null(), dataset.String("2"),
		}},
		dataset.Column{Name: "description", Values: []dataset.Value{
			dataset.String("x"), dataset.Null(), dataset.String("y"), dataset.String("z"),
		}},
	)
	require.NoError(t, err)
	return f
}

func TestMissingByColumn(t *testing.T) {
	got := MissingByColumn(profileFrame(t))
	require.Len(t, got, 3)

	assert.Equal(t, ColumnMissing{Column: "invoice", Missing: 0, Proportion: 0}, got[0])
	assert.Equal(t, "customer_id", got[1].Column)
	assert.Equal(t, 2, got[1].Missing)
	assert.InDelta(t, 0.5, got[1].Proportion, 1e-12)
	assert.InDelta(t, 0.25, got[2].Proportion, 1e-12)

	for _, cm := range got {
		assert.GreaterOrEqual(t, cm.Proportion, 0.0)
		assert.LessOrEqual(t, cm.Proportion, 1.0)
	}
}

func TestMissingPatterns(t *testing.T) {
	got := MissingPatterns(profileFrame(t))

	// Patterns: fully present (rows A, D), customer+description missing
	// (row B), customer only (row C).
	require.Len(t, got, 3)

	assert.Equal(t, "000", got[0].Signature)
	assert.Equal(t, 2, got[0].Rows)
	assert.InDelta(t, 0.5, got[0].Proportion, 1e-12)
	assert.Empty(t, got[0].MissingColumns)

	// The two singleton patterns tie on rows; the signature breaks the tie.
	assert.Equal(t, "010", got[1].Signature)
	assert.Equal(t, []string{"customer_id"}, got[1].MissingColumns)
	assert.Equal(t, "011", got[2].Signature)
	assert.Equal(t, []string{"customer_id", "description"}, got[2].MissingColumns)

	total := 0.0
	for _, p := range got {
		total += p.Proportion
	}
	assert.InDelta(t, 1.0, total, 1e-12)
}

func TestMissingPatternsEmptyFrame(t *testing.T) {
	f, err := dataset.New()
	require.NoError(t, err)
	assert.Empty(t, MissingPatterns(f))
	assert.Empty(t, MissingByColumn(f))
}
