package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plancheck/internal/model"
)

func TestToCentimeters(t *testing.T) {
	tests := []struct {
		value  float64
		unit   string
		want   float64
		wantOK bool
	}{
		{240, "mm", 24, true},
		{36.5, "cm", 36.5, true},
		{2.5, "m", 250, true},
		{2.5, " M ", 250, true},
		{10, "inch", 0, false},
		{10, "", 0, false},
	}
	for _, tt := range tests {
		got, ok := ToCentimeters(tt.value, tt.unit)
		assert.Equal(t, tt.wantOK, ok, tt.unit)
		assert.InDelta(t, tt.want, got, 1e-9)
	}
}

func TestFindDimensionMatchesFragmentCaseInsensitive(t *testing.T) {
	evidence := []model.EvidenceItem{
		txt("Wall Thickness noted"), // text, never matched as a dimension
		dim("Wall Thickness", 30, "cm"),
	}
	item, ok := FindDimension(evidence, "thickness")
	require.True(t, ok)
	assert.Equal(t, 30.0, item.Value)
}

func TestVolumeM3(t *testing.T) {
	t.Run("direct volume measurement wins", func(t *testing.T) {
		v, ok := VolumeM3([]model.EvidenceItem{
			dim("room volume", 25, "m3"),
			dim("room length", 100, "m"),
		})
		require.True(t, ok)
		assert.InDelta(t, 25, v, 1e-9)
	})

	t.Run("computed from full dimensions", func(t *testing.T) {
		v, ok := VolumeM3([]model.EvidenceItem{
			dim("length", 500, "cm"),
			dim("width", 4, "m"),
			dim("height", 2.5, "m"),
		})
		require.True(t, ok)
		assert.InDelta(t, 50, v, 1e-9)
	})

	t.Run("partial dimensions are insufficient", func(t *testing.T) {
		_, ok := VolumeM3([]model.EvidenceItem{
			dim("length", 5, "m"),
			dim("height", 2.5, "m"),
		})
		assert.False(t, ok)
	})
}
