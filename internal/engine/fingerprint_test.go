package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"plancheck/internal/model"
)

func TestFingerprintStability(t *testing.T) {
	evidence := []model.EvidenceItem{
		{Type: model.EvidenceDimension, Label: "wall thickness", Value: 30, Unit: "cm"},
	}

	a := Fingerprint(model.CategoryWallSection, model.ViewSection, evidence)
	b := Fingerprint(model.CategoryWallSection, model.ViewSection, evidence)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	c := Fingerprint(model.CategoryWallSection, model.ViewTop, evidence)
	assert.NotEqual(t, a, c)

	d := Fingerprint(model.CategoryWallSection, model.ViewSection, []model.EvidenceItem{
		{Type: model.EvidenceDimension, Label: "wall thickness", Value: 31, Unit: "cm"},
	})
	assert.NotEqual(t, a, d)
}
