package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plancheck/internal/model"
)

func TestInferDerivedEvidence(t *testing.T) {
	t.Run("counts external walls across room layouts", func(t *testing.T) {
		derived := InferDerivedEvidence([]*model.Classification{
			{
				PrimaryCategory: model.CategoryRoomLayout,
				Evidence: []model.EvidenceItem{
					{Type: model.EvidenceStructural, Label: "external_wall"},
					{Type: model.EvidenceStructural, Label: "external_wall"},
					{Type: model.EvidenceStructural, Label: "door"},
				},
			},
			{
				PrimaryCategory: model.CategoryRoomLayout,
				Evidence: []model.EvidenceItem{
					{Type: model.EvidenceStructural, Label: "external_wall"},
				},
			},
		})

		require.Len(t, derived, 1)
		assert.Equal(t, model.EvidenceDerived, derived[0].Type)
		assert.Equal(t, "external_wall_count", derived[0].Label)
		assert.Equal(t, 3.0, derived[0].Value)
	})

	t.Run("ignores other categories", func(t *testing.T) {
		derived := InferDerivedEvidence([]*model.Classification{
			{
				PrimaryCategory: model.CategoryWallSection,
				Evidence: []model.EvidenceItem{
					{Type: model.EvidenceStructural, Label: "external_wall"},
				},
			},
		})
		assert.Nil(t, derived)
	})

	t.Run("nothing derived without sources", func(t *testing.T) {
		assert.Nil(t, InferDerivedEvidence(nil))
		assert.Nil(t, InferDerivedEvidence([]*model.Classification{nil}))
	})
}
