package util

import (
	"maps"

	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/models"
)

// ToResponseDraft copies a submission into a draft. Preferences win over
// free-form extras with the same key.
func ToResponseDraft(in *models.SubmitResponseInput, leaning string) models.ResponseDraft {
	extras := map[string]any{}
	maps.Copy(extras, in.Extras)
	if in.Preferences != nil {
		maps.Copy(extras, in.Preferences.AsExtras())
	}

	return models.ResponseDraft{
		AgeGroup:         in.AgeGroup,
		Gender:           in.Gender,
		Education:        in.Education,
		IncomeBracket:    in.IncomeBracket,
		PoliticalLeaning: leaning,
		Prompt:           in.Prompt,
		ImageData:        in.ImageData,
		LikeScore:        in.LikeScore,
		CredibilityScore: in.CredibilityScore,
		Comment:          in.Comment,
		Extras:           extras,
	}
}

func ToResponseCreated(rec models.ResponseRecord) *models.ResponseCreated {
	return &models.ResponseCreated{ID: rec.ID, CreatedAt: rec.CreatedAt}
}
