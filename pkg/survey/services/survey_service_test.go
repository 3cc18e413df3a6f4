package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/helpers/problem"
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/models"
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore implements services.ResponseStore for testing
type stubStore struct {
	inserted []models.ResponseRecord
	insertFn func(rec models.ResponseRecord) error
	limits   []int
}

func (s *stubStore) Insert(ctx context.Context, rec models.ResponseRecord) error {
	if s.insertFn != nil {
		if err := s.insertFn(rec); err != nil {
			return err
		}
	}
	s.inserted = append(s.inserted, rec)
	return nil
}

func (s *stubStore) FetchRecent(ctx context.Context, limit int) ([]models.RecentResponse, error) {
	s.limits = append(s.limits, limit)
	return []models.RecentResponse{}, nil
}

func validProfile() models.Profile {
	return models.Profile{
		AgeGroup:         "25-34",
		Gender:           "female",
		Education:        "university",
		IncomeBracket:    "20000-80000 CHF",
		PoliticalLeaning: "left",
	}
}

func validPreferences() models.ImagePreferences {
	return models.ImagePreferences{
		Motif:        "public square / meeting zone",
		ImageStyle:   "photorealistic",
		Realism:      6,
		TimeOfDay:    "evening",
		Lighting:     "soft overcast",
		Palette:      "cool/blue",
		Mood:         "calm",
		PeopleCount:  "2-3 people",
		Clothing:     "casual",
		Composition:  "wide shot",
		DepthOfField: "moderate blur",
		Diversity:    "slightly mixed",
	}
}

func validSubmission() *models.SubmitResponseInput {
	prefs := validPreferences()
	return &models.SubmitResponseInput{
		Profile:          validProfile(),
		Prompt:           "a prompt",
		ImageData:        "aGVsbG8=",
		LikeScore:        4,
		CredibilityScore: 5,
		Comment:          "  nice  ",
		Preferences:      &prefs,
		Extras:           map[string]any{"source": "kiosk"},
	}
}

func TestSubmit_BuildsRecord(t *testing.T) {
	store := &stubStore{}
	svc := services.NewSurveyService(store, true)

	created, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	require.Len(t, store.inserted, 1)

	rec := store.inserted[0]
	assert.Equal(t, created.ID, rec.ID)
	assert.Equal(t, created.CreatedAt, rec.CreatedAt)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "nice", rec.Comment)
	assert.Equal(t, models.NeutralPoliticalLeaning, rec.PoliticalLeaning)
	assert.Equal(t, "kiosk", rec.Extras["source"])
	assert.Equal(t, "public square / meeting zone", rec.Extras["motif"])
	assert.Equal(t, 6, rec.Extras["realism"])
}

func TestSubmit_LeaningKeptWhenPolicyDisabled(t *testing.T) {
	store := &stubStore{}
	svc := services.NewSurveyService(store, false)

	_, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.Equal(t, "left", store.inserted[0].PoliticalLeaning)
}

func TestSubmit_RejectsUnknownOptions(t *testing.T) {
	store := &stubStore{}
	svc := services.NewSurveyService(store, true)

	in := validSubmission()
	in.AgeGroup = "12-17"
	in.Preferences.Mood = "angry"

	_, err := svc.Submit(context.Background(), in)
	apiErr, ok := problem.As(err)
	require.True(t, ok)
	assert.Equal(t, 400, apiErr.Status)
	require.Len(t, apiErr.Errors, 2)
	assert.Equal(t, "ageGroup", apiErr.Errors[0].Location)
	assert.Equal(t, "preferences.mood", apiErr.Errors[1].Location)
	assert.Empty(t, store.inserted)
}

func TestSubmit_StorageErrorIsWrapped(t *testing.T) {
	boom := errors.New("disk full")
	store := &stubStore{insertFn: func(models.ResponseRecord) error { return boom }}
	svc := services.NewSurveyService(store, true)

	_, err := svc.Submit(context.Background(), validSubmission())
	assert.ErrorIs(t, err, boom)
}

func TestRecent_DefaultAndExplicitLimit(t *testing.T) {
	store := &stubStore{}
	svc := services.NewSurveyService(store, true)

	_, err := svc.Recent(context.Background(), &models.ListRecentParams{})
	require.NoError(t, err)
	zero := 0
	_, err = svc.Recent(context.Background(), &models.ListRecentParams{Limit: &zero})
	require.NoError(t, err)

	assert.Equal(t, []int{services.DefaultRecentLimit, 0}, store.limits)
}
