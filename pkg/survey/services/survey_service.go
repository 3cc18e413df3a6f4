package services

import (
	"context"
	"fmt"
	"time"

	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/helpers/problem"
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/helpers/util"
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/models"
)

// DefaultRecentLimit is used when the admin view asks for no explicit limit.
const DefaultRecentLimit = 50

// ResponseStore is satisfied by *Persistence.
type ResponseStore interface {
	Insert(ctx context.Context, rec models.ResponseRecord) error
	FetchRecent(ctx context.Context, limit int) ([]models.RecentResponse, error)
}

type SurveyService struct {
	store            ResponseStore
	options          models.FormOptions
	normalizeLeaning bool
	now              func() time.Time
}

// NewSurveyService builds the service. With normalizeLeaning set every
// stored answer carries the neutral political leaning, whatever was sent.
func NewSurveyService(store ResponseStore, normalizeLeaning bool) *SurveyService {
	return &SurveyService{
		store:            store,
		options:          models.DefaultFormOptions(),
		normalizeLeaning: normalizeLeaning,
		now:              time.Now,
	}
}

func (s *SurveyService) Options() models.FormOptions { return s.options }

func (s *SurveyService) Submit(ctx context.Context, in *models.SubmitResponseInput) (*models.ResponseCreated, error) {
	invalid := validateProfile(s.options, in.Profile)
	if in.Preferences != nil {
		invalid = append(invalid, validatePreferences(s.options, *in.Preferences)...)
	}
	if len(invalid) > 0 {
		return nil, problem.NewBadRequest("one or more answers are not valid options", invalid...)
	}

	leaning := in.PoliticalLeaning
	if s.normalizeLeaning {
		leaning = models.NeutralPoliticalLeaning
	}

	rec := models.NewResponseRecord(util.ToResponseDraft(in, leaning), s.now())

	if err := s.store.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("save response: %w", err)
	}
	return util.ToResponseCreated(rec), nil
}

func (s *SurveyService) Recent(ctx context.Context, p *models.ListRecentParams) ([]models.RecentResponse, error) {
	limit := DefaultRecentLimit
	if p != nil && p.Limit != nil {
		limit = *p.Limit
	}
	rows, err := s.store.FetchRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch recent responses: %w", err)
	}
	return rows, nil
}

func validateProfile(opts models.FormOptions, p models.Profile) []problem.InvalidParam {
	var out []problem.InvalidParam
	check := func(name string, options []string, value string) {
		if !models.Allows(options, value) {
			out = append(out, problem.InvalidParam{Name: name, Reason: fmt.Sprintf("%q is not an offered option", value)})
		}
	}
	check("ageGroup", opts.AgeGroups, p.AgeGroup)
	check("gender", opts.Genders, p.Gender)
	check("education", opts.Educations, p.Education)
	check("incomeBracket", opts.IncomeBrackets, p.IncomeBracket)
	return out
}

func validatePreferences(opts models.FormOptions, p models.ImagePreferences) []problem.InvalidParam {
	var out []problem.InvalidParam
	check := func(name string, options []string, value string) {
		if !models.Allows(options, value) {
			out = append(out, problem.InvalidParam{Name: "preferences." + name, Reason: fmt.Sprintf("%q is not an offered option", value)})
		}
	}
	check("motif", opts.Motifs, p.Motif)
	check("imageStyle", opts.ImageStyles, p.ImageStyle)
	check("timeOfDay", opts.TimesOfDay, p.TimeOfDay)
	check("lighting", opts.Lighting, p.Lighting)
	check("palette", opts.Palettes, p.Palette)
	check("mood", opts.Moods, p.Mood)
	check("peopleCount", opts.PeopleCounts, p.PeopleCount)
	check("clothing", opts.Clothing, p.Clothing)
	check("composition", opts.Compositions, p.Composition)
	check("depthOfField", opts.DepthOfField, p.DepthOfField)
	check("diversity", opts.Diversity, p.Diversity)
	return out
}
