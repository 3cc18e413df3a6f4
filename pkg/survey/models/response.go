package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the fixed-width ISO-8601 UTC form used for created_at,
// so lexical and chronological order agree in the local store.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// NeutralPoliticalLeaning is the sentinel written when the leaning
// normalization policy is active.
const NeutralPoliticalLeaning = "neutral"

// ResponseRecord is one submitted survey answer plus its generated image.
// Records are write-once: ID and CreatedAt are assigned by NewResponseRecord.
type ResponseRecord struct {
	ID               string         `json:"id"`
	CreatedAt        time.Time      `json:"createdAt"`
	AgeGroup         string         `json:"ageGroup"`
	Gender           string         `json:"gender"`
	Education        string         `json:"education"`
	IncomeBracket    string         `json:"incomeBracket"`
	PoliticalLeaning string         `json:"politicalLeaning"`
	Prompt           string         `json:"prompt"`
	ImageData        string         `json:"imageData"`
	LikeScore        int            `json:"likeScore"`
	CredibilityScore int            `json:"credibilityScore"`
	Comment          string         `json:"comment,omitempty"`
	Extras           map[string]any `json:"extras,omitempty"`
}

// ResponseDraft carries everything the form collects; the persistence
// layer adds identity and timestamp.
type ResponseDraft struct {
	AgeGroup         string
	Gender           string
	Education        string
	IncomeBracket    string
	PoliticalLeaning string
	Prompt           string
	ImageData        string
	LikeScore        int
	CredibilityScore int
	Comment          string
	Extras           map[string]any
}

// NewResponseRecord stamps a draft with a fresh UUID and the given creation time.
func NewResponseRecord(d ResponseDraft, now time.Time) ResponseRecord {
	extras := d.Extras
	if extras == nil {
		extras = map[string]any{}
	}
	return ResponseRecord{
		ID:               uuid.NewString(),
		CreatedAt:        now.UTC(),
		AgeGroup:         d.AgeGroup,
		Gender:           d.Gender,
		Education:        d.Education,
		IncomeBracket:    d.IncomeBracket,
		PoliticalLeaning: d.PoliticalLeaning,
		Prompt:           d.Prompt,
		ImageData:        d.ImageData,
		LikeScore:        d.LikeScore,
		CredibilityScore: d.CredibilityScore,
		Comment:          strings.TrimSpace(d.Comment),
		Extras:           extras,
	}
}

// RecentResponse is the lightweight projection shown in admin views. It
// omits the image payload, the prompt and the extras.
type RecentResponse struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"createdAt"`
	AgeGroup         string    `json:"ageGroup"`
	Gender           string    `json:"gender"`
	Education        string    `json:"education"`
	PoliticalLeaning string    `json:"politicalLeaning"`
	IncomeBracket    string    `json:"incomeBracket"`
	LikeScore        int       `json:"likeScore"`
	CredibilityScore int       `json:"credibilityScore"`
}

// RecentColumns lists the storage columns of the RecentResponse projection,
// in the order both backends select them.
var RecentColumns = []string{
	"id",
	"created_at",
	"age_group",
	"gender",
	"education",
	"political_leaning",
	"income_bracket",
	"like_score",
	"credibility_score",
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts TimestampLayout as well as the RFC 3339 and
// Postgres text forms a remote store may hand back.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var err error
	for _, layout := range timestampLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
}
