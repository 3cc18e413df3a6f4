package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResponseRecord_AssignsIdentity(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	rec := NewResponseRecord(ResponseDraft{AgeGroup: "25-34", Comment: "  nice light \n"}, now)

	_, err := uuid.Parse(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())
	assert.True(t, rec.CreatedAt.Equal(now))
	assert.Equal(t, "nice light", rec.Comment)
	assert.NotNil(t, rec.Extras)
	assert.Empty(t, rec.Extras)
}

func TestNewResponseRecord_UniqueIDs(t *testing.T) {
	a := NewResponseRecord(ResponseDraft{}, time.Now())
	b := NewResponseRecord(ResponseDraft{}, time.Now())
	assert.NotEqual(t, a.ID, b.ID)
}

func TestTimestampRoundTrip(t *testing.T) {
	ts := time.Date(2026, 10, 16, 8, 30, 15, 123456000, time.UTC)
	s := FormatTimestamp(ts)
	assert.Equal(t, "2026-10-16T08:30:15.123456Z", s)

	got, err := ParseTimestamp(s)
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))
}

func TestParseTimestamp_RemoteForms(t *testing.T) {
	tests := []string{
		"2026-10-16T08:30:15.123456+00:00",
		"2026-10-16T10:30:15.123456+02:00",
		"2026-10-16 08:30:15.123456+00",
	}
	want := time.Date(2026, 10, 16, 8, 30, 15, 123456000, time.UTC)
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			got, err := ParseTimestamp(in)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
		})
	}
}

func TestFormatTimestamp_SortsChronologically(t *testing.T) {
	early := time.Date(2026, 1, 1, 0, 0, 0, 900000000, time.UTC)
	late := time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC)
	assert.Less(t, FormatTimestamp(early), FormatTimestamp(late))
}

func TestImagePreferences_AsExtras(t *testing.T) {
	p := ImagePreferences{Motif: "public square / meeting zone", Realism: 6}
	extras := p.AsExtras()
	assert.Equal(t, "public square / meeting zone", extras["motif"])
	assert.Equal(t, 6, extras["realism"])
	assert.Len(t, extras, 12)
}
