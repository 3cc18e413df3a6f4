package models

import "slices"

// FormOptions are the fixed option lists offered by the survey form.
type FormOptions struct {
	AgeGroups      []string `json:"ageGroups"`
	Genders        []string `json:"genders"`
	Educations     []string `json:"educations"`
	IncomeBrackets []string `json:"incomeBrackets"`
	Motifs         []string `json:"motifs"`
	ImageStyles    []string `json:"imageStyles"`
	TimesOfDay     []string `json:"timesOfDay"`
	Lighting       []string `json:"lighting"`
	Palettes       []string `json:"palettes"`
	Moods          []string `json:"moods"`
	PeopleCounts   []string `json:"peopleCounts"`
	Clothing       []string `json:"clothing"`
	Compositions   []string `json:"compositions"`
	DepthOfField   []string `json:"depthOfField"`
	Diversity      []string `json:"diversity"`
}

// DefaultFormOptions returns the option lists of the neutral image
// preference experiment.
func DefaultFormOptions() FormOptions {
	return FormOptions{
		AgeGroups:      []string{"18-24", "25-34", "35-44", "45-54", "55+"},
		Genders:        []string{"male", "female", "diverse"},
		Educations:     []string{"upper secondary", "apprenticeship", "college", "university", "other"},
		IncomeBrackets: []string{"0-20000 CHF", "20000-80000 CHF", "80000-150000 CHF", "150000+ CHF"},
		Motifs: []string{
			"community event in a city park",
			"new school building (architecture visual)",
			"public square / meeting zone",
			"town hall foyer / information desk",
			"neutral nature spot (meadow, trees, lake)",
		},
		ImageStyles:  []string{"photorealistic", "illustrated (clean)", "semi-realistic"},
		TimesOfDay:   []string{"morning", "noon", "afternoon", "evening", "blue hour"},
		Lighting:     []string{"soft sunlight", "soft overcast", "light backlight", "indoor soft light"},
		Palettes:     []string{"neutral/beige", "cool/blue", "warm/orange", "green/nature", "monochrome"},
		Moods:        []string{"calm", "optimistic", "serious", "inviting"},
		PeopleCounts: []string{"1 person", "2-3 people", "group (5-8)", "no people (place only)"},
		Clothing:     []string{"casual", "smart casual", "light business", "neutral/outdoor"},
		Compositions: []string{"medium shot", "wide shot", "portrait", "subject front, place behind"},
		DepthOfField: []string{"slight background blur", "everything sharp (f/8+)", "moderate blur"},
		Diversity:    []string{"no preference", "slightly mixed", "clearly mixed"},
	}
}

// Allows reports whether value is one of options.
func Allows(options []string, value string) bool {
	return slices.Contains(options, value)
}
