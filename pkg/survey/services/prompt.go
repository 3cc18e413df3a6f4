package services

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/models"
)

var promptTemplate = template.Must(template.New("prompt").Parse(
	"Create a neutral, non-persuasive image **without text** and **without logos**. " +
		"Motif: {{.Prefs.Motif}}. " +
		"If people are shown: realistic depiction matching age {{.Profile.AgeGroup}}, gender {{.Profile.Gender}}. " +
		"Clothing: {{.Prefs.Clothing}}. Diversity: {{.Prefs.Diversity}}. People: {{.Prefs.PeopleCount}}. " +
		"Style: {{.Prefs.ImageStyle}}, realism {{.Prefs.Realism}}/7. Mood: {{.Prefs.Mood}}. Palette: {{.Prefs.Palette}}. " +
		"Composition/camera: {{.Prefs.Composition}}. Depth of field: {{.Prefs.DepthOfField}}. " +
		"Time of day: {{.Prefs.TimeOfDay}}, light/weather: {{.Prefs.Lighting}}. " +
		"Socio-economic context: {{.Profile.IncomeBracket}} (subtle cues only; no stereotypes). " +
		"No political content or symbols.",
))

// BuildPrompt composes the generation prompt from the profile and the
// style preferences of the form.
func BuildPrompt(profile models.Profile, prefs models.ImagePreferences) (string, error) {
	var b strings.Builder
	err := promptTemplate.Execute(&b, struct {
		Profile models.Profile
		Prefs   models.ImagePreferences
	}{profile, prefs})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return b.String(), nil
}
