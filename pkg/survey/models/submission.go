package models

import "time"

// Profile holds the demographic answers of the first form step.
type Profile struct {
	AgeGroup         string `json:"ageGroup" binding:"required"`
	Gender           string `json:"gender" binding:"required"`
	Education        string `json:"education" binding:"required"`
	IncomeBracket    string `json:"incomeBracket" binding:"required"`
	PoliticalLeaning string `json:"politicalLeaning,omitempty"`
}

// ImagePreferences are the neutral style choices used to build the prompt.
// They are stored as the record's extras.
type ImagePreferences struct {
	Motif        string `json:"motif" binding:"required"`
	ImageStyle   string `json:"imageStyle" binding:"required"`
	Realism      int    `json:"realism" binding:"required,min=1,max=7"`
	TimeOfDay    string `json:"timeOfDay" binding:"required"`
	Lighting     string `json:"lighting" binding:"required"`
	Palette      string `json:"palette" binding:"required"`
	Mood         string `json:"mood" binding:"required"`
	PeopleCount  string `json:"peopleCount" binding:"required"`
	Clothing     string `json:"clothing" binding:"required"`
	Composition  string `json:"composition" binding:"required"`
	DepthOfField string `json:"depthOfField" binding:"required"`
	Diversity    string `json:"diversity" binding:"required"`
}

// AsExtras flattens the preferences into the extras mapping.
func (p ImagePreferences) AsExtras() map[string]any {
	return map[string]any{
		"motif":        p.Motif,
		"imageStyle":   p.ImageStyle,
		"realism":      p.Realism,
		"timeOfDay":    p.TimeOfDay,
		"lighting":     p.Lighting,
		"palette":      p.Palette,
		"mood":         p.Mood,
		"peopleCount":  p.PeopleCount,
		"clothing":     p.Clothing,
		"composition":  p.Composition,
		"depthOfField": p.DepthOfField,
		"diversity":    p.Diversity,
	}
}

// SubmitResponseInput is the body of POST /v1/responses.
type SubmitResponseInput struct {
	Profile
	Prompt           string            `json:"prompt" binding:"required"`
	ImageData        string            `json:"imageData" binding:"required,base64"`
	LikeScore        int               `json:"likeScore" binding:"required,min=1,max=7"`
	CredibilityScore int               `json:"credibilityScore" binding:"required,min=1,max=7"`
	Comment          string            `json:"comment"`
	Preferences      *ImagePreferences `json:"preferences,omitempty"`
	Extras           map[string]any    `json:"extras,omitempty"`
}

// ResponseCreated is returned after a successful submission.
type ResponseCreated struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListRecentParams binds GET /v1/responses.
type ListRecentParams struct {
	Limit *int `query:"limit" binding:"omitempty,min=0,max=500"`
}

// GenerateImageInput is the body of POST /v1/images. Either Prompt is
// given verbatim, or Profile and Preferences are used to build one.
type GenerateImageInput struct {
	Prompt      string            `json:"prompt,omitempty"`
	Size        string            `json:"size,omitempty"`
	Profile     *Profile          `json:"profile,omitempty"`
	Preferences *ImagePreferences `json:"preferences,omitempty"`
}

// GeneratedImage is the result of POST /v1/images.
type GeneratedImage struct {
	Prompt    string `json:"prompt"`
	Size      string `json:"size"`
	ImageData string `json:"imageData"`
}

// BackendStatus describes the storage backend chosen at startup.
type BackendStatus struct {
	Backend string `json:"backend"`
	Notice  string `json:"notice,omitempty"`
}
