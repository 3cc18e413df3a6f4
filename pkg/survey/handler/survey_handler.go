package handler

import (
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/models"
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/services"
	"github.com/gin-gonic/gin"
)

// StatusReporter is satisfied by *services.Persistence.
type StatusReporter interface {
	Status() models.BackendStatus
}

// SurveyController binds HTTP requests to the survey and image services
type SurveyController struct {
	Survey *services.SurveyService
	Images *services.ImageService
	Store  StatusReporter
}

func NewSurveyController(survey *services.SurveyService, images *services.ImageService, store StatusReporter) *SurveyController {
	return &SurveyController{Survey: survey, Images: images, Store: store}
}

// GenerateImage handles POST /images
func (c *SurveyController) GenerateImage(ctx *gin.Context, body *models.GenerateImageInput) (*models.GeneratedImage, error) {
	return c.Images.Generate(ctx.Request.Context(), body)
}

// SubmitResponse handles POST /responses. Stored records are not
// addressable on their own, so no Location header is sent.
func (c *SurveyController) SubmitResponse(ctx *gin.Context, body *models.SubmitResponseInput) (*models.ResponseCreated, error) {
	return c.Survey.Submit(ctx.Request.Context(), body)
}

// ListRecent handles GET /responses
func (c *SurveyController) ListRecent(ctx *gin.Context, p *models.ListRecentParams) ([]models.RecentResponse, error) {
	return c.Survey.Recent(ctx.Request.Context(), p)
}

// Status handles GET /status
func (c *SurveyController) Status(ctx *gin.Context) (*models.BackendStatus, error) {
	status := c.Store.Status()
	return &status, nil
}

// Options handles GET /options
func (c *SurveyController) Options(ctx *gin.Context) (*models.FormOptions, error) {
	opts := c.Survey.Options()
	return &opts, nil
}
