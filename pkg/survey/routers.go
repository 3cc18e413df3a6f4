package survey

import (
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/handler"
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/middleware"
	"github.com/gin-gonic/gin"
	"github.com/loopfz/gadgeto/tonic"
	"github.com/rs/zerolog"
	"github.com/wI2L/fizz"
	"github.com/wI2L/fizz/openapi"
)

var (
	apiVersionHeader = fizz.Header(
		"API-Version",
		"API version of the response",
		"",
	)

	problemResponse = fizz.Response(
		"502",
		"Upstream service failed",
		nil,
		nil,
		nil,
	)
)

func NewRouter(apiVersion string, logger zerolog.Logger, controller *handler.SurveyController) *fizz.Fizz {
	tonic.SetErrorHook(handler.ErrorHook)

	g := gin.New()
	g.Use(gin.Recovery(), middleware.RequestLogger(logger), APIVersionMiddleware(apiVersion))
	f := fizz.NewFromEngine(g)

	gen := f.Generator()
	gen.API().Components.Headers["API-Version"] = &openapi.HeaderOrRef{
		Header: &openapi.Header{
			Description: "API version of the response",
			Schema: &openapi.SchemaOrRef{
				Schema: &openapi.Schema{
					Type: "string",
				},
			},
		},
	}

	info := &openapi.Info{
		Title:       "Image preference survey API v1",
		Description: "Generates neutral images from survey preferences and stores the ratings",
		Version:     apiVersion,
	}

	root := f.Group("/v1", "API v1", "Survey v1 routes")

	images := root.Group("", "Images", "Image generation")
	images.POST("/images",
		[]fizz.OperationOption{
			fizz.Summary("Generate an image from a prompt or from survey preferences"),
			apiVersionHeader,
			problemResponse,
		},
		tonic.Handler(controller.GenerateImage, 200),
	)

	responses := root.Group("", "Responses", "Survey answers")
	responses.POST("/responses",
		[]fizz.OperationOption{
			fizz.Summary("Store a survey answer"),
			apiVersionHeader,
		},
		tonic.Handler(controller.SubmitResponse, 201),
	)
	responses.GET("/responses",
		[]fizz.OperationOption{
			fizz.Summary("Most recent answers, newest first"),
			apiVersionHeader,
		},
		tonic.Handler(controller.ListRecent, 200),
	)

	meta := root.Group("", "Meta", "Form options and backend status")
	meta.GET("/options",
		[]fizz.OperationOption{
			fizz.Summary("Option lists offered by the form"),
			apiVersionHeader,
		},
		tonic.Handler(controller.Options, 200),
	)
	meta.GET("/status",
		[]fizz.OperationOption{
			fizz.Summary("Active storage backend"),
			apiVersionHeader,
		},
		tonic.Handler(controller.Status, 200),
	)

	f.GET("/v1/openapi.json", []fizz.OperationOption{}, f.OpenAPI(info, "json"))

	return f
}

type apiVersionWriter struct {
	gin.ResponseWriter
	version string
}

func (w *apiVersionWriter) WriteHeader(code int) {
	if code >= 200 && code < 300 {
		w.Header().Set("API-Version", w.version)
	}
	w.ResponseWriter.WriteHeader(code)
}

func APIVersionMiddleware(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer = &apiVersionWriter{c.Writer, version}
		c.Next()
	}
}
