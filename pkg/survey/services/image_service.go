package services

import (
	"context"
	"strings"

	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/helpers/imagegen"
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/helpers/problem"
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/models"
)

// ImageGenerator is satisfied by *imagegen.Client.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string, size imagegen.Size) (string, error)
}

type ImageService struct {
	gen         ImageGenerator
	options     models.FormOptions
	defaultSize imagegen.Size
}

func NewImageService(gen ImageGenerator, defaultSize imagegen.Size) *ImageService {
	if defaultSize == "" {
		defaultSize = imagegen.SizeSquare
	}
	return &ImageService{gen: gen, options: models.DefaultFormOptions(), defaultSize: defaultSize}
}

// Generate uses the given prompt verbatim, or builds one from profile and
// preferences when no prompt is given.
func (s *ImageService) Generate(ctx context.Context, in *models.GenerateImageInput) (*models.GeneratedImage, error) {
	size := s.defaultSize
	if in.Size != "" {
		parsed, err := imagegen.ParseSize(in.Size)
		if err != nil {
			return nil, problem.NewBadRequest(err.Error(), problem.InvalidParam{Name: "size", Reason: err.Error()})
		}
		size = parsed
	}

	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		if in.Profile == nil || in.Preferences == nil {
			return nil, problem.NewBadRequest("either prompt or profile and preferences are required",
				problem.InvalidParam{Name: "prompt", Reason: "missing"})
		}
		invalid := append(validateProfile(s.options, *in.Profile), validatePreferences(s.options, *in.Preferences)...)
		if len(invalid) > 0 {
			return nil, problem.NewBadRequest("one or more answers are not valid options", invalid...)
		}
		built, err := BuildPrompt(*in.Profile, *in.Preferences)
		if err != nil {
			return nil, err
		}
		prompt = built
	}

	image, err := s.gen.GenerateImage(ctx, prompt, size)
	if err != nil {
		return nil, err
	}
	return &models.GeneratedImage{Prompt: prompt, Size: string(size), ImageData: image}, nil
}
