package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/helpers/imagegen"
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/helpers/problem"
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/repositories"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/loopfz/gadgeto/tonic"
)

const problemContentType = "application/problem+json"

// ErrorHook renders every handler error as a problem document.
func ErrorHook(c *gin.Context, err error) (int, interface{}) {
	apiErr := ToProblem(err)
	c.Header("Content-Type", problemContentType)
	return apiErr.Status, apiErr
}

// ToProblem maps binding, domain and upstream errors to problem documents.
func ToProblem(err error) problem.APIError {
	if apiErr, ok := problem.As(err); ok {
		return apiErr
	}

	var be tonic.BindError
	if errors.As(err, &be) || isValidationErr(err) {
		return problem.NewBadRequest("Invalid input", invalidParamsFromBinding(err)...)
	}

	var (
		cfgErr      *imagegen.ConfigurationError
		redirectErr *imagegen.RedirectIntegrityError
		statusErr   *imagegen.HTTPStatusError
		parseErr    *imagegen.ResponseParseError
		shapeErr    *imagegen.ResponseShapeError
		transErr    *imagegen.TransportError
	)
	switch {
	case errors.As(err, &cfgErr):
		return problem.NewServiceUnavailable("image_generation_unconfigured", cfgErr.Error())
	case errors.As(err, &redirectErr):
		return problem.NewBadGateway("redirect_method_changed", redirectErr.Error())
	case errors.As(err, &statusErr):
		return problem.NewBadGateway("upstream_status", statusErr.Error())
	case errors.As(err, &parseErr):
		return problem.NewBadGateway("upstream_invalid_json", parseErr.Error())
	case errors.As(err, &shapeErr):
		return problem.NewBadGateway("upstream_unexpected_shape", shapeErr.Error())
	case errors.As(err, &transErr):
		if errors.Is(err, context.DeadlineExceeded) {
			return problem.NewGatewayTimeout(transErr.Error())
		}
		return problem.NewBadGateway("upstream_unreachable", transErr.Error())
	case errors.Is(err, repositories.ErrStorageWrite):
		return problem.NewInternalServerError(fmt.Sprintf("Saving the response failed: %v", err))
	case errors.Is(err, repositories.ErrStorageRead):
		return problem.NewInternalServerError(fmt.Sprintf("Reading responses failed: %v", err))
	}
	return problem.NewInternalServerError(err.Error())
}

func isValidationErr(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

func invalidParamsFromBinding(err error) []problem.InvalidParam {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []problem.InvalidParam{{Name: "body", Reason: err.Error()}}
	}

	out := make([]problem.InvalidParam, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, problem.InvalidParam{
			Name:   fieldName(fe),
			Reason: humanReason(fe),
		})
	}
	return out
}

// fieldName turns the validator namespace into a camelCase path without the
// root struct, e.g. "preferences.realism".
func fieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = lowerFirst(p)
	}
	return strings.Join(parts, ".")
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func humanReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "base64":
		return "must be base64 encoded"
	default:
		return fe.Error()
	}
}
