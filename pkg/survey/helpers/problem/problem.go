package problem

import (
	"errors"
	"net/http"
)

type InvalidParam struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type ErrorDetail struct {
	In       string `json:"in"`
	Location string `json:"location"`
	Code     string `json:"code"`
	Detail   string `json:"detail"`
}

// APIError implements error and is rendered as a Problem Details document (RFC 7807).
type APIError struct {
	Type   string        `json:"type,omitempty"`
	Title  string        `json:"title"`
	Status int           `json:"status"`
	Detail string        `json:"detail,omitempty"`
	Errors []ErrorDetail `json:"errors,omitempty"`
}

func (e APIError) Error() string {
	if e.Detail != "" {
		return e.Title + ": " + e.Detail
	}
	return e.Title
}

func NewBadRequest(detail string, params ...InvalidParam) APIError {
	return APIError{
		Title:  "Request validation failed",
		Status: http.StatusBadRequest,
		Errors: toErrorDetails(params, detail, "body", "body", "bad_request"),
	}
}

func NewInternalServerError(detail string) APIError {
	return APIError{
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
		Errors: toErrorDetails(nil, detail, "", "", "internal_error"),
	}
}

// NewBadGateway reports an upstream service that answered wrongly.
func NewBadGateway(code, detail string) APIError {
	return APIError{
		Title:  "Bad Gateway",
		Status: http.StatusBadGateway,
		Detail: detail,
		Errors: toErrorDetails(nil, detail, "upstream", "", code),
	}
}

// NewServiceUnavailable reports a dependency that is not configured or not reachable.
func NewServiceUnavailable(code, detail string) APIError {
	return APIError{
		Title:  "Service Unavailable",
		Status: http.StatusServiceUnavailable,
		Detail: detail,
		Errors: toErrorDetails(nil, detail, "", "", code),
	}
}

func NewGatewayTimeout(detail string) APIError {
	return APIError{
		Title:  "Gateway Timeout",
		Status: http.StatusGatewayTimeout,
		Detail: detail,
		Errors: toErrorDetails(nil, detail, "upstream", "", "timeout"),
	}
}

// As returns the APIError inside err, if any.
func As(err error) (APIError, bool) {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return APIError{}, false
}

func toErrorDetails(params []InvalidParam, fallbackDetail, fallbackIn, fallbackLocation, fallbackCode string) []ErrorDetail {
	if len(params) == 0 {
		if fallbackDetail == "" {
			return nil
		}
		return []ErrorDetail{{
			In:       fallbackIn,
			Location: fallbackLocation,
			Code:     fallbackCode,
			Detail:   fallbackDetail,
		}}
	}
	out := make([]ErrorDetail, 0, len(params))
	for _, p := range params {
		out = append(out, ErrorDetail{
			In:       "body",
			Location: p.Name,
			Code:     p.Name,
			Detail:   p.Reason,
		})
	}
	return out
}
