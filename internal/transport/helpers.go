package transport

import (
	"errors"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/nvoropaev/upscaler/internal/model"
)

func errorCodeDefiner(err error) int {
	switch {
	case errors.Is(err, model.ErrNoFile),
		errors.Is(err, model.ErrUnsupportedFormat),
		errors.Is(err, model.ErrFileTooLarge),
		errors.Is(err, model.ErrTooManyFiles):
		return 400
	case errors.Is(err, model.ErrUpscaleFailed),
		errors.Is(err, model.ErrOutputMissing),
		errors.Is(err, model.ErrCommon500):
		return 500
	default:
		return 500
	}
}

func errorCategory(err error) string {
	switch {
	case errors.Is(err, model.ErrNoFile),
		errors.Is(err, model.ErrUnsupportedFormat),
		errors.Is(err, model.ErrFileTooLarge),
		errors.Is(err, model.ErrTooManyFiles):
		return "validation"
	case errors.Is(err, model.ErrUpscaleFailed),
		errors.Is(err, model.ErrOutputMissing):
		return "processing"
	default:
		return "internal"
	}
}

func errorBody(err error, details string) map[string]string {
	body := map[string]string{
		"error":   errorCategory(err),
		"details": details,
	}

	// stack only outside release mode
	if gin.Mode() != gin.ReleaseMode {
		body["stack"] = string(debug.Stack())
	}

	return body
}
