package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/stacmap/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, no_scenes_found, upstream_error, etc.
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// mapDomainError translates the domain error taxonomy onto HTTP
// responses. Every branch keeps the offending key, URL, or date range
// in the message so a failure can be diagnosed without re-running.
func mapDomainError(c *fiber.Ctx, err error) error {
	var (
		notFound    *domain.NotFoundError
		retrieval   *domain.RetrievalError
		parse       *domain.ParseError
		noScenes    *domain.NoScenesFoundError
		missingProp *domain.MissingPropertyError
		missingAss  *domain.MissingAssetError
	)

	switch {
	case errors.As(err, &notFound):
		return newError(c, 404, "not_found", err.Error())
	case errors.As(err, &noScenes):
		// Distinct from transport failures: the caller can retry with
		// a longer period or looser cloud-cover bounds.
		return newError(c, 404, "no_scenes_found", err.Error())
	case errors.As(err, &parse):
		return newError(c, 422, "invalid_geojson", err.Error())
	case errors.As(err, &retrieval):
		return newError(c, 502, "upstream_error", err.Error())
	case errors.As(err, &missingAss):
		return newError(c, 400, "unknown_asset_key", err.Error())
	case errors.As(err, &missingProp):
		return newError(c, 400, "unknown_sort_property", err.Error())
	default:
		return errInternal(c, err.Error())
	}
}

// errKind labels an error for metrics.
func errKind(err error) string {
	var (
		notFound    *domain.NotFoundError
		retrieval   *domain.RetrievalError
		parse       *domain.ParseError
		noScenes    *domain.NoScenesFoundError
		missingProp *domain.MissingPropertyError
		missingAss  *domain.MissingAssetError
	)
	switch {
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &noScenes):
		return "no_scenes_found"
	case errors.As(err, &parse):
		return "parse"
	case errors.As(err, &retrieval):
		return "retrieval"
	case errors.As(err, &missingAss):
		return "missing_asset"
	case errors.As(err, &missingProp):
		return "missing_property"
	default:
		return "internal"
	}
}
