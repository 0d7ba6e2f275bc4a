package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/middleware"
	"fintrack/internal/uuid"
)

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// parsePathID parses a UUID path parameter into its canonical form.
// Returns ErrInvalidInput if the parameter is not a valid UUID.
//
//nolint:unparam // param is intentionally generic for reuse across handlers with different path params
func parsePathID(c *gin.Context, param string) (string, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// parseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates and
// returns the instant in UTC.
func parseDate(field, value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		parsed, err = time.Parse("2006-01-02", value)
		if err != nil {
			return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid "+field+" format")
		}
	}
	return parsed.UTC(), nil
}

// parseOptionalDate is parseDate for optional query parameters.
func parseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := parseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// parseOptionalEndDate is parseOptionalDate for inclusive upper bounds: a
// plain date covers the whole day.
func parseOptionalEndDate(field, value string) (*time.Time, error) {
	parsed, err := parseOptionalDate(field, value)
	if err != nil || parsed == nil {
		return parsed, err
	}
	if _, dateOnly := time.Parse("2006-01-02", value); dateOnly == nil {
		end := parsed.Add(24*time.Hour - time.Nanosecond)
		return &end, nil
	}
	return parsed, nil
}

// optionalUUID returns nil for an empty value.
func optionalUUID(field, value string) (*string, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid "+field)
	}
	return &id, nil
}

// respondWithError records err on the context for middleware.ErrorHandler,
// which renders the JSON body. Callers must return right after.
func respondWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// respondWithBindError reports a request that failed binding or validation.
func respondWithBindError(c *gin.Context, err error) {
	respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
}
