package httputil

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/vaultkeeper/internal/errors"
)

const (
	// DefaultPageLimit is used when the request carries no limit.
	DefaultPageLimit = 50
	// MaxPageLimit bounds a single page of secret metadata.
	MaxPageLimit = 100
)

var (
	errInvalidOffset = apperrors.Wrap(apperrors.ErrInvalidInput, "offset must be a non-negative integer")
	errInvalidLimit  = apperrors.Wrapf(apperrors.ErrInvalidInput, "limit must be between 1 and %d", MaxPageLimit)
)

// ParsePagination reads the offset and limit query parameters. Errors wrap
// ErrInvalidInput and both values are zero on error.
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	offset, ok := queryInt(c, "offset", 0)
	if !ok || offset < 0 {
		return 0, 0, errInvalidOffset
	}

	limit, ok = queryInt(c, "limit", DefaultPageLimit)
	if !ok || limit < 1 || limit > MaxPageLimit {
		return 0, 0, errInvalidLimit
	}

	return offset, limit, nil
}

func queryInt(c *gin.Context, key string, fallback int) (int, bool) {
	raw, present := c.GetQuery(key)
	if !present {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	return v, err == nil
}
