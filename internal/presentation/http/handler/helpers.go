package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nirmalkarki/udharo-api/internal/domain/access"
	"github.com/nirmalkarki/udharo-api/internal/presentation/http/middleware"
	"github.com/nirmalkarki/udharo-api/pkg/pagination"
)

const dateLayout = "2006-01-02"

// principalFrom extracts the authenticated principal, writing a 401
// response when the auth middleware did not run.
func principalFrom(c *gin.Context) (access.Principal, bool) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.AbortWithStatusJSON(401, gin.H{
			"success": false,
			"message": "User not authenticated",
		})
	}
	return principal, ok
}

// uuidParam parses a UUID path parameter.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// parseDate parses an optional YYYY-MM-DD value. Empty input returns
// the zero time.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, value)
}

// dateRangeQuery reads optional start_date and end_date query params.
func dateRangeQuery(c *gin.Context) (from, to *time.Time, err error) {
	if v := c.Query("start_date"); v != "" {
		t, perr := time.Parse(dateLayout, v)
		if perr != nil {
			return nil, nil, perr
		}
		from = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, perr := time.Parse(dateLayout, v)
		if perr != nil {
			return nil, nil, perr
		}
		// Include the whole end day.
		t = t.Add(24*time.Hour - time.Nanosecond)
		to = &t
	}
	return from, to, nil
}

// paginationQuery binds page and per_page query params.
func paginationQuery(c *gin.Context) *pagination.PaginationParams {
	params := pagination.DefaultPagination()
	_ = c.ShouldBindQuery(params)
	params.Validate()
	return params
}
