package routing

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hrms-service/internal/domain"
	apperrors "github.com/spec-kit/hrms-service/pkg/util"
)

// Request is what a handler sees: the transport context, the positional path
// parameters and, on authenticated routes, the verified caller.
type Request struct {
	Ctx    *fiber.Ctx
	Params []string
	Caller *domain.Identity
}

// Param returns the i-th path parameter, or "" when absent.
func (r *Request) Param(i int) string {
	if i < 0 || i >= len(r.Params) {
		return ""
	}
	return r.Params[i]
}

// Context returns the request-scoped context carrying deadlines set by middleware.
func (r *Request) Context() context.Context {
	if r.Ctx == nil {
		return context.Background()
	}
	return r.Ctx.UserContext()
}

// Bind decodes a JSON or form body into dst. An empty body leaves dst untouched.
func (r *Request) Bind(dst any) error {
	if len(r.Ctx.Body()) == 0 {
		return nil
	}
	if err := r.Ctx.BodyParser(dst); err != nil {
		return apperrors.NewBadRequest("Invalid request body")
	}
	return nil
}

// Query returns a query string value.
func (r *Request) Query(key string) string {
	return r.Ctx.Query(key)
}

// QueryBool parses a boolean query value, falling back to def.
func (r *Request) QueryBool(key string, def bool) bool {
	v, err := strconv.ParseBool(r.Ctx.Query(key))
	if err != nil {
		return def
	}
	return v
}

// Page reads page and per_page from the query string, clamped to sane bounds.
func (r *Request) Page() apperrors.PageRequest {
	return apperrors.NewPageRequest(
		r.Ctx.QueryInt("page", 1),
		r.Ctx.QueryInt("per_page", apperrors.DefaultPerPage),
	)
}
