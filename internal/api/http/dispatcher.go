package http

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/hrms-service/internal/auth"
	"github.com/spec-kit/hrms-service/internal/domain"
	"github.com/spec-kit/hrms-service/internal/observability"
	"github.com/spec-kit/hrms-service/internal/routing"
	apperrors "github.com/spec-kit/hrms-service/pkg/util"
)

// IdentityResolver turns an Authorization header into a verified caller.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, header string) (*domain.Identity, error)
}

// DispatcherConfig holds the optional collaborators of a Dispatcher.
type DispatcherConfig struct {
	BasePaths []string
	// ExposeErrors adds internal error details to 5xx envelopes. Development only.
	ExposeErrors bool
	Logger       *zap.Logger
	Metrics      *observability.Metrics
}

// Dispatcher runs every request through path resolution, route matching,
// authentication, authorization and the handler, and renders the envelope.
type Dispatcher struct {
	table     *routing.Table
	resolver  IdentityResolver
	basePaths []string
	expose    bool
	logger    *zap.Logger
	metrics   *observability.Metrics
}

// NewDispatcher builds a dispatcher over a fully registered table.
func NewDispatcher(table *routing.Table, resolver IdentityResolver, cfg DispatcherConfig) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var basePaths []string
	for _, p := range cfg.BasePaths {
		if p = strings.TrimRight(p, "/"); p != "" {
			basePaths = append(basePaths, p)
		}
	}
	return &Dispatcher{
		table:     table,
		resolver:  resolver,
		basePaths: basePaths,
		expose:    cfg.ExposeErrors,
		logger:    logger,
		metrics:   cfg.Metrics,
	}
}

// Handle is the terminal fiber handler.
func (d *Dispatcher) Handle(c *fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			err = d.fail(c, apperrors.NewInternalError(fmt.Errorf("panic: %v", r)))
		}
	}()

	path := d.resolvePath(c.Path())
	route, params, ok := d.table.Match(c.Method(), path)
	if !ok {
		return d.fail(c, apperrors.NewNotFound("Endpoint", nil))
	}
	c.Locals(observability.RouteTemplateKey, route.Template)

	req := &routing.Request{Ctx: c, Params: params}
	if route.RequiresAuth {
		caller, err := d.resolver.ResolveIdentity(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return d.fail(c, authError(err))
		}
		if route.MinRole != "" && !auth.Authorize(caller.Role, route.MinRole) {
			return d.fail(c, apperrors.NewForbidden("Insufficient permissions"))
		}
		req.Caller = caller
	}

	res, err := route.Handler(req)
	if err != nil {
		return d.fail(c, err)
	}
	if res == nil {
		res = routing.OK("", nil)
	}
	return writeResult(c, res)
}

// resolvePath strips the first configured base path that prefixes path on a segment boundary.
func (d *Dispatcher) resolvePath(path string) string {
	for _, base := range d.basePaths {
		if path == base {
			return "/"
		}
		if strings.HasPrefix(path, base+"/") {
			return path[len(base):]
		}
	}
	if path == "" {
		return "/"
	}
	return path
}

func (d *Dispatcher) fail(c *fiber.Ctx, err error) error {
	domainErr := apperrors.ToDomainError(err)
	d.metrics.RecordError(observability.RouteTemplate(c), c.Method(), domainErr.Code)
	if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
		d.logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.Any("request_id", c.Locals("requestid")),
			zap.Error(domainErr))
	}
	return renderError(c, domainErr, d.expose)
}

// authError maps credential failures to 401. Anything else, such as the user
// store being down, is a server error.
func authError(err error) error {
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		return apperrors.NewUnauthorized("Authentication required")
	case errors.Is(err, auth.ErrMalformedHeader), errors.Is(err, auth.ErrInvalidToken):
		return apperrors.NewUnauthorized("Invalid or expired token")
	default:
		return err
	}
}
