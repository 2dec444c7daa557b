package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/spec-kit/hrms-service/internal/routing"
	apperrors "github.com/spec-kit/hrms-service/pkg/util"
)

// DatabaseChecker verifies the database, reconnecting when the probe fails.
type DatabaseChecker interface {
	CheckAndReconnect(ctx context.Context) error
}

// CachePinger verifies an optional cache.
type CachePinger interface {
	Enabled() bool
	Ping(ctx context.Context) error
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	postgres    DatabaseChecker
	redis       CachePinger
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, postgres DatabaseChecker, redis CachePinger) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, postgres: postgres, redis: redis}
}

// Live reports service liveness.
func (h *HealthHandler) Live(*routing.Request) (*routing.Result, error) {
	return routing.OK("Service is alive", map[string]string{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	}), nil
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(r *routing.Request) (*routing.Result, error) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	depStatus := map[string]any{}
	ready := true

	if err := h.postgres.CheckAndReconnect(ctx); err != nil {
		depStatus["postgres"] = err.Error()
		ready = false
	} else {
		depStatus["postgres"] = "ok"
	}

	switch {
	case h.redis == nil || !h.redis.Enabled():
		depStatus["redis"] = "disabled"
	case h.redis.Ping(ctx) != nil:
		depStatus["redis"] = "unreachable"
		ready = false
	default:
		depStatus["redis"] = "ok"
	}

	if !ready {
		return nil, apperrors.NewDomainError("DEPENDENCY_UNAVAILABLE", "One or more dependencies unavailable",
			http.StatusServiceUnavailable, depStatus)
	}
	return routing.OK("Service is ready", map[string]any{
		"status":       "ready",
		"dependencies": depStatus,
	}), nil
}
