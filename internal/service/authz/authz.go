// Package authz decides whether a resolved principal may access a route.
package authz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/platform/logger"
)

// ErrResourceNotAllowed is returned when no role of the principal is granted.
var ErrResourceNotAllowed = errors.New("resource not allowed")

// MsgResourceNotAllowed is the client-facing denial message.
const MsgResourceNotAllowed = "You are not allowed to access this resource."

// Request is the part of an HTTP request a policy decides on.
type Request struct {
	Route  string `json:"route"`
	Method string `json:"method"`
	Path   string `json:"path"`
}

// PolicyOracle answers whether a single role is granted for a request.
type PolicyOracle interface {
	IsGranted(ctx context.Context, role string, req Request) (bool, error)
}

// Gate grants access when any of the principal's roles is granted.
type Gate struct {
	oracle PolicyOracle
	logger *slog.Logger
}

// NewGate creates a Gate backed by oracle.
func NewGate(oracle PolicyOracle, logger *slog.Logger) *Gate {
	if oracle == nil {
		panic("policy oracle cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{oracle: oracle, logger: logger.With(slog.String("component", "authorization_gate"))}
}

// Authorize returns nil when access is granted, ErrResourceNotAllowed when it
// is denied and any other error when the oracle fails.
func (g *Gate) Authorize(ctx context.Context, principal *domain.Principal, req Request) error {
	log := logger.FromContextOrDefault(ctx, g.logger)

	if principal == nil || len(principal.Roles) == 0 {
		log.Debug("authorization denied: no roles", slog.String("route", req.Route))
		return ErrResourceNotAllowed
	}

	for _, role := range principal.Roles.Names() {
		granted, err := g.oracle.IsGranted(ctx, role, req)
		if err != nil {
			return fmt.Errorf("policy oracle failed for role %q: %w", role, err)
		}
		if granted {
			log.Debug("authorization granted",
				slog.String("route", req.Route),
				slog.String("role", role))
			return nil
		}
	}

	log.Debug("authorization denied",
		slog.String("route", req.Route),
		slog.Any("roles", principal.Roles.Names()))
	return ErrResourceNotAllowed
}
