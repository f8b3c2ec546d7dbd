package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/platform/logger"
	"github.com/phrazzld/account-api/internal/store"
)

// RoleService reads one role family, admin or user.
type RoleService interface {
	// List returns one page of roles ordered by name, plus the total count.
	List(ctx context.Context, page store.Page) ([]domain.Role, int, error)

	// Get returns a role by id.
	Get(ctx context.Context, id uuid.UUID) (*domain.Role, error)
}

type roleService struct {
	roles  store.RoleStore
	logger *slog.Logger
}

// NewRoleService creates a RoleService for the given role store.
func NewRoleService(roles store.RoleStore, family string, logger *slog.Logger) RoleService {
	return &roleService{
		roles:  roles,
		logger: logger.With("component", "role_service", "family", family),
	}
}

func (s *roleService) List(ctx context.Context, page store.Page) ([]domain.Role, int, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list roles",
			slog.String("error", err.Error()))
		return nil, 0, NewServiceError("role", "list", err)
	}

	total := len(roles)
	start := page.Offset()
	if start > total {
		start = total
	}
	end := start + page.Size
	if end > total {
		end = total
	}
	return roles[start:end], total, nil
}

func (s *roleService) Get(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrRoleNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to get role",
				slog.String("role_id", id.String()),
				slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return role, nil
}

// resolveRoles maps role ids to roles. An empty id list resolves to the
// named fallback role when fallback is set.
func resolveRoles(ctx context.Context, roles store.RoleStore, ids []uuid.UUID, fallback string) ([]domain.Role, error) {
	if len(ids) == 0 {
		if fallback == "" {
			return nil, domain.NewValidationError("roles", "cannot be empty", domain.ErrNoRoles)
		}
		role, err := roles.GetByName(ctx, fallback)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s role: %w", fallback, err)
		}
		return []domain.Role{*role}, nil
	}

	resolved := make([]domain.Role, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		role, err := roles.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load role %s: %w", id, err)
		}
		resolved = append(resolved, *role)
	}
	return resolved, nil
}
