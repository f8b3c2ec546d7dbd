// Package rbac implements the policy oracle with a casbin role-based model.
//
// Each permission becomes a policy line (role, route) and each inheritance a
// grouping line (child, parent), so a role is granted every route of the
// roles it inherits.
package rbac

import (
	"context"
	"fmt"
	"sort"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/phrazzld/account-api/internal/config"
	"github.com/phrazzld/account-api/internal/service/authz"
)

const modelText = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj
`

// Oracle answers grants from an in-memory casbin enforcer.
type Oracle struct {
	enforcer *casbin.SyncedEnforcer
}

var _ authz.PolicyOracle = (*Oracle)(nil)

// New builds an Oracle from the configured permissions and role inheritance.
func New(cfg config.AuthorizationConfig) (*Oracle, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("load rbac model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create rbac enforcer: %w", err)
	}

	for _, role := range sortedKeys(cfg.Permissions) {
		for _, route := range cfg.Permissions[role] {
			if _, err := enforcer.AddPolicy(role, route); err != nil {
				return nil, fmt.Errorf("add permission %s for %s: %w", route, role, err)
			}
		}
	}

	for _, role := range sortedKeys(cfg.Inherits) {
		for _, parent := range cfg.Inherits[role] {
			if _, err := enforcer.AddGroupingPolicy(role, parent); err != nil {
				return nil, fmt.Errorf("add inheritance %s -> %s: %w", role, parent, err)
			}
		}
	}

	return &Oracle{enforcer: enforcer}, nil
}

// IsGranted implements authz.PolicyOracle.
func (o *Oracle) IsGranted(ctx context.Context, role string, req authz.Request) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	granted, err := o.enforcer.Enforce(role, req.Route)
	if err != nil {
		return false, fmt.Errorf("enforce %s on %s: %w", role, req.Route, err)
	}
	return granted, nil
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
