package mocks

import (
	"context"

	"github.com/phrazzld/account-api/internal/service/authz"
)

// MockPolicyOracle implements authz.PolicyOracle for testing.
// Without IsGrantedFn it grants the roles listed in Grants for any request.
type MockPolicyOracle struct {
	IsGrantedFn func(ctx context.Context, role string, req authz.Request) (bool, error)

	Grants map[string]bool

	// Calls records every role queried, in order.
	Calls []string
}

var _ authz.PolicyOracle = (*MockPolicyOracle)(nil)

// IsGranted implements the authz.PolicyOracle interface
func (m *MockPolicyOracle) IsGranted(ctx context.Context, role string, req authz.Request) (bool, error) {
	m.Calls = append(m.Calls, role)
	if m.IsGrantedFn != nil {
		return m.IsGrantedFn(ctx, role, req)
	}
	return m.Grants[role], nil
}
