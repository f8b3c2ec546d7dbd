// Package mocks holds test doubles for the store, auth and authz interfaces.
//
// Most mocks are small in-memory implementations with optional function
// fields (CreateFn, GetByIDFn, ...) that override a single call:
//
//	admins := mocks.NewMockAdminStore(admin)
//	admins.UpdateFn = func(ctx context.Context, a *domain.Admin) error {
//	    return store.ErrAdminNotFound
//	}
//
// TestifyMockUserStore is the testify/mock variant, for tests that assert on
// which lookups a service performs.
package mocks
