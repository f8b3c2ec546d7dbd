// Package opa implements the policy oracle by evaluating a rego policy.
//
// The embedded policy reads the role graph and permission table from the
// configuration; a policy file or directory can replace it.
package opa

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"github.com/open-policy-agent/opa/loader"
	"github.com/open-policy-agent/opa/rego"
	"github.com/open-policy-agent/opa/storage/inmem"
	"github.com/phrazzld/account-api/internal/config"
	"github.com/phrazzld/account-api/internal/service/authz"
)

const query = "data.account.authz.allow"

//go:embed policy.rego
var defaultPolicy string

// Oracle evaluates a prepared rego query per role.
type Oracle struct {
	query rego.PreparedEvalQuery
}

var _ authz.PolicyOracle = (*Oracle)(nil)

// New prepares the policy. When cfg.PolicyPath is set the policy is loaded
// from that path instead of the embedded one.
func New(ctx context.Context, cfg config.AuthorizationConfig) (*Oracle, error) {
	modules := []func(*rego.Rego){rego.Module("policy.rego", defaultPolicy)}
	if cfg.PolicyPath != "" {
		loaded, err := loadModules(cfg.PolicyPath)
		if err != nil {
			return nil, err
		}
		modules = loaded
	}

	opts := append([]func(*rego.Rego){
		rego.Query(query),
		rego.Store(inmem.NewFromObject(policyData(cfg))),
		rego.StrictBuiltinErrors(true),
	}, modules...)

	r := rego.New(opts...)

	prepared, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare authorization policy: %w", err)
	}
	return &Oracle{query: prepared}, nil
}

// loadModules reads every .rego file under path. The configuration data lives
// in the in-memory store, so files are passed as modules rather than loaded
// into the store.
func loadModules(path string) ([]func(*rego.Rego), error) {
	result, err := loader.AllRegos([]string{path})
	if err != nil {
		return nil, fmt.Errorf("load authorization policy: %w", err)
	}
	if len(result.Modules) == 0 {
		return nil, fmt.Errorf("load authorization policy: no .rego files in %s", path)
	}

	names := make([]string, 0, len(result.Modules))
	for name := range result.Modules {
		names = append(names, name)
	}
	sort.Strings(names)

	modules := make([]func(*rego.Rego), 0, len(names))
	for _, name := range names {
		f := result.Modules[name]
		modules = append(modules, rego.Module(f.Name, string(f.Raw)))
	}
	return modules, nil
}

// IsGranted implements authz.PolicyOracle.
func (o *Oracle) IsGranted(ctx context.Context, role string, req authz.Request) (bool, error) {
	input := map[string]interface{}{
		"role":   role,
		"route":  req.Route,
		"method": req.Method,
		"path":   req.Path,
	}

	results, err := o.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, fmt.Errorf("evaluate authorization policy: %w", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return false, errors.New("empty authorization policy result")
	}

	allowed, ok := results[0].Expressions[0].Value.(bool)
	if !ok {
		return false, fmt.Errorf("authorization policy returned %T, want bool", results[0].Expressions[0].Value)
	}
	return allowed, nil
}

// policyData converts the configuration into the data document. Every known
// role appears as a node of the inheritance graph so graph.reachable can
// start from it.
func policyData(cfg config.AuthorizationConfig) map[string]interface{} {
	roles := map[string]struct{}{}
	for role := range cfg.Permissions {
		roles[role] = struct{}{}
	}
	for role, parents := range cfg.Inherits {
		roles[role] = struct{}{}
		for _, p := range parents {
			roles[p] = struct{}{}
		}
	}

	inherits := map[string]interface{}{}
	permissions := map[string]interface{}{}
	for role := range roles {
		inherits[role] = toList(cfg.Inherits[role])
		permissions[role] = toList(cfg.Permissions[role])
	}

	return map[string]interface{}{
		"inherits":    inherits,
		"permissions": permissions,
	}
}

func toList(values []string) []interface{} {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	list := make([]interface{}, len(sorted))
	for i, v := range sorted {
		list[i] = v
	}
	return list
}
