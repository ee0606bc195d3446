// Package rbac wraps a casbin enforcer over the fixed position ladder
// (C < S < M) and the user/admin role split. The model and policy live in
// code; there is nothing tenant specific to load at runtime.
package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
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

type Enforcer struct {
	e *casbin.Enforcer
}

func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	policies := [][]string{
		{"C", "rank:C"},
		{"S", "rank:S"},
		{"M", "rank:M"},
		{"user", "role:user"},
		{"admin", "role:admin"},
	}
	if _, err := e.AddPolicies(policies); err != nil {
		return nil, err
	}

	// Rank inheritance, plus admins passing every rank gate.
	groupings := [][]string{
		{"M", "S"},
		{"S", "C"},
		{"admin", "M"},
	}
	if _, err := e.AddGroupingPolicies(groupings); err != nil {
		return nil, err
	}

	return &Enforcer{e: e}, nil
}

// AllowRank reports whether subject (a position code, or "admin") clears the
// minimum position gate.
func (en *Enforcer) AllowRank(subject, minPosition string) (bool, error) {
	return en.e.Enforce(subject, "rank:"+minPosition)
}

// AllowRole reports whether role matches the required role exactly.
func (en *Enforcer) AllowRole(role, required string) (bool, error) {
	return en.e.Enforce(role, "role:"+required)
}
