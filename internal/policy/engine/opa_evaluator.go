package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/open-policy-agent/opa/v1/rego"
)

const policyQuery = "data.wcp.membership.allow"

// DefaultRegoPolicy lets owners make any role change and admins make changes that neither touch nor
// create an owner.
const DefaultRegoPolicy = `package wcp.membership

default allow := false

allow if input.actor_role == "owner"

allow if {
	input.actor_role == "admin"
	input.current_role != "owner"
	input.requested_role != "owner"
}
`

// OPAEvaluator evaluates role-assignment policy with an in-process OPA Rego query prepared once.
type OPAEvaluator struct {
	query rego.PreparedEvalQuery
}

// NewOPAEvaluator compiles policy (DefaultRegoPolicy when empty). The policy must define
// data.wcp.membership.allow.
func NewOPAEvaluator(ctx context.Context, policy string) (*OPAEvaluator, error) {
	if strings.TrimSpace(policy) == "" {
		policy = DefaultRegoPolicy
	}
	q, err := rego.New(
		rego.Query(policyQuery),
		rego.Module("membership.rego", policy),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare membership policy: %w", err)
	}
	return &OPAEvaluator{query: q}, nil
}

// AuthorizeRoleChange evaluates the policy for change. An undefined result is a denial.
func (e *OPAEvaluator) AuthorizeRoleChange(ctx context.Context, change RoleChange) (bool, error) {
	input := map[string]interface{}{
		"actor_role":     string(change.ActorRole),
		"current_role":   string(change.CurrentRole),
		"requested_role": string(change.RequestedRole),
	}
	rs, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, fmt.Errorf("eval membership policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false, nil
	}
	allowed, ok := rs[0].Expressions[0].Value.(bool)
	return ok && allowed, nil
}

// HealthCheck evaluates a known-allowed change to verify the engine is usable.
func (e *OPAEvaluator) HealthCheck(ctx context.Context) error {
	ok, err := e.AuthorizeRoleChange(ctx, RoleChange{ActorRole: "owner", CurrentRole: "member", RequestedRole: "admin"})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("membership policy denied an owner role change")
	}
	return nil
}
