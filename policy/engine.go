// Package policy provides the OPA content-safety gate for incoming messages.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Decisions returned by the policy.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.chat_policy.decision"),
		rego.Module("chat_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate checks a chat message against the policy. Input keys: message,
// conversation_id. Returns the decision (allow or block).
func (e *Engine) Evaluate(ctx context.Context, input any) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The policy defines a default, so this should not happen.
		return DecisionAllow, nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}

	return DecisionAllow, nil
}

// DefaultPolicy is the built-in safety policy: steer the conversation away
// from personal-data topics a kid should not be typing into a chat box.
const DefaultPolicy = `package chat_policy

import rego.v1

default decision := "allow"

blocked_phrases := [
	"home address",
	"phone number",
	"credit card",
	"password",
	"full name",
]

decision := "block" if {
	some phrase in blocked_phrases
	contains(lower(input.message), phrase)
}
`
