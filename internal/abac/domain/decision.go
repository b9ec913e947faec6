package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/caseguard/caseguard/internal/errors"
)

// Request describes what an actor wants to do.
type Request struct {
	Action       Action
	ResourceType string
	ResourceID   string
	// RequiredClearance is the minimum authorization level the resource demands, 0 for none.
	RequiredClearance int
}

// Decision is the outcome of an evaluation. Reason is safe to show to the caller.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow returns an allowing decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a denying decision with the given reason.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Err converts a denial into a *DeniedError, or returns nil when the decision allows.
func (d Decision) Err(action Action) error {
	if d.Allowed {
		return nil
	}
	return &DeniedError{Action: action, Reason: d.Reason}
}

// DeniedError is the caller-visible PermissionDenied outcome. It unwraps to ErrForbidden.
type DeniedError struct {
	Action Action
	Reason string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("permission denied for %s: %s", e.Action, e.Reason)
}

// DenialReason exposes the reason to the HTTP error mapper.
func (e *DeniedError) DenialReason() string {
	return e.Reason
}

func (e *DeniedError) Unwrap() error {
	return apperrors.ErrForbidden
}

// Denial reasons.
const (
	ReasonUnknownAction         = "unknown action"
	ReasonInsufficientClearance = "insufficient clearance"
	ReasonEvaluationFailed      = "policy evaluation unavailable"
)

// Evaluate is the pure policy decision function. It never fails: missing data is a denial.
//
// Every rule of every active policy whose attribute the actor holds (through a grant in
// force at now) and whose operator matches is considered. A matching deny rule wins over
// any allow rule, whichever policy it belongs to. Otherwise the request is allowed only when
// a matching allow rule references the attribute the action requires and the actor has the
// clearance the resource demands.
func Evaluate(now time.Time, held []HeldAttribute, policies []SecurityPolicy, req Request) Decision {
	required, ok := req.Action.RequiredAttribute()
	if !ok {
		return Deny(ReasonUnknownAction)
	}

	active := ActiveAttributes(held, now)
	attributes := make(map[uuid.UUID]Attribute, len(active))
	for _, h := range active {
		attributes[h.Attribute.ID] = h.Attribute
	}

	allowed := false
	for _, policy := range policies {
		if !policy.Active {
			continue
		}
		for _, rule := range policy.Rules {
			attr, holds := attributes[rule.AttributeID]
			if !holds || !rule.matches(attr, req) {
				continue
			}
			switch rule.Action {
			case RuleDeny:
				return Deny(fmt.Sprintf("denied by policy %q", policy.Name))
			case RuleAllow:
				if attr.Name == required {
					allowed = true
				}
			}
		}
	}

	if req.RequiredClearance > 0 && !hasClearance(active, req.RequiredClearance) {
		return Deny(ReasonInsufficientClearance)
	}

	if !allowed {
		return Deny(fmt.Sprintf("no active policy allows %s", req.Action))
	}

	return Allow()
}

// HasClearance reports whether the actor holds, through a grant in force at now, an
// authorization attribute whose level is at least level.
func HasClearance(now time.Time, held []HeldAttribute, level int) bool {
	return hasClearance(ActiveAttributes(held, now), level)
}

func hasClearance(active []HeldAttribute, level int) bool {
	for _, h := range active {
		if h.Attribute.Category == CategoryAuthorization && h.Attribute.Level >= level {
			return true
		}
	}
	return false
}
