package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Operator is the comparison a policy rule applies to an attribute.
type Operator string

const (
	OperatorEquals      Operator = "equals"
	OperatorNotEquals   Operator = "not_equals"
	OperatorGreaterThan Operator = "greater_than"
	OperatorLessThan    Operator = "less_than"
	OperatorContains    Operator = "contains"
)

// IsValid reports whether o is a known operator.
func (o Operator) IsValid() bool {
	switch o {
	case OperatorEquals, OperatorNotEquals, OperatorGreaterThan, OperatorLessThan, OperatorContains:
		return true
	}
	return false
}

// RuleAction is the effect of a matching rule.
type RuleAction string

const (
	RuleAllow RuleAction = "allow"
	RuleDeny  RuleAction = "deny"
)

// IsValid reports whether a is allow or deny.
func (a RuleAction) IsValid() bool {
	return a == RuleAllow || a == RuleDeny
}

// PolicyRule belongs to a SecurityPolicy and references one attribute.
type PolicyRule struct {
	ID          uuid.UUID
	PolicyID    uuid.UUID
	AttributeID uuid.UUID
	Operator    Operator
	Value       string
	Action      RuleAction
	CreatedAt   time.Time
}

// SecurityPolicy groups rules. Rules of an inactive policy are never evaluated.
type SecurityPolicy struct {
	ID          uuid.UUID
	Name        string
	Description string
	Active      bool
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Rules       []PolicyRule
}

// matches applies the rule operator to an attribute the actor holds.
//
//   - equals: "true" means "held"; an integer compares with the level; anything else
//     compares with the attribute name.
//   - not_equals: negation of equals.
//   - greater_than / less_than: integer comparison against the level. Non-numeric values
//     never match.
//   - contains: the requested action or resource type contains the value.
func (r PolicyRule) matches(attr Attribute, req Request) bool {
	switch r.Operator {
	case OperatorEquals:
		return equalsValue(attr, r.Value)
	case OperatorNotEquals:
		return !equalsValue(attr, r.Value)
	case OperatorGreaterThan:
		n, err := strconv.Atoi(strings.TrimSpace(r.Value))
		return err == nil && attr.Level > n
	case OperatorLessThan:
		n, err := strconv.Atoi(strings.TrimSpace(r.Value))
		return err == nil && attr.Level < n
	case OperatorContains:
		if r.Value == "" {
			return false
		}
		return strings.Contains(string(req.Action), r.Value) || strings.Contains(req.ResourceType, r.Value)
	}
	return false
}

func equalsValue(attr Attribute, value string) bool {
	v := strings.TrimSpace(value)
	if strings.EqualFold(v, "true") {
		return true
	}
	if n, err := strconv.Atoi(v); err == nil {
		return attr.Level == n
	}
	return attr.Name == v
}
