// Package domain defines the attribute-based access control model: attributes, per-actor
// attribute grants, security policies with their rules, and the pure decision function that
// evaluates them.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies what an attribute expresses.
type Category string

const (
	// CategoryPermission attributes unlock actions (e.g., view_cases).
	CategoryPermission Category = "permission"

	// CategoryAuthorization attributes carry a clearance level for classified content.
	CategoryAuthorization Category = "authorization"

	// CategoryRestriction attributes narrow what an actor may do (e.g., read_only).
	CategoryRestriction Category = "restriction"
)

// Categories lists every valid attribute category.
func Categories() []Category {
	return []Category{CategoryPermission, CategoryAuthorization, CategoryRestriction}
}

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryPermission, CategoryAuthorization, CategoryRestriction:
		return true
	}
	return false
}

const (
	// MinLevel is the lowest attribute level.
	MinLevel = 1
	// MaxLevel is the highest attribute level.
	MaxLevel = 5
)

// Attribute is a named capability or clearance that can be granted to actors and referenced
// by policy rules. Level ranges from MinLevel to MaxLevel.
type Attribute struct {
	ID          uuid.UUID
	Name        string
	Category    Category
	Description string
	Level       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Grant assigns an attribute to an actor. A grant is unique per (ActorID, AttributeID).
// Expired grants stay in storage but are ignored by evaluation.
type Grant struct {
	ID          uuid.UUID
	ActorID     uuid.UUID
	AttributeID uuid.UUID
	GrantedBy   uuid.UUID
	GrantedAt   time.Time
	ExpiresAt   *time.Time
	Reason      string
}

// IsActiveAt reports whether the grant is still in force at now.
func (g *Grant) IsActiveAt(now time.Time) bool {
	return g.ExpiresAt == nil || now.Before(*g.ExpiresAt)
}

// HeldAttribute is a grant joined with the attribute it refers to, which is what the
// evaluator works on.
type HeldAttribute struct {
	Grant     Grant
	Attribute Attribute
}

// ActiveAttributes filters held attributes down to those whose grant is in force at now.
func ActiveAttributes(held []HeldAttribute, now time.Time) []HeldAttribute {
	active := make([]HeldAttribute, 0, len(held))
	for _, h := range held {
		if h.Grant.IsActiveAt(now) {
			active = append(active, h)
		}
	}
	return active
}
