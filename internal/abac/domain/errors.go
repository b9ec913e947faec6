package domain

import (
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

// ABAC errors.
var (
	// ErrAttributeNotFound indicates the attribute does not exist.
	ErrAttributeNotFound = apperrors.Wrap(apperrors.ErrNotFound, "attribute not found")

	// ErrAttributeNameTaken indicates another attribute already uses the name.
	ErrAttributeNameTaken = apperrors.Wrap(apperrors.ErrConflict, "attribute name already exists")

	// ErrAttributeInUse is returned when changing the category or level of an attribute that
	// policy rules or grants already reference.
	ErrAttributeInUse = apperrors.Wrap(
		apperrors.ErrConflict,
		"attribute is referenced by rules or grants, only name and description can change",
	)

	// ErrPolicyNotFound indicates the security policy does not exist.
	ErrPolicyNotFound = apperrors.Wrap(apperrors.ErrNotFound, "security policy not found")

	// ErrPolicyNameTaken indicates another policy already uses the name.
	ErrPolicyNameTaken = apperrors.Wrap(apperrors.ErrConflict, "security policy name already exists")

	// ErrRuleNotFound indicates the policy rule does not exist.
	ErrRuleNotFound = apperrors.Wrap(apperrors.ErrNotFound, "policy rule not found")

	// ErrGrantNotFound indicates the actor does not hold the attribute.
	ErrGrantNotFound = apperrors.Wrap(apperrors.ErrNotFound, "attribute grant not found")

	// ErrInvalidCategory indicates an unknown attribute category.
	ErrInvalidCategory = apperrors.Wrap(
		apperrors.ErrInvalidInput,
		"category must be one of permission, authorization, restriction",
	)

	// ErrInvalidOperator indicates an unknown rule operator.
	ErrInvalidOperator = apperrors.Wrap(apperrors.ErrInvalidInput, "unknown rule operator")

	// ErrInvalidRuleAction indicates a rule action other than allow or deny.
	ErrInvalidRuleAction = apperrors.Wrap(apperrors.ErrInvalidInput, "rule action must be allow or deny")

	// ErrGrantTargetNotFound indicates the actor or the attribute of a grant does not exist.
	ErrGrantTargetNotFound = apperrors.Wrap(apperrors.ErrNotFound, "actor or attribute not found")

	// ErrInvalidLevel indicates a level outside [MinLevel, MaxLevel].
	ErrInvalidLevel = apperrors.Wrap(apperrors.ErrInvalidInput, "level must be between 1 and 5")

	// ErrGrantExpiryInPast indicates a grant would be born expired.
	ErrGrantExpiryInPast = apperrors.Wrap(apperrors.ErrInvalidInput, "grant expiry must be in the future")

	// ErrEvaluationFailed is returned when grants or policies cannot be loaded.
	// It must be treated as a denial.
	ErrEvaluationFailed = apperrors.Wrap(apperrors.ErrUnavailable, "policy evaluation failed")
)
