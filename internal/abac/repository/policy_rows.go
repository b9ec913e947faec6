package repository

import (
	"database/sql"

	"github.com/google/uuid"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

// policyColumns selects a policy left-joined with its rules. Rows come ordered by policy, so
// consecutive rows with the same policy id are folded together.
const policyColumns = `p.id, p.name, p.description, p.active, p.created_by, p.created_at, p.updated_at,
			  r.id, r.attribute_id, r.operator, r.value, r.action, r.created_at`

func scanPolicies(rows *sql.Rows) ([]*abacDomain.SecurityPolicy, error) {
	defer func() {
		_ = rows.Close()
	}()

	policies := make([]*abacDomain.SecurityPolicy, 0)
	var current *abacDomain.SecurityPolicy

	for rows.Next() {
		var (
			policy        abacDomain.SecurityPolicy
			ruleID        uuid.NullUUID
			ruleAttribute uuid.NullUUID
			ruleOperator  sql.NullString
			ruleValue     sql.NullString
			ruleAction    sql.NullString
			ruleCreatedAt sql.NullTime
		)
		err := rows.Scan(
			&policy.ID,
			&policy.Name,
			&policy.Description,
			&policy.Active,
			&policy.CreatedBy,
			&policy.CreatedAt,
			&policy.UpdatedAt,
			&ruleID,
			&ruleAttribute,
			&ruleOperator,
			&ruleValue,
			&ruleAction,
			&ruleCreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan security policy")
		}

		if current == nil || current.ID != policy.ID {
			policy.Rules = []abacDomain.PolicyRule{}
			current = &policy
			policies = append(policies, current)
		}

		if ruleID.Valid {
			current.Rules = append(current.Rules, abacDomain.PolicyRule{
				ID:          ruleID.UUID,
				PolicyID:    current.ID,
				AttributeID: ruleAttribute.UUID,
				Operator:    abacDomain.Operator(ruleOperator.String),
				Value:       ruleValue.String,
				Action:      abacDomain.RuleAction(ruleAction.String),
				CreatedAt:   ruleCreatedAt.Time,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate security policies")
	}
	return policies, nil
}

func singlePolicy(policies []*abacDomain.SecurityPolicy) (*abacDomain.SecurityPolicy, error) {
	if len(policies) == 0 {
		return nil, abacDomain.ErrPolicyNotFound
	}
	return policies[0], nil
}

func derefPolicies(policies []*abacDomain.SecurityPolicy) []abacDomain.SecurityPolicy {
	out := make([]abacDomain.SecurityPolicy, 0, len(policies))
	for _, p := range policies {
		out = append(out, *p)
	}
	return out
}
