package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	"github.com/caseguard/caseguard/internal/database"
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

// MySQLPolicyRepository implements SecurityPolicy and PolicyRule persistence for MySQL using BINARY(16) ids.
type MySQLPolicyRepository struct {
	db *sql.DB
}

func (m *MySQLPolicyRepository) Create(ctx context.Context, policy *abacDomain.SecurityPolicy) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO abac_security_policies (id, name, description, active, created_by, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		database.UUIDBytes(policy.ID),
		policy.Name,
		policy.Description,
		policy.Active,
		database.UUIDBytes(policy.CreatedBy),
		policy.CreatedAt,
		policy.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return abacDomain.ErrPolicyNameTaken
		}
		return apperrors.Wrap(err, "failed to create security policy")
	}
	return nil
}

func (m *MySQLPolicyRepository) Update(ctx context.Context, policy *abacDomain.SecurityPolicy) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE abac_security_policies
			  SET name = ?,
				  description = ?,
				  active = ?,
				  updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		policy.Name,
		policy.Description,
		policy.Active,
		policy.UpdatedAt,
		database.UUIDBytes(policy.ID),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return abacDomain.ErrPolicyNameTaken
		}
		return apperrors.Wrap(err, "failed to update security policy")
	}
	return expectOneRow(result, abacDomain.ErrPolicyNotFound)
}

func (m *MySQLPolicyRepository) Delete(ctx context.Context, policyID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM abac_security_policies WHERE id = ?`,
		database.UUIDBytes(policyID),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete security policy")
	}
	return expectOneRow(result, abacDomain.ErrPolicyNotFound)
}

func (m *MySQLPolicyRepository) Get(
	ctx context.Context,
	policyID uuid.UUID,
) (*abacDomain.SecurityPolicy, error) {
	return m.getBy(ctx, "p.id = ?", database.UUIDBytes(policyID))
}

func (m *MySQLPolicyRepository) GetByName(ctx context.Context, name string) (*abacDomain.SecurityPolicy, error) {
	return m.getBy(ctx, "p.name = ?", name)
}

func (m *MySQLPolicyRepository) getBy(
	ctx context.Context,
	where string,
	arg any,
) (*abacDomain.SecurityPolicy, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + policyColumns + `
			  FROM abac_security_policies p
			  LEFT JOIN abac_policy_rules r ON r.policy_id = p.id
			  WHERE ` + where + `
			  ORDER BY r.created_at, r.id`

	rows, err := querier.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get security policy")
	}
	policies, err := scanPolicies(rows)
	if err != nil {
		return nil, err
	}
	return singlePolicy(policies)
}

func (m *MySQLPolicyRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*abacDomain.SecurityPolicy, error) {
	querier := database.GetTx(ctx, m.db)

	query := `WITH page AS (
				  SELECT * FROM abac_security_policies ORDER BY name LIMIT ? OFFSET ?
			  )
			  SELECT ` + policyColumns + `
			  FROM page p
			  LEFT JOIN abac_policy_rules r ON r.policy_id = p.id
			  ORDER BY p.name, r.created_at, r.id`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list security policies")
	}
	return scanPolicies(rows)
}

func (m *MySQLPolicyRepository) ListActive(ctx context.Context) ([]abacDomain.SecurityPolicy, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + policyColumns + `
			  FROM abac_security_policies p
			  LEFT JOIN abac_policy_rules r ON r.policy_id = p.id
			  WHERE p.active = TRUE
			  ORDER BY p.name, p.id, r.created_at, r.id`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list active security policies")
	}
	policies, err := scanPolicies(rows)
	if err != nil {
		return nil, err
	}
	return derefPolicies(policies), nil
}

func (m *MySQLPolicyRepository) CreateRule(ctx context.Context, rule *abacDomain.PolicyRule) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO abac_policy_rules (id, policy_id, attribute_id, operator, value, action, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		database.UUIDBytes(rule.ID),
		database.UUIDBytes(rule.PolicyID),
		database.UUIDBytes(rule.AttributeID),
		rule.Operator,
		rule.Value,
		rule.Action,
		rule.CreatedAt,
	)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return abacDomain.ErrAttributeNotFound
		}
		return apperrors.Wrap(err, "failed to create policy rule")
	}
	return nil
}

func (m *MySQLPolicyRepository) DeleteRule(ctx context.Context, policyID, ruleID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM abac_policy_rules WHERE id = ? AND policy_id = ?`,
		database.UUIDBytes(ruleID),
		database.UUIDBytes(policyID),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete policy rule")
	}
	return expectOneRow(result, abacDomain.ErrRuleNotFound)
}

func (m *MySQLPolicyRepository) CountRulesByAttribute(ctx context.Context, attributeID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	var count int64
	err := querier.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM abac_policy_rules WHERE attribute_id = ?`,
		database.UUIDBytes(attributeID),
	).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count policy rules")
	}
	return count, nil
}

func (m *MySQLPolicyRepository) DeleteRulesByAttribute(ctx context.Context, attributeID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM abac_policy_rules WHERE attribute_id = ?`,
		database.UUIDBytes(attributeID),
	)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete policy rules")
	}
	return result.RowsAffected()
}

// NewMySQLPolicyRepository creates a new MySQL SecurityPolicy repository.
func NewMySQLPolicyRepository(db *sql.DB) *MySQLPolicyRepository {
	return &MySQLPolicyRepository{db: db}
}
