package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	"github.com/caseguard/caseguard/internal/database"
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

// PostgreSQLPolicyRepository implements SecurityPolicy and PolicyRule persistence for PostgreSQL.
type PostgreSQLPolicyRepository struct {
	db *sql.DB
}

func (p *PostgreSQLPolicyRepository) Create(ctx context.Context, policy *abacDomain.SecurityPolicy) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO abac_security_policies (id, name, description, active, created_by, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		policy.ID,
		policy.Name,
		policy.Description,
		policy.Active,
		policy.CreatedBy,
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

func (p *PostgreSQLPolicyRepository) Update(ctx context.Context, policy *abacDomain.SecurityPolicy) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE abac_security_policies
			  SET name = $1,
				  description = $2,
				  active = $3,
				  updated_at = $4
			  WHERE id = $5`

	result, err := querier.ExecContext(
		ctx,
		query,
		policy.Name,
		policy.Description,
		policy.Active,
		policy.UpdatedAt,
		policy.ID,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return abacDomain.ErrPolicyNameTaken
		}
		return apperrors.Wrap(err, "failed to update security policy")
	}
	return expectOneRow(result, abacDomain.ErrPolicyNotFound)
}

func (p *PostgreSQLPolicyRepository) Delete(ctx context.Context, policyID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM abac_security_policies WHERE id = $1`, policyID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete security policy")
	}
	return expectOneRow(result, abacDomain.ErrPolicyNotFound)
}

func (p *PostgreSQLPolicyRepository) Get(
	ctx context.Context,
	policyID uuid.UUID,
) (*abacDomain.SecurityPolicy, error) {
	return p.getBy(ctx, "p.id = $1", policyID)
}

func (p *PostgreSQLPolicyRepository) GetByName(ctx context.Context, name string) (*abacDomain.SecurityPolicy, error) {
	return p.getBy(ctx, "p.name = $1", name)
}

func (p *PostgreSQLPolicyRepository) getBy(
	ctx context.Context,
	where string,
	arg any,
) (*abacDomain.SecurityPolicy, error) {
	querier := database.GetTx(ctx, p.db)

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

func (p *PostgreSQLPolicyRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*abacDomain.SecurityPolicy, error) {
	querier := database.GetTx(ctx, p.db)

	query := `WITH page AS (
				  SELECT * FROM abac_security_policies ORDER BY name LIMIT $1 OFFSET $2
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

func (p *PostgreSQLPolicyRepository) ListActive(ctx context.Context) ([]abacDomain.SecurityPolicy, error) {
	querier := database.GetTx(ctx, p.db)

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

func (p *PostgreSQLPolicyRepository) CreateRule(ctx context.Context, rule *abacDomain.PolicyRule) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO abac_policy_rules (id, policy_id, attribute_id, operator, value, action, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		rule.ID,
		rule.PolicyID,
		rule.AttributeID,
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

func (p *PostgreSQLPolicyRepository) DeleteRule(ctx context.Context, policyID, ruleID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM abac_policy_rules WHERE id = $1 AND policy_id = $2`,
		ruleID,
		policyID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete policy rule")
	}
	return expectOneRow(result, abacDomain.ErrRuleNotFound)
}

func (p *PostgreSQLPolicyRepository) CountRulesByAttribute(ctx context.Context, attributeID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	var count int64
	err := querier.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM abac_policy_rules WHERE attribute_id = $1`,
		attributeID,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count policy rules")
	}
	return count, nil
}

func (p *PostgreSQLPolicyRepository) DeleteRulesByAttribute(ctx context.Context, attributeID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM abac_policy_rules WHERE attribute_id = $1`, attributeID)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete policy rules")
	}
	return result.RowsAffected()
}

// NewPostgreSQLPolicyRepository creates a new PostgreSQL SecurityPolicy repository.
func NewPostgreSQLPolicyRepository(db *sql.DB) *PostgreSQLPolicyRepository {
	return &PostgreSQLPolicyRepository{db: db}
}
