package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/storage-gateway/internal/domain"
)

const (
	defaultAuditPageSize = 50
	maxAuditPageSize     = 500
)

// AuditFilter narrows decision listings.
type AuditFilter struct {
	Outcome string
	Limit   int
}

// AuditRepository manages persisted auth gate decisions.
type AuditRepository interface {
	Insert(ctx context.Context, decision *domain.AuthDecision) error
	List(ctx context.Context, filter AuditFilter) ([]domain.AuthDecision, error)
	CountByOutcome(ctx context.Context) (map[string]int64, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository constructs repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Insert(ctx context.Context, decision *domain.AuthDecision) error {
	const query = `
        INSERT INTO auth_decisions (outcome, subject, issuer, request_id, method, path, client_ip, decided_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		decision.Outcome,
		decision.Subject,
		decision.Issuer,
		decision.RequestID,
		decision.Method,
		decision.Path,
		decision.ClientIP,
		decision.DecidedAt,
	).Scan(&decision.ID, &decision.CreatedAt)
}

func (r *auditRepository) List(ctx context.Context, filter AuditFilter) ([]domain.AuthDecision, error) {
	base := `SELECT id, outcome, subject, issuer, request_id, method, path, client_ip, decided_at, created_at
             FROM auth_decisions`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Outcome != "" {
		args = append(args, filter.Outcome)
		clauses = append(clauses, fmt.Sprintf("outcome=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultAuditPageSize
	}
	if limit > maxAuditPageSize {
		limit = maxAuditPageSize
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY decided_at DESC LIMIT %d",
		base, strings.Join(clauses, " AND "), limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	decisions := []domain.AuthDecision{}
	for rows.Next() {
		var d domain.AuthDecision
		if err := rows.Scan(
			&d.ID,
			&d.Outcome,
			&d.Subject,
			&d.Issuer,
			&d.RequestID,
			&d.Method,
			&d.Path,
			&d.ClientIP,
			&d.DecidedAt,
			&d.CreatedAt,
		); err != nil {
			return nil, err
		}
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}

func (r *auditRepository) CountByOutcome(ctx context.Context) (map[string]int64, error) {
	const query = `SELECT outcome, COUNT(*) FROM auth_decisions GROUP BY outcome`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var outcome string
		var count int64
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, err
		}
		counts[outcome] = count
	}
	return counts, rows.Err()
}
