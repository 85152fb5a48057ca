package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finsightapp/finsight-backend/internal/domain"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = `id, user_id, category, period, spending_limit, created_at, updated_at`

func scanBudget(row pgx.Row) (*domain.BudgetConfig, error) {
	b := &domain.BudgetConfig{}
	err := row.Scan(&b.ID, &b.UserID, &b.Category, &b.Period, &b.Limit, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Upsert creates or replaces the budget for (user, category, period)
func (r *BudgetRepository) Upsert(budget *domain.BudgetConfig) (*domain.BudgetConfig, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO budgets (user_id, category, period, spending_limit)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, category, period)
		DO UPDATE SET spending_limit = EXCLUDED.spending_limit, updated_at = NOW()
		RETURNING `+budgetColumns,
		budget.UserID, budget.Category, budget.Period, budget.Limit,
	)
	return scanBudget(row)
}

// GetAllByUser retrieves all budgets for a user, ordered by category
func (r *BudgetRepository) GetAllByUser(userID uuid.UUID) ([]*domain.BudgetConfig, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE user_id = $1
		ORDER BY category`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.BudgetConfig, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

// GetByCategory retrieves the budget for (user, category, period)
func (r *BudgetRepository) GetByCategory(userID uuid.UUID, category string, period domain.BudgetPeriod) (*domain.BudgetConfig, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE user_id = $1 AND category = $2 AND period = $3`,
		userID, category, period,
	)
	b, err := scanBudget(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return b, nil
}

// Delete removes the budget for (user, category, period)
func (r *BudgetRepository) Delete(userID uuid.UUID, category string, period domain.BudgetPeriod) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM budgets
		WHERE user_id = $1 AND category = $2 AND period = $3`,
		userID, category, period,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}
