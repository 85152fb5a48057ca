package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finsightapp/finsight-backend/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, user_id, date, amount, category, note, import_batch_id, created_at`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(&t.ID, &t.UserID, &t.Date, &t.Amount, &t.Category, &t.Note, &t.ImportBatchID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a new transaction
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (user_id, date, amount, category, note, import_batch_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+transactionColumns,
		transaction.UserID, transaction.Date, transaction.Amount,
		transaction.Category, transaction.Note, transaction.ImportBatchID,
	)
	return scanTransaction(row)
}

// CreateBatch inserts all transactions in a single database transaction.
// Either every row is written or none is.
func (r *TransactionRepository) CreateBatch(transactions []*domain.Transaction) ([]*domain.Transaction, error) {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created := make([]*domain.Transaction, 0, len(transactions))
	for _, t := range transactions {
		row := tx.QueryRow(ctx, `
			INSERT INTO transactions (user_id, date, amount, category, note, import_batch_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+transactionColumns,
			t.UserID, t.Date, t.Amount, t.Category, t.Note, t.ImportBatchID,
		)
		c, err := scanTransaction(row)
		if err != nil {
			return nil, err
		}
		created = append(created, c)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a transaction by ID within a user's ledger
func (r *TransactionRepository) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.Transaction, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	t, err := scanTransaction(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return t, nil
}

// GetByUser retrieves a page of a user's transactions, newest first
func (r *TransactionRepository) GetByUser(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	ctx := context.Background()

	where := "WHERE user_id = $1"
	args := []interface{}{userID}
	if filters.Window != nil {
		where += fmt.Sprintf(" AND date >= $%d AND date <= $%d", len(args)+1, len(args)+2)
		args = append(args, filters.Window.Start, filters.Window.End)
	}
	if filters.Category != nil {
		where += fmt.Sprintf(" AND category = $%d", len(args)+1)
		args = append(args, *filters.Category)
	}

	var totalItems int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM transactions "+where, args...).Scan(&totalItems); err != nil {
		return nil, err
	}

	offset := (filters.Page - 1) * filters.PageSize
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions
		%s
		ORDER BY date DESC, created_at DESC, id
		LIMIT $%d OFFSET $%d`,
		transactionColumns, where, len(args)+1, len(args)+2)
	args = append(args, filters.PageSize, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	data := make([]*domain.Transaction, 0, filters.PageSize)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		data = append(data, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := int32(0)
	if totalItems > 0 {
		totalPages = int32((totalItems + int64(filters.PageSize) - 1) / int64(filters.PageSize))
	}
	return &domain.PaginatedTransactions{
		Data:       data,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// GetByWindow retrieves all of a user's transactions dated within the window, oldest first
func (r *TransactionRepository) GetByWindow(userID uuid.UUID, window domain.Window) ([]*domain.Transaction, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, created_at, id`,
		userID, window.Start, window.End,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// Delete removes a transaction from a user's ledger
func (r *TransactionRepository) Delete(userID uuid.UUID, id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM transactions
		WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}
