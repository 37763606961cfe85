package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrInsufficientCredit is returned when a debit would take a balance
// below zero. Nothing is written in that case.
var ErrInsufficientCredit = errors.New("insufficient credit")

// Balance returns the user's current credit balance. Unknown users have a
// zero balance.
func (s *Store) Balance(ctx context.Context, userID int64) (int64, error) {
	var balance int64
	err := s.pool.QueryRow(ctx,
		`SELECT balance FROM credit_accounts WHERE telegram_id = $1`, userID,
	).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query balance: %w", err)
	}
	return balance, nil
}

// Debit atomically takes amount units from the user's balance and records a
// ledger row, returning the transaction id. The row lock serializes
// concurrent debits for one user.
func (s *Store) Debit(ctx context.Context, userID int64, amount int64) (uuid.UUID, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var balance int64
	err = tx.QueryRow(ctx,
		`SELECT balance FROM credit_accounts WHERE telegram_id = $1 FOR UPDATE`, userID,
	).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrInsufficientCredit
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("lock account: %w", err)
	}
	if balance < amount {
		return uuid.Nil, ErrInsufficientCredit
	}

	newBalance := balance - amount
	if _, err := tx.Exec(ctx,
		`UPDATE credit_accounts SET balance = $1 WHERE telegram_id = $2`,
		newBalance, userID,
	); err != nil {
		return uuid.Nil, fmt.Errorf("update balance: %w", err)
	}

	txID := uuid.New()
	if _, err := tx.Exec(ctx, `
		INSERT INTO credit_transactions (id, telegram_id, amount, kind, balance_after, created_at)
		VALUES ($1, $2, $3, 'debit', $4, now())`,
		txID, userID, -amount, newBalance,
	); err != nil {
		return uuid.Nil, fmt.Errorf("insert debit row: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit: %w", err)
	}
	return txID, nil
}

// Credit adds amount units back to the user's balance, recording a refund
// row that references the debit it compensates.
func (s *Store) Credit(ctx context.Context, userID int64, amount int64, refTxID uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var balance int64
	err = tx.QueryRow(ctx,
		`SELECT balance FROM credit_accounts WHERE telegram_id = $1 FOR UPDATE`, userID,
	).Scan(&balance)
	if err != nil {
		return fmt.Errorf("lock account: %w", err)
	}

	newBalance := balance + amount
	if _, err := tx.Exec(ctx,
		`UPDATE credit_accounts SET balance = $1 WHERE telegram_id = $2`,
		newBalance, userID,
	); err != nil {
		return fmt.Errorf("update balance: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO credit_transactions (id, telegram_id, amount, kind, reference_id, balance_after, created_at)
		VALUES ($1, $2, $3, 'refund', $4, $5, now())`,
		uuid.New(), userID, amount, refTxID, newBalance,
	); err != nil {
		return fmt.Errorf("insert refund row: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
