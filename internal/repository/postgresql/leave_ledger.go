package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

type ledgerRepositoryImpl struct {
	db *database.DB
}

func NewLedgerRepository(db *database.DB) leave.LedgerRepository {
	return &ledgerRepositoryImpl{db: db}
}

// Append implements leave.LedgerRepository.
func (l *ledgerRepositoryImpl) Append(ctx context.Context, entry leave.LedgerEntry) (leave.LedgerEntry, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO leave_ledger_entries (
			id, employee_id, leave_type, delta, balance_after, reason, note, reference_id, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		entry.ID, entry.EmployeeID, string(entry.LeaveType), entry.Delta.String(), entry.BalanceAfter.String(),
		string(entry.Reason), entry.Note, entry.ReferenceID, entry.CreatedBy,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return leave.LedgerEntry{}, fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return entry, nil
}

// ListByEmployee implements leave.LedgerRepository. Oldest first.
func (l *ledgerRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LedgerEntry, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT id, employee_id, leave_type, delta, balance_after, reason, note, reference_id, created_by, created_at
		FROM leave_ledger_entries
		WHERE employee_id = $1
		ORDER BY created_at, id
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	entries := []leave.LedgerEntry{}
	for rows.Next() {
		var e leave.LedgerEntry
		if err := rows.Scan(
			&e.ID, &e.EmployeeID, &e.LeaveType, &e.Delta, &e.BalanceAfter, &e.Reason,
			&e.Note, &e.ReferenceID, &e.CreatedBy, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}
	return entries, nil
}
