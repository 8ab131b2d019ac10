package sqlite

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

type ledgerRepository struct {
	db *database.SQLiteDB
}

func NewLedgerRepository(db *database.SQLiteDB) leave.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (l *ledgerRepository) Append(ctx context.Context, entry leave.LedgerEntry) (leave.LedgerEntry, error) {
	q := GetQuerier(ctx, l.db)

	entry.CreatedAt = now()
	_, err := q.ExecContext(ctx, `
		INSERT INTO leave_ledger_entries (
			id, employee_id, leave_type, delta, balance_after, reason, note, reference_id, created_by, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.EmployeeID, string(entry.LeaveType), entry.Delta.InexactFloat64(), entry.BalanceAfter.InexactFloat64(),
		string(entry.Reason), entry.Note, entry.ReferenceID, entry.CreatedBy, entry.CreatedAt,
	)
	if err != nil {
		return leave.LedgerEntry{}, fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return entry, nil
}

// ListByEmployee returns entries in insertion order.
func (l *ledgerRepository) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LedgerEntry, error) {
	q := GetQuerier(ctx, l.db)

	rows, err := q.QueryContext(ctx, `
		SELECT id, employee_id, leave_type, delta, balance_after, reason, note, reference_id, created_by, created_at
		FROM leave_ledger_entries
		WHERE employee_id = ?
		ORDER BY seq`, employeeID)
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
