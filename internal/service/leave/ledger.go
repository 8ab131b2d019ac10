package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerServiceImpl is the only writer of employee leave balances. Every
// mutation goes through the guarded repository update and leaves a ledger entry.
type LedgerServiceImpl struct {
	transactor   database.Transactor
	employeeRepo employee.EmployeeRepository
	ledgerRepo   leave.LedgerRepository
}

func NewLedgerService(transactor database.Transactor, employeeRepo employee.EmployeeRepository, ledgerRepo leave.LedgerRepository) leave.LedgerService {
	return &LedgerServiceImpl{
		transactor:   transactor,
		employeeRepo: employeeRepo,
		ledgerRepo:   ledgerRepo,
	}
}

// AvailableBalance implements leave.LedgerService.
func (s *LedgerServiceImpl) AvailableBalance(ctx context.Context, employeeID string, leaveType leave.LeaveType) (decimal.Decimal, error) {
	if !leaveType.HasBalance() {
		return decimal.Zero, leave.ErrUntrackedLeaveType
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return decimal.Zero, err
		}
		return decimal.Zero, fmt.Errorf("failed to get employee: %w", err)
	}

	balance, _ := emp.LeaveBalance.Of(string(leaveType))
	return balance, nil
}

// GetBalances implements leave.LedgerService.
func (s *LedgerServiceImpl) GetBalances(ctx context.Context, employeeID string) (employee.LeaveBalanceResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.LeaveBalanceResponse{}, err
		}
		return employee.LeaveBalanceResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee.NewLeaveBalanceResponse(emp.LeaveBalance), nil
}

// Debit implements leave.LedgerService.
func (s *LedgerServiceImpl) Debit(ctx context.Context, employeeID string, leaveType leave.LeaveType, days decimal.Decimal, referenceID *string, actorID *string) (decimal.Decimal, error) {
	if !days.IsPositive() {
		return decimal.Zero, leave.ErrNonPositiveDays
	}
	entry, err := s.apply(ctx, employeeID, leaveType, days.Neg(), leave.LedgerReasonLeaveApproved, nil, referenceID, actorID)
	if err != nil {
		return decimal.Zero, err
	}
	return entry.BalanceAfter, nil
}

// Credit implements leave.LedgerService.
func (s *LedgerServiceImpl) Credit(ctx context.Context, employeeID string, leaveType leave.LeaveType, days decimal.Decimal, note *string, actorID *string) (decimal.Decimal, error) {
	if !days.IsPositive() {
		return decimal.Zero, leave.ErrNonPositiveDays
	}
	entry, err := s.apply(ctx, employeeID, leaveType, days, leave.LedgerReasonAdminAdjustment, note, nil, actorID)
	if err != nil {
		return decimal.Zero, err
	}
	return entry.BalanceAfter, nil
}

// AdjustBalance implements leave.LedgerService.
func (s *LedgerServiceImpl) AdjustBalance(ctx context.Context, req leave.AdjustBalanceRequest) (leave.LedgerEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LedgerEntryResponse{}, err
	}

	var actorID *string
	if req.ActorID != "" {
		actorID = &req.ActorID
	}

	entry, err := s.apply(ctx, req.EmployeeID, leave.LeaveType(req.LeaveType), decimal.NewFromFloat(req.Days),
		leave.LedgerReasonAdminAdjustment, req.Note, nil, actorID)
	if err != nil {
		return leave.LedgerEntryResponse{}, err
	}

	slog.Info("leave balance adjusted",
		"employee_id", req.EmployeeID,
		"leave_type", req.LeaveType,
		"delta", entry.Delta.String(),
		"balance_after", entry.BalanceAfter.String(),
		"actor_id", req.ActorID,
	)
	return mapLedgerEntryToResponse(entry), nil
}

// History implements leave.LedgerService.
func (s *LedgerServiceImpl) History(ctx context.Context, employeeID string) ([]leave.LedgerEntryResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	entries, err := s.ledgerRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	responses := make([]leave.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, mapLedgerEntryToResponse(e))
	}
	return responses, nil
}

// apply moves one balance by delta and records the entry in the same transaction.
func (s *LedgerServiceImpl) apply(
	ctx context.Context,
	employeeID string,
	leaveType leave.LeaveType,
	delta decimal.Decimal,
	reason leave.LedgerReason,
	note *string,
	referenceID *string,
	actorID *string,
) (leave.LedgerEntry, error) {
	if !leaveType.HasBalance() {
		return leave.LedgerEntry{}, leave.ErrUntrackedLeaveType
	}

	var entry leave.LedgerEntry
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		balance, err := s.employeeRepo.AdjustLeaveBalance(ctx, employeeID, string(leaveType), delta)
		if err != nil {
			switch {
			case errors.Is(err, employee.ErrNegativeBalance):
				available, availErr := s.AvailableBalance(ctx, employeeID, leaveType)
				if availErr != nil {
					return availErr
				}
				return &leave.InsufficientBalanceError{
					LeaveType: leaveType,
					Available: available,
					Requested: delta.Neg(),
				}
			case errors.Is(err, employee.ErrEmployeeNotFound):
				return err
			case errors.Is(err, employee.ErrUntrackedLeaveType):
				return leave.ErrUntrackedLeaveType
			}
			return fmt.Errorf("failed to adjust leave balance: %w", err)
		}

		entry, err = s.ledgerRepo.Append(ctx, leave.LedgerEntry{
			ID:           uuid.NewString(),
			EmployeeID:   employeeID,
			LeaveType:    leaveType,
			Delta:        delta,
			BalanceAfter: balance,
			Reason:       reason,
			Note:         note,
			ReferenceID:  referenceID,
			CreatedBy:    actorID,
		})
		if err != nil {
			return fmt.Errorf("failed to append ledger entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LedgerEntry{}, err
	}

	return entry, nil
}

func mapLedgerEntryToResponse(e leave.LedgerEntry) leave.LedgerEntryResponse {
	return leave.LedgerEntryResponse{
		ID:           e.ID,
		EmployeeID:   e.EmployeeID,
		LeaveType:    string(e.LeaveType),
		Delta:        e.Delta.InexactFloat64(),
		BalanceAfter: e.BalanceAfter.InexactFloat64(),
		Reason:       string(e.Reason),
		Note:         e.Note,
		ReferenceID:  e.ReferenceID,
		CreatedBy:    e.CreatedBy,
		CreatedAt:    e.CreatedAt,
	}
}
