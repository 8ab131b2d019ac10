package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/google/uuid"
)

// maxLeaveRangeDays bounds a single request so day counting stays cheap.
const maxLeaveRangeDays = 366

// CreateLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateLeaveRequest(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	today := calendar.Today(l.now(), l.location)
	if err := validateRange(req.StartDate, req.EndDate); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if req.StartDate.Before(today) {
		return leave.LeaveRequestResponse{}, leave.ErrStartDateInPast
	}

	cal, err := l.holidayService.Calendar(ctx, req.StartDate, req.EndDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to build working day calendar: %w", err)
	}
	totalDays := cal.CountLeaveDays(req.StartDate, req.EndDate, req.IsHalfDay)
	if totalDays.IsZero() {
		return leave.LeaveRequestResponse{}, leave.ErrNoWorkingDays
	}

	leaveType := leave.LeaveType(req.LeaveType)
	request := leave.LeaveRequest{
		ID:         uuid.NewString(),
		EmployeeID: req.EmployeeID,
		LeaveType:  leaveType,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		TotalDays:  totalDays,
		IsHalfDay:  req.IsHalfDay,
		Reason:     req.Reason,
		Priority:   leave.Priority(req.Priority),
		Status:     leave.LeaveRequestStatusPending,
	}
	if req.HalfDayType != nil {
		h := leave.HalfDayType(*req.HalfDayType)
		request.HalfDayType = &h
	}

	var requester employee.Employee
	err = l.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := l.employeeRepo.LockByID(ctx, req.EmployeeID)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return err
			}
			return fmt.Errorf("failed to lock employee: %w", err)
		}
		if !emp.IsActive {
			return employee.ErrEmployeeInactive
		}
		requester = emp

		overlapping, err := l.leaveRepo.FindOverlapping(ctx, req.EmployeeID, req.StartDate, req.EndDate)
		if err != nil {
			return fmt.Errorf("failed to check overlapping leave: %w", err)
		}
		if len(overlapping) > 0 {
			return leave.ErrOverlappingLeave
		}

		if available, tracked := emp.LeaveBalance.Of(string(leaveType)); tracked && available.LessThan(totalDays) {
			return &leave.InsufficientBalanceError{
				LeaveType: leaveType,
				Available: available,
				Requested: totalDays,
			}
		}

		created, err := l.leaveRepo.Create(ctx, request)
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		request = created
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request.EmployeeName = &requester.FullName
	slog.Info("leave request created",
		"leave_request_id", request.ID,
		"employee_id", request.EmployeeID,
		"leave_type", request.LeaveType,
		"total_days", request.TotalDays.String(),
	)

	if requester.ManagerID != nil {
		l.notify(ctx, notification.CreateNotificationRequest{
			RecipientID: *requester.ManagerID,
			SenderID:    &requester.ID,
			Type:        notification.TypeLeaveRequested,
			Title:       "New leave request",
			Message: fmt.Sprintf("%s requested %s day(s) of %s leave from %s to %s",
				requester.FullName, request.TotalDays.String(), request.LeaveType, request.StartDate, request.EndDate),
			Data: notificationData(request),
		})
	}

	return mapLeaveRequestToResponse(request), nil
}

// DecideLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) DecideLeaveRequest(ctx context.Context, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if leave.DecisionAction(req.Action) == leave.DecisionReject {
		return l.reject(ctx, req.ID, req.ApproverID, *req.RejectionReason)
	}
	return l.approve(ctx, req.ID, req.ApproverID)
}

// RejectLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) RejectLeaveRequest(ctx context.Context, req leave.RejectLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return l.reject(ctx, req.ID, req.ApproverID, req.RejectionReason)
}

// approve debits the balance and marks the request approved in one
// transaction. A failed debit leaves the request pending.
func (l *LeaveServiceImpl) approve(ctx context.Context, requestID, approverID string) (leave.LeaveRequestResponse, error) {
	var (
		request leave.LeaveRequest
		owner   employee.Employee
	)
	err := l.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		request, err = l.lockPending(ctx, requestID, approverID)
		if err != nil {
			return err
		}

		owner, err = l.employeeRepo.LockByID(ctx, request.EmployeeID)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return err
			}
			return fmt.Errorf("failed to lock employee: %w", err)
		}

		if request.LeaveType.HasBalance() {
			if _, err := l.ledger.Debit(ctx, request.EmployeeID, request.LeaveType, request.TotalDays, &request.ID, &approverID); err != nil {
				return err
			}
		}

		if err := request.Approve(approverID, l.now()); err != nil {
			return err
		}
		if err := l.leaveRepo.UpdateDecision(ctx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request.EmployeeName = &owner.FullName
	slog.Info("leave request approved",
		"leave_request_id", request.ID,
		"employee_id", request.EmployeeID,
		"approver_id", approverID,
		"total_days", request.TotalDays.String(),
	)

	l.notify(ctx, notification.CreateNotificationRequest{
		RecipientID:    owner.ID,
		SenderID:       &approverID,
		Type:           notification.TypeLeaveApproved,
		Title:          "Leave request approved",
		Message:        fmt.Sprintf("Your %s leave from %s to %s has been approved", request.LeaveType, request.StartDate, request.EndDate),
		Data:           notificationData(request),
		RecipientEmail: &owner.Email,
		RecipientName:  owner.FullName,
	})

	return mapLeaveRequestToResponse(request), nil
}

func (l *LeaveServiceImpl) reject(ctx context.Context, requestID, approverID, reason string) (leave.LeaveRequestResponse, error) {
	var request leave.LeaveRequest
	err := l.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		request, err = l.lockPending(ctx, requestID, approverID)
		if err != nil {
			return err
		}

		if err := request.Reject(approverID, reason, l.now()); err != nil {
			return err
		}
		if err := l.leaveRepo.UpdateDecision(ctx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("leave request rejected",
		"leave_request_id", request.ID,
		"employee_id", request.EmployeeID,
		"approver_id", approverID,
	)

	notifyReq := notification.CreateNotificationRequest{
		RecipientID: request.EmployeeID,
		SenderID:    &approverID,
		Type:        notification.TypeLeaveRejected,
		Title:       "Leave request rejected",
		Message:     fmt.Sprintf("Your %s leave from %s to %s has been rejected: %s", request.LeaveType, request.StartDate, request.EndDate, reason),
		Data:        notificationData(request),
	}
	if owner, err := l.employeeRepo.GetByID(ctx, request.EmployeeID); err == nil {
		notifyReq.RecipientEmail = &owner.Email
		notifyReq.RecipientName = owner.FullName
		request.EmployeeName = &owner.FullName
	}
	l.notify(ctx, notifyReq)

	return mapLeaveRequestToResponse(request), nil
}

// CancelLeaveRequest implements leave.LeaveService. Only the owner or an
// admin may cancel, and only while the request is pending.
func (l *LeaveServiceImpl) CancelLeaveRequest(ctx context.Context, actor user.Identity, requestID string) (leave.LeaveRequestResponse, error) {
	var request leave.LeaveRequest
	err := l.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		request, err = l.leaveRepo.LockByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, leave.ErrLeaveRequestNotFound) {
				return err
			}
			return fmt.Errorf("failed to lock leave request: %w", err)
		}

		if request.EmployeeID != actor.EmployeeID && !actor.Role.IsAdmin() {
			return leave.ErrForbidden
		}

		if err := request.Cancel(actor.EmployeeID, l.now()); err != nil {
			return err
		}
		if err := l.leaveRepo.UpdateDecision(ctx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("leave request cancelled", "leave_request_id", request.ID, "actor_id", actor.EmployeeID)
	return mapLeaveRequestToResponse(request), nil
}

// lockPending locks the request row and checks it can still be decided by approverID.
func (l *LeaveServiceImpl) lockPending(ctx context.Context, requestID, approverID string) (leave.LeaveRequest, error) {
	request, err := l.leaveRepo.LockByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequest{}, err
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to lock leave request: %w", err)
	}
	if !request.IsPending() {
		return leave.LeaveRequest{}, leave.ErrInvalidTransition
	}
	if request.EmployeeID == approverID {
		return leave.LeaveRequest{}, leave.ErrSelfApproval
	}
	return request, nil
}

func validateRange(start, end calendar.Date) error {
	if end.Before(start) {
		return leave.ErrEndBeforeStart
	}
	if start.DaysUntil(end) >= maxLeaveRangeDays {
		return leave.ErrLeaveRangeTooLong
	}
	return nil
}

// notify hands the message to the dispatcher. Failures are logged and never
// reach the caller since the decision is already committed.
func (l *LeaveServiceImpl) notify(ctx context.Context, req notification.CreateNotificationRequest) {
	if l.notifier == nil {
		return
	}
	if err := l.notifier.Queue(ctx, req); err != nil {
		slog.Warn("failed to queue notification",
			"recipient_id", req.RecipientID,
			"type", req.Type,
			"error", err,
		)
	}
}

func notificationData(r leave.LeaveRequest) map[string]interface{} {
	data := map[string]interface{}{
		"leave_request_id": r.ID,
		"leave_type":       string(r.LeaveType),
		"start_date":       r.StartDate.String(),
		"end_date":         r.EndDate.String(),
		"total_days":       r.TotalDays.InexactFloat64(),
		"status":           string(r.Status),
	}
	if r.RejectionReason != nil {
		data["rejection_reason"] = *r.RejectionReason
	}
	return data
}
