package leave

import (
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var decidedAt = time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC)

func pendingRequest() *LeaveRequest {
	return &LeaveRequest{
		ID:         "req-1",
		EmployeeID: "emp-1",
		LeaveType:  LeaveTypeAnnual,
		StartDate:  calendar.NewDate(2026, time.October, 19),
		EndDate:    calendar.NewDate(2026, time.October, 21),
		TotalDays:  decimal.NewFromInt(3),
		Status:     LeaveRequestStatusPending,
	}
}

func TestLeaveRequest_Transitions(t *testing.T) {
	t.Run("approve from pending", func(t *testing.T) {
		r := pendingRequest()
		require.NoError(t, r.Approve("mgr-1", decidedAt))
		assert.Equal(t, LeaveRequestStatusApproved, r.Status)
		assert.Equal(t, "mgr-1", *r.ApprovedBy)
		assert.Equal(t, decidedAt, *r.ApprovedAt)
	})

	t.Run("reject from pending records reviewer and reason", func(t *testing.T) {
		r := pendingRequest()
		require.NoError(t, r.Reject("mgr-1", "team is short-staffed", decidedAt))
		assert.Equal(t, LeaveRequestStatusRejected, r.Status)
		assert.Equal(t, "mgr-1", *r.ApprovedBy)
		assert.Equal(t, "team is short-staffed", *r.RejectionReason)
	})

	t.Run("cancel from pending", func(t *testing.T) {
		r := pendingRequest()
		require.NoError(t, r.Cancel("emp-1", decidedAt))
		assert.Equal(t, LeaveRequestStatusCancelled, r.Status)
		assert.Equal(t, "emp-1", *r.CancelledBy)
	})

	terminal := []LeaveRequestStatus{LeaveRequestStatusApproved, LeaveRequestStatusRejected, LeaveRequestStatusCancelled}
	for _, status := range terminal {
		t.Run("no transition out of "+string(status), func(t *testing.T) {
			r := pendingRequest()
			r.Status = status

			assert.True(t, errors.Is(r.Approve("mgr-1", decidedAt), ErrInvalidTransition))
			assert.True(t, errors.Is(r.Reject("mgr-1", "some long reason", decidedAt), ErrInvalidTransition))
			assert.True(t, errors.Is(r.Cancel("emp-1", decidedAt), ErrInvalidTransition))
			assert.Equal(t, status, r.Status)
		})
	}
}

func TestLeaveRequest_Overlaps(t *testing.T) {
	r := pendingRequest() // 19..21 Oct

	d := func(day int) calendar.Date { return calendar.NewDate(2026, time.October, day) }

	assert.True(t, r.Overlaps(d(21), d(23)), "shared end day")
	assert.True(t, r.Overlaps(d(17), d(19)), "shared start day")
	assert.True(t, r.Overlaps(d(20), d(20)), "inside")
	assert.True(t, r.Overlaps(d(10), d(30)), "enclosing")
	assert.False(t, r.Overlaps(d(22), d(23)), "after")
	assert.False(t, r.Overlaps(d(12), d(18)), "before")
	assert.True(t, r.Covers(d(20)))
	assert.False(t, r.Covers(d(22)))
}

func TestLeaveType_HasBalance(t *testing.T) {
	for _, lt := range []LeaveType{LeaveTypeAnnual, LeaveTypeSick, LeaveTypePersonal, LeaveTypeMaternity, LeaveTypePaternity} {
		assert.True(t, lt.HasBalance(), lt)
	}
	assert.False(t, LeaveTypeBereavement.HasBalance())
	assert.False(t, LeaveTypeOther.HasBalance())
	assert.False(t, LeaveType("vacation").IsValid())
}

func TestInsufficientBalanceError(t *testing.T) {
	var err error = &InsufficientBalanceError{
		LeaveType: LeaveTypeSick,
		Available: decimal.NewFromInt(1),
		Requested: decimal.NewFromInt(2),
	}

	assert.True(t, errors.Is(err, ErrInsufficientBalance))
	assert.Equal(t, apperror.CodeInsufficientBalance, apperror.GetCode(err))
	assert.Contains(t, err.Error(), "Available: 1")
	assert.Contains(t, err.Error(), "requested: 2")
}

func TestDateRangeErrorsShareKind(t *testing.T) {
	for _, err := range []error{ErrEndBeforeStart, ErrStartDateInPast, ErrNoWorkingDays} {
		assert.True(t, errors.Is(err, ErrInvalidDateRange))
		assert.Equal(t, apperror.CodeInvalidDateRange, apperror.GetCode(err))
	}
}

func TestCreateLeaveRequestRequest_Validate(t *testing.T) {
	valid := func() CreateLeaveRequestRequest {
		return CreateLeaveRequestRequest{
			LeaveType: "annual",
			StartDate: calendar.NewDate(2026, time.October, 19),
			EndDate:   calendar.NewDate(2026, time.October, 21),
			Reason:    "family vacation abroad",
		}
	}

	req := valid()
	require.NoError(t, req.Validate())
	assert.Equal(t, string(PriorityMedium), req.Priority)

	short := valid()
	short.Reason = "too short"
	assert.ErrorContains(t, short.Validate(), "reason must be at least 10 characters")

	halfNoType := valid()
	halfNoType.IsHalfDay = true
	assert.ErrorContains(t, halfNoType.Validate(), "half_day_type")

	morning := "morning"
	typeNoHalf := valid()
	typeNoHalf.HalfDayType = &morning
	assert.ErrorContains(t, typeNoHalf.Validate(), "only allowed when is_half_day")

	half := valid()
	half.IsHalfDay = true
	half.HalfDayType = &morning
	assert.NoError(t, half.Validate())

	badType := valid()
	badType.LeaveType = "vacation"
	badType.Priority = "asap"
	err := badType.Validate()
	assert.ErrorContains(t, err, "leave_type")
	assert.ErrorContains(t, err, "priority")
}

func TestDecideLeaveRequest_Validate(t *testing.T) {
	approve := DecideLeaveRequest{}
	require.NoError(t, approve.Validate())
	assert.Equal(t, string(DecisionApprove), approve.Action)

	reject := DecideLeaveRequest{Action: "REJECT"}
	assert.ErrorContains(t, reject.Validate(), "rejection_reason")

	reason := "overlaps with release week"
	reject.RejectionReason = &reason
	assert.NoError(t, reject.Validate())

	unknown := DecideLeaveRequest{Action: "defer"}
	assert.Error(t, unknown.Validate())
}

func TestAdjustBalanceRequest_Validate(t *testing.T) {
	ok := AdjustBalanceRequest{LeaveType: "annual", Days: -1.5}
	assert.NoError(t, ok.Validate())

	untracked := AdjustBalanceRequest{LeaveType: "bereavement", Days: 1}
	assert.ErrorContains(t, untracked.Validate(), "leave_type")

	fractional := AdjustBalanceRequest{LeaveType: "sick", Days: 0.3}
	assert.ErrorContains(t, fractional.Validate(), "multiple of 0.5")

	zero := AdjustBalanceRequest{LeaveType: "sick"}
	assert.ErrorContains(t, zero.Validate(), "must not be zero")
}
