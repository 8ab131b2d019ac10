package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	CreateRequest(w http.ResponseWriter, r *http.Request)
	WorkingDays(w http.ResponseWriter, r *http.Request)
	GetMyBalance(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService  leave.LeaveService
	ledgerService leave.LedgerService
}

func NewLeaveHandler(leaveService leave.LeaveService, ledgerService leave.LedgerService) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService:  leaveService,
		ledgerService: ledgerService,
	}
}

// CreateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(w, r)
	if !ok {
		return
	}

	var req leave.CreateLeaveRequestRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	// Set employee_id from the token, never from the body
	req.EmployeeID = id.EmployeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	leaveRequest, err := l.leaveService.CreateLeaveRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request created successfully", leaveRequest)
}

// WorkingDays implements LeaveHandler.
func (l *LeaveHandlerImpl) WorkingDays(w http.ResponseWriter, r *http.Request) {
	var (
		errs validator.ValidationErrors
		req  leave.WorkingDaysRequest
	)
	params := []struct {
		field string
		dst   *calendar.Date
	}{{"start_date", &req.StartDate}, {"end_date", &req.EndDate}}
	for _, p := range params {
		d, err := calendar.Parse(r.URL.Query().Get(p.field))
		if err != nil {
			errs.Add(p.field, p.field+" is required (YYYY-MM-DD)")
			continue
		}
		*p.dst = d
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}
	req.IsHalfDay = getBoolQueryParam(r, "is_half_day", false)

	result, err := l.leaveService.CalculateWorkingDays(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMyBalance implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(w, r)
	if !ok {
		return
	}

	balances, err := l.ledgerService.GetBalances(r.Context(), id.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

func parseLeaveFilter(r *http.Request) leave.LeaveRequestFilter {
	return leave.LeaveRequestFilter{
		EmployeeID: optionalQueryParam(r, "employee_id"),
		Status:     optionalQueryParam(r, "status"),
		LeaveType:  optionalQueryParam(r, "leave_type"),
		StartDate:  optionalQueryParam(r, "start_date"),
		EndDate:    optionalQueryParam(r, "end_date"),
		Page:       getIntQueryParam(r, "page", 1),
		Limit:      getIntQueryParam(r, "limit", 20),
	}
}

func writeLeaveList(w http.ResponseWriter, result leave.ListLeaveRequestResponse) {
	response.SuccessWithMeta(w, result.LeaveRequests, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// GetMyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(w, r)
	if !ok {
		return
	}

	result, err := l.leaveService.ListMyLeaveRequests(r.Context(), id.EmployeeID, parseLeaveFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeLeaveList(w, result)
}

// ListRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	result, err := l.leaveService.ListLeaveRequests(r.Context(), parseLeaveFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeLeaveList(w, result)
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(w, r)
	if !ok {
		return
	}

	result, err := l.leaveService.GetLeaveRequest(r.Context(), id, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ApproveRequest implements LeaveHandler. The body may carry
// {"action":"reject","rejection_reason":...} to reject instead.
func (l *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(w, r)
	if !ok {
		return
	}

	var req leave.DecideLeaveRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ApproverID = id.EmployeeID

	result, err := l.leaveService.DecideLeaveRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request "+result.Status, result)
}

// RejectRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(w, r)
	if !ok {
		return
	}

	var req leave.RejectLeaveRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ApproverID = id.EmployeeID

	result, err := l.leaveService.RejectLeaveRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected", result)
}

// CancelRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(w, r)
	if !ok {
		return
	}

	result, err := l.leaveService.CancelLeaveRequest(r.Context(), id, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled", result)
}
