package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
)

type SettingsHandler interface {
	GetOfficeLocation(w http.ResponseWriter, r *http.Request)
	UpdateOfficeLocation(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settingsService settings.SettingsService
}

func NewSettingsHandler(settingsService settings.SettingsService) SettingsHandler {
	return &settingsHandlerImpl{settingsService: settingsService}
}

// GetOfficeLocation implements SettingsHandler.
func (h *settingsHandlerImpl) GetOfficeLocation(w http.ResponseWriter, r *http.Request) {
	loc, err := h.settingsService.GetOfficeLocation(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, loc)
}

// UpdateOfficeLocation implements SettingsHandler.
func (h *settingsHandlerImpl) UpdateOfficeLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(w, r)
	if !ok {
		return
	}

	var req settings.UpdateOfficeLocationRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	req.ActorID = id.EmployeeID

	loc, err := h.settingsService.UpdateOfficeLocation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Office location updated successfully", loc)
}
