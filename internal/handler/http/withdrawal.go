package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/withdrawal"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type WithdrawalHandler interface {
	Request(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Resolve(w http.ResponseWriter, r *http.Request)
}

type withdrawalHandlerImpl struct {
	withdrawalService withdrawal.WithdrawalService
}

func NewWithdrawalHandler(withdrawalService withdrawal.WithdrawalService) WithdrawalHandler {
	return &withdrawalHandlerImpl{withdrawalService: withdrawalService}
}

// Request files a withdrawal from the caller's own wallet.
func (h *withdrawalHandlerImpl) Request(w http.ResponseWriter, r *http.Request) {
	var req withdrawal.RequestWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	staffID := caller(r).StaffID
	if req.StaffID != "" && req.StaffID != staffID {
		response.HandleError(w, withdrawal.ErrNotOwner)
		return
	}
	req.StaffID = staffID

	result, err := h.withdrawalService.RequestWithdrawal(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Withdrawal requested", result)
}

func (h *withdrawalHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := withdrawal.WithdrawalFilter{
		StaffID: scopeStaffFilter(r),
		Page:    getIntQueryParam(r, "page", 1),
		Limit:   getIntQueryParam(r, "limit", 20),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		s := withdrawal.Status(status)
		filter.Status = &s
	}

	result, err := h.withdrawalService.ListWithdrawals(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

func (h *withdrawalHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.withdrawalService.GetWithdrawal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if err := authorizeStaff(r, result.StaffID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *withdrawalHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	var req withdrawal.ResolveWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ResolvedBy = caller(r).UserID

	result, err := h.withdrawalService.ResolveWithdrawal(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Withdrawal "+result.Status, result)
}
