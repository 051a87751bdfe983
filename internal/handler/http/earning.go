package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/earning"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type EarningHandler interface {
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	ApprovePeriod(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type earningHandlerImpl struct {
	earningService earning.EarningService
}

func NewEarningHandler(earningService earning.EarningService) EarningHandler {
	return &earningHandlerImpl{earningService: earningService}
}

func (h *earningHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	req := earning.DecideEarningRequest{ID: chi.URLParam(r, "id"), DecidedBy: caller(r).UserID}

	result, err := h.earningService.ApproveEarning(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Earning approved", result)
}

func (h *earningHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	req := earning.DecideEarningRequest{ID: chi.URLParam(r, "id"), DecidedBy: caller(r).UserID}

	result, err := h.earningService.RejectEarning(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Earning rejected", result)
}

func (h *earningHandlerImpl) ApprovePeriod(w http.ResponseWriter, r *http.Request) {
	var req earning.ApprovePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.DecidedBy = caller(r).UserID

	result, err := h.earningService.ApproveEarningsForPeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Earnings approved", result)
}

func (h *earningHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var errs validator.ValidationErrors
	month, year := periodQuery(r, &errs)
	filter := earning.Filter{
		StaffID:     scopeStaffFilter(r),
		PeriodMonth: month,
		PeriodYear:  year,
		Page:        getIntQueryParam(r, "page", 1),
		Limit:       getIntQueryParam(r, "limit", 20),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		s := earning.Status(status)
		filter.Status = &s
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.earningService.ListEarnings(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}
