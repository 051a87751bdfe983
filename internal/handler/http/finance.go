package http

import (
	"net/http"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/finance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/validator"
)

type FinanceHandler interface {
	ListTransactions(w http.ResponseWriter, r *http.Request)
}

type financeHandlerImpl struct {
	financeService finance.FinanceService
}

func NewFinanceHandler(financeService finance.FinanceService) FinanceHandler {
	return &financeHandlerImpl{financeService: financeService}
}

func (h *financeHandlerImpl) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := finance.TransactionFilter{
		Page:  getIntQueryParam(r, "page", 1),
		Limit: getIntQueryParam(r, "limit", 20),
	}
	if v := q.Get("type"); v != "" {
		t := finance.TransactionType(v)
		filter.Type = &t
	}
	if v := q.Get("source_kind"); v != "" {
		k := finance.PaymentKind(v)
		filter.SourceKind = &k
	}

	var errs validator.ValidationErrors
	from, ok := finance.ParseFilterDate(q.Get("from"))
	if !ok {
		errs.Add("from", "must be in YYYY-MM-DD format")
	}
	to, ok := finance.ParseFilterDate(q.Get("to"))
	if !ok {
		errs.Add("to", "must be in YYYY-MM-DD format")
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}
	filter.From, filter.To = from, to

	result, err := h.financeService.ListTransactions(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}
