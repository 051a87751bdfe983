package http

import (
	"net/http"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/wallet"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type WalletHandler interface {
	GetMine(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	Recalculate(w http.ResponseWriter, r *http.Request)
}

type walletHandlerImpl struct {
	walletService wallet.WalletService
}

func NewWalletHandler(walletService wallet.WalletService) WalletHandler {
	return &walletHandlerImpl{walletService: walletService}
}

func (h *walletHandlerImpl) GetMine(w http.ResponseWriter, r *http.Request) {
	result, err := h.walletService.GetBalance(r.Context(), caller(r).StaffID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *walletHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	staffID := chi.URLParam(r, "staffId")
	if err := authorizeStaff(r, staffID); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.walletService.GetBalance(r.Context(), staffID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *walletHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	staffID := chi.URLParam(r, "staffId")
	if err := authorizeStaff(r, staffID); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.walletService.GetHistory(r.Context(), staffID, getIntQueryParam(r, "limit", 50))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *walletHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	staffID := chi.URLParam(r, "staffId")

	result, err := h.walletService.RecalculateWallet(r.Context(), staffID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Wallet recalculated", result)
}
