package handler

import (
	"encoding/json"
	"net/http"

	"github.com/junta-app/junta-engine/internal/domain"
	"github.com/junta-app/junta-engine/pkg/response"
)

// ApplyPayment handles POST /api/v1/loans/{loanId}/payments
func (h *Handler) ApplyPayment(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathUUID(w, r, "loanId")
	if !ok {
		return
	}

	var req domain.ApplyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	payment, err := h.payments.ApplyPayment(r.Context(), loanID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, payment)
}

// GetPaymentHistory handles GET /api/v1/loans/{loanId}/payments
func (h *Handler) GetPaymentHistory(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathUUID(w, r, "loanId")
	if !ok {
		return
	}

	history, err := h.payments.GetHistory(r.Context(), loanID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, history)
}

// ReversePayment handles DELETE /api/v1/payments/{paymentId}
func (h *Handler) ReversePayment(w http.ResponseWriter, r *http.Request) {
	paymentID, ok := pathUUID(w, r, "paymentId")
	if !ok {
		return
	}

	if err := h.payments.ReversePayment(r.Context(), paymentID); err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, map[string]string{"reversed": paymentID.String()})
}
