package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/junta-app/junta-engine/internal/domain"
	"github.com/junta-app/junta-engine/pkg/response"
)

// RequestLoan handles POST /api/v1/loans
func (h *Handler) RequestLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.RequestLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	resp, err := h.loans.RequestLoan(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, resp)
}

// GetLoan handles GET /api/v1/loans/{loanId}
func (h *Handler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathUUID(w, r, "loanId")
	if !ok {
		return
	}

	resp, err := h.loans.GetLoan(r.Context(), loanID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, resp)
}

// GetLoanStatus handles GET /api/v1/loans/{loanId}/status
func (h *Handler) GetLoanStatus(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathUUID(w, r, "loanId")
	if !ok {
		return
	}

	status, err := h.summaries.LoanStatus(r.Context(), loanID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, status)
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "invalid "+name, err)
		return uuid.Nil, false
	}
	return id, true
}
