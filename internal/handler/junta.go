package handler

import (
	"encoding/json"
	"net/http"

	"github.com/junta-app/junta-engine/internal/domain"
	"github.com/junta-app/junta-engine/pkg/response"
)

// GetJuntaCapital handles GET /api/v1/juntas/{juntaId}/capital
func (h *Handler) GetJuntaCapital(w http.ResponseWriter, r *http.Request) {
	juntaID, ok := pathUUID(w, r, "juntaId")
	if !ok {
		return
	}

	balances, err := h.summaries.JuntaBalances(r.Context(), juntaID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, balances)
}

// Contribute handles POST /api/v1/juntas/{juntaId}/capital/contributions
func (h *Handler) Contribute(w http.ResponseWriter, r *http.Request) {
	juntaID, ok := pathUUID(w, r, "juntaId")
	if !ok {
		return
	}

	var req domain.ContributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	err := h.capital.ApplyMovement(
		r.Context(), juntaID, req.Amount,
		domain.MovementDirectionIn, domain.MovementSourceBaseContribution, req.MemberID,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	balances, err := h.capital.GetBalances(r.Context(), juntaID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, balances)
}
