package handler

import (
	"net/http"

	"github.com/junta-app/junta-engine/pkg/response"
)

// PayFine handles POST /api/v1/fines/{fineId}/pay
func (h *Handler) PayFine(w http.ResponseWriter, r *http.Request) {
	fineID, ok := pathUUID(w, r, "fineId")
	if !ok {
		return
	}

	fine, err := h.fines.Pay(r.Context(), fineID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, fine)
}

// CancelFine handles POST /api/v1/fines/{fineId}/cancel
func (h *Handler) CancelFine(w http.ResponseWriter, r *http.Request) {
	fineID, ok := pathUUID(w, r, "fineId")
	if !ok {
		return
	}

	if err := h.fines.Cancel(r.Context(), fineID); err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, map[string]string{"cancelled": fineID.String()})
}
