package handler

import (
	"encoding/json"
	"net/http"

	"github.com/junta-app/junta-engine/internal/domain"
	"github.com/junta-app/junta-engine/internal/service"
	"github.com/junta-app/junta-engine/pkg/response"
)

// RegisterMember handles POST /api/v1/members
func (h *Handler) RegisterMember(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	member, err := h.members.Register(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, member)
}

// GetMember handles GET /api/v1/members/{memberId}
func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	memberID, ok := pathUUID(w, r, "memberId")
	if !ok {
		return
	}

	member, err := h.members.Get(r.Context(), memberID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, member)
}

// GetMemberSummary handles GET /api/v1/members/{memberId}/summary
func (h *Handler) GetMemberSummary(w http.ResponseWriter, r *http.Request) {
	memberID, ok := pathUUID(w, r, "memberId")
	if !ok {
		return
	}

	summary, err := h.summaries.MemberSummary(r.Context(), memberID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, summary)
}

// TransactShares handles POST /api/v1/members/{memberId}/shares
func (h *Handler) TransactShares(w http.ResponseWriter, r *http.Request) {
	memberID, ok := pathUUID(w, r, "memberId")
	if !ok {
		return
	}

	var req domain.ShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	share, err := h.shares.Transact(r.Context(), memberID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, share)
}

// LevyFine handles POST /api/v1/members/{memberId}/fines
func (h *Handler) LevyFine(w http.ResponseWriter, r *http.Request) {
	memberID, ok := pathUUID(w, r, "memberId")
	if !ok {
		return
	}

	var req domain.LevyFineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	fine, err := h.fines.Levy(r.Context(), memberID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, fine)
}
