package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/infra/http/middleware"
	"github.com/xavierca1/leadflow/internal/usecase"
)


type AssignmentHandler struct {
	assignUC *usecase.AssignLeadUseCase
}

func NewAssignmentHandler(assignUC *usecase.AssignLeadUseCase) *AssignmentHandler {
	return &AssignmentHandler{assignUC: assignUC}
}


type ManualAssignRequest struct {
	// TargetUserID vazio deixa o round-robin decidir.
	TargetUserID string `json:"target_user_id,omitempty"`
}


// Handle cobre a reatribuição manual feita por admin/manager no dashboard.
func (h *AssignmentHandler) Handle(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadId")

	var req ManualAssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	output, err := h.assignUC.Execute(r.Context(), usecase.AssignLeadInput{
		LeadID:       leadID,
		Reason:       entity.ReasonManual,
		TargetUserID: req.TargetUserID,
	})
	if err != nil {
		if usecase.IsDomainError(err) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	middleware.RecordAssignment(entity.ReasonManual)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(output)
}
