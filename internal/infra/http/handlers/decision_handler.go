package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/leadflow/internal/usecase"
)


type DecisionHandler struct {
	decideUC *usecase.DecideLeadUseCase
}

func NewDecisionHandler(decideUC *usecase.DecideLeadUseCase) *DecisionHandler {
	return &DecisionHandler{decideUC: decideUC}
}


type DecisionRequest struct {
	Decision string `json:"decision"` // accept, reject, resubmit
	Note     string `json:"note,omitempty"`
}


func (h *DecisionHandler) Handle(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadId")

	var req DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	output, err := h.decideUC.Execute(r.Context(), usecase.DecideLeadInput{
		LeadID:   leadID,
		Decision: req.Decision,
		Note:     req.Note,
	})
	if err != nil {
		if usecase.IsDomainError(err) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(output)
}
