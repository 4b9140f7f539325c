package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/infra/http/middleware"
	"github.com/xavierca1/leadflow/internal/usecase"
)


type LeadHandler struct {
	submitUC    *usecase.SubmitLeadUseCase
	leadRepo    entity.LeadRepositoryInterface
	historyRepo entity.AssignmentHistoryInterface
	rateLimiter *RateLimiter
}


func NewLeadHandler(submitUC *usecase.SubmitLeadUseCase, leadRepo entity.LeadRepositoryInterface, historyRepo entity.AssignmentHistoryInterface) *LeadHandler {
	return &LeadHandler{
		submitUC:    submitUC,
		leadRepo:    leadRepo,
		historyRepo: historyRepo,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min por IP
	}
}


type SubmitLeadResponse struct {
	Success bool                      `json:"success"`
	Message string                    `json:"message,omitempty"`
	Lead    *usecase.SubmitLeadOutput `json:"lead,omitempty"`
}


func (h *LeadHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(SubmitLeadResponse{
			Success: false,
			Message: "Too many requests. Please try again later.",
		})
		return
	}

	var input usecase.SubmitLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(SubmitLeadResponse{
			Success: false,
			Message: "Invalid JSON",
		})
		return
	}

	output, err := h.submitUC.Execute(ctx, input)
	if err != nil {
		status := http.StatusInternalServerError
		if usecase.IsDomainError(err) {
			status = http.StatusUnprocessableEntity
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(SubmitLeadResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	middleware.RecordLeadSubmitted()
	if output.AssigneeID != "" {
		middleware.RecordAssignment(entity.ReasonInitial)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SubmitLeadResponse{
		Success: true,
		Lead:    output,
	})
}


func (h *LeadHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadId")

	lead, err := h.leadRepo.FindByID(r.Context(), leadID)
	if err != nil {
		http.Error(w, "lead not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lead)
}


func (h *LeadHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadId")

	events, err := h.historyRepo.ListByLead(r.Context(), leadID)
	if err != nil {
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}


func getClientIP(r *http.Request) string {

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	return r.RemoteAddr
}


type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}


func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}


func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}


func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
