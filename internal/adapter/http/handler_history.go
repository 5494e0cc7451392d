package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/salesdeck/salesdeck/internal/usecase"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
)

// HistoryHandler handles HTTP requests for the stage history ledger and the
// analytics views derived from it.
type HistoryHandler struct {
	dealUseCase      *usecase.DealUseCase
	historyUseCase   *usecase.StageHistoryUseCase
	analyticsUseCase *usecase.AnalyticsUseCase
	logger           *logrus.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(
	dealUseCase *usecase.DealUseCase,
	historyUseCase *usecase.StageHistoryUseCase,
	analyticsUseCase *usecase.AnalyticsUseCase,
	logger *logrus.Logger,
) *HistoryHandler {
	return &HistoryHandler{
		dealUseCase:      dealUseCase,
		historyUseCase:   historyUseCase,
		analyticsUseCase: analyticsUseCase,
		logger:           logger,
	}
}

// RegisterRoutes registers history and analytics routes
func (h *HistoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/deals/{dealId}/history", h.GetDealHistory).Methods("GET")
	router.HandleFunc("/api/v1/deals/{dealId}/analytics", h.GetDealAnalytics).Methods("GET")
	router.HandleFunc("/api/v1/analytics/stage-durations", h.GetStageAnalytics).Methods("GET")
	router.HandleFunc("/api/v1/analytics/organization-history", h.GetOrganizationHistory).Methods("GET")
}

// GetDealHistory returns a deal's full transition history in chronological order
func (h *HistoryHandler) GetDealHistory(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	dealID := mux.Vars(r)["dealId"]

	// Scope check before touching the ledger.
	if _, err := h.dealUseCase.GetDeal(r.Context(), dealID, claims.OrganizationID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	history, err := h.historyUseCase.GetHistory(r.Context(), dealID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dealId":       dealID,
		"history":      history,
		"totalEntries": len(history),
	})
}

// GetDealAnalytics returns one deal's pipeline journey summary
func (h *HistoryHandler) GetDealAnalytics(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	dealID := mux.Vars(r)["dealId"]

	if _, err := h.dealUseCase.GetDeal(r.Context(), dealID, claims.OrganizationID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	analytics, err := h.analyticsUseCase.GetDealAnalytics(r.Context(), dealID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, analytics)
}

// GetStageAnalytics returns per-stage dwell time aggregates for the caller's
// organization
func (h *HistoryHandler) GetStageAnalytics(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	stats, err := h.analyticsUseCase.GetStageAnalytics(r.Context(), claims.OrganizationID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"organizationId": claims.OrganizationID,
		"stageAnalytics": stats,
		"totalStages":    len(stats),
	})
}

// GetOrganizationHistory returns the organization-wide transition feed with
// offset pagination
func (h *HistoryHandler) GetOrganizationHistory(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			offset = n
		}
	}

	history, err := h.analyticsUseCase.GetOrganizationHistory(r.Context(), claims.OrganizationID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	total := len(history)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := history[offset:end]

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"organizationId": claims.OrganizationID,
		"history":        page,
		"total":          total,
		"limit":          limit,
		"offset":         offset,
	})
}
