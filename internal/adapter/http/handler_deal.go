package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/salesdeck/salesdeck/internal/usecase"
)

// DealHandler handles HTTP requests for deals
type DealHandler struct {
	dealUseCase *usecase.DealUseCase
	logger      *logrus.Logger
}

// NewDealHandler creates a new deal handler
func NewDealHandler(dealUseCase *usecase.DealUseCase, logger *logrus.Logger) *DealHandler {
	return &DealHandler{dealUseCase: dealUseCase, logger: logger}
}

// RegisterRoutes registers deal routes
func (h *DealHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/deals", h.CreateDeal).Methods("POST")
	router.HandleFunc("/api/v1/deals", h.ListDeals).Methods("GET")
	router.HandleFunc("/api/v1/deals/{id}", h.GetDeal).Methods("GET")
	router.HandleFunc("/api/v1/deals/{id}", h.UpdateDeal).Methods("PATCH")
	router.HandleFunc("/api/v1/deals/{id}", h.DeleteDeal).Methods("DELETE")
}

// CreateDeal handles deal creation
func (h *DealHandler) CreateDeal(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var in usecase.CreateDealInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	deal, err := h.dealUseCase.CreateDeal(r.Context(), claims.OrganizationID, claims.UserID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, deal)
}

// ListDeals handles listing the organization's deals
func (h *DealHandler) ListDeals(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	deals, err := h.dealUseCase.ListDeals(r.Context(), claims.OrganizationID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deals": deals,
		"total": len(deals),
	})
}

// GetDeal handles retrieving a single deal
func (h *DealHandler) GetDeal(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	dealID := mux.Vars(r)["id"]

	deal, err := h.dealUseCase.GetDeal(r.Context(), dealID, claims.OrganizationID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, deal)
}

// UpdateDeal handles partial deal updates
func (h *DealHandler) UpdateDeal(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	dealID := mux.Vars(r)["id"]

	var in usecase.UpdateDealInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	deal, err := h.dealUseCase.UpdateDeal(r.Context(), dealID, claims.OrganizationID, claims.UserID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, deal)
}

// DeleteDeal handles deal deletion
func (h *DealHandler) DeleteDeal(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	dealID := mux.Vars(r)["id"]

	if err := h.dealUseCase.DeleteDeal(r.Context(), dealID, claims.OrganizationID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
