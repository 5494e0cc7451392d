package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/salesdeck/salesdeck/internal/domain"
	"github.com/salesdeck/salesdeck/internal/usecase"
)

// OrganizationHandler handles HTTP requests for organization settings
type OrganizationHandler struct {
	orgUseCase *usecase.OrganizationUseCase
	logger     *logrus.Logger
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(orgUseCase *usecase.OrganizationUseCase, logger *logrus.Logger) *OrganizationHandler {
	return &OrganizationHandler{orgUseCase: orgUseCase, logger: logger}
}

// RegisterRoutes registers organization routes
func (h *OrganizationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/organizations/{id}", h.GetOrganization).Methods("GET")
	router.HandleFunc("/api/v1/organizations/{id}", h.UpdateOrganization).Methods("PATCH")
	router.HandleFunc("/api/v1/organizations/{id}/members", h.ListMembers).Methods("GET")
}

// GetOrganization handles retrieving the caller's organization
func (h *OrganizationHandler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	orgID := mux.Vars(r)["id"]

	org, err := h.orgUseCase.GetOrganization(r.Context(), orgID, claims.OrganizationID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, org)
}

// UpdateOrganization handles organization renames
func (h *OrganizationHandler) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	orgID := mux.Vars(r)["id"]

	var in usecase.UpdateOrganizationInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	org, err := h.orgUseCase.UpdateOrganization(r.Context(), orgID, claims.OrganizationID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, org)
}

// ListMembers handles listing the organization's users
func (h *OrganizationHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	orgID := mux.Vars(r)["id"]

	if orgID != claims.OrganizationID {
		writeError(w, h.logger, domain.ErrAccessDenied)
		return
	}

	members, err := h.orgUseCase.ListMembers(r.Context(), orgID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"members": members,
		"total":   len(members),
	})
}
