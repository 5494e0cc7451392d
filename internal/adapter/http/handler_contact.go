package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/salesdeck/salesdeck/internal/usecase"
)

// ContactHandler handles HTTP requests for contacts
type ContactHandler struct {
	contactUseCase *usecase.ContactUseCase
	logger         *logrus.Logger
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactUseCase *usecase.ContactUseCase, logger *logrus.Logger) *ContactHandler {
	return &ContactHandler{contactUseCase: contactUseCase, logger: logger}
}

// RegisterRoutes registers contact routes
func (h *ContactHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/contacts", h.CreateContact).Methods("POST")
	router.HandleFunc("/api/v1/contacts", h.ListContacts).Methods("GET")
	router.HandleFunc("/api/v1/contacts/{id}", h.GetContact).Methods("GET")
	router.HandleFunc("/api/v1/contacts/{id}", h.UpdateContact).Methods("PATCH")
	router.HandleFunc("/api/v1/contacts/{id}", h.DeleteContact).Methods("DELETE")
}

// CreateContact handles contact creation
func (h *ContactHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var in usecase.CreateContactInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	contact, err := h.contactUseCase.CreateContact(r.Context(), claims.OrganizationID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, contact)
}

// ListContacts handles listing the organization's contacts
func (h *ContactHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	contacts, err := h.contactUseCase.ListContacts(r.Context(), claims.OrganizationID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"contacts": contacts,
		"total":    len(contacts),
	})
}

// GetContact handles retrieving a single contact
func (h *ContactHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	contactID := mux.Vars(r)["id"]

	contact, err := h.contactUseCase.GetContact(r.Context(), contactID, claims.OrganizationID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

// UpdateContact handles partial contact updates
func (h *ContactHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	contactID := mux.Vars(r)["id"]

	var in usecase.UpdateContactInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	contact, err := h.contactUseCase.UpdateContact(r.Context(), contactID, claims.OrganizationID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

// DeleteContact handles contact deletion
func (h *ContactHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	contactID := mux.Vars(r)["id"]

	if err := h.contactUseCase.DeleteContact(r.Context(), contactID, claims.OrganizationID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
