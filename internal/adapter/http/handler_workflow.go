package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/salesdeck/salesdeck/internal/usecase"
)

// WorkflowHandler handles HTTP requests for workflows and their stages
type WorkflowHandler struct {
	workflowUseCase *usecase.WorkflowUseCase
	logger          *logrus.Logger
}

// NewWorkflowHandler creates a new workflow handler
func NewWorkflowHandler(workflowUseCase *usecase.WorkflowUseCase, logger *logrus.Logger) *WorkflowHandler {
	return &WorkflowHandler{workflowUseCase: workflowUseCase, logger: logger}
}

// RegisterRoutes registers workflow routes
func (h *WorkflowHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/workflows", h.CreateWorkflow).Methods("POST")
	router.HandleFunc("/api/v1/workflows", h.ListWorkflows).Methods("GET")
	router.HandleFunc("/api/v1/workflows/{id}", h.GetWorkflow).Methods("GET")
	router.HandleFunc("/api/v1/workflows/{id}", h.UpdateWorkflow).Methods("PATCH")
	router.HandleFunc("/api/v1/workflows/{id}", h.DeleteWorkflow).Methods("DELETE")
	router.HandleFunc("/api/v1/workflows/{id}/stages", h.AddStage).Methods("POST")
	router.HandleFunc("/api/v1/stages/{id}", h.UpdateStage).Methods("PATCH")
	router.HandleFunc("/api/v1/stages/{id}", h.DeleteStage).Methods("DELETE")
}

// CreateWorkflow handles workflow creation
func (h *WorkflowHandler) CreateWorkflow(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var in usecase.CreateWorkflowInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	workflow, err := h.workflowUseCase.CreateWorkflow(r.Context(), claims.OrganizationID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, workflow)
}

// ListWorkflows handles listing the organization's workflows
func (h *WorkflowHandler) ListWorkflows(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	workflows, err := h.workflowUseCase.ListWorkflows(r.Context(), claims.OrganizationID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"workflows": workflows,
		"total":     len(workflows),
	})
}

// GetWorkflow handles retrieving a single workflow with its stages
func (h *WorkflowHandler) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	workflowID := mux.Vars(r)["id"]

	workflow, err := h.workflowUseCase.GetWorkflow(r.Context(), workflowID, claims.OrganizationID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, workflow)
}

// UpdateWorkflow handles workflow renames
func (h *WorkflowHandler) UpdateWorkflow(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	workflowID := mux.Vars(r)["id"]

	var in usecase.UpdateWorkflowInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	workflow, err := h.workflowUseCase.UpdateWorkflow(r.Context(), workflowID, claims.OrganizationID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, workflow)
}

// DeleteWorkflow handles workflow deletion
func (h *WorkflowHandler) DeleteWorkflow(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	workflowID := mux.Vars(r)["id"]

	if err := h.workflowUseCase.DeleteWorkflow(r.Context(), workflowID, claims.OrganizationID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddStage handles adding a stage to a workflow
func (h *WorkflowHandler) AddStage(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	workflowID := mux.Vars(r)["id"]

	var in usecase.AddStageInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	stage, err := h.workflowUseCase.AddStage(r.Context(), workflowID, claims.OrganizationID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, stage)
}

// UpdateStage handles partial stage updates
func (h *WorkflowHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	stageID := mux.Vars(r)["id"]

	var in usecase.UpdateStageInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	stage, err := h.workflowUseCase.UpdateStage(r.Context(), stageID, claims.OrganizationID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, stage)
}

// DeleteStage handles stage deletion. History entries that reference the
// stage keep their recorded durations and show up as "Unknown Stage" in
// analytics afterwards.
func (h *WorkflowHandler) DeleteStage(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	stageID := mux.Vars(r)["id"]

	if err := h.workflowUseCase.DeleteStage(r.Context(), stageID, claims.OrganizationID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
