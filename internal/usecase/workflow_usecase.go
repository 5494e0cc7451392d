package usecase

import (
	"context"
	"fmt"

	"github.com/salesdeck/salesdeck/internal/domain"
	"github.com/salesdeck/salesdeck/internal/ports"
)

// CreateWorkflowInput represents the request to create a workflow
type CreateWorkflowInput struct {
	Name   string             `json:"name" validate:"required,min=1,max=100"`
	Stages []domain.StageSeed `json:"stages" validate:"dive"`
}

// UpdateWorkflowInput represents a partial workflow update
type UpdateWorkflowInput struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
}

// AddStageInput represents the request to add a stage to a workflow
type AddStageInput struct {
	Name     string  `json:"name" validate:"required,min=1,max=100"`
	Position int     `json:"order" validate:"gte=0"`
	Color    *string `json:"color" validate:"omitempty,max=20"`
}

// UpdateStageInput represents a partial stage update
type UpdateStageInput struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Position *int    `json:"order" validate:"omitempty,gte=0"`
	Color    *string `json:"color" validate:"omitempty,max=20"`
}

// WorkflowUseCase handles workflow and stage management. Workflows are the
// stage registry the history ledger and analytics resolve stage names from.
type WorkflowUseCase struct {
	workflowRepo ports.WorkflowRepository
}

// NewWorkflowUseCase creates a new workflow use case
func NewWorkflowUseCase(workflowRepo ports.WorkflowRepository) *WorkflowUseCase {
	return &WorkflowUseCase{workflowRepo: workflowRepo}
}

// ListWorkflows retrieves all workflows of an organization with their stages
func (uc *WorkflowUseCase) ListWorkflows(ctx context.Context, organizationID string) ([]*domain.Workflow, error) {
	workflows, err := uc.workflowRepo.FindAllByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}
	if workflows == nil {
		workflows = []*domain.Workflow{}
	}
	return workflows, nil
}

// GetWorkflow retrieves a workflow scoped to the caller's organization
func (uc *WorkflowUseCase) GetWorkflow(ctx context.Context, id, organizationID string) (*domain.Workflow, error) {
	workflow, err := uc.workflowRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if workflow.OrganizationID != organizationID {
		return nil, domain.ErrAccessDenied
	}
	return workflow, nil
}

// CreateWorkflow creates a workflow, optionally with initial stages
func (uc *WorkflowUseCase) CreateWorkflow(ctx context.Context, organizationID string, in CreateWorkflowInput) (*domain.Workflow, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	workflow := domain.NewWorkflow(organizationID, in.Name)
	for _, seed := range in.Stages {
		workflow.Stages = append(workflow.Stages, *domain.NewStage(workflow.ID, seed.Name, seed.Position, seed.Color))
	}

	if err := uc.workflowRepo.Create(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}
	return workflow, nil
}

// UpdateWorkflow renames a workflow
func (uc *WorkflowUseCase) UpdateWorkflow(ctx context.Context, id, organizationID string, in UpdateWorkflowInput) (*domain.Workflow, error) {
	workflow, err := uc.GetWorkflow(ctx, id, organizationID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		workflow.Name = *in.Name
	}

	if err := uc.workflowRepo.Update(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to update workflow: %w", err)
	}
	return workflow, nil
}

// DeleteWorkflow removes a workflow and its stages. History entries that
// referenced those stages keep their rows; their stage joins resolve to nil
// from then on.
func (uc *WorkflowUseCase) DeleteWorkflow(ctx context.Context, id, organizationID string) error {
	if _, err := uc.GetWorkflow(ctx, id, organizationID); err != nil {
		return err
	}
	if err := uc.workflowRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete workflow: %w", err)
	}
	return nil
}

// AddStage appends a stage to a workflow
func (uc *WorkflowUseCase) AddStage(ctx context.Context, workflowID, organizationID string, in AddStageInput) (*domain.Stage, error) {
	if _, err := uc.GetWorkflow(ctx, workflowID, organizationID); err != nil {
		return nil, err
	}

	stage := domain.NewStage(workflowID, in.Name, in.Position, in.Color)
	if err := uc.workflowRepo.AddStage(ctx, stage); err != nil {
		return nil, fmt.Errorf("failed to add stage: %w", err)
	}
	return stage, nil
}

// UpdateStage applies a partial update to a stage
func (uc *WorkflowUseCase) UpdateStage(ctx context.Context, stageID, organizationID string, in UpdateStageInput) (*domain.Stage, error) {
	stage, err := uc.workflowRepo.FindStageByID(ctx, stageID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.GetWorkflow(ctx, stage.WorkflowID, organizationID); err != nil {
		return nil, err
	}

	if in.Name != nil {
		stage.Name = *in.Name
	}
	if in.Position != nil {
		stage.Position = *in.Position
	}
	if in.Color != nil {
		stage.Color = in.Color
	}

	if err := uc.workflowRepo.UpdateStage(ctx, stage); err != nil {
		return nil, fmt.Errorf("failed to update stage: %w", err)
	}
	return stage, nil
}

// DeleteStage removes a stage from its workflow
func (uc *WorkflowUseCase) DeleteStage(ctx context.Context, stageID, organizationID string) error {
	stage, err := uc.workflowRepo.FindStageByID(ctx, stageID)
	if err != nil {
		return err
	}
	if _, err := uc.GetWorkflow(ctx, stage.WorkflowID, organizationID); err != nil {
		return err
	}
	if err := uc.workflowRepo.DeleteStage(ctx, stageID); err != nil {
		return fmt.Errorf("failed to delete stage: %w", err)
	}
	return nil
}
