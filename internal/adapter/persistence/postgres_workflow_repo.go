package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/salesdeck/salesdeck/internal/domain"
	"github.com/salesdeck/salesdeck/internal/ports"
)

// PostgresWorkflowRepository implements WorkflowRepository using PostgreSQL
type PostgresWorkflowRepository struct {
	db *sql.DB
}

// NewPostgresWorkflowRepository creates a new PostgreSQL workflow repository
func NewPostgresWorkflowRepository(db *sql.DB) ports.WorkflowRepository {
	return &PostgresWorkflowRepository{db: db}
}

// Create saves a workflow together with its stages
func (r *PostgresWorkflowRepository) Create(ctx context.Context, workflow *domain.Workflow) error {
	query := `
		INSERT INTO workflows (id, organization_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`

	ex := executor(ctx, r.db)
	_, err := ex.ExecContext(ctx, query,
		workflow.ID,
		workflow.OrganizationID,
		workflow.Name,
		workflow.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create workflow: %w", err)
	}

	for i := range workflow.Stages {
		if err := r.insertStage(ctx, ex, &workflow.Stages[i]); err != nil {
			return err
		}
	}
	return nil
}

// FindByID retrieves a workflow with its stages ordered by position
func (r *PostgresWorkflowRepository) FindByID(ctx context.Context, id string) (*domain.Workflow, error) {
	query := `
		SELECT id, organization_id, name, created_at
		FROM workflows
		WHERE id = $1
	`

	var workflow domain.Workflow
	err := executor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&workflow.ID,
		&workflow.OrganizationID,
		&workflow.Name,
		&workflow.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrWorkflowNotFound
		}
		return nil, fmt.Errorf("failed to find workflow: %w", err)
	}

	stages, err := r.stagesOf(ctx, id)
	if err != nil {
		return nil, err
	}
	workflow.Stages = stages
	return &workflow, nil
}

// FindAllByOrganization retrieves all workflows of an organization
func (r *PostgresWorkflowRepository) FindAllByOrganization(ctx context.Context, organizationID string) ([]*domain.Workflow, error) {
	query := `
		SELECT id, organization_id, name, created_at
		FROM workflows
		WHERE organization_id = $1
		ORDER BY created_at ASC
	`

	rows, err := executor(ctx, r.db).QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query workflows: %w", err)
	}
	defer rows.Close()

	var workflows []*domain.Workflow
	for rows.Next() {
		var workflow domain.Workflow
		if err := rows.Scan(&workflow.ID, &workflow.OrganizationID, &workflow.Name, &workflow.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan workflow: %w", err)
		}
		workflows = append(workflows, &workflow)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workflows: %w", err)
	}

	for _, workflow := range workflows {
		stages, err := r.stagesOf(ctx, workflow.ID)
		if err != nil {
			return nil, err
		}
		workflow.Stages = stages
	}
	return workflows, nil
}

// Update updates workflow attributes
func (r *PostgresWorkflowRepository) Update(ctx context.Context, workflow *domain.Workflow) error {
	query := `UPDATE workflows SET name = $2 WHERE id = $1`

	result, err := executor(ctx, r.db).ExecContext(ctx, query, workflow.ID, workflow.Name)
	if err != nil {
		return fmt.Errorf("failed to update workflow: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrWorkflowNotFound
	}
	return nil
}

// Delete removes a workflow; its stages cascade at the schema level
func (r *PostgresWorkflowRepository) Delete(ctx context.Context, id string) error {
	result, err := executor(ctx, r.db).ExecContext(ctx, `DELETE FROM workflows WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete workflow: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrWorkflowNotFound
	}
	return nil
}

// AddStage saves a new stage
func (r *PostgresWorkflowRepository) AddStage(ctx context.Context, stage *domain.Stage) error {
	return r.insertStage(ctx, executor(ctx, r.db), stage)
}

// UpdateStage updates an existing stage
func (r *PostgresWorkflowRepository) UpdateStage(ctx context.Context, stage *domain.Stage) error {
	query := `UPDATE stages SET name = $2, position = $3, color = $4 WHERE id = $1`

	result, err := executor(ctx, r.db).ExecContext(ctx, query, stage.ID, stage.Name, stage.Position, stage.Color)
	if err != nil {
		return fmt.Errorf("failed to update stage: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrStageNotFound
	}
	return nil
}

// DeleteStage removes a stage
func (r *PostgresWorkflowRepository) DeleteStage(ctx context.Context, id string) error {
	result, err := executor(ctx, r.db).ExecContext(ctx, `DELETE FROM stages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete stage: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrStageNotFound
	}
	return nil
}

// FindStageByID retrieves a single stage
func (r *PostgresWorkflowRepository) FindStageByID(ctx context.Context, id string) (*domain.Stage, error) {
	query := `
		SELECT id, workflow_id, name, position, color
		FROM stages
		WHERE id = $1
	`

	var stage domain.Stage
	err := executor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&stage.ID,
		&stage.WorkflowID,
		&stage.Name,
		&stage.Position,
		&stage.Color,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrStageNotFound
		}
		return nil, fmt.Errorf("failed to find stage: %w", err)
	}
	return &stage, nil
}

func (r *PostgresWorkflowRepository) insertStage(ctx context.Context, ex DBTX, stage *domain.Stage) error {
	query := `
		INSERT INTO stages (id, workflow_id, name, position, color)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := ex.ExecContext(ctx, query, stage.ID, stage.WorkflowID, stage.Name, stage.Position, stage.Color)
	if err != nil {
		return fmt.Errorf("failed to create stage: %w", err)
	}
	return nil
}

func (r *PostgresWorkflowRepository) stagesOf(ctx context.Context, workflowID string) ([]domain.Stage, error) {
	query := `
		SELECT id, workflow_id, name, position, color
		FROM stages
		WHERE workflow_id = $1
		ORDER BY position ASC
	`

	rows, err := executor(ctx, r.db).QueryContext(ctx, query, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stages: %w", err)
	}
	defer rows.Close()

	stages := []domain.Stage{}
	for rows.Next() {
		var stage domain.Stage
		if err := rows.Scan(&stage.ID, &stage.WorkflowID, &stage.Name, &stage.Position, &stage.Color); err != nil {
			return nil, fmt.Errorf("failed to scan stage: %w", err)
		}
		stages = append(stages, stage)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stages: %w", err)
	}
	return stages, nil
}
