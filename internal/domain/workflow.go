package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stage is a named step in an organization's sales pipeline.
type Stage struct {
	ID         string  `json:"id"`
	WorkflowID string  `json:"workflowId"`
	Name       string  `json:"name"`
	Position   int     `json:"order"`
	Color      *string `json:"color"`
}

// Workflow is an ordered set of stages that deals move through.
type Workflow struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	Name           string    `json:"name"`
	Stages         []Stage   `json:"stages"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewWorkflow creates a workflow without stages
func NewWorkflow(organizationID, name string) *Workflow {
	return &Workflow{
		ID:             uuid.NewString(),
		OrganizationID: organizationID,
		Name:           name,
		Stages:         []Stage{},
		CreatedAt:      time.Now(),
	}
}

// NewStage creates a stage within a workflow
func NewStage(workflowID, name string, position int, color *string) *Stage {
	return &Stage{
		ID:         uuid.NewString(),
		WorkflowID: workflowID,
		Name:       name,
		Position:   position,
		Color:      color,
	}
}

// StageSeed describes one stage of a workflow being created.
type StageSeed struct {
	Name     string  `json:"name"`
	Position int     `json:"order"`
	Color    *string `json:"color"`
}

// DefaultPipelineStages are the stages seeded into every new organization's
// "Sales Pipeline" workflow at registration.
func DefaultPipelineStages() []StageSeed {
	color := func(hex string) *string { return &hex }
	return []StageSeed{
		{Name: "Lead", Position: 1, Color: color("#6B7280")},
		{Name: "Qualified", Position: 2, Color: color("#3B82F6")},
		{Name: "Proposal", Position: 3, Color: color("#8B5CF6")},
		{Name: "Negotiation", Position: 4, Color: color("#F59E0B")},
		{Name: "Won", Position: 5, Color: color("#10B981")},
		{Name: "Lost", Position: 6, Color: color("#EF4444")},
	}
}
