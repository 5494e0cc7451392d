package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/salesdeck/salesdeck/internal/domain"
	"github.com/salesdeck/salesdeck/internal/ports"
)

// ContactRepository is an in-memory implementation of ports.ContactRepository
type ContactRepository struct {
	mu       sync.RWMutex
	contacts map[string]domain.Contact
}

// NewContactRepository creates an empty in-memory contact repository
func NewContactRepository() *ContactRepository {
	return &ContactRepository{contacts: make(map[string]domain.Contact)}
}

func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contacts[contact.ID] = *contact
	return nil
}

func (r *ContactRepository) FindByID(ctx context.Context, id string) (*domain.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	contact, ok := r.contacts[id]
	if !ok {
		return nil, domain.ErrContactNotFound
	}
	return &contact, nil
}

func (r *ContactRepository) FindAllByOrganization(ctx context.Context, organizationID string) ([]*domain.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var contacts []*domain.Contact
	for _, contact := range r.contacts {
		if contact.OrganizationID == organizationID {
			c := contact
			contacts = append(contacts, &c)
		}
	}
	sort.Slice(contacts, func(i, j int) bool { return contacts[i].CreatedAt.After(contacts[j].CreatedAt) })
	return contacts, nil
}

func (r *ContactRepository) Update(ctx context.Context, contact *domain.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contacts[contact.ID]; !ok {
		return domain.ErrContactNotFound
	}
	r.contacts[contact.ID] = *contact
	return nil
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contacts[id]; !ok {
		return domain.ErrContactNotFound
	}
	delete(r.contacts, id)
	return nil
}

// WorkflowRepository is an in-memory implementation of ports.WorkflowRepository
type WorkflowRepository struct {
	mu        sync.RWMutex
	workflows map[string]domain.Workflow
	stages    map[string]domain.Stage
}

// NewWorkflowRepository creates an empty in-memory workflow repository
func NewWorkflowRepository() *WorkflowRepository {
	return &WorkflowRepository{
		workflows: make(map[string]domain.Workflow),
		stages:    make(map[string]domain.Stage),
	}
}

func (r *WorkflowRepository) Create(ctx context.Context, workflow *domain.Workflow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w := *workflow
	w.Stages = nil
	r.workflows[w.ID] = w
	for _, stage := range workflow.Stages {
		r.stages[stage.ID] = stage
	}
	return nil
}

func (r *WorkflowRepository) FindByID(ctx context.Context, id string) (*domain.Workflow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	workflow, ok := r.workflows[id]
	if !ok {
		return nil, domain.ErrWorkflowNotFound
	}
	workflow.Stages = r.stagesOfLocked(id)
	return &workflow, nil
}

func (r *WorkflowRepository) FindAllByOrganization(ctx context.Context, organizationID string) ([]*domain.Workflow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var workflows []*domain.Workflow
	for _, workflow := range r.workflows {
		if workflow.OrganizationID == organizationID {
			w := workflow
			w.Stages = r.stagesOfLocked(w.ID)
			workflows = append(workflows, &w)
		}
	}
	sort.Slice(workflows, func(i, j int) bool { return workflows[i].CreatedAt.Before(workflows[j].CreatedAt) })
	return workflows, nil
}

func (r *WorkflowRepository) Update(ctx context.Context, workflow *domain.Workflow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.workflows[workflow.ID]
	if !ok {
		return domain.ErrWorkflowNotFound
	}
	stored.Name = workflow.Name
	r.workflows[workflow.ID] = stored
	return nil
}

func (r *WorkflowRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.workflows[id]; !ok {
		return domain.ErrWorkflowNotFound
	}
	delete(r.workflows, id)
	for stageID, stage := range r.stages {
		if stage.WorkflowID == id {
			delete(r.stages, stageID)
		}
	}
	return nil
}

func (r *WorkflowRepository) AddStage(ctx context.Context, stage *domain.Stage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages[stage.ID] = *stage
	return nil
}

func (r *WorkflowRepository) UpdateStage(ctx context.Context, stage *domain.Stage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stages[stage.ID]; !ok {
		return domain.ErrStageNotFound
	}
	r.stages[stage.ID] = *stage
	return nil
}

func (r *WorkflowRepository) DeleteStage(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stages[id]; !ok {
		return domain.ErrStageNotFound
	}
	delete(r.stages, id)
	return nil
}

func (r *WorkflowRepository) FindStageByID(ctx context.Context, id string) (*domain.Stage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stage, ok := r.stages[id]
	if !ok {
		return nil, domain.ErrStageNotFound
	}
	return &stage, nil
}

func (r *WorkflowRepository) stagesOfLocked(workflowID string) []domain.Stage {
	stages := []domain.Stage{}
	for _, stage := range r.stages {
		if stage.WorkflowID == workflowID {
			stages = append(stages, stage)
		}
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i].Position < stages[j].Position })
	return stages
}

// DealRepository is an in-memory implementation of ports.DealRepository
type DealRepository struct {
	mu    sync.RWMutex
	deals map[string]domain.Deal
}

// NewDealRepository creates an empty in-memory deal repository
func NewDealRepository() *DealRepository {
	return &DealRepository{deals: make(map[string]domain.Deal)}
}

func (r *DealRepository) Create(ctx context.Context, deal *domain.Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deals[deal.ID] = *deal
	return nil
}

func (r *DealRepository) FindByID(ctx context.Context, id string) (*domain.Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	deal, ok := r.deals[id]
	if !ok {
		return nil, domain.ErrDealNotFound
	}
	return &deal, nil
}

func (r *DealRepository) FindAllByOrganization(ctx context.Context, organizationID string) ([]*domain.Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var deals []*domain.Deal
	for _, deal := range r.deals {
		if deal.OrganizationID == organizationID {
			d := deal
			deals = append(deals, &d)
		}
	}
	sort.Slice(deals, func(i, j int) bool { return deals[i].CreatedAt.After(deals[j].CreatedAt) })
	return deals, nil
}

func (r *DealRepository) Update(ctx context.Context, deal *domain.Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.deals[deal.ID]; !ok {
		return domain.ErrDealNotFound
	}
	r.deals[deal.ID] = *deal
	return nil
}

func (r *DealRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.deals[id]; !ok {
		return domain.ErrDealNotFound
	}
	delete(r.deals, id)
	return nil
}

var (
	_ ports.ContactRepository  = (*ContactRepository)(nil)
	_ ports.WorkflowRepository = (*WorkflowRepository)(nil)
	_ ports.DealRepository     = (*DealRepository)(nil)
)
