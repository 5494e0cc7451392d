package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/salesdeck/salesdeck/internal/domain"
	"github.com/salesdeck/salesdeck/internal/ports"
)

// StageHistoryRepository is an in-memory implementation of the stage
// transition ledger. It joins stage and user details through the sibling
// in-memory repositories, mirroring what the Postgres adapter does with SQL
// joins.
type StageHistoryRepository struct {
	mu      sync.RWMutex
	entries map[string][]domain.StageHistoryEntry // keyed by deal ID

	deals     *DealRepository
	users     *UserRepository
	workflows *WorkflowRepository
}

// NewStageHistoryRepository creates an empty in-memory stage history repository
func NewStageHistoryRepository(deals *DealRepository, users *UserRepository, workflows *WorkflowRepository) *StageHistoryRepository {
	return &StageHistoryRepository{
		entries:   make(map[string][]domain.StageHistoryEntry),
		deals:     deals,
		users:     users,
		workflows: workflows,
	}
}

func (r *StageHistoryRepository) Create(ctx context.Context, entry *domain.StageHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.DealID] = append(r.entries[entry.DealID], *entry)
	return nil
}

func (r *StageHistoryRepository) FindByDeal(ctx context.Context, dealID string) ([]domain.StageHistoryDetail, error) {
	r.mu.RLock()
	entries := append([]domain.StageHistoryEntry(nil), r.entries[dealID]...)
	r.mu.RUnlock()

	sortEntries(entries)
	return r.enrich(ctx, entries), nil
}

func (r *StageHistoryRepository) FindLastByDeal(ctx context.Context, dealID string) (*domain.StageHistoryEntry, error) {
	r.mu.RLock()
	entries := append([]domain.StageHistoryEntry(nil), r.entries[dealID]...)
	r.mu.RUnlock()

	if len(entries) == 0 {
		return nil, nil
	}
	sortEntries(entries)
	last := entries[len(entries)-1]
	return &last, nil
}

func (r *StageHistoryRepository) FindByOrganization(ctx context.Context, organizationID string) ([]domain.StageHistoryDetail, error) {
	deals, err := r.deals.FindAllByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	var entries []domain.StageHistoryEntry
	for _, deal := range deals {
		entries = append(entries, r.entries[deal.ID]...)
	}
	r.mu.RUnlock()

	sortEntries(entries)
	return r.enrich(ctx, entries), nil
}

func (r *StageHistoryRepository) DeleteByDeal(ctx context.Context, dealID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, dealID)
	return nil
}

func (r *StageHistoryRepository) enrich(ctx context.Context, entries []domain.StageHistoryEntry) []domain.StageHistoryDetail {
	details := make([]domain.StageHistoryDetail, 0, len(entries))
	for _, entry := range entries {
		detail := domain.StageHistoryDetail{StageHistoryEntry: entry}

		if entry.StageID != nil {
			if stage, err := r.workflows.FindStageByID(ctx, *entry.StageID); err == nil {
				detail.StageName = &stage.Name
				detail.StageColor = stage.Color
			}
		}
		if user, err := r.users.FindByID(ctx, entry.UserID); err == nil {
			detail.UserName = user.Name
			detail.UserEmail = user.Email
		}

		details = append(details, detail)
	}
	return details
}

func sortEntries(entries []domain.StageHistoryEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ChangedAt.Before(entries[j].ChangedAt)
	})
}

var _ ports.StageHistoryRepository = (*StageHistoryRepository)(nil)
