package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/salesdeck/salesdeck/internal/domain"
	"github.com/salesdeck/salesdeck/internal/ports"
)

// unknownStageName labels aggregates whose stage has been deleted from the
// registry (or whose entries recorded a cleared stage).
const unknownStageName = "Unknown Stage"

// AnalyticsUseCase derives read-only aggregate views from the stage history
// ledger. It never writes to it.
type AnalyticsUseCase struct {
	dealRepo    ports.DealRepository
	historyRepo ports.StageHistoryRepository
	now         func() time.Time
}

// NewAnalyticsUseCase creates a new analytics use case
func NewAnalyticsUseCase(dealRepo ports.DealRepository, historyRepo ports.StageHistoryRepository) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		dealRepo:    dealRepo,
		historyRepo: historyRepo,
		now:         time.Now,
	}
}

// GetDealAnalytics summarizes one deal's pipeline journey. Returns
// domain.ErrDealNotFound when the deal does not exist; a deal without
// history is valid and yields all-zero durations.
func (uc *AnalyticsUseCase) GetDealAnalytics(ctx context.Context, dealID string) (*domain.DealStageAnalytics, error) {
	if dealID == "" {
		return nil, fmt.Errorf("deal ID is required")
	}

	if _, err := uc.dealRepo.FindByID(ctx, dealID); err != nil {
		return nil, err
	}

	history, err := uc.historyRepo.FindByDeal(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to load deal history: %w", err)
	}
	if history == nil {
		history = []domain.StageHistoryDetail{}
	}

	analytics := &domain.DealStageAnalytics{
		DealID:       dealID,
		TotalStages:  len(history),
		StageHistory: history,
	}
	if len(history) > 0 {
		first := history[0]
		last := history[len(history)-1]
		analytics.TotalDuration = last.ChangedAt.Sub(first.ChangedAt).Milliseconds()
		analytics.CurrentStageDuration = uc.now().Sub(last.ChangedAt).Milliseconds()
	}
	return analytics, nil
}

// GetStageAnalytics aggregates dwell times per stage across an organization.
// Entries with a nil duration (each deal's first transition) measured nothing
// and are excluded. The average is integer division, truncated toward zero.
// Results are ordered by stage name ascending, ties broken by stage ID.
func (uc *AnalyticsUseCase) GetStageAnalytics(ctx context.Context, organizationID string) ([]domain.StageDurationAnalytics, error) {
	if organizationID == "" {
		return nil, fmt.Errorf("organization ID is required")
	}

	entries, err := uc.historyRepo.FindByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load organization history: %w", err)
	}

	type group struct {
		name  string
		count int
		sum   int64
		min   int64
		max   int64
	}
	groups := make(map[string]*group)

	for _, e := range entries {
		if e.DurationInStage == nil {
			continue
		}
		d := *e.DurationInStage

		// Entries whose stage was cleared group under the empty stage ID.
		stageID := ""
		if e.StageID != nil {
			stageID = *e.StageID
		}

		g, ok := groups[stageID]
		if !ok {
			name := unknownStageName
			if e.StageName != nil {
				name = *e.StageName
			}
			groups[stageID] = &group{name: name, count: 1, sum: d, min: d, max: d}
			continue
		}
		g.count++
		g.sum += d
		if d < g.min {
			g.min = d
		}
		if d > g.max {
			g.max = d
		}
	}

	result := make([]domain.StageDurationAnalytics, 0, len(groups))
	for stageID, g := range groups {
		result = append(result, domain.StageDurationAnalytics{
			StageID:          stageID,
			StageName:        g.name,
			TotalTransitions: g.count,
			AverageDuration:  g.sum / int64(g.count),
			MinDuration:      g.min,
			MaxDuration:      g.max,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].StageName != result[j].StageName {
			return result[i].StageName < result[j].StageName
		}
		return result[i].StageID < result[j].StageID
	})

	return result, nil
}

// GetOrganizationHistory returns the union of all deals' transitions for an
// organization, ascending by changed_at. Offset/limit slicing is the caller's
// concern.
func (uc *AnalyticsUseCase) GetOrganizationHistory(ctx context.Context, organizationID string) ([]domain.StageHistoryDetail, error) {
	if organizationID == "" {
		return nil, fmt.Errorf("organization ID is required")
	}

	history, err := uc.historyRepo.FindByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load organization history: %w", err)
	}
	if history == nil {
		history = []domain.StageHistoryDetail{}
	}
	return history, nil
}
