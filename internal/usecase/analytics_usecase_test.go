package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesdeck/salesdeck/internal/adapter/lock"
	"github.com/salesdeck/salesdeck/internal/adapter/memory"
	"github.com/salesdeck/salesdeck/internal/domain"
)

type analyticsFixture struct {
	deals     *memory.DealRepository
	users     *memory.UserRepository
	workflows *memory.WorkflowRepository
	history   *StageHistoryUseCase
	uc        *AnalyticsUseCase
	clock     *fakeClock

	org   *domain.Organization
	user  *domain.User
	flow  *domain.Workflow
	deal  *domain.Deal
	deal2 *domain.Deal
}

func newAnalyticsFixture(t *testing.T) *analyticsFixture {
	t.Helper()
	ctx := context.Background()

	deals := memory.NewDealRepository()
	users := memory.NewUserRepository()
	workflows := memory.NewWorkflowRepository()
	historyRepo := memory.NewStageHistoryRepository(deals, users, workflows)

	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	history := NewStageHistoryUseCase(historyRepo, lock.NewMemoryDealLocker(), testLogger())
	history.now = clock.Now

	uc := NewAnalyticsUseCase(deals, historyRepo)
	uc.now = clock.Now

	org := domain.NewOrganization("Acme")
	user := domain.NewUser(org.ID, "Jane Doe", "jane@example.com", "hash")
	require.NoError(t, users.Create(ctx, user))

	flow := domain.NewWorkflow(org.ID, "Pipeline")
	for i, name := range []string{"Lead", "Qualified", "Proposal"} {
		flow.Stages = append(flow.Stages, *domain.NewStage(flow.ID, name, i+1, nil))
	}
	require.NoError(t, workflows.Create(ctx, flow))

	deal := domain.NewDeal(org.ID, nil, nil, "First deal", 1000)
	deal2 := domain.NewDeal(org.ID, nil, nil, "Second deal", 2000)
	require.NoError(t, deals.Create(ctx, deal))
	require.NoError(t, deals.Create(ctx, deal2))

	return &analyticsFixture{
		deals:     deals,
		users:     users,
		workflows: workflows,
		history:   history,
		uc:        uc,
		clock:     clock,
		org:       org,
		user:      user,
		flow:      flow,
		deal:      deal,
		deal2:     deal2,
	}
}

func (f *analyticsFixture) record(t *testing.T, dealID string, stageID *string) {
	t.Helper()
	_, err := f.history.RecordStageChange(context.Background(), dealID, stageID, f.user.ID, nil)
	require.NoError(t, err)
}

func TestGetDealAnalytics_UnknownDeal(t *testing.T) {
	f := newAnalyticsFixture(t)

	_, err := f.uc.GetDealAnalytics(context.Background(), "no-such-deal")
	assert.ErrorIs(t, err, domain.ErrDealNotFound)
}

func TestGetDealAnalytics_NoHistoryYieldsZeros(t *testing.T) {
	f := newAnalyticsFixture(t)

	analytics, err := f.uc.GetDealAnalytics(context.Background(), f.deal.ID)
	require.NoError(t, err)

	assert.Equal(t, f.deal.ID, analytics.DealID)
	assert.Zero(t, analytics.TotalStages)
	assert.Zero(t, analytics.TotalDuration)
	assert.Zero(t, analytics.CurrentStageDuration)
	assert.Empty(t, analytics.StageHistory)
}

func TestGetDealAnalytics_Durations(t *testing.T) {
	f := newAnalyticsFixture(t)

	f.record(t, f.deal.ID, &f.flow.Stages[0].ID)
	f.clock.Advance(1 * time.Second)
	f.record(t, f.deal.ID, &f.flow.Stages[1].ID)
	f.clock.Advance(2 * time.Second)
	f.record(t, f.deal.ID, &f.flow.Stages[2].ID)
	f.clock.Advance(3 * time.Second)

	analytics, err := f.uc.GetDealAnalytics(context.Background(), f.deal.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, analytics.TotalStages)
	assert.Equal(t, int64(3_000), analytics.TotalDuration)
	assert.Equal(t, int64(3_000), analytics.CurrentStageDuration)
	require.Len(t, analytics.StageHistory, 3)
}

func TestGetStageAnalytics_ExcludesNilDurations(t *testing.T) {
	f := newAnalyticsFixture(t)

	// Each deal's first entry has no duration and must not contribute.
	f.record(t, f.deal.ID, &f.flow.Stages[0].ID)
	f.record(t, f.deal2.ID, &f.flow.Stages[0].ID)

	stats, err := f.uc.GetStageAnalytics(context.Background(), f.org.ID)
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestGetStageAnalytics_Aggregates(t *testing.T) {
	f := newAnalyticsFixture(t)
	lead := &f.flow.Stages[0].ID
	qualified := &f.flow.Stages[1].ID

	// deal spends 1s in Lead, deal2 spends 3s in Lead. Both durations land on
	// the entry that enters Qualified, attributed to the stage it entered.
	f.record(t, f.deal.ID, lead)
	f.record(t, f.deal2.ID, lead)
	f.clock.Advance(1 * time.Second)
	f.record(t, f.deal.ID, qualified)
	f.clock.Advance(2 * time.Second)
	f.record(t, f.deal2.ID, qualified)

	stats, err := f.uc.GetStageAnalytics(context.Background(), f.org.ID)
	require.NoError(t, err)
	require.Len(t, stats, 1)

	q := stats[0]
	assert.Equal(t, *qualified, q.StageID)
	assert.Equal(t, "Qualified", q.StageName)
	assert.Equal(t, 2, q.TotalTransitions)
	assert.Equal(t, int64(1_000), q.MinDuration)
	assert.Equal(t, int64(3_000), q.MaxDuration)
	assert.Equal(t, int64(2_000), q.AverageDuration)
}

func TestGetStageAnalytics_AverageTruncates(t *testing.T) {
	f := newAnalyticsFixture(t)
	lead := &f.flow.Stages[0].ID
	qualified := &f.flow.Stages[1].ID

	f.record(t, f.deal.ID, lead)
	f.record(t, f.deal2.ID, lead)
	f.clock.Advance(1 * time.Millisecond)
	f.record(t, f.deal.ID, qualified)
	f.clock.Advance(1 * time.Millisecond)
	f.record(t, f.deal2.ID, qualified)

	stats, err := f.uc.GetStageAnalytics(context.Background(), f.org.ID)
	require.NoError(t, err)
	require.Len(t, stats, 1)

	// (1 + 2) / 2 truncates to 1.
	assert.Equal(t, int64(1), stats[0].AverageDuration)
}

func TestGetStageAnalytics_UnknownStageGrouping(t *testing.T) {
	f := newAnalyticsFixture(t)

	f.record(t, f.deal.ID, &f.flow.Stages[0].ID)
	f.clock.Advance(1 * time.Second)
	f.record(t, f.deal.ID, nil) // stage cleared

	stats, err := f.uc.GetStageAnalytics(context.Background(), f.org.ID)
	require.NoError(t, err)
	require.Len(t, stats, 1)

	assert.Equal(t, "", stats[0].StageID)
	assert.Equal(t, "Unknown Stage", stats[0].StageName)
	assert.Equal(t, 1, stats[0].TotalTransitions)
}

func TestGetStageAnalytics_OrderedByName(t *testing.T) {
	f := newAnalyticsFixture(t)
	lead := &f.flow.Stages[0].ID
	qualified := &f.flow.Stages[1].ID
	proposal := &f.flow.Stages[2].ID

	f.record(t, f.deal.ID, lead)
	f.clock.Advance(time.Second)
	f.record(t, f.deal.ID, qualified)
	f.clock.Advance(time.Second)
	f.record(t, f.deal.ID, proposal)
	f.clock.Advance(time.Second)
	f.record(t, f.deal.ID, lead)

	stats, err := f.uc.GetStageAnalytics(context.Background(), f.org.ID)
	require.NoError(t, err)
	require.Len(t, stats, 3)

	names := []string{stats[0].StageName, stats[1].StageName, stats[2].StageName}
	assert.Equal(t, []string{"Lead", "Proposal", "Qualified"}, names)
}

func TestGetOrganizationHistory_AscendingAcrossDeals(t *testing.T) {
	f := newAnalyticsFixture(t)

	f.record(t, f.deal.ID, &f.flow.Stages[0].ID)
	f.clock.Advance(time.Second)
	f.record(t, f.deal2.ID, &f.flow.Stages[0].ID)
	f.clock.Advance(time.Second)
	f.record(t, f.deal.ID, &f.flow.Stages[1].ID)

	history, err := f.uc.GetOrganizationHistory(context.Background(), f.org.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)

	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].ChangedAt.Before(history[i-1].ChangedAt))
	}
	assert.Equal(t, f.deal.ID, history[0].DealID)
	assert.Equal(t, f.deal2.ID, history[1].DealID)
}
