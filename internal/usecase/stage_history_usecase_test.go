package usecase

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesdeck/salesdeck/internal/adapter/lock"
	"github.com/salesdeck/salesdeck/internal/adapter/memory"
	"github.com/salesdeck/salesdeck/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type historyFixture struct {
	repo      *memory.StageHistoryRepository
	deals     *memory.DealRepository
	users     *memory.UserRepository
	workflows *memory.WorkflowRepository
	uc        *StageHistoryUseCase
	clock     *fakeClock
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newHistoryFixture(t *testing.T) *historyFixture {
	t.Helper()

	deals := memory.NewDealRepository()
	users := memory.NewUserRepository()
	workflows := memory.NewWorkflowRepository()
	repo := memory.NewStageHistoryRepository(deals, users, workflows)

	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	uc := NewStageHistoryUseCase(repo, lock.NewMemoryDealLocker(), testLogger())
	uc.now = clock.Now

	return &historyFixture{
		repo:      repo,
		deals:     deals,
		users:     users,
		workflows: workflows,
		uc:        uc,
		clock:     clock,
	}
}

func stagePtr(s string) *string { return &s }

func TestRecordStageChange_FirstEntryHasNilDuration(t *testing.T) {
	f := newHistoryFixture(t)

	entry, err := f.uc.RecordStageChange(context.Background(), "deal-1", stagePtr("stage-lead"), "user-1", nil)
	require.NoError(t, err)

	assert.Nil(t, entry.DurationInStage)
	assert.Equal(t, "deal-1", entry.DealID)
	assert.Equal(t, "stage-lead", *entry.StageID)
	assert.Equal(t, "user-1", entry.UserID)
	assert.Equal(t, f.clock.Now(), entry.ChangedAt)
}

func TestRecordStageChange_DurationMeasuresPreviousStage(t *testing.T) {
	f := newHistoryFixture(t)
	ctx := context.Background()

	first, err := f.uc.RecordStageChange(ctx, "deal-1", stagePtr("stage-lead"), "user-1", nil)
	require.NoError(t, err)

	f.clock.Advance(90 * time.Second)
	second, err := f.uc.RecordStageChange(ctx, "deal-1", stagePtr("stage-qualified"), "user-1", nil)
	require.NoError(t, err)

	require.NotNil(t, second.DurationInStage)
	assert.Equal(t, int64(90_000), *second.DurationInStage)
	assert.Equal(t, second.ChangedAt.Sub(first.ChangedAt).Milliseconds(), *second.DurationInStage)

	f.clock.Advance(30 * time.Second)
	third, err := f.uc.RecordStageChange(ctx, "deal-1", stagePtr("stage-proposal"), "user-1", nil)
	require.NoError(t, err)

	require.NotNil(t, third.DurationInStage)
	assert.Equal(t, int64(30_000), *third.DurationInStage)
}

func TestRecordStageChange_EqualTimestampsGetBumped(t *testing.T) {
	f := newHistoryFixture(t)
	ctx := context.Background()

	first, err := f.uc.RecordStageChange(ctx, "deal-1", stagePtr("stage-lead"), "user-1", nil)
	require.NoError(t, err)

	// Clock does not move between the two records.
	second, err := f.uc.RecordStageChange(ctx, "deal-1", stagePtr("stage-qualified"), "user-1", nil)
	require.NoError(t, err)

	assert.True(t, second.ChangedAt.After(first.ChangedAt), "changed_at must be strictly increasing")
	assert.Equal(t, time.Millisecond, second.ChangedAt.Sub(first.ChangedAt))
	require.NotNil(t, second.DurationInStage)
	assert.Equal(t, int64(1), *second.DurationInStage)
}

func TestRecordStageChange_ClockSkewKeepsNegativeDuration(t *testing.T) {
	f := newHistoryFixture(t)
	ctx := context.Background()

	_, err := f.uc.RecordStageChange(ctx, "deal-1", stagePtr("stage-lead"), "user-1", nil)
	require.NoError(t, err)

	f.clock.Advance(-5 * time.Second)
	entry, err := f.uc.RecordStageChange(ctx, "deal-1", stagePtr("stage-qualified"), "user-1", nil)
	require.NoError(t, err)

	require.NotNil(t, entry.DurationInStage)
	assert.Equal(t, int64(-5_000), *entry.DurationInStage)
}

func TestRecordStageChange_NilStageAllowed(t *testing.T) {
	f := newHistoryFixture(t)

	entry, err := f.uc.RecordStageChange(context.Background(), "deal-1", nil, "user-1", nil)
	require.NoError(t, err)
	assert.Nil(t, entry.StageID)
}

func TestRecordStageChange_Validation(t *testing.T) {
	f := newHistoryFixture(t)
	ctx := context.Background()

	_, err := f.uc.RecordStageChange(ctx, "", stagePtr("stage-lead"), "user-1", nil)
	assert.Error(t, err)

	_, err = f.uc.RecordStageChange(ctx, "deal-1", stagePtr("stage-lead"), "", nil)
	assert.Error(t, err)
}

func TestGetHistory_EmptyDealYieldsEmptySlice(t *testing.T) {
	f := newHistoryFixture(t)

	history, err := f.uc.GetHistory(context.Background(), "deal-without-history")
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestGetHistory_ChronologicalWithDetails(t *testing.T) {
	f := newHistoryFixture(t)
	ctx := context.Background()

	user := domain.NewUser("org-1", "Jane Doe", "jane@example.com", "hash")
	require.NoError(t, f.users.Create(ctx, user))

	workflow := domain.NewWorkflow("org-1", "Pipeline")
	stage := domain.NewStage(workflow.ID, "Lead", 1, stagePtr("#6B7280"))
	workflow.Stages = append(workflow.Stages, *stage)
	require.NoError(t, f.workflows.Create(ctx, workflow))

	_, err := f.uc.RecordStageChange(ctx, "deal-1", &stage.ID, user.ID, nil)
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	_, err = f.uc.RecordStageChange(ctx, "deal-1", nil, user.ID, nil)
	require.NoError(t, err)

	history, err := f.uc.GetHistory(ctx, "deal-1")
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.True(t, history[0].ChangedAt.Before(history[1].ChangedAt))
	require.NotNil(t, history[0].StageName)
	assert.Equal(t, "Lead", *history[0].StageName)
	assert.Equal(t, "Jane Doe", history[0].UserName)
	assert.Equal(t, "jane@example.com", history[0].UserEmail)
	assert.Nil(t, history[1].StageName)
}

func TestGetCurrentStageDuration(t *testing.T) {
	f := newHistoryFixture(t)
	ctx := context.Background()

	d, err := f.uc.GetCurrentStageDuration(ctx, "deal-1")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = f.uc.RecordStageChange(ctx, "deal-1", stagePtr("stage-lead"), "user-1", nil)
	require.NoError(t, err)

	f.clock.Advance(42 * time.Second)
	d, err = f.uc.GetCurrentStageDuration(ctx, "deal-1")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, int64(42_000), *d)
}

func TestDeleteHistory_Idempotent(t *testing.T) {
	f := newHistoryFixture(t)
	ctx := context.Background()

	_, err := f.uc.RecordStageChange(ctx, "deal-1", stagePtr("stage-lead"), "user-1", nil)
	require.NoError(t, err)

	require.NoError(t, f.uc.DeleteHistory(ctx, "deal-1"))
	history, err := f.uc.GetHistory(ctx, "deal-1")
	require.NoError(t, err)
	assert.Empty(t, history)

	// Deleting again is not an error.
	require.NoError(t, f.uc.DeleteHistory(ctx, "deal-1"))
}

func TestRecordStageChange_ConcurrentWritesStayConsistent(t *testing.T) {
	f := newHistoryFixture(t)
	f.uc.now = time.Now
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			_, err := f.uc.RecordStageChange(ctx, "deal-1", stagePtr("stage-lead"), "user-1", nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	history, err := f.uc.GetHistory(ctx, "deal-1")
	require.NoError(t, err)
	require.Len(t, history, writers)

	assert.Nil(t, history[0].DurationInStage)
	for i := 1; i < len(history); i++ {
		assert.True(t, history[i].ChangedAt.After(history[i-1].ChangedAt),
			"changed_at must be strictly increasing")
		require.NotNil(t, history[i].DurationInStage)
		assert.Equal(t,
			history[i].ChangedAt.Sub(history[i-1].ChangedAt).Milliseconds(),
			*history[i].DurationInStage,
			"duration must equal the gap to the previous entry")
	}
}
