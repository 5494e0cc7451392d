package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/salesdeck/salesdeck/internal/adapter/lock"
	"github.com/salesdeck/salesdeck/internal/adapter/memory"
	"github.com/salesdeck/salesdeck/internal/domain"
	"github.com/salesdeck/salesdeck/internal/ports"
)

// MockStageHistoryRepository is a mock implementation of ports.StageHistoryRepository
type MockStageHistoryRepository struct {
	mock.Mock
}

func (m *MockStageHistoryRepository) Create(ctx context.Context, entry *domain.StageHistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockStageHistoryRepository) FindByDeal(ctx context.Context, dealID string) ([]domain.StageHistoryDetail, error) {
	args := m.Called(ctx, dealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StageHistoryDetail), args.Error(1)
}

func (m *MockStageHistoryRepository) FindLastByDeal(ctx context.Context, dealID string) (*domain.StageHistoryEntry, error) {
	args := m.Called(ctx, dealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StageHistoryEntry), args.Error(1)
}

func (m *MockStageHistoryRepository) FindByOrganization(ctx context.Context, organizationID string) ([]domain.StageHistoryDetail, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StageHistoryDetail), args.Error(1)
}

func (m *MockStageHistoryRepository) DeleteByDeal(ctx context.Context, dealID string) error {
	args := m.Called(ctx, dealID)
	return args.Error(0)
}

var _ ports.StageHistoryRepository = (*MockStageHistoryRepository)(nil)

type dealFixture struct {
	deals   *memory.DealRepository
	history *StageHistoryUseCase
	uc      *DealUseCase
	org     *domain.Organization
	user    *domain.User
}

func newDealFixture(t *testing.T) *dealFixture {
	t.Helper()

	deals := memory.NewDealRepository()
	users := memory.NewUserRepository()
	workflows := memory.NewWorkflowRepository()
	historyRepo := memory.NewStageHistoryRepository(deals, users, workflows)

	locker := lock.NewMemoryDealLocker()
	history := NewStageHistoryUseCase(historyRepo, locker, testLogger())
	uc := NewDealUseCase(deals, history, locker, memory.NewTxManager(), testLogger())

	org := domain.NewOrganization("Acme")
	user := domain.NewUser(org.ID, "Jane Doe", "jane@example.com", "hash")
	require.NoError(t, users.Create(context.Background(), user))

	return &dealFixture{deals: deals, history: history, uc: uc, org: org, user: user}
}

func (f *dealFixture) historyLen(t *testing.T, dealID string) int {
	t.Helper()
	history, err := f.history.GetHistory(context.Background(), dealID)
	require.NoError(t, err)
	return len(history)
}

func TestCreateDeal_WithStageRecordsFirstEntry(t *testing.T) {
	f := newDealFixture(t)
	ctx := context.Background()

	stage := "stage-lead"
	deal, err := f.uc.CreateDeal(ctx, f.org.ID, f.user.ID, CreateDealInput{
		Title:   "Big deal",
		Value:   5000,
		StageID: &stage,
	})
	require.NoError(t, err)

	history, err := f.history.GetHistory(ctx, deal.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)

	assert.Equal(t, "stage-lead", *history[0].StageID)
	assert.Nil(t, history[0].DurationInStage)
	require.NotNil(t, history[0].Notes)
	assert.Equal(t, "Deal created", *history[0].Notes)
}

func TestCreateDeal_WithoutStageRecordsNothing(t *testing.T) {
	f := newDealFixture(t)

	deal, err := f.uc.CreateDeal(context.Background(), f.org.ID, f.user.ID, CreateDealInput{
		Title: "Stageless deal",
	})
	require.NoError(t, err)
	assert.Zero(t, f.historyLen(t, deal.ID))
}

func TestCreateDeal_WithoutActorRecordsNothing(t *testing.T) {
	f := newDealFixture(t)

	stage := "stage-lead"
	deal, err := f.uc.CreateDeal(context.Background(), f.org.ID, "", CreateDealInput{
		Title:   "System import",
		StageID: &stage,
	})
	require.NoError(t, err)
	assert.Zero(t, f.historyLen(t, deal.ID))
}

func TestUpdateDeal_StageTransitionTriggers(t *testing.T) {
	lead := "stage-lead"
	qualified := "stage-qualified"

	tests := []struct {
		name          string
		initialStage  *string
		input         UpdateDealInput
		actorID       string
		wantNewEntry  bool
		wantStage     *string
	}{
		{
			name:         "omitted stage does not trigger",
			initialStage: &lead,
			input:        UpdateDealInput{Title: strPtr("Renamed")},
			actorID:      "user",
			wantNewEntry: false,
			wantStage:    &lead,
		},
		{
			name:         "changed stage triggers",
			initialStage: &lead,
			input:        UpdateDealInput{StageID: domain.NullableStringOf(&qualified)},
			actorID:      "user",
			wantNewEntry: true,
			wantStage:    &qualified,
		},
		{
			name:         "same stage does not trigger",
			initialStage: &lead,
			input:        UpdateDealInput{StageID: domain.NullableStringOf(&lead)},
			actorID:      "user",
			wantNewEntry: false,
			wantStage:    &lead,
		},
		{
			name:         "explicit null clears stage and triggers",
			initialStage: &lead,
			input:        UpdateDealInput{StageID: domain.NullableStringOf(nil)},
			actorID:      "user",
			wantNewEntry: true,
			wantStage:    nil,
		},
		{
			name:         "null on already-nil stage does not trigger",
			initialStage: nil,
			input:        UpdateDealInput{StageID: domain.NullableStringOf(nil)},
			actorID:      "user",
			wantNewEntry: false,
			wantStage:    nil,
		},
		{
			name:         "changed stage without actor updates silently",
			initialStage: &lead,
			input:        UpdateDealInput{StageID: domain.NullableStringOf(&qualified)},
			actorID:      "",
			wantNewEntry: false,
			wantStage:    &qualified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDealFixture(t)
			ctx := context.Background()

			actor := f.user.ID
			if tt.actorID == "" {
				actor = ""
			}

			deal := domain.NewDeal(f.org.ID, nil, tt.initialStage, "Deal", 100)
			require.NoError(t, f.deals.Create(ctx, deal))
			before := f.historyLen(t, deal.ID)

			updated, err := f.uc.UpdateDeal(ctx, deal.ID, f.org.ID, actor, tt.input)
			require.NoError(t, err)

			after := f.historyLen(t, deal.ID)
			if tt.wantNewEntry {
				assert.Equal(t, before+1, after)
			} else {
				assert.Equal(t, before, after)
			}

			if tt.wantStage == nil {
				assert.Nil(t, updated.StageID)
			} else {
				require.NotNil(t, updated.StageID)
				assert.Equal(t, *tt.wantStage, *updated.StageID)
			}
		})
	}
}

func TestUpdateDeal_CrossOrganizationDenied(t *testing.T) {
	f := newDealFixture(t)
	ctx := context.Background()

	deal := domain.NewDeal("other-org", nil, nil, "Foreign deal", 100)
	require.NoError(t, f.deals.Create(ctx, deal))

	_, err := f.uc.UpdateDeal(ctx, deal.ID, f.org.ID, f.user.ID, UpdateDealInput{Title: strPtr("Hijack")})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestUpdateDeal_LedgerFailureAbortsUpdate(t *testing.T) {
	deals := memory.NewDealRepository()
	historyRepo := new(MockStageHistoryRepository)
	locker := lock.NewMemoryDealLocker()

	history := NewStageHistoryUseCase(historyRepo, locker, testLogger())
	uc := NewDealUseCase(deals, history, locker, memory.NewTxManager(), testLogger())

	ctx := context.Background()
	lead := "stage-lead"
	deal := domain.NewDeal("org-1", nil, &lead, "Deal", 100)
	require.NoError(t, deals.Create(ctx, deal))

	historyRepo.On("FindLastByDeal", mock.Anything, deal.ID).Return(nil, nil)
	historyRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("ledger down"))

	qualified := "stage-qualified"
	_, err := uc.UpdateDeal(ctx, deal.ID, "org-1", "user-1", UpdateDealInput{
		StageID: domain.NullableStringOf(&qualified),
	})
	require.Error(t, err)
	historyRepo.AssertExpectations(t)
}

func TestDeleteDeal_RemovesHistory(t *testing.T) {
	f := newDealFixture(t)
	ctx := context.Background()

	stage := "stage-lead"
	deal, err := f.uc.CreateDeal(ctx, f.org.ID, f.user.ID, CreateDealInput{
		Title:   "Doomed deal",
		StageID: &stage,
	})
	require.NoError(t, err)
	require.Equal(t, 1, f.historyLen(t, deal.ID))

	require.NoError(t, f.uc.DeleteDeal(ctx, deal.ID, f.org.ID))

	_, err = f.uc.GetDeal(ctx, deal.ID, f.org.ID)
	assert.ErrorIs(t, err, domain.ErrDealNotFound)
	assert.Zero(t, f.historyLen(t, deal.ID))
}

func TestDealLifecycle(t *testing.T) {
	f := newDealFixture(t)
	ctx := context.Background()

	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	f.history.now = clock.Now

	lead := "stage-lead"
	deal, err := f.uc.CreateDeal(ctx, f.org.ID, f.user.ID, CreateDealInput{
		Title:   "Lifecycle deal",
		Value:   1000,
		StageID: &lead,
	})
	require.NoError(t, err)

	history, err := f.history.GetHistory(ctx, deal.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, lead, *history[0].StageID)
	assert.Nil(t, history[0].DurationInStage)

	clock.Advance(10 * time.Second)
	qualified := "stage-qualified"
	_, err = f.uc.UpdateDeal(ctx, deal.ID, f.org.ID, f.user.ID, UpdateDealInput{
		StageID: domain.NullableStringOf(&qualified),
	})
	require.NoError(t, err)

	history, err = f.history.GetHistory(ctx, deal.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, qualified, *history[1].StageID)
	require.NotNil(t, history[1].DurationInStage)
	assert.Equal(t, int64(10_000), *history[1].DurationInStage)

	_, err = f.uc.UpdateDeal(ctx, deal.ID, f.org.ID, f.user.ID, UpdateDealInput{
		Title: strPtr("Lifecycle deal, renamed"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, f.historyLen(t, deal.ID))

	require.NoError(t, f.uc.DeleteDeal(ctx, deal.ID, f.org.ID))
	assert.Zero(t, f.historyLen(t, deal.ID))
}

func TestCreateDeal_RequiresTitle(t *testing.T) {
	f := newDealFixture(t)

	_, err := f.uc.CreateDeal(context.Background(), f.org.ID, f.user.ID, CreateDealInput{})
	assert.Error(t, err)
}

func strPtr(s string) *string { return &s }
