package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/salesdeck/salesdeck/internal/domain"
	"github.com/salesdeck/salesdeck/internal/ports"
)

// StageHistoryUseCase is the append-only ledger of stage transitions. It owns
// the duration computation: every entry it writes carries the time the deal
// spent in the stage it just left.
type StageHistoryUseCase struct {
	historyRepo ports.StageHistoryRepository
	locker      ports.DealLocker
	logger      *logrus.Logger
	now         func() time.Time
}

// NewStageHistoryUseCase creates a new stage history use case
func NewStageHistoryUseCase(
	historyRepo ports.StageHistoryRepository,
	locker ports.DealLocker,
	logger *logrus.Logger,
) *StageHistoryUseCase {
	return &StageHistoryUseCase{
		historyRepo: historyRepo,
		locker:      locker,
		logger:      logger,
		now:         time.Now,
	}
}

// RecordStageChange appends a transition entry for a deal. The caller is
// responsible for the deal actually existing; the ledger does not check.
// Writes for the same deal are serialized through the deal locker.
func (uc *StageHistoryUseCase) RecordStageChange(ctx context.Context, dealID string, newStageID *string, userID string, notes *string) (*domain.StageHistoryEntry, error) {
	if dealID == "" {
		return nil, fmt.Errorf("deal ID is required")
	}
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	unlock, err := uc.locker.Lock(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire deal lock: %w", err)
	}
	defer unlock()

	return uc.recordLocked(ctx, dealID, newStageID, userID, notes)
}

// recordLocked appends an entry without taking the deal lock. The caller must
// already hold it.
func (uc *StageHistoryUseCase) recordLocked(ctx context.Context, dealID string, newStageID *string, userID string, notes *string) (*domain.StageHistoryEntry, error) {
	last, err := uc.historyRepo.FindLastByDeal(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to load last history entry: %w", err)
	}

	now := uc.now()
	var durationInStage *int64
	if last != nil {
		// Keep changed_at strictly increasing per deal even on a clock with
		// coarse resolution. A now that is behind the last entry means real
		// clock skew; the resulting negative duration is stored as-is.
		if now.Equal(last.ChangedAt) {
			now = now.Add(time.Millisecond)
		}
		d := now.Sub(last.ChangedAt).Milliseconds()
		durationInStage = &d
	}

	entry := domain.NewStageHistoryEntry(dealID, newStageID, userID, now, durationInStage, notes)
	if err := uc.historyRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record stage change: %w", err)
	}

	uc.logger.WithFields(logrus.Fields{
		"deal_id":  dealID,
		"entry_id": entry.ID,
		"user_id":  userID,
	}).Debug("Stage change recorded")

	return entry, nil
}

// GetHistory returns a deal's transitions ascending by changed_at, enriched
// with stage and user details. A deal without history yields an empty slice,
// never an error.
func (uc *StageHistoryUseCase) GetHistory(ctx context.Context, dealID string) ([]domain.StageHistoryDetail, error) {
	if dealID == "" {
		return nil, fmt.Errorf("deal ID is required")
	}

	history, err := uc.historyRepo.FindByDeal(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to load deal history: %w", err)
	}
	if history == nil {
		history = []domain.StageHistoryDetail{}
	}
	return history, nil
}

// GetCurrentStageDuration returns the milliseconds the deal has spent in its
// current stage, or nil when the deal has no history yet.
func (uc *StageHistoryUseCase) GetCurrentStageDuration(ctx context.Context, dealID string) (*int64, error) {
	last, err := uc.historyRepo.FindLastByDeal(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to load last history entry: %w", err)
	}
	if last == nil {
		return nil, nil
	}

	d := uc.now().Sub(last.ChangedAt).Milliseconds()
	return &d, nil
}

// DeleteHistory removes all entries for a deal. Idempotent: deleting a deal
// with no entries is not an error.
func (uc *StageHistoryUseCase) DeleteHistory(ctx context.Context, dealID string) error {
	if dealID == "" {
		return fmt.Errorf("deal ID is required")
	}

	if err := uc.historyRepo.DeleteByDeal(ctx, dealID); err != nil {
		return fmt.Errorf("failed to delete deal history: %w", err)
	}
	return nil
}
