package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/salesdeck/salesdeck/internal/domain"
	"github.com/salesdeck/salesdeck/internal/ports"
)

// CreateDealInput represents the request to create a deal
type CreateDealInput struct {
	ContactID *string `json:"contactId"`
	StageID   *string `json:"stageId"`
	Title     string  `json:"title" validate:"required,min=1,max=200"`
	Value     float64 `json:"value" validate:"gte=0"`
}

// UpdateDealInput represents a partial deal update. ContactID and StageID are
// nullable fields: an absent key leaves the value untouched, an explicit null
// clears it. Only an explicitly present stageId is compared against the
// stored stage when deciding whether to record a transition.
type UpdateDealInput struct {
	ContactID domain.NullableString `json:"contactId"`
	StageID   domain.NullableString `json:"stageId"`
	Title     *string               `json:"title" validate:"omitempty,min=1,max=200"`
	Value     *float64              `json:"value" validate:"omitempty,gte=0"`
	Status    *domain.DealStatus    `json:"status"`
}

// DealUseCase owns the deal lifecycle and is the only component that bridges
// deal mutations to ledger writes. A deal's stage pointer is its state; every
// write to it is a transition the ledger must see. Ledger failures abort the
// whole operation: analytics depend on a complete history, so losing an entry
// silently is worse than failing the request.
type DealUseCase struct {
	dealRepo ports.DealRepository
	history  *StageHistoryUseCase
	locker   ports.DealLocker
	tx       ports.TxManager
	logger   *logrus.Logger
}

// NewDealUseCase creates a new deal use case
func NewDealUseCase(
	dealRepo ports.DealRepository,
	history *StageHistoryUseCase,
	locker ports.DealLocker,
	tx ports.TxManager,
	logger *logrus.Logger,
) *DealUseCase {
	return &DealUseCase{
		dealRepo: dealRepo,
		history:  history,
		locker:   locker,
		tx:       tx,
		logger:   logger,
	}
}

// GetDeal retrieves a deal scoped to the caller's organization
func (uc *DealUseCase) GetDeal(ctx context.Context, id, organizationID string) (*domain.Deal, error) {
	deal, err := uc.dealRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if deal.OrganizationID != organizationID {
		return nil, domain.ErrAccessDenied
	}
	return deal, nil
}

// ListDeals retrieves all deals of an organization
func (uc *DealUseCase) ListDeals(ctx context.Context, organizationID string) ([]*domain.Deal, error) {
	deals, err := uc.dealRepo.FindAllByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	if deals == nil {
		deals = []*domain.Deal{}
	}
	return deals, nil
}

// CreateDeal creates a deal and, when the payload carries an initial stage
// and the acting user is known, records the first ledger entry with it in
// one transaction.
func (uc *DealUseCase) CreateDeal(ctx context.Context, organizationID, actorID string, in CreateDealInput) (*domain.Deal, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	deal := domain.NewDeal(organizationID, in.ContactID, in.StageID, in.Title, in.Value)

	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.dealRepo.Create(ctx, deal); err != nil {
			return fmt.Errorf("failed to create deal: %w", err)
		}
		if in.StageID != nil && actorID != "" {
			notes := "Deal created"
			if _, err := uc.history.recordLocked(ctx, deal.ID, in.StageID, actorID, &notes); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.WithFields(logrus.Fields{
		"deal_id":         deal.ID,
		"organization_id": organizationID,
	}).Info("Deal created")

	return deal, nil
}

// UpdateDeal applies a partial update. A transition is recorded exactly when
// the payload explicitly sets stageId, the value differs from the stored one
// and the acting user is known. The deal update and the ledger entry share
// one transaction, serialized per deal.
func (uc *DealUseCase) UpdateDeal(ctx context.Context, id, organizationID, actorID string, in UpdateDealInput) (*domain.Deal, error) {
	unlock, err := uc.locker.Lock(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire deal lock: %w", err)
	}
	defer unlock()

	deal, err := uc.dealRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if deal.OrganizationID != organizationID {
		return nil, domain.ErrAccessDenied
	}

	stageChanged := in.StageID.Set && !stringPtrEqual(in.StageID.Value, deal.StageID)

	if in.ContactID.Set {
		deal.ContactID = in.ContactID.Value
	}
	if in.StageID.Set {
		deal.StageID = in.StageID.Value
	}
	if in.Title != nil {
		deal.Title = *in.Title
	}
	if in.Value != nil {
		deal.Value = *in.Value
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, fmt.Errorf("invalid deal status: %s", *in.Status)
		}
		deal.Status = *in.Status
	}

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.dealRepo.Update(ctx, deal); err != nil {
			return fmt.Errorf("failed to update deal: %w", err)
		}
		if stageChanged && actorID != "" {
			if _, err := uc.history.recordLocked(ctx, deal.ID, deal.StageID, actorID, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return deal, nil
}

// DeleteDeal removes a deal together with its ledger entries. The Postgres
// schema cascades the delete on its own; the explicit history wipe covers
// backends without cascading deletes.
func (uc *DealUseCase) DeleteDeal(ctx context.Context, id, organizationID string) error {
	unlock, err := uc.locker.Lock(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to acquire deal lock: %w", err)
	}
	defer unlock()

	deal, err := uc.dealRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if deal.OrganizationID != organizationID {
		return domain.ErrAccessDenied
	}

	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.history.DeleteHistory(ctx, id); err != nil {
			return err
		}
		if err := uc.dealRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete deal: %w", err)
		}
		return nil
	})
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
