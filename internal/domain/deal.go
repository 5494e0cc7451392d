package domain

import (
	"time"

	"github.com/google/uuid"
)

// DealStatus represents the lifecycle status of a deal
type DealStatus string

const (
	DealStatusOpen DealStatus = "open"
	DealStatusWon  DealStatus = "won"
	DealStatusLost DealStatus = "lost"
)

// ValidStatus reports whether s is a known deal status.
func (s DealStatus) Valid() bool {
	switch s {
	case DealStatusOpen, DealStatusWon, DealStatusLost:
		return true
	}
	return false
}

// Deal represents a sales opportunity moving through a pipeline. StageID is
// the deal's current stage; nil means the deal is not on any stage.
type Deal struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organizationId"`
	ContactID      *string    `json:"contactId"`
	StageID        *string    `json:"stageId"`
	Title          string     `json:"title"`
	Value          float64    `json:"value"`
	Status         DealStatus `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// NewDeal creates an open deal
func NewDeal(organizationID string, contactID, stageID *string, title string, value float64) *Deal {
	return &Deal{
		ID:             uuid.NewString(),
		OrganizationID: organizationID,
		ContactID:      contactID,
		StageID:        stageID,
		Title:          title,
		Value:          value,
		Status:         DealStatusOpen,
		CreatedAt:      time.Now(),
	}
}
