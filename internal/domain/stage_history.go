package domain

import (
	"time"

	"github.com/google/uuid"
)

// StageHistoryEntry is one record in the append-only ledger of stage
// transitions. Entries are never mutated after creation and are only ever
// deleted in bulk when their deal is destroyed.
//
// DurationInStage is stored on the entry for the stage being ENTERED but
// measures the time the deal spent in the stage it just LEFT: the elapsed
// milliseconds between this entry's ChangedAt and the previous entry's
// ChangedAt for the same deal. It is nil on a deal's first entry, which has
// no prior stage to measure. Negative values are possible under clock skew
// and are stored as-is so callers can see the anomaly.
type StageHistoryEntry struct {
	ID              string    `json:"id"`
	DealID          string    `json:"dealId"`
	StageID         *string   `json:"stageId"`
	UserID          string    `json:"userId"`
	ChangedAt       time.Time `json:"changedAt"`
	DurationInStage *int64    `json:"durationInStage"`
	Notes           *string   `json:"notes"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NewStageHistoryEntry creates a ledger entry for a transition at changedAt
func NewStageHistoryEntry(dealID string, stageID *string, userID string, changedAt time.Time, durationInStage *int64, notes *string) *StageHistoryEntry {
	return &StageHistoryEntry{
		ID:              uuid.NewString(),
		DealID:          dealID,
		StageID:         stageID,
		UserID:          userID,
		ChangedAt:       changedAt,
		DurationInStage: durationInStage,
		Notes:           notes,
		CreatedAt:       changedAt,
	}
}

// StageHistoryDetail is a StageHistoryEntry enriched with stage and user
// identity for display. StageName and StageColor are nil when the referenced
// stage no longer exists. Read-only projection, never persisted.
type StageHistoryDetail struct {
	StageHistoryEntry
	StageName  *string `json:"stageName"`
	StageColor *string `json:"stageColor"`
	UserName   string  `json:"userName"`
	UserEmail  string  `json:"userEmail"`
}

// StageDurationAnalytics aggregates the dwell times recorded against one
// stage across an organization. Durations are integer milliseconds; the
// average is truncated toward zero.
type StageDurationAnalytics struct {
	StageID          string `json:"stageId"`
	StageName        string `json:"stageName"`
	TotalTransitions int    `json:"totalTransitions"`
	AverageDuration  int64  `json:"averageDuration"`
	MinDuration      int64  `json:"minDuration"`
	MaxDuration      int64  `json:"maxDuration"`
}

// DealStageAnalytics summarizes one deal's journey through the pipeline.
// CurrentStageDuration is reported as 0 when the deal has no history at all;
// a deal with history always has a positive (or, under clock skew, negative)
// dwell time in its current stage.
type DealStageAnalytics struct {
	DealID               string               `json:"dealId"`
	TotalStages          int                  `json:"totalStages"`
	TotalDuration        int64                `json:"totalDuration"`
	CurrentStageDuration int64                `json:"currentStageDuration"`
	StageHistory         []StageHistoryDetail `json:"stageHistory"`
}
