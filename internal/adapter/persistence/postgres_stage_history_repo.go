package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/salesdeck/salesdeck/internal/domain"
	"github.com/salesdeck/salesdeck/internal/ports"
)

// PostgresStageHistoryRepository implements StageHistoryRepository using
// PostgreSQL. Rows in deal_stage_history are insert-only; the schema carries
// an index on (deal_id, changed_at) for the per-deal scans.
type PostgresStageHistoryRepository struct {
	db *sql.DB
}

// NewPostgresStageHistoryRepository creates a new PostgreSQL stage history repository
func NewPostgresStageHistoryRepository(db *sql.DB) ports.StageHistoryRepository {
	return &PostgresStageHistoryRepository{db: db}
}

// Create appends a new history entry
func (r *PostgresStageHistoryRepository) Create(ctx context.Context, entry *domain.StageHistoryEntry) error {
	query := `
		INSERT INTO deal_stage_history (id, deal_id, stage_id, user_id, changed_at, duration_in_stage, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		entry.ID,
		entry.DealID,
		entry.StageID,
		entry.UserID,
		entry.ChangedAt,
		entry.DurationInStage,
		entry.Notes,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create stage history entry: %w", err)
	}
	return nil
}

const detailSelect = `
	SELECT h.id, h.deal_id, h.stage_id, h.user_id, h.changed_at, h.duration_in_stage, h.notes, h.created_at,
		s.name, s.color, u.name, u.email
	FROM deal_stage_history h
	LEFT JOIN stages s ON s.id = h.stage_id
	JOIN users u ON u.id = h.user_id
`

// FindByDeal retrieves a deal's entries ascending by changed_at with stage
// and user details joined
func (r *PostgresStageHistoryRepository) FindByDeal(ctx context.Context, dealID string) ([]domain.StageHistoryDetail, error) {
	query := detailSelect + `
		WHERE h.deal_id = $1
		ORDER BY h.changed_at ASC
	`

	rows, err := executor(ctx, r.db).QueryContext(ctx, query, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to query deal history: %w", err)
	}
	defer rows.Close()

	return scanDetails(rows)
}

// FindLastByDeal retrieves the most recent entry for a deal, or nil when the
// deal has no history
func (r *PostgresStageHistoryRepository) FindLastByDeal(ctx context.Context, dealID string) (*domain.StageHistoryEntry, error) {
	query := `
		SELECT id, deal_id, stage_id, user_id, changed_at, duration_in_stage, notes, created_at
		FROM deal_stage_history
		WHERE deal_id = $1
		ORDER BY changed_at DESC
		LIMIT 1
	`

	var entry domain.StageHistoryEntry
	err := executor(ctx, r.db).QueryRowContext(ctx, query, dealID).Scan(
		&entry.ID,
		&entry.DealID,
		&entry.StageID,
		&entry.UserID,
		&entry.ChangedAt,
		&entry.DurationInStage,
		&entry.Notes,
		&entry.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find last history entry: %w", err)
	}
	return &entry, nil
}

// FindByOrganization retrieves the entries of all deals belonging to an
// organization, ascending by changed_at
func (r *PostgresStageHistoryRepository) FindByOrganization(ctx context.Context, organizationID string) ([]domain.StageHistoryDetail, error) {
	query := detailSelect + `
		JOIN deals d ON d.id = h.deal_id
		WHERE d.organization_id = $1
		ORDER BY h.changed_at ASC
	`

	rows, err := executor(ctx, r.db).QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query organization history: %w", err)
	}
	defer rows.Close()

	return scanDetails(rows)
}

// DeleteByDeal removes all entries for a deal
func (r *PostgresStageHistoryRepository) DeleteByDeal(ctx context.Context, dealID string) error {
	query := `DELETE FROM deal_stage_history WHERE deal_id = $1`

	if _, err := executor(ctx, r.db).ExecContext(ctx, query, dealID); err != nil {
		return fmt.Errorf("failed to delete deal history: %w", err)
	}
	return nil
}

func scanDetails(rows *sql.Rows) ([]domain.StageHistoryDetail, error) {
	var details []domain.StageHistoryDetail

	for rows.Next() {
		var d domain.StageHistoryDetail
		var stageName, stageColor sql.NullString

		err := rows.Scan(
			&d.ID,
			&d.DealID,
			&d.StageID,
			&d.UserID,
			&d.ChangedAt,
			&d.DurationInStage,
			&d.Notes,
			&d.CreatedAt,
			&stageName,
			&stageColor,
			&d.UserName,
			&d.UserEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		if stageName.Valid {
			d.StageName = &stageName.String
		}
		if stageColor.Valid {
			d.StageColor = &stageColor.String
		}

		details = append(details, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history entries: %w", err)
	}
	return details, nil
}
