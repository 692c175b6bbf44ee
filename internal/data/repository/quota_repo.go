package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"museum-booking/internal/data/entity"
	"museum-booking/pkg/database"
	"museum-booking/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type QuotaRepository interface {
	// Create inserts the day's row unless one exists; created reports which happened.
	Create(ctx context.Context, quota *entity.DailyQuota) (created bool, err error)
	FindByDate(ctx context.Context, date time.Time) (*entity.DailyQuota, error)
	// FindByDateForUpdate locks the day's row. All reservations for the
	// date serialize on this lock.
	FindByDateForUpdate(ctx context.Context, date time.Time) (*entity.DailyQuota, error)
	Update(ctx context.Context, quota *entity.DailyQuota) error
	RetireBefore(ctx context.Context, today, now time.Time) (int64, error)
}

type quotaRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewQuotaRepository(db database.DBTX, log *zap.Logger) QuotaRepository {
	return &quotaRepository{
		db:  db,
		log: log.With(zap.String("repository", "quota")),
	}
}

const quotaColumns = `id, visit_date, capacity, enabled, retired, created_at, updated_at`

func (r *quotaRepository) Create(ctx context.Context, quota *entity.DailyQuota) (bool, error) {
	query := `
		INSERT INTO daily_quotas (id, visit_date, capacity, enabled, retired, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (visit_date) DO NOTHING
	`

	result, err := r.db.Exec(ctx, query,
		quota.ID,
		quota.VisitDate,
		quota.Capacity,
		quota.Enabled,
		quota.Retired,
		quota.CreatedAt,
		quota.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create quota",
			zap.Error(err),
			zap.String("visit_date", utils.FormatDate(quota.VisitDate)),
		)
		return false, fmt.Errorf("create quota for %s: %w", utils.FormatDate(quota.VisitDate), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *quotaRepository) FindByDate(ctx context.Context, date time.Time) (*entity.DailyQuota, error) {
	query := `SELECT ` + quotaColumns + ` FROM daily_quotas WHERE visit_date = $1`
	return r.findOne(ctx, query, date)
}

func (r *quotaRepository) FindByDateForUpdate(ctx context.Context, date time.Time) (*entity.DailyQuota, error) {
	query := `SELECT ` + quotaColumns + ` FROM daily_quotas WHERE visit_date = $1 FOR UPDATE`
	return r.findOne(ctx, query, date)
}

func (r *quotaRepository) findOne(ctx context.Context, query string, date time.Time) (*entity.DailyQuota, error) {
	var quota entity.DailyQuota
	err := r.db.QueryRow(ctx, query, date).Scan(
		&quota.ID,
		&quota.VisitDate,
		&quota.Capacity,
		&quota.Enabled,
		&quota.Retired,
		&quota.CreatedAt,
		&quota.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find quota",
			zap.Error(err),
			zap.String("visit_date", utils.FormatDate(date)),
		)
		return nil, fmt.Errorf("find quota for %s: %w", utils.FormatDate(date), err)
	}

	quota.VisitDate = utils.DateOf(quota.VisitDate)
	return &quota, nil
}

func (r *quotaRepository) Update(ctx context.Context, quota *entity.DailyQuota) error {
	query := `
		UPDATE daily_quotas
		SET capacity = $2, enabled = $3, retired = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		quota.ID,
		quota.Capacity,
		quota.Enabled,
		quota.Retired,
		quota.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update quota",
			zap.Error(err),
			zap.String("visit_date", utils.FormatDate(quota.VisitDate)),
		)
		return fmt.Errorf("update quota for %s: %w", utils.FormatDate(quota.VisitDate), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("quota for %s not found", utils.FormatDate(quota.VisitDate))
	}

	return nil
}

// RetireBefore soft-deletes every quota row for a day before today.
func (r *quotaRepository) RetireBefore(ctx context.Context, today, now time.Time) (int64, error) {
	query := `
		UPDATE daily_quotas
		SET retired = TRUE, updated_at = $2
		WHERE visit_date < $1 AND retired = FALSE
	`

	result, err := r.db.Exec(ctx, query, today, now)
	if err != nil {
		r.log.Error("Failed to retire past quotas", zap.Error(err))
		return 0, fmt.Errorf("retire quotas before %s: %w", utils.FormatDate(today), err)
	}

	return result.RowsAffected(), nil
}
