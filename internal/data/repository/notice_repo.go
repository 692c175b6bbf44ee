package repository

import (
	"context"
	"errors"
	"fmt"

	"museum-booking/internal/data/entity"
	"museum-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type NoticeRepository interface {
	Create(ctx context.Context, notice *entity.Notice) error
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Notice, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Notice, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type noticeRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewNoticeRepository(db database.DBTX, log *zap.Logger) NoticeRepository {
	return &noticeRepository{
		db:  db,
		log: log.With(zap.String("repository", "notice")),
	}
}

func (r *noticeRepository) Create(ctx context.Context, notice *entity.Notice) error {
	query := `
		INSERT INTO user_notices (id, user_id, booking_id, kind, title, content, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		notice.ID,
		notice.UserID,
		notice.BookingID,
		notice.Kind,
		notice.Title,
		notice.Content,
		notice.IsRead,
		notice.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create notice",
			zap.Error(err),
			zap.String("user_id", notice.UserID.String()),
		)
		return fmt.Errorf("create notice for user %s: %w", notice.UserID, err)
	}

	return nil
}

func (r *noticeRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Notice, error) {
	query := `
		SELECT id, user_id, booking_id, kind, title, content, is_read, created_at
		FROM user_notices
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to get notices", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find notices for user %s: %w", userID, err)
	}
	defer rows.Close()

	var notices []*entity.Notice
	for rows.Next() {
		var n entity.Notice
		if err := rows.Scan(&n.ID, &n.UserID, &n.BookingID, &n.Kind, &n.Title, &n.Content, &n.IsRead, &n.CreatedAt); err != nil {
			r.log.Error("Failed to scan notice row", zap.Error(err))
			return nil, fmt.Errorf("scan notice row: %w", err)
		}
		notices = append(notices, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notice rows: %w", err)
	}

	return notices, nil
}

func (r *noticeRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM user_notices WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count notices", zap.Error(err))
		return 0, fmt.Errorf("count notices for user %s: %w", userID, err)
	}
	return count, nil
}

func (r *noticeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Notice, error) {
	query := `
		SELECT id, user_id, booking_id, kind, title, content, is_read, created_at
		FROM user_notices
		WHERE id = $1
	`

	var n entity.Notice
	err := r.db.QueryRow(ctx, query, id).Scan(&n.ID, &n.UserID, &n.BookingID, &n.Kind, &n.Title, &n.Content, &n.IsRead, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find notice", zap.Error(err), zap.String("notice_id", id.String()))
		return nil, fmt.Errorf("find notice %s: %w", id, err)
	}

	return &n, nil
}

func (r *noticeRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE user_notices SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to mark notice read", zap.Error(err), zap.String("notice_id", id.String()))
		return fmt.Errorf("mark notice %s read: %w", id, err)
	}
	return nil
}

// MarkAllRead returns how many notices changed.
func (r *noticeRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := r.db.Exec(ctx, `UPDATE user_notices SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		r.log.Error("Failed to mark notices read", zap.Error(err), zap.String("user_id", userID.String()))
		return 0, fmt.Errorf("mark notices read for user %s: %w", userID, err)
	}
	return result.RowsAffected(), nil
}
