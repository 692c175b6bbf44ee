package repository

import (
	"context"
	"errors"
	"fmt"

	"museum-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Repository struct {
	User    UserRepository
	Session SessionRepository
	Booking BookingRepository
	Quota   QuotaRepository
	Notice  NoticeRepository
}

// NewRepository builds every repository over db, which may be the pool or an open tx.
func NewRepository(db database.DBTX, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Session: NewSessionRepository(db, log),
		Booking: NewBookingRepository(db, log),
		Quota:   NewQuotaRepository(db, log),
		Notice:  NewNoticeRepository(db, log),
	}
}

// Transactor runs fn against repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repo *Repository) error) error
}

// Store is the repository set plus the transaction entry point.
type Store struct {
	*Repository
	Tx Transactor
}

func NewStore(db database.PgxIface, log *zap.Logger) *Store {
	return &Store{
		Repository: NewRepository(db, log),
		Tx:         NewTransactor(db, log),
	}
}

type pgxTransactor struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTransactor(db database.PgxIface, log *zap.Logger) Transactor {
	return &pgxTransactor{
		db:  db,
		log: log,
	}
}

func (t *pgxTransactor) WithinTx(ctx context.Context, fn func(repo *Repository) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(NewRepository(tx, t.log)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, fmt.Errorf("rollback transaction: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
