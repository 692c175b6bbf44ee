package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"museum-booking/internal/data/entity"
	"museum-booking/internal/data/repository"
	"museum-booking/pkg/utils"

	"github.com/google/uuid"
)

type bookingRepository struct {
	*scope
}

// conflicts checks the two unique indexes the postgres schema carries.
// Callers hold db.mu.
func (r *bookingRepository) conflicts(b *entity.Booking) error {
	for id, other := range r.db.bookings {
		if id == b.ID {
			continue
		}
		if other.TicketCode == b.TicketCode {
			return repository.ErrDuplicateTicketCode
		}
		if b.Status.IsActive() && other.Status.IsActive() &&
			other.UserID == b.UserID && other.VisitDate.Equal(b.VisitDate) {
			return repository.ErrDuplicateActiveBooking
		}
	}
	return nil
}

func (r *bookingRepository) Create(_ context.Context, booking *entity.Booking) error {
	return r.write(func() (func(), error) {
		b := clone(booking)
		b.VisitDate = utils.DateOf(b.VisitDate)
		if err := r.conflicts(b); err != nil {
			return nil, err
		}
		r.db.bookings[b.ID] = b
		return func() { delete(r.db.bookings, b.ID) }, nil
	})
}

func (r *bookingRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	var out *entity.Booking
	r.read(func() {
		out = clone(r.db.bookings[id])
	})
	return out, nil
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	if err := r.lockRow(ctx, "booking:"+id.String()); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *bookingRepository) findByTicketCode(code string) *entity.Booking {
	var out *entity.Booking
	r.read(func() {
		for _, b := range r.db.bookings {
			if b.TicketCode == code {
				out = clone(b)
				return
			}
		}
	})
	return out
}

// FindByTicketCodeForUpdate locks by id. Ticket codes never change, so
// the row found before the lock is the row read after it.
func (r *bookingRepository) FindByTicketCodeForUpdate(ctx context.Context, code string) (*entity.Booking, error) {
	b := r.findByTicketCode(code)
	if b == nil {
		return nil, nil
	}
	return r.FindByIDForUpdate(ctx, b.ID)
}

func (r *bookingRepository) Update(_ context.Context, booking *entity.Booking) error {
	return r.write(func() (func(), error) {
		prev, ok := r.db.bookings[booking.ID]
		if !ok {
			return nil, fmt.Errorf("booking %s not found", booking.ID)
		}
		b := clone(booking)
		b.VisitDate = utils.DateOf(b.VisitDate)
		b.TicketCode = prev.TicketCode
		if err := r.conflicts(b); err != nil {
			return nil, err
		}
		r.db.bookings[b.ID] = b
		return func() { r.db.bookings[prev.ID] = prev }, nil
	})
}

func (r *bookingRepository) CountActiveByDate(_ context.Context, date time.Time) (int, error) {
	date = utils.DateOf(date)
	count := 0
	r.read(func() {
		for _, b := range r.db.bookings {
			if b.VisitDate.Equal(date) && b.Status.IsActive() {
				count++
			}
		}
	})
	return count, nil
}

func (r *bookingRepository) ExistsActiveForUser(_ context.Context, userID uuid.UUID, date time.Time, excludeID uuid.UUID) (bool, error) {
	date = utils.DateOf(date)
	exists := false
	r.read(func() {
		for _, b := range r.db.bookings {
			if b.ID != excludeID && b.UserID == userID && b.VisitDate.Equal(date) && b.Status.IsActive() {
				exists = true
				return
			}
		}
	})
	return exists, nil
}

func (r *bookingRepository) CountRescheduledByUser(_ context.Context, userID uuid.UUID, from, to time.Time) (int, error) {
	count := 0
	r.read(func() {
		for _, b := range r.db.bookings {
			if b.UserID != userID || b.RescheduledAt == nil {
				continue
			}
			at := *b.RescheduledAt
			if !at.Before(from) && at.Before(to) {
				count++
			}
		}
	})
	return count, nil
}

func (r *bookingRepository) ExpireOverdue(_ context.Context, from []entity.BookingStatus, today, now time.Time) (int64, error) {
	today = utils.DateOf(today)
	var n int64
	err := r.write(func() (func(), error) {
		var prevs []*entity.Booking
		for id, b := range r.db.bookings {
			if !b.VisitDate.Before(today) {
				continue
			}
			if !slices.Contains(from, b.Status) {
				continue
			}
			prevs = append(prevs, b)
			expired := clone(b)
			expired.Status = entity.BookingStatusExpired
			expired.UpdatedAt = now
			r.db.bookings[id] = expired
		}
		n = int64(len(prevs))
		return func() {
			for _, p := range prevs {
				r.db.bookings[p.ID] = p
			}
		}, nil
	})
	return n, err
}

func matches(b *entity.Booking, f repository.BookingFilter) bool {
	if f.UserID != nil && b.UserID != *f.UserID {
		return false
	}
	if f.VisitDate != nil && !b.VisitDate.Equal(utils.DateOf(*f.VisitDate)) {
		return false
	}
	if f.Status != nil && b.Status != *f.Status {
		return false
	}
	if f.TicketCode != "" && !strings.Contains(b.TicketCode, f.TicketCode) {
		return false
	}
	return true
}

func (r *bookingRepository) Search(_ context.Context, filter repository.BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	var found []*entity.Booking
	r.read(func() {
		for _, b := range r.db.bookings {
			if matches(b, filter) {
				found = append(found, clone(b))
			}
		}
	})

	sort.Slice(found, func(i, j int) bool {
		if !found[i].CreatedAt.Equal(found[j].CreatedAt) {
			return found[i].CreatedAt.After(found[j].CreatedAt)
		}
		return found[i].ID.String() < found[j].ID.String()
	})

	if offset >= len(found) {
		return nil, nil
	}
	end := offset + limit
	if end > len(found) {
		end = len(found)
	}
	return found[offset:end], nil
}

func (r *bookingRepository) Count(_ context.Context, filter repository.BookingFilter) (int64, error) {
	var n int64
	r.read(func() {
		for _, b := range r.db.bookings {
			if matches(b, filter) {
				n++
			}
		}
	})
	return n, nil
}
