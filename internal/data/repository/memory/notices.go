package memory

import (
	"context"
	"sort"

	"museum-booking/internal/data/entity"

	"github.com/google/uuid"
)

type noticeRepository struct {
	*scope
}

func (r *noticeRepository) Create(_ context.Context, notice *entity.Notice) error {
	return r.write(func() (func(), error) {
		r.db.notices = append(r.db.notices, clone(notice))
		n := len(r.db.notices)
		return func() { r.db.notices = r.db.notices[:n-1] }, nil
	})
}

func (r *noticeRepository) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Notice, error) {
	var found []*entity.Notice
	r.read(func() {
		for _, n := range r.db.notices {
			if n.UserID == userID {
				found = append(found, clone(n))
			}
		}
	})

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].CreatedAt.After(found[j].CreatedAt)
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

func (r *noticeRepository) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	r.read(func() {
		for _, n := range r.db.notices {
			if n.UserID == userID {
				count++
			}
		}
	})
	return count, nil
}

func (r *noticeRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Notice, error) {
	var out *entity.Notice
	r.read(func() {
		for _, n := range r.db.notices {
			if n.ID == id {
				out = clone(n)
				return
			}
		}
	})
	return out, nil
}

func (r *noticeRepository) MarkRead(_ context.Context, id uuid.UUID) error {
	return r.write(func() (func(), error) {
		for i, n := range r.db.notices {
			if n.ID != id {
				continue
			}
			read := clone(n)
			read.IsRead = true
			r.db.notices[i] = read
			return func() { r.db.notices[i] = n }, nil
		}
		return nil, nil
	})
}

func (r *noticeRepository) MarkAllRead(_ context.Context, userID uuid.UUID) (int64, error) {
	var changed int64
	err := r.write(func() (func(), error) {
		prevs := make(map[int]*entity.Notice)
		for i, n := range r.db.notices {
			if n.UserID != userID || n.IsRead {
				continue
			}
			prevs[i] = n
			read := clone(n)
			read.IsRead = true
			r.db.notices[i] = read
		}
		changed = int64(len(prevs))
		return func() {
			for i, p := range prevs {
				r.db.notices[i] = p
			}
		}, nil
	})
	return changed, err
}
