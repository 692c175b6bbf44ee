package memory

import (
	"context"
	"fmt"
	"time"

	"museum-booking/internal/data/entity"
	"museum-booking/pkg/utils"
)

type quotaRepository struct {
	*scope
}

func (r *quotaRepository) Create(_ context.Context, quota *entity.DailyQuota) (bool, error) {
	created := false
	err := r.write(func() (func(), error) {
		key := dateKey(quota.VisitDate)
		if _, ok := r.db.quotas[key]; ok {
			return nil, nil
		}
		q := clone(quota)
		q.VisitDate = utils.DateOf(q.VisitDate)
		r.db.quotas[key] = q
		created = true
		return func() { delete(r.db.quotas, key) }, nil
	})
	return created, err
}

func (r *quotaRepository) FindByDate(_ context.Context, date time.Time) (*entity.DailyQuota, error) {
	var out *entity.DailyQuota
	r.read(func() {
		out = clone(r.db.quotas[dateKey(date)])
	})
	return out, nil
}

func (r *quotaRepository) FindByDateForUpdate(ctx context.Context, date time.Time) (*entity.DailyQuota, error) {
	if err := r.lockRow(ctx, "quota:"+dateKey(date)); err != nil {
		return nil, err
	}
	return r.FindByDate(ctx, date)
}

func (r *quotaRepository) Update(_ context.Context, quota *entity.DailyQuota) error {
	return r.write(func() (func(), error) {
		key := dateKey(quota.VisitDate)
		prev, ok := r.db.quotas[key]
		if !ok {
			return nil, fmt.Errorf("quota for %s not found", key)
		}
		r.db.quotas[key] = clone(quota)
		return func() { r.db.quotas[key] = prev }, nil
	})
}

func (r *quotaRepository) RetireBefore(_ context.Context, today, now time.Time) (int64, error) {
	today = utils.DateOf(today)
	var n int64
	err := r.write(func() (func(), error) {
		prevs := make(map[string]*entity.DailyQuota)
		for key, q := range r.db.quotas {
			if q.Retired || !q.VisitDate.Before(today) {
				continue
			}
			prevs[key] = q
			retired := clone(q)
			retired.Retired = true
			retired.UpdatedAt = now
			r.db.quotas[key] = retired
		}
		n = int64(len(prevs))
		return func() {
			for key, p := range prevs {
				r.db.quotas[key] = p
			}
		}, nil
	})
	return n, err
}
