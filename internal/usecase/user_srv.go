package usecase

import (
	"context"

	"museum-booking/internal/data/repository"
	"museum-booking/internal/dto/request"
	"museum-booking/internal/dto/response"
	"museum-booking/pkg/apperror"
	"museum-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error)
	GetNotices(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.NoticeResponse], error)
	// GetNotice returns one of the visitor's notices and marks it read.
	GetNotice(ctx context.Context, userID, noticeID uuid.UUID) (*response.NoticeResponse, error)
	ReadAllNotices(ctx context.Context, userID uuid.UUID) (*response.ReadAllNoticesResponse, error)
}

type userService struct {
	repo  *repository.Repository
	clock utils.Clock
	log   *zap.Logger
}

func NewUserService(repo *repository.Repository, clock utils.Clock, log *zap.Logger) UserService {
	return &userService{
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := us.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fail(us.log, "get profile", err, zap.String("user_id", userID.String()))
	}
	if user == nil {
		return nil, apperror.ErrUserNotFound
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// UpdateProfile binds real-name information, which booking requires.
func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		us.log.Warn("Update profile validation failed", zap.Any("errors", errs))
		return nil, invalid(errs)
	}

	user, err := us.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fail(us.log, "update profile", err, zap.String("user_id", userID.String()))
	}
	if user == nil {
		return nil, apperror.ErrUserNotFound
	}

	if req.RealName != nil {
		user.RealName = req.RealName
	}
	if req.IDNo != nil {
		user.IDNo = req.IDNo
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	user.UpdatedAt = us.clock.Now()

	if err := us.repo.User.Update(ctx, user); err != nil {
		return nil, fail(us.log, "update profile", err, zap.String("user_id", userID.String()))
	}

	us.log.Info("Profile updated",
		zap.String("user_id", userID.String()),
		zap.Bool("identity_verified", user.IdentityVerified()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) GetNotices(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.NoticeResponse], error) {
	notices, err := us.repo.Notice.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fail(us.log, "get notices", err, zap.String("user_id", userID.String()))
	}

	total, err := us.repo.Notice.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fail(us.log, "count notices", err, zap.String("user_id", userID.String()))
	}

	items := make([]response.NoticeResponse, len(notices))
	for i, n := range notices {
		items[i] = response.NoticeToResponse(n)
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (us *userService) GetNotice(ctx context.Context, userID, noticeID uuid.UUID) (*response.NoticeResponse, error) {
	fields := []zap.Field{
		zap.String("user_id", userID.String()),
		zap.String("notice_id", noticeID.String()),
	}

	notice, err := us.repo.Notice.FindByID(ctx, noticeID)
	if err != nil {
		return nil, fail(us.log, "get notice", err, fields...)
	}
	// Someone else's notice is reported as missing
	if notice == nil || notice.UserID != userID {
		return nil, apperror.ErrNoticeNotFound
	}

	if !notice.IsRead {
		if err := us.repo.Notice.MarkRead(ctx, noticeID); err != nil {
			return nil, fail(us.log, "mark notice read", err, fields...)
		}
		notice.IsRead = true
	}

	resp := response.NoticeToResponse(notice)
	return &resp, nil
}

func (us *userService) ReadAllNotices(ctx context.Context, userID uuid.UUID) (*response.ReadAllNoticesResponse, error) {
	updated, err := us.repo.Notice.MarkAllRead(ctx, userID)
	if err != nil {
		return nil, fail(us.log, "read all notices", err, zap.String("user_id", userID.String()))
	}

	us.log.Info("Notices marked read",
		zap.String("user_id", userID.String()),
		zap.Int64("updated", updated))

	return &response.ReadAllNoticesResponse{Updated: updated}, nil
}
