package response

import (
	"strings"
	"time"

	"museum-booking/internal/data/entity"
)

type AuthResponse struct {
	UserID    string          `json:"user_id"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Email     string          `json:"email"`
	Username  string          `json:"username"`
	Role      entity.UserRole `json:"role"`
}

type UserResponse struct {
	ID               string          `json:"id"`
	Username         string          `json:"username"`
	Email            string          `json:"email"`
	Role             entity.UserRole `json:"role"`
	RealName         *string         `json:"real_name,omitempty"`
	IDNo             *string         `json:"id_no,omitempty"`
	Phone            *string         `json:"phone,omitempty"`
	IdentityVerified bool            `json:"identity_verified"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Helper converters
func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:               user.ID.String(),
		Username:         user.Username,
		Email:            user.Email,
		Role:             user.Role,
		RealName:         user.RealName,
		IDNo:             maskIDNo(user.IDNo),
		Phone:            user.Phone,
		IdentityVerified: user.IdentityVerified(),
		CreatedAt:        user.CreatedAt,
	}
}

// maskIDNo keeps the first and last four characters.
func maskIDNo(idNo *string) *string {
	if idNo == nil || len(*idNo) <= 8 {
		return idNo
	}
	s := *idNo
	masked := s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
	return &masked
}

func AuthToResponse(user *entity.User, session *entity.Session) AuthResponse {
	resp := AuthResponse{
		UserID:   user.ID.String(),
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	}

	if session != nil {
		resp.Token = session.Token.String()
		resp.ExpiresAt = session.ExpiresAt
	}

	return resp
}
