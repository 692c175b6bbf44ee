package entity

import "strings"

type UserRole string

const (
	RoleVisitor UserRole = "visitor"
	RoleAdmin   UserRole = "admin"
)

type User struct {
	Base
	Username     string   `db:"username"`
	Email        string   `db:"email"`
	PasswordHash string   `db:"password"`
	Role         UserRole `db:"role"`
	RealName     *string  `db:"real_name"`
	IDNo         *string  `db:"id_no"`
	Phone        *string  `db:"phone"`
	IsActive     bool     `db:"is_active"`
}

// IdentityVerified reports whether real name, ID number and phone are all on file.
func (u *User) IdentityVerified() bool {
	for _, v := range []*string{u.RealName, u.IDNo, u.Phone} {
		if v == nil || strings.TrimSpace(*v) == "" {
			return false
		}
	}
	return true
}
