package request

type RegisterRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	RealName *string `json:"real_name,omitempty" validate:"omitempty,min=2,max=100"`
	IDNo     *string `json:"id_no,omitempty" validate:"omitempty,min=6,max=32"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateProfileRequest binds real-name information. Omitted fields are left as they are.
type UpdateProfileRequest struct {
	RealName *string `json:"real_name,omitempty" validate:"omitempty,min=2,max=100"`
	IDNo     *string `json:"id_no,omitempty" validate:"omitempty,min=6,max=32"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
}
