package apperror

// Validation
var (
	ErrInvalidInput = New(KindValidation, "INVALID_INPUT", "invalid input")
	ErrDateInvalid  = New(KindValidation, "DATE_INVALID", "visit date is invalid")
	ErrExpired      = New(KindValidation, "EXPIRED", "booking has expired")
)

// Not found
var (
	ErrBookingNotFound = New(KindNotFound, "BOOKING_NOT_FOUND", "booking not found")
	ErrQuotaNotFound   = New(KindNotFound, "QUOTA_NOT_FOUND", "quota not found for date")
	ErrUserNotFound    = New(KindNotFound, "USER_NOT_FOUND", "user not found")
	ErrNoticeNotFound  = New(KindNotFound, "NOTICE_NOT_FOUND", "notice not found")
)

// Conflict
var (
	ErrAlreadyBooked         = New(KindConflict, "ALREADY_BOOKED", "an active booking already exists for this date")
	ErrQuotaExhausted        = New(KindConflict, "QUOTA_EXHAUSTED", "no remaining capacity for this date")
	ErrRescheduleLimit       = New(KindConflict, "RESCHEDULE_LIMIT_EXCEEDED", "already rescheduled once today, try again tomorrow")
	ErrCapacityBelowReserved = New(KindConflict, "CAPACITY_BELOW_RESERVED", "capacity cannot be lower than reserved count")
	ErrAccountAlreadyExists  = New(KindConflict, "ACCOUNT_EXISTS", "email or username already registered")
)

// State
var (
	ErrInvalidTransition = New(KindState, "INVALID_TRANSITION", "booking state does not allow this operation")
	ErrAlreadyVerified   = New(KindState, "ALREADY_VERIFIED", "booking already verified")
)

// Authorization
var (
	ErrNotOwner         = New(KindAuthorization, "NOT_OWNER", "booking does not belong to this user")
	ErrIdentityRequired = New(KindAuthorization, "IDENTITY_REQUIRED", "identity required: bind real name, ID number and phone first")
	ErrAccountDisabled  = New(KindAuthorization, "ACCOUNT_DISABLED", "account is deactivated")
)

// Unauthenticated
var (
	ErrInvalidCredentials = New(KindUnauthenticated, "INVALID_CREDENTIALS", "invalid credentials")
)

// Configuration
var (
	ErrQuotaMissing  = New(KindConfiguration, "QUOTA_MISSING", "no quota configured for this date")
	ErrQuotaDisabled = New(KindConfiguration, "QUOTA_DISABLED", "booking is disabled for this date")
)
