package auth

const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)
