package domain

const (
	EventUserRegistered = "onboarding.user_registered"
	EventCompensated    = "onboarding.compensated"
)

type UserRegisteredEvent struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// CompensatedEvent records a rollback of one half of a registration after
// the other half failed.
type CompensatedEvent struct {
	Email    string `json:"email"`
	AssetKey string `json:"asset_key"`
	Reason   string `json:"reason"`
}
