package domain

import "time"

// UserStatus is the administrative state of an account.
type UserStatus string

const (
	UserActive  UserStatus = "ACTIVE"
	UserBlocked UserStatus = "BLOCKED"
)

// Valid reports whether s is ACTIVE or BLOCKED.
func (s UserStatus) Valid() bool { return s == UserActive || s == UserBlocked }

// User mirrors the user service's account record.
type User struct {
	ID          int64      `json:"user_id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	PhoneNumber string     `json:"phone_number,omitempty"`
	Address     string     `json:"address,omitempty"`
	Role        Role       `json:"role"`
	Status      UserStatus `json:"status,omitempty"`
	CreatedAt   time.Time  `json:"created_at,omitzero"`
	UpdatedAt   time.Time  `json:"updated_at,omitzero"`
}

// EffectiveStatus treats a missing status as ACTIVE, as the user service does.
func (u User) EffectiveStatus() UserStatus {
	if u.Status == "" {
		return UserActive
	}
	return u.Status
}

// FullName joins first and last name.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Session is an authenticated browser session. User and token are stored and
// destroyed together; a Session value is never partially populated.
type Session struct {
	ID            string    `json:"id"`
	User          User      `json:"user"`
	UpstreamToken string    `json:"upstream_token"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Expired reports whether the session has outlived its TTL at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// StatusAudit is one user status change, recorded for audit purposes.
type StatusAudit struct {
	UserID         int64
	UserEmail      string
	PreviousStatus UserStatus
	NewStatus      UserStatus
	Reason         string
	ActorID        int64
	Timestamp      time.Time
}

// Action names the audit event, USER_BLOCKED or USER_UNBLOCKED.
func (a StatusAudit) Action() string {
	if a.NewStatus == UserBlocked {
		return "USER_BLOCKED"
	}
	return "USER_UNBLOCKED"
}
