package secureauth

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Role names recognized by the SecureAuth API. Membership checks are
// case-sensitive exact matches against these values.
const (
	// RoleAdmin is an exported constant or variable used by the session client.
	RoleAdmin = "ADMIN"
	// RoleManager is an exported constant or variable used by the session client.
	RoleManager = "MANAGER"
	// RoleSecurity is an exported constant or variable used by the session client.
	RoleSecurity = "SECURITY"
	// RoleUser is an exported constant or variable used by the session client.
	RoleUser = "USER"
)

// Timestamp defines a public type used by secureauth APIs.
//
// Timestamp instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// The server serializes timestamps as zone-less local date-times
// ("2006-01-02T15:04:05"); RFC 3339 is accepted as well.
type Timestamp struct {
	time.Time
}

const timestampLayout = "2006-01-02T15:04:05"

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, timestampLayout + ".999999999", timestampLayout} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(timestampLayout))
}

// Profile defines a public type used by secureauth APIs.
//
// Profile instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// It is the cached identity persisted at login and consulted for role checks;
// the wire shape is a subset of [User], so the login payload decodes into it
// directly.
type Profile struct {
	Username           string   `json:"username"`
	Email              string   `json:"email"`
	FirstName          string   `json:"firstName"`
	LastName           string   `json:"lastName"`
	Roles              []string `json:"roles"`
	MustChangePassword bool     `json:"mustChangePassword"`
	TwoFactorEnabled   bool     `json:"twoFactorEnabled"`
}

// DisplayName describes the displayname operation and its observable behavior.
//
// DisplayName does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p Profile) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.Username
	}
	return name
}

// HasRole describes the hasrole operation and its observable behavior.
//
// HasRole does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p Profile) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// LoginResult defines a public type used by secureauth APIs.
//
// LoginResult instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// Either TwoFactorRequired is set (with TempToken, no tokens stored yet;
// [Client.Login] pairs that result with [ErrTwoFactorRequired]) or the full
// session has been persisted to the token store.
type LoginResult struct {
	AccessToken        string
	RefreshToken       string
	SessionToken       string
	Profile            Profile
	MustChangePassword bool
	TwoFactorRequired  bool
	TempToken          string
}

// Page defines a public type used by secureauth APIs.
//
// Page instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// User defines a public type used by secureauth APIs.
//
// User instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type User struct {
	ID                 int64     `json:"id"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	FirstName          string    `json:"firstName"`
	LastName           string    `json:"lastName"`
	PhoneNumber        string    `json:"phoneNumber"`
	Enabled            bool      `json:"enabled"`
	AccountNonLocked   bool      `json:"accountNonLocked"`
	MustChangePassword bool      `json:"mustChangePassword"`
	TwoFactorEnabled   bool      `json:"twoFactorEnabled"`
	Roles              []string  `json:"roles"`
	CreatedAt          Timestamp `json:"createdAt"`
	LastLoginAt        Timestamp `json:"lastLoginAt"`
}

// Role defines a public type used by secureauth APIs.
//
// Role instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	Active      bool      `json:"active"`
	CreatedAt   Timestamp `json:"createdAt"`
}

// AuditLog defines a public type used by secureauth APIs.
//
// AuditLog instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditLog struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Action       string    `json:"action"`
	Details      string    `json:"details"`
	IPAddress    string    `json:"ipAddress"`
	UserAgent    string    `json:"userAgent"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"errorMessage"`
	Timestamp    Timestamp `json:"timestamp"`
}

// Session defines a public type used by secureauth APIs.
//
// Session instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Session struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	IPAddress      string    `json:"ipAddress"`
	UserAgent      string    `json:"userAgent"`
	LoginTime      Timestamp `json:"loginTime"`
	LastActivity   Timestamp `json:"lastActivity"`
	Active         bool      `json:"active"`
	CurrentSession bool      `json:"currentSession"`
}

// APIKey defines a public type used by secureauth APIs.
//
// APIKey instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type APIKey struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	KeyPrefix   string    `json:"keyPrefix"`
	FullKey     string    `json:"fullKey"` // populated only on creation
	CreatedAt   Timestamp `json:"createdAt"`
	ExpiresAt   Timestamp `json:"expiresAt"`
	LastUsedAt  Timestamp `json:"lastUsedAt"`
	Active      bool      `json:"active"`
}

// PasswordPolicy defines a public type used by secureauth APIs.
//
// PasswordPolicy instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PasswordPolicy struct {
	MinLength                     int  `json:"minLength"`
	MaxLength                     int  `json:"maxLength"`
	RequireUppercase              bool `json:"requireUppercase"`
	RequireLowercase              bool `json:"requireLowercase"`
	RequireNumbers                bool `json:"requireNumbers"`
	RequireSpecialChars           bool `json:"requireSpecialChars"`
	PasswordExpirationDays        int  `json:"passwordExpirationDays"`
	PasswordHistoryCount          int  `json:"passwordHistoryCount"`
	MaxLoginAttempts              int  `json:"maxLoginAttempts"`
	AccountLockoutDurationMinutes int  `json:"accountLockoutDurationMinutes"`
}

// RegistrationRequest defines a public type used by secureauth APIs.
//
// RegistrationRequest instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RegistrationRequest struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	PhoneNumber   string    `json:"phoneNumber"`
	CompanyName   string    `json:"companyName"`
	RequestReason string    `json:"requestReason"`
	Status        string    `json:"status"`
	RequestedAt   Timestamp `json:"requestedAt"`
	ProcessedAt   Timestamp `json:"processedAt"`
	ProcessedBy   string    `json:"processedBy"`
	AdminComment  string    `json:"adminComment"`
}

// TwoFactorSetup defines a public type used by secureauth APIs.
//
// TwoFactorSetup instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TwoFactorSetup struct {
	QRCodeURL string `json:"qrCodeUrl"`
	Secret    string `json:"secret"`
	Message   string `json:"message"`
}
