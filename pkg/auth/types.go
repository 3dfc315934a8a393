package auth

import (
	"encoding/json"
	"time"
)

// Identity is an email or phone signup/signin identity. Exactly one field
// must be set.
type Identity struct {
	Email string
	Phone string
}

// EmailIdentity returns an email Identity.
func EmailIdentity(email string) Identity { return Identity{Email: email} }

// PhoneIdentity returns a phone-number Identity.
func PhoneIdentity(phone string) Identity { return Identity{Phone: phone} }

func (id Identity) validate() error {
	if (id.Email == "") == (id.Phone == "") {
		return &Error{Kind: ErrInvalidParameters, Message: "exactly one of email or phone is required"}
	}
	return nil
}

// Session is the token bundle GoTrue returns from signup and token grants.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
}

// User is a GoTrue user record.
type User struct {
	ID               string            `json:"id"`
	Aud              string            `json:"aud,omitempty"`
	Role             string            `json:"role,omitempty"`
	Email            string            `json:"email,omitempty"`
	EmailConfirmedAt *time.Time        `json:"email_confirmed_at,omitempty"`
	Phone            string            `json:"phone,omitempty"`
	PhoneConfirmedAt *time.Time        `json:"phone_confirmed_at,omitempty"`
	LastSignInAt     *time.Time        `json:"last_sign_in_at,omitempty"`
	AppMetadata      map[string]any    `json:"app_metadata,omitempty"`
	UserMetadata     map[string]any    `json:"user_metadata,omitempty"`
	CreatedAt        *time.Time        `json:"created_at,omitempty"`
	UpdatedAt        *time.Time        `json:"updated_at,omitempty"`
	Identities       []json.RawMessage `json:"identities,omitempty"`
}

// UserUpdate carries attribute changes for UpdateUser.
type UserUpdate struct {
	Email    string            `json:"email,omitempty"`
	Phone    string            `json:"phone,omitempty"`
	Password string            `json:"password,omitempty"`
	Data     map[string]string `json:"data,omitempty"`
}
