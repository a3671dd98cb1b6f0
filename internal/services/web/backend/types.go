package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Roles known to the backend.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// UserID identifies a backend user. The API emits it as either a JSON number
// or a string; both decode to the same textual form.
type UserID string

// UnmarshalJSON accepts numeric and string identifiers.
func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = UserID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	*id = UserID(n.String())
	return nil
}

// MarshalJSON emits numeric-looking identifiers as numbers.
func (id UserID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// String returns the identifier text.
func (id UserID) String() string { return string(id) }

// User is the backend's user record.
type User struct {
	ID                 UserID `json:"id"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Email              string `json:"email"`
	DateOfBirth        string `json:"dateOfBirth"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	Role               string `json:"role"`
	CreatedAt          string `json:"createdAt,omitempty"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin reports whether the record carries the admin role.
func (u User) IsAdmin() bool {
	return strings.EqualFold(strings.TrimSpace(u.Role), RoleAdmin)
}

// Initials returns up to two uppercase initials for avatars.
func (u User) Initials() string {
	var out []rune
	for _, part := range []string{u.FirstName, u.LastName} {
		for _, r := range strings.TrimSpace(part) {
			out = append(out, r)
			break
		}
	}
	return strings.ToUpper(string(out))
}

// RegisterRequest is the registration payload. The password confirmation
// never leaves the web service.
type RegisterRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DateOfBirth string `json:"dateOfBirth"`
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"data"`
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Users       []User `json:"data"`
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
}

// UserUpdate carries the fields an admin edit sends. Nil fields are omitted.
type UserUpdate struct {
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	Email       *string `json:"email,omitempty"`
	DateOfBirth *string `json:"dateOfBirth,omitempty"`
	Role        *string `json:"role,omitempty"`
}

type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

// userResult accepts a user either bare or wrapped in a data envelope, and
// tolerates an empty response body.
type userResult struct {
	User User
}

func (r *userResult) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if inner, ok := fields["data"]; ok && string(bytes.TrimSpace(inner)) != "null" {
		return json.Unmarshal(inner, &r.User)
	}
	return json.Unmarshal(data, &r.User)
}

func (*userResult) optionalBody() {}

type optionalBody interface {
	optionalBody()
}
