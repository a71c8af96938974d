package model

import "time"

// Roles carried in the access token's "role" claim.
const (
    RoleCustomer = "CUSTOMER"
    RoleAdmin    = "ADMIN"
)

// User represents an account record of the store's `users` resource.
// Password holds a bcrypt hash and is never returned to API clients; use
// Public to obtain the sanitized view.
//
// Fields:
//  ID          – store identifier.
//  FullName    – display name.
//  Email       – unique login email (lower case).
//  Phone       – contact number used to prefill bookings.
//  Password    – bcrypt hash of the password.
//  DateOfBirth – optional, free form as stored.
//  Gender      – optional: male, female or other.
//  Role        – CUSTOMER or ADMIN (empty means CUSTOMER).
//  CreatedAt   – creation timestamp.
type User struct {
    ID          string    `json:"id"`
    FullName    string    `json:"fullName"`
    Email       string    `json:"email"`
    Phone       string    `json:"phone"`
    Password    string    `json:"password,omitempty"`
    DateOfBirth string    `json:"dateOfBirth"`
    Gender      string    `json:"gender"`
    Role        string    `json:"role,omitempty"`
    CreatedAt   time.Time `json:"createdAt"`
}

// PublicUser is the sanitized user returned by the API.
type PublicUser struct {
    ID          string    `json:"id"`
    FullName    string    `json:"fullName"`
    Email       string    `json:"email"`
    Phone       string    `json:"phone"`
    DateOfBirth string    `json:"dateOfBirth,omitempty"`
    Gender      string    `json:"gender,omitempty"`
    Role        string    `json:"role"`
    CreatedAt   time.Time `json:"createdAt"`
}

// EffectiveRole returns the user's role, defaulting to CUSTOMER.
func (u User) EffectiveRole() string {
    if u.Role == "" {
        return RoleCustomer
    }
    return u.Role
}

// Public strips the password hash.
func (u User) Public() PublicUser {
    return PublicUser{
        ID:          u.ID,
        FullName:    u.FullName,
        Email:       u.Email,
        Phone:       u.Phone,
        DateOfBirth: u.DateOfBirth,
        Gender:      u.Gender,
        Role:        u.EffectiveRole(),
        CreatedAt:   u.CreatedAt,
    }
}

// UserPatch lists the profile fields a user may change.  Nil fields are
// left untouched.
type UserPatch struct {
    FullName    *string `json:"fullName,omitempty"`
    Phone       *string `json:"phone,omitempty"`
    DateOfBirth *string `json:"dateOfBirth,omitempty"`
    Gender      *string `json:"gender,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
    return p.FullName == nil && p.Phone == nil && p.DateOfBirth == nil && p.Gender == nil
}
