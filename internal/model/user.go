package model

import (
	"database/sql"
	"time"
)

// Role values stored in users.role.  The API surface uses the lowercase
// strings directly; there is no separate roles table.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column.  An account carries either a
// password hash (local registration), a linked GitHub identity (federated
// login), or both once linking has occurred.  The json tags are omitted
// because handlers define separate response types with the camelCase names
// the API exposes.
//
// Fields:
//
//	ID             – primary key identifier of the user.
//	Email          – unique email address, stored lowercase.
//	PasswordHash   – bcrypt hashed password; NULL for OAuth-only accounts.
//	GitHubID       – GitHub account id; NULL until a GitHub identity is linked.
//	GitHubUsername – GitHub login name; set together with GitHubID.
//	FirstName      – given name.
//	LastName       – family name.
//	DateOfBirth    – date of birth (DATE column).
//	Gender         – free-form gender marker.
//	HeightCm       – height in centimeters, optional.
//	WeightKg       – weight in kilograms, optional.
//	Role           – "user" or "admin".
//	IsActive       – whether the account may authenticate.
//	EmailVerified  – whether the email was confirmed (GitHub emails are
//	                 trusted and marked verified on creation).
//	IsTest         – marks ephemeral fixtures so tooling can separate them
//	                 from real data; not a security control.
//	CreatedAt      – timestamp of creation.
//	UpdatedAt      – timestamp of last update.
type User struct {
	ID             uint64          // users.id
	Email          string          // users.email
	PasswordHash   sql.NullString  // users.password_hash
	GitHubID       sql.NullInt64   // users.github_id
	GitHubUsername sql.NullString  // users.github_username
	FirstName      string          // users.first_name
	LastName       string          // users.last_name
	DateOfBirth    time.Time       // users.date_of_birth
	Gender         string          // users.gender
	HeightCm       sql.NullFloat64 // users.height_cm
	WeightKg       sql.NullFloat64 // users.weight_kg
	Role           string          // users.role
	IsActive       bool            // users.is_active
	EmailVerified  bool            // users.email_verified
	IsTest         bool            // users.is_test
	CreatedAt      time.Time       // users.created_at
	UpdatedAt      time.Time       // users.updated_at
}
