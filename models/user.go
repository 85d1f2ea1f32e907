package models

import "time"

// Role values carried by authenticated callers.
const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleParent = "parent"
	RoleChild  = "child"
)

// User is an account known to the school: an administrator, a staff member,
// a parent, or a child. Authentication itself happens upstream; this record
// only backs lookups the booking engine needs (existence, role, age).
type User struct {
	ID          string    `bson:"id" json:"id"`
	FullName    string    `bson:"full_name" json:"fullName"`
	Email       string    `bson:"email" json:"email"`
	Role        string    `bson:"role" json:"role"`
	DateOfBirth time.Time `bson:"date_of_birth" json:"dateOfBirth"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

// AgeAt returns the user's age in whole years at the given instant.
func (u *User) AgeAt(now time.Time) int {
	age := now.Year() - u.DateOfBirth.Year()
	anniversary := u.DateOfBirth.AddDate(age, 0, 0)
	if anniversary.After(now) {
		age--
	}
	return age
}

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role string
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
