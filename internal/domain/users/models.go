package users

import (
	"time"

	"appraisal/internal/domain/auth"
)

type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	PasswordHash   string    `json:"-"`
	Role           auth.Role `json:"role"`
	Department     string    `json:"department"`
	ManagerID      string    `json:"managerId,omitempty"`
	ManagerName    string    `json:"managerName,omitempty"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (u User) Actor() auth.Actor {
	return auth.Actor{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		ManagerID:  u.ManagerID,
	}
}

type NewUser struct {
	Email        string
	Name         string
	PasswordHash string
	Role         auth.Role
	Department   string
	ManagerID    string
}

// ProfileChanges holds self-service edits. Empty fields keep the stored value.
type ProfileChanges struct {
	Name           string
	Department     string
	ProfilePicture string
	PasswordHash   string
}

// Assignment is an HR change of role and reporting line. A nil ManagerID
// leaves the manager untouched, an empty one clears it.
type Assignment struct {
	Role      auth.Role
	ManagerID *string
}

type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Role       string
	Department string
	ManagerID  string
}

type ProfileInput struct {
	Name           string
	Department     string
	ProfilePicture string
	Password       string
}

type AssignmentInput struct {
	Role      string
	ManagerID *string
}

// Session is returned by register and login.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type PictureUpload struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expiresAt"`
}
