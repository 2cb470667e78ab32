package models

import "time"

// User roles consulted for authorization. Accounts are provisioned by the
// identity service; this API only reads them.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// User represents an account referenced by assignments and submissions.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"size:32;not null" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
