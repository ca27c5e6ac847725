package models

import (
	"strings"
	"time"
)

// Gender is stored as its canonical text name.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// ParseGender matches the input case-insensitively against the known genders
// and returns the canonical value. The boolean is false for anything else.
func ParseGender(s string) (Gender, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male":
		return GenderMale, true
	case "female":
		return GenderFemale, true
	}
	return "", false
}

// Client represents a contact record in the directory.
// Age is kept as free text; validation bounds it to 1-100 on the way in.
// Deleted marks the row as logically removed; such rows never leave the
// repository layer.
type Client struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Age       *string   `json:"age,omitempty" db:"age"`
	Gender    Gender    `json:"gender" db:"gender"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	Deleted   bool      `json:"-" db:"deleted"`
}
