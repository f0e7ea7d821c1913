package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is a shop account. Stored in profiles.
type User struct {
	bun.BaseModel `bun:"table:profiles,alias:u"`
	Id           uuid.UUID  `json:"id" bun:"id,pk,type:uuid"`
	FullName     string     `json:"full_name" bun:"full_name,notnull"`
	Username     string     `json:"username" bun:"username,unique,notnull"`
	Email        string     `json:"email" bun:"email,unique,notnull"`
	PasswordHash string     `json:"-" bun:"password_hash,notnull"`
	Role         Role       `json:"role" bun:"role,notnull"`
	LastLogin    *time.Time `json:"last_login,omitempty" bun:"last_login,nullzero"`
	CreatedAt    time.Time  `json:"created_at" bun:"created_at,notnull"`
}
