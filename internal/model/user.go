package model

import "time"

// DefaultRole is assigned to users created without an explicit role.
const DefaultRole = "user"

// User is an administrative login identity. Password holds an opaque hash.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type NewUser struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
}
