package model

import "time"

// Customer is a credential-store row. Password always holds a bcrypt hash,
// never the raw secret.
type Customer struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	Username  string    `db:"username"`
	Password  string    `db:"password"`
	Phone     *string   `db:"phone"` // nullable
	Image     *string   `db:"image"` // nullable, URL from the image host
	IsAdmin   bool      `db:"is_admin"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Profile is the customer projection returned to clients. It never carries
// the password hash.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Phone     *string   `json:"phone,omitempty"`
	Image     *string   `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile strips the password hash from a customer row.
func (c *Customer) Profile() Profile {
	return Profile{
		ID:        c.ID,
		Email:     c.Email,
		Username:  c.Username,
		Phone:     c.Phone,
		Image:     c.Image,
		CreatedAt: c.CreatedAt,
	}
}
