package user

import "time"

// User represents a person who can organize or join exchanges
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Wishlist  *string   `json:"wishlist,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
