package user

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Name     string  `json:"name" validate:"required,notblank,max=100"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Wishlist *string `json:"wishlist,omitempty" validate:"omitempty,max=2000"`
}

// UpdateUserRequest represents the request body for updating a user
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Wishlist *string `json:"wishlist,omitempty" validate:"omitempty,max=2000"`
}

// UserResponse represents the response for a single user
type UserResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Wishlist  *string `json:"wishlist,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// ToResponse converts a User model to a UserResponse DTO
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Wishlist:  u.Wishlist,
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
