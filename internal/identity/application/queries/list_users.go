package queries

import (
	"context"

	"github.com/felixgeelhaar/planify/internal/identity/domain"
	"github.com/google/uuid"
)

// UserDTO is a roster entry.
type UserDTO struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Surname  string    `json:"surname"`
	FullName string    `json:"full_name"`
}

// ListUsersQuery lists the users who can organize or be invited to
// meetings.
type ListUsersQuery struct{}

// ListUsersHandler handles the ListUsersQuery.
type ListUsersHandler struct {
	users domain.UserRepository
}

// NewListUsersHandler creates a new ListUsersHandler.
func NewListUsersHandler(users domain.UserRepository) *ListUsersHandler {
	return &ListUsersHandler{users: users}
}

// Handle returns active, unblocked users ordered by name.
func (h *ListUsersHandler) Handle(ctx context.Context, _ ListUsersQuery) ([]UserDTO, error) {
	users, err := h.users.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, UserDTO{
			ID:       u.ID(),
			Email:    u.Email().String(),
			Name:     u.Name().String(),
			Surname:  u.Surname(),
			FullName: u.FullName(),
		})
	}
	return dtos, nil
}
