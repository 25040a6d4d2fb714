package services

import (
	"context"
	"errors"
	"strings"

	"keytrack/internal/adapters/persistence/repositories"
	"keytrack/internal/core/domain"
	"keytrack/internal/pkg/password"
)

// UserService handles personnel management
type UserService struct {
	users       *repositories.UserRepository
	assignments *AssignmentService
}

// NewUserService creates a new user service
func NewUserService(repos *repositories.Repositories, assignments *AssignmentService) *UserService {
	return &UserService{
		users:       repos.Users,
		assignments: assignments,
	}
}

// CreateUserInput represents create user input (admin)
type CreateUserInput struct {
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Department string      `json:"department"`
	Phone      string      `json:"phone"`
	Role       domain.Role `json:"role"`
	RoomNumber string      `json:"roomNumber"`
	Password   string      `json:"password"`
}

// UpdateUserInput represents a partial user update
type UpdateUserInput struct {
	Name       *string      `json:"name"`
	Email      *string      `json:"email"`
	Department *string      `json:"department"`
	Phone      *string      `json:"phone"`
	Role       *domain.Role `json:"role"`
	RoomNumber *string      `json:"roomNumber"`
	Password   *string      `json:"password"`
}

// UserPage is a page of users without password hashes
type UserPage struct {
	Items []*domain.UserResponse `json:"items"`
	Next  *string                `json:"next"`
}

// List returns a page of users
func (s *UserService) List(ctx context.Context, cursor string, limit int) (*UserPage, error) {
	page, err := s.users.List(ctx, cursor, limit)
	if err != nil {
		return nil, err
	}

	out := &UserPage{
		Items: make([]*domain.UserResponse, 0, len(page.Items)),
		Next:  page.Next,
	}
	for _, u := range page.Items {
		out.Items = append(out.Items, u.ToResponse())
	}
	return out, nil
}

// Get returns one user
func (s *UserService) Get(ctx context.Context, id string) (*domain.UserResponse, error) {
	user, err := s.users.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// Create adds a user; the password is optional for personnel who never sign in
func (s *UserService) Create(ctx context.Context, input *CreateUserInput) (*domain.UserResponse, error) {
	if isBlank(input.Name) || isBlank(input.Department) || isBlank(input.Email) {
		return nil, domain.ErrUserFieldsRequired
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !validRole(role) {
		return nil, domain.ErrInvalidRole
	}

	user := &domain.User{
		Name:       input.Name,
		Email:      strings.TrimSpace(input.Email),
		Department: input.Department,
		Phone:      input.Phone,
		Role:       role,
		RoomNumber: input.RoomNumber,
	}
	if input.Password != "" {
		hashed, err := password.Hash(input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created.ToResponse(), nil
}

// Update patches a user
func (s *UserService) Update(ctx context.Context, id string, input *UpdateUserInput) (*domain.UserResponse, error) {
	if input.Role != nil && !validRole(*input.Role) {
		return nil, domain.ErrInvalidRole
	}

	var hashed string
	if input.Password != nil && *input.Password != "" {
		h, err := password.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		hashed = h
	}

	user, err := s.users.Patch(ctx, id, func(u *domain.User) {
		if input.Name != nil {
			u.Name = *input.Name
		}
		if input.Email != nil {
			u.Email = strings.TrimSpace(*input.Email)
		}
		if input.Department != nil {
			u.Department = *input.Department
		}
		if input.Phone != nil {
			u.Phone = *input.Phone
		}
		if input.Role != nil {
			u.Role = *input.Role
		}
		if input.RoomNumber != nil {
			u.RoomNumber = *input.RoomNumber
		}
		if hashed != "" {
			u.Password = hashed
		}
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// Delete removes a user. Their assignments are kept.
func (s *UserService) Delete(ctx context.Context, id string) error {
	existed, err := s.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !existed {
		return domain.ErrUserNotFound
	}
	return nil
}

// Keys returns the assignment history of a user
func (s *UserService) Keys(ctx context.Context, id string) ([]*domain.PopulatedAssignment, error) {
	return s.assignments.ForUser(ctx, id)
}

// FindByEmail looks a user up by e-mail, ignoring case. It returns nil when absent.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	all, err := s.users.All(ctx)
	if err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)
	for _, u := range all {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func validRole(r domain.Role) bool {
	return r == domain.RoleAdmin || r == domain.RoleUser
}
