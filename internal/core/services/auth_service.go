package services

import (
	"context"
	"log"
	"strings"

	"keytrack/internal/adapters/persistence/repositories"
	"keytrack/internal/config"
	"keytrack/internal/core/domain"
	"keytrack/internal/pkg/jwt"
	"keytrack/internal/pkg/password"
)

// AuthService handles sign-up and login
type AuthService struct {
	users       *repositories.UserRepository
	userService *UserService
	seeder      *config.Seeder
	cfg         *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	repos *repositories.Repositories,
	userService *UserService,
	seeder *config.Seeder,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		users:       repos.Users,
		userService: userService,
		seeder:      seeder,
		cfg:         cfg,
	}
}

// SignupInput represents self-registration input
type SignupInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User        *domain.UserResponse `json:"user"`
	AccessToken string               `json:"accessToken"`
	ExpiresIn   int                  `json:"expiresIn"` // seconds
}

// Signup registers a user with role "user"
func (s *AuthService) Signup(ctx context.Context, input *SignupInput) (*domain.UserResponse, error) {
	if isBlank(input.Name) || isBlank(input.Email) || input.Password == "" {
		return nil, domain.ErrSignupFields
	}

	existing, err := s.userService.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	department := input.Department
	if isBlank(department) {
		department = "Unassigned"
	}

	created, err := s.users.Create(ctx, &domain.User{
		Name:       input.Name,
		Email:      strings.TrimSpace(input.Email),
		Password:   hashed,
		Department: department,
		Phone:      input.Phone,
		Role:       domain.RoleUser,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User signed up: %s", created.Email)
	return created.ToResponse(), nil
}

// Login checks the credentials and issues an access token.
// Seed accounts are created first when no user exists yet.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	if isBlank(input.Email) || input.Password == "" {
		return nil, domain.ErrLoginFields
	}

	if err := s.seeder.Run(ctx); err != nil {
		return nil, err
	}

	user, err := s.userService.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if password.IsHashed(user.Password) {
		if !password.Verify(input.Password, user.Password) {
			return nil, domain.ErrInvalidCredentials
		}
	} else {
		if user.Password != input.Password {
			return nil, domain.ErrInvalidCredentials
		}
		s.upgradeLegacyPassword(ctx, user.ID, input.Password)
	}

	token, err := jwt.GenerateAccessToken(
		user.ID,
		user.Email,
		string(user.Role),
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:        user.ToResponse(),
		AccessToken: token,
		ExpiresIn:   s.cfg.JWT.AccessTokenMins * 60,
	}, nil
}

// upgradeLegacyPassword replaces a plain-text password stored by an older
// version with its hash. Failure only means the upgrade is retried next login.
func (s *AuthService) upgradeLegacyPassword(ctx context.Context, userID, plain string) {
	hashed, err := password.Hash(plain)
	if err != nil {
		log.Printf("⚠️ Failed to hash legacy password for %s: %v", userID, err)
		return
	}
	if _, err := s.users.Patch(ctx, userID, func(u *domain.User) { u.Password = hashed }); err != nil {
		log.Printf("⚠️ Failed to upgrade legacy password for %s: %v", userID, err)
		return
	}
	log.Printf("🔐 Upgraded legacy password for %s", userID)
}
