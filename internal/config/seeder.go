package config

import (
	"context"
	"log"

	"keytrack/internal/adapters/persistence/repositories"
	"keytrack/internal/core/domain"
	"keytrack/internal/pkg/password"
)

// Seeder creates the seed accounts when the user index is empty
type Seeder struct {
	users *repositories.UserRepository
}

// NewSeeder creates a new seeder instance
func NewSeeder(users *repositories.UserRepository) *Seeder {
	return &Seeder{users: users}
}

// Run seeds the admin accounts with hashed passwords.
// It is a no-op once any user exists.
func (s *Seeder) Run(ctx context.Context) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("🌱 Seeding admin users...")

	seed := make([]domain.User, len(domain.SeedUsers))
	for i, u := range domain.SeedUsers {
		hashed, err := password.Hash(u.Password)
		if err != nil {
			return err
		}
		u.Password = hashed
		seed[i] = u
	}

	if err := s.users.EnsureSeed(ctx, seed); err != nil {
		return err
	}

	log.Printf("✅ Seeded %d admin users", len(seed))
	return nil
}
