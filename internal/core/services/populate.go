package services

import (
	"context"
	"errors"
	"sort"

	"keytrack/internal/adapters/persistence/repositories"
	"keytrack/internal/core/domain"

	"golang.org/x/sync/errgroup"
)

// populateConcurrency bounds concurrent store reads while joining records
const populateConcurrency = 8

// populator joins assignments and requests with their key and user
type populator struct {
	keys  *repositories.KeyRepository
	users *repositories.UserRepository
}

func newPopulator(repos *repositories.Repositories) populator {
	return populator{keys: repos.Keys, users: repos.Users}
}

// key returns nil when the key no longer exists
func (p populator) key(ctx context.Context, id string) (*domain.Key, error) {
	key, err := p.keys.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	return key, err
}

// user returns nil when the user no longer exists
func (p populator) user(ctx context.Context, id string) (*domain.User, error) {
	user, err := p.users.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	return user, err
}

// userName falls back to "Unknown" for missing users
func (p populator) userName(ctx context.Context, id string) string {
	user, err := p.user(ctx, id)
	if err != nil || user == nil {
		return domain.UnknownName
	}
	return user.Name
}

func (p populator) assignments(ctx context.Context, list []*domain.KeyAssignment) ([]*domain.PopulatedAssignment, error) {
	out := make([]*domain.PopulatedAssignment, len(list))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(populateConcurrency)
	for i, a := range list {
		i, a := i, a
		g.Go(func() error {
			key, err := p.key(gctx, a.KeyID)
			if err != nil {
				return err
			}
			user, err := p.user(gctx, a.PersonnelID)
			if err != nil {
				return err
			}
			populated := &domain.PopulatedAssignment{KeyAssignment: *a, Key: key}
			if user != nil {
				populated.User = user.ToResponse()
			}
			out[i] = populated
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p populator) requests(ctx context.Context, list []*domain.KeyRequest) ([]*domain.PopulatedRequest, error) {
	out := make([]*domain.PopulatedRequest, len(list))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(populateConcurrency)
	for i, r := range list {
		i, r := i, r
		g.Go(func() error {
			user, err := p.user(gctx, r.PersonnelID)
			if err != nil {
				return err
			}
			populated := &domain.PopulatedRequest{KeyRequest: *r}
			if user != nil {
				populated.User = user.ToResponse()
			}
			out[i] = populated
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// sortByIssueDateDesc orders newest first, keeping index order on ties
func sortByIssueDateDesc(list []*domain.KeyAssignment) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].IssueDate.After(list[j].IssueDate)
	})
}

// activeAssignmentFor returns the first active assignment of a key in index order
func activeAssignmentFor(list []*domain.KeyAssignment, keyID string) *domain.KeyAssignment {
	for _, a := range list {
		if a.KeyID == keyID && a.IsActive() {
			return a
		}
	}
	return nil
}
