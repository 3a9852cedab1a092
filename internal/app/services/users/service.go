package users

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainuser "wayfare/internal/domain/user"
)

// Service covers profile self-service and the admin user dashboard.
type Service struct {
	Users  domainuser.Repository
	Logger *slog.Logger
	Now    func() time.Time
}

type UpdateParams struct {
	Name     *string
	Email    *string
	Role     *string
	PhotoURL *string
}

func (s *Service) ByID(ctx context.Context, id string) (*domainuser.User, error) {
	return s.Users.ByID(ctx, domainuser.ID(id))
}

func (s *Service) All(ctx context.Context) ([]*domainuser.User, error) {
	return s.Users.All(ctx)
}

// UpdateProfile is the self-service path; role changes are ignored here.
func (s *Service) UpdateProfile(ctx context.Context, id string, params UpdateParams) (*domainuser.User, error) {
	params.Role = nil
	return s.update(ctx, id, params)
}

// AdminUpdate may also reassign the role.
func (s *Service) AdminUpdate(ctx context.Context, id string, params UpdateParams) (*domainuser.User, error) {
	return s.update(ctx, id, params)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Users.Delete(ctx, domainuser.ID(id)); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("user deleted", "user_id", id)
	}
	return nil
}

func (s *Service) update(ctx context.Context, id string, params UpdateParams) (*domainuser.User, error) {
	u, err := s.Users.ByID(ctx, domainuser.ID(id))
	if err != nil {
		return nil, err
	}
	now := s.now()
	if params.Name != nil {
		if err := u.UpdateName(*params.Name, now); err != nil {
			return nil, err
		}
	}
	if params.Email != nil {
		email := domainuser.NormalizeEmail(*params.Email)
		if email == "" {
			return nil, domainuser.ErrEmailRequired
		}
		u.Email = email
		u.UpdatedAt = now
	}
	if params.Role != nil {
		if err := u.AssignRole(domainuser.Role(*params.Role), now); err != nil {
			return nil, err
		}
	}
	if params.PhotoURL != nil {
		u.PhotoURL = strings.TrimSpace(*params.PhotoURL)
		u.UpdatedAt = now
	}
	if err := s.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
