package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/welth_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/welth_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/welth_backend/internal/core/ports/services"
)

// userService lazily projects identity-provider users into local rows.
type userService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) EnsureUser(ctx context.Context, userID string, email string, name string) (*domain.User, error) {
	now := time.Now()
	user, err := s.userRepo.EnsureUser(ctx, domain.User{
		UserID: userID,
		Email:  email,
		Name:   name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user %s: %w", userID, err)
	}
	return user, nil
}
