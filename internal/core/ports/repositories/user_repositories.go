package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/welth_backend/internal/core/domain"
)

// UserReader defines read operations for locally projected users.
type UserReader interface {
	// FindUserByID retrieves a user by identity-provider subject.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ListUsers retrieves all users, for the monthly report fan-out.
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// UserWriter defines write operations for locally projected users.
type UserWriter interface {
	// EnsureUser inserts the user row if it does not exist yet and refreshes
	// email/name when it does.
	EnsureUser(ctx context.Context, user domain.User) (*domain.User, error)

	// MarkReportSent records that a monthly report dispatch was attempted
	// for the user at sentAt.
	MarkReportSent(ctx context.Context, userID string, sentAt time.Time) error
}

// UserRepositoryFacade combines all user repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
