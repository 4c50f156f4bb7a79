package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-accounts-api/internal/domain/entity"
	repo "github.com/oksasatya/user-accounts-api/internal/domain/repository"
)

const (
	msgEmailInUse = "Email is already in use"
	msgEmailTaken = "This email is already taken."
)

// bcrypt only reads the first 72 bytes and rejects anything longer.
const maxPasswordBytes = 72

// Lifecycle event types published after a successful commit.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

type Service struct {
	Repo   repo.UserRepository
	Hasher PasswordHasher
	Events EventPublisher // optional
	Logger *logrus.Logger
}

func NewService(repo repo.UserRepository, hasher PasswordHasher, events EventPublisher, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Service{
		Repo:   repo,
		Hasher: hasher,
		Events: events,
		Logger: logger,
	}
}

// CreateUserInput holds the fields of a new account. Nil means the field was not sent.
type CreateUserInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Roles     []string // nil: default roles
	Password  *string
}

// UpdateUserInput is a partial update; only non-nil fields are applied.
type UpdateUserInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Roles     []string // nil: unchanged
	Password  *string
}

// UserEvent is the message body published for lifecycle changes.
type UserEvent struct {
	Type       string    `json:"type"`
	UserID     int64     `json:"user_id"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

// GetAllUsers returns every user that has not been soft-deleted.
func (s *Service) GetAllUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := s.Repo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUserByID returns the active user with id. Soft-deleted users are reported as ErrUserNotFound.
func (s *Service) GetUserByID(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.IsDeleted() {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// FindUser returns the user with id whether or not it was soft-deleted.
func (s *Service) FindUser(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return u, nil
}

// IsEmailInUse reports whether another user already owns email.
// When excludeID is set, a match on that user does not count.
func (s *Service) IsEmailInUse(ctx context.Context, email string, excludeID *int64) (bool, error) {
	existing, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up email: %w", err)
	}
	if excludeID != nil && existing.ID == *excludeID {
		return false, nil
	}
	return true, nil
}

func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	email := deref(in.Email)
	inUse, err := s.IsEmailInUse(ctx, email, nil)
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, newValidationError("email", msgEmailInUse)
	}

	u := &entity.User{
		Email:     email,
		FirstName: deref(in.FirstName),
		LastName:  deref(in.LastName),
		Roles:     in.Roles,
	}
	if u.Roles == nil {
		u.Roles = entity.DefaultRoles()
	}

	if violations := validateWithPassword(u, in.Password); len(violations) > 0 {
		return nil, &ValidationError{Fields: violations}
	}

	if in.Password != nil {
		hash, err := s.Hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		u.Password = hash
	}

	if err := s.Repo.Save(ctx, u); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, newValidationError("email", msgEmailInUse)
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.Logger.WithField("user_id", u.ID).Info("user created")
	s.publish(ctx, EventUserCreated, u)
	return u, nil
}

// UpdateUser applies the present fields of in to u. The patch is built on a
// copy, so u is only changed once the new state has been validated and saved.
func (s *Service) UpdateUser(ctx context.Context, u *entity.User, in UpdateUserInput) (*entity.User, error) {
	if in.Email != nil {
		inUse, err := s.IsEmailInUse(ctx, *in.Email, &u.ID)
		if err != nil {
			return nil, err
		}
		if inUse {
			return nil, newValidationError("email", msgEmailTaken)
		}
	}

	next := *u
	next.Roles = append([]string(nil), u.Roles...)

	if in.Email != nil {
		next.Email = *in.Email
	}
	if in.FirstName != nil {
		next.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		next.LastName = *in.LastName
	}
	if in.Roles != nil {
		next.Roles = in.Roles
	}

	if violations := validateWithPassword(&next, in.Password); len(violations) > 0 {
		return nil, &ValidationError{Fields: violations}
	}

	if in.Password != nil {
		hash, err := s.Hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		next.Password = hash
	}

	if err := s.Repo.Save(ctx, &next); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, newValidationError("email", msgEmailTaken)
		}
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user %d: %w", u.ID, err)
	}

	*u = next
	s.Logger.WithField("user_id", u.ID).Info("user updated")
	s.publish(ctx, EventUserUpdated, u)
	return u, nil
}

// DeleteUser soft-deletes u. It returns false, without error, when u was already deleted.
func (s *Service) DeleteUser(ctx context.Context, u *entity.User) (bool, error) {
	if u.IsDeleted() {
		return false, nil
	}

	s.Repo.SoftDelete(u)
	if err := s.Repo.Save(ctx, u); err != nil {
		u.DeletedAt = nil
		return false, fmt.Errorf("failed to delete user %d: %w", u.ID, err)
	}

	s.Logger.WithField("user_id", u.ID).Info("user soft-deleted")
	s.publish(ctx, EventUserDeleted, u)
	return true, nil
}

func (s *Service) publish(ctx context.Context, eventType string, u *entity.User) {
	if s.Events == nil {
		return
	}
	ev := UserEvent{Type: eventType, UserID: u.ID, Email: u.Email, OccurredAt: time.Now().UTC()}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.Events.PublishJSON(c, ev); err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"user_id": u.ID, "event": eventType}).Warn("failed to publish user event")
	}
}

// validateWithPassword adds the plain password limit to the user rules;
// only the hash is stored, so the entity rules cannot see it.
func validateWithPassword(u *entity.User, password *string) map[string]string {
	violations := ValidateUser(u)
	if password != nil && len(*password) > maxPasswordBytes {
		if violations == nil {
			violations = map[string]string{}
		}
		violations["password"] = fmt.Sprintf("This value is too long. It should have %d bytes or less.", maxPasswordBytes)
	}
	return violations
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
