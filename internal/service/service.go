package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/ticketdesk/internal/auth"
	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/events"
	apperrors "github.com/spec-kit/ticketdesk/pkg/util/errorutil"
)

// Clock returns the current time. Services default to UTC wall time at
// microsecond precision, the resolution Postgres keeps.
type Clock func() time.Time

func newID() string {
	return uuid.NewString()
}

func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Dependencies carries the cross-cutting collaborators every service shares.
type Dependencies struct {
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      Clock
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Clock == nil {
		d.Clock = utcNow
	}
	return d
}

// publish emits an event; delivery failures are logged and never fail the request.
func (d Dependencies) publish(ctx context.Context, eventType events.EventType, subjectID string, payload any) {
	if d.Dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        newID(),
		Type:      eventType,
		SubjectID: subjectID,
		Timestamp: d.Clock(),
		Payload:   payload,
	}
	if err := d.Dispatcher.Publish(ctx, event); err != nil {
		d.Logger.Warn("event handler failed",
			zap.String("event_type", string(eventType)),
			zap.String("subject_id", subjectID),
			zap.Error(err))
	}
}

// translate maps repository sentinels to API errors; resource names the entity.
func translate(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return apperrors.NewNotFound(resource, nil)
	case errors.Is(err, domain.ErrEmailTaken):
		return apperrors.NewConflict("email already registered", nil)
	default:
		return apperrors.NewInternalError(err)
	}
}

// hashPassword hashes a caller-supplied password. Input over bcrypt's 72-byte
// limit is a validation error.
func hashPassword(password string, cost int) (string, error) {
	hash, err := auth.HashPassword(password, cost)
	switch {
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		return "", apperrors.NewValidationError("password must be at most 72 bytes", nil)
	case err != nil:
		return "", apperrors.NewInternalError(err)
	}
	return hash, nil
}
