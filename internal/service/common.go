package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/publicvoice/internal/auth"
	"github.com/spec-kit/publicvoice/internal/domain"
	"github.com/spec-kit/publicvoice/internal/events"
	apperrors "github.com/spec-kit/publicvoice/pkg/util/errorutil"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// requireFields returns a ValidationError naming every blank field.
func requireFields(fields map[string]string) error {
	missing := []string{}
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
}

func validatePassword(password string) error {
	if len(password) > auth.MaxPasswordBytes {
		return apperrors.NewValidationError("password is too long", map[string]any{
			"field":     "password",
			"max_bytes": auth.MaxPasswordBytes,
		})
	}
	return nil
}

// notFoundAs converts a missing-row error into a NotFound for resource.
func notFoundAs(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}

func eventActor(actor *domain.Actor) events.Actor {
	if actor == nil {
		return events.Actor{}
	}
	return events.Actor{ID: actor.ID, Role: actor.Role}
}

func publish(ctx context.Context, dispatcher events.Dispatcher, evts ...events.Event) {
	if dispatcher == nil {
		return
	}
	for _, event := range evts {
		if event.ID == "" {
			event.ID = uuid.NewString()
		}
		if event.Timestamp.IsZero() {
			event.Timestamp = time.Now()
		}
		_ = dispatcher.Publish(ctx, event)
	}
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
