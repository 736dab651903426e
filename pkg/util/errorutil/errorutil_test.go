package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	wrapped := fmt.Errorf("loading: %w", NewForbidden("nope"))
	de := ToDomainError(wrapped)
	assert.Equal(t, CodeForbidden, de.Code)
	assert.Equal(t, http.StatusForbidden, de.HTTPStatus)

	de = ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, CodeNotFound, de.Code)

	cause := errors.New("connection reset")
	de = ToDomainError(cause)
	assert.Equal(t, CodeInternal, de.Code)
	assert.Equal(t, "internal server error", de.Message)
	assert.ErrorIs(t, de, cause)
}

func TestConstructorStatuses(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
	}{
		CodeValidation:          {NewValidationError("bad", nil), http.StatusBadRequest},
		CodeUnknownDepartment:   {NewUnknownDepartment("x"), http.StatusBadRequest},
		CodeInvalidAssignee:     {NewInvalidAssignee("x"), http.StatusBadRequest},
		CodeUnauthenticated:     {NewUnauthenticated("who"), http.StatusUnauthorized},
		CodeInvalidCredentials:  {NewInvalidCredentials(), http.StatusUnauthorized},
		CodeAccountDeactivated:  {NewAccountDeactivated(), http.StatusUnauthorized},
		CodeNotFound:            {NewNotFound("complaint", nil), http.StatusNotFound},
		CodeDuplicateEmail:      {NewDuplicateEmail("a@x.rw"), http.StatusConflict},
		CodeDuplicateDepartment: {NewDuplicateDepartment("a", "b"), http.StatusConflict},
		CodeConflict:            {NewConflict("race", nil), http.StatusConflict},
		CodeTooManyAttempts:     {NewTooManyAttempts("slow down"), http.StatusTooManyRequests},
	}
	for code, tc := range cases {
		t.Run(code, func(t *testing.T) {
			assert.Equal(t, code, CodeOf(tc.err))
			assert.Equal(t, tc.status, ToDomainError(tc.err).HTTPStatus)
		})
	}
	assert.Empty(t, CodeOf(errors.New("plain")))
}
