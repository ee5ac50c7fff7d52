package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain error is unexpected", err: errors.New("boom"), want: KindUnexpected},
		{name: "forbidden", err: Forbidden("goal_locked", "cannot edit"), want: KindForbidden},
		{name: "wrapped not found", err: fmt.Errorf("load goal: %w", NotFound("goal")), want: KindNotFound},
		{name: "conflict", err: Conflict("email already registered"), want: KindConflict},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KindOf(tc.err))
		})
	}
}

func TestForbiddenCarriesRule(t *testing.T) {
	err := fmt.Errorf("update: %w", Forbidden("goal_locked", "cannot edit reviewed goals"))

	appErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, "goal_locked", appErr.Rule)
	assert.Equal(t, "cannot edit reviewed goals", appErr.Message)
}

func TestUnexpectedUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := Unexpected("list goals", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "list goals: connection reset", err.Error())
	assert.True(t, Is(err, KindUnexpected))
}

func TestValidationFields(t *testing.T) {
	err := Validation(Field("title", "is required"), Field("dueDate", "must be a valid date"))

	assert.Equal(t, KindValidation, err.Kind)
	assert.Len(t, err.Fields, 2)
	assert.Equal(t, "title", err.Fields[0].Field)
}
