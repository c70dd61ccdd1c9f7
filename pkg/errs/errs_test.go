package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_WrapsKind(t *testing.T) {
	errGone := New(ErrNotFound, "order not found")
	wrapped := fmt.Errorf("load: %w", errGone)

	require.ErrorIs(t, wrapped, ErrNotFound)
	require.ErrorIs(t, wrapped, errGone)
	require.NotErrorIs(t, wrapped, ErrConflict)
	require.Equal(t, "order not found", errGone.Error())
}

func TestValidationError(t *testing.T) {
	v := &ValidationError{}
	require.NoError(t, v.OrNil())

	err := v.Add("email", "already registered").OrNil()
	require.ErrorIs(t, err, ErrInvalid)

	var ve *ValidationError
	require.True(t, errors.As(fmt.Errorf("register: %w", err), &ve))
	require.Equal(t, "already registered", ve.Fields["email"])
	require.Equal(t, "phone: taken", Field("phone", "taken").Error())
}
