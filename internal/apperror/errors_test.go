package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindsSurviveWrapping(t *testing.T) {
	tests := map[string]struct {
		err  error
		kind error
	}{
		"not found":      {err: NotFound("Order not found"), kind: ErrNotFound},
		"already exists": {err: AlreadyExists("dup"), kind: ErrAlreadyExists},
		"invalid state":  {err: InvalidState("Cart is empty."), kind: ErrInvalidState},
		"unauthorized":   {err: Unauthorized("Invalid token"), kind: ErrUnauthorized},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			wrapped := fmt.Errorf("place order: %w", tc.err)
			require.ErrorIs(t, wrapped, tc.kind)

			msg, ok := Message(wrapped)
			require.True(t, ok)
			require.Equal(t, tc.err.Error(), msg)
		})
	}
}

func TestMessageOnPlainError(t *testing.T) {
	_, ok := Message(errors.New("boom"))
	require.False(t, ok)
}
