package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fatflowers/storetis/pkg/errs"
	"github.com/fatflowers/storetis/pkg/types"
)

func TestCheckTransition(t *testing.T) {
	cases := []struct {
		from, to types.OrderStatus
		err      error
	}{
		{types.OrderStatusPending, types.OrderStatusConfirmed, nil},
		{types.OrderStatusPending, types.OrderStatusCancelled, nil},
		{types.OrderStatusPending, types.OrderStatusPending, ErrInvalidTransition},
		{types.OrderStatusConfirmed, types.OrderStatusCancelled, ErrInvalidTransition},
		{types.OrderStatusConfirmed, types.OrderStatusConfirmed, ErrInvalidTransition},
		{types.OrderStatusCancelled, types.OrderStatusConfirmed, ErrInvalidTransition},
		{types.OrderStatusPending, "shipped", ErrInvalidStatus},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			err := checkTransition(tc.from, tc.to)
			if tc.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestInvalidTransitionIsConflict(t *testing.T) {
	err := checkTransition(types.OrderStatusConfirmed, types.OrderStatusCancelled)
	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	s := &Service{}
	_, err := s.UpdateStatus(context.Background(), "staff", "o1", "refunded")
	require.ErrorIs(t, err, ErrInvalidStatus)
	require.ErrorIs(t, err, errs.ErrInvalid)
}
