package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusTransitions(t *testing.T) {
	now := time.Now()

	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusPending, StatusDelivered, false},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusProcessing, StatusDelivered, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusProcessing, false},
	}

	for _, tc := range tests {
		order := &Order{Status: tc.from}
		err := order.TransitionTo(tc.to, now)
		if tc.allowed {
			assert.NoError(t, err, "%s -> %s", tc.from, tc.to)
			assert.Equal(t, tc.to, order.Status)
		} else {
			assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", tc.from, tc.to)
			assert.Equal(t, tc.from, order.Status)
		}
	}
}

func TestTransitionRecordsTimestamps(t *testing.T) {
	now := time.Now()
	order := &Order{Status: StatusPending}

	require.NoError(t, order.TransitionTo(StatusProcessing, now))
	require.NotNil(t, order.ProcessedAt)
	assert.Equal(t, now, *order.ProcessedAt)

	require.NoError(t, order.TransitionTo(StatusShipped, now))
	require.NotNil(t, order.ShippedAt)

	require.NoError(t, order.TransitionTo(StatusDelivered, now))
	require.NotNil(t, order.DeliveredAt)
	assert.Nil(t, order.CancelledAt)
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	order := &Order{Status: StatusPending}
	err := order.TransitionTo(OrderStatus("ARCHIVED"), time.Now())
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
