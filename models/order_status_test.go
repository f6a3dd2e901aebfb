package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []OrderStatus{
	StatusCreated, StatusConfirmed, StatusPreparing,
	StatusReady, StatusDelivered, StatusCancelled,
}

// The legal edge set, exhaustively. Everything not listed here must be
// rejected.
var legalEdges = map[OrderStatus]map[OrderStatus]bool{
	StatusCreated:   {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed: {StatusPreparing: true, StatusCancelled: true},
	StatusPreparing: {StatusReady: true, StatusCancelled: true},
	StatusReady:     {StatusDelivered: true, StatusCancelled: true},
	StatusDelivered: {},
	StatusCancelled: {},
}

func TestCanTransitionToMatrix(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			expected := legalEdges[from][to]
			assert.Equalf(t, expected, from.CanTransitionTo(to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestNoBackwardOrSkippingTransitions(t *testing.T) {
	// Skipping forward
	assert.False(t, StatusCreated.CanTransitionTo(StatusPreparing))
	assert.False(t, StatusCreated.CanTransitionTo(StatusDelivered))
	assert.False(t, StatusConfirmed.CanTransitionTo(StatusDelivered))

	// Moving backward
	assert.False(t, StatusReady.CanTransitionTo(StatusPreparing))
	assert.False(t, StatusDelivered.CanTransitionTo(StatusCreated))

	// Out of terminal states
	assert.False(t, StatusCancelled.CanTransitionTo(StatusCreated))
	assert.False(t, StatusDelivered.CanTransitionTo(StatusCancelled))
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusCreated.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.False(t, StatusPreparing.Terminal())
	assert.False(t, StatusReady.Terminal())
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("preparing")
	assert.NoError(t, err)
	assert.Equal(t, StatusPreparing, status)

	_, err = ParseOrderStatus("shipped")
	assert.Error(t, err)

	_, err = ParseOrderStatus("")
	assert.Error(t, err)
}

func TestRecalculateTotal(t *testing.T) {
	order := Order{
		OrderItems: []OrderItem{
			{UnitPrice: 5.00, Quantity: 2},
			{UnitPrice: 3.50, Quantity: 1},
		},
	}
	order.RecalculateTotal()
	assert.InDelta(t, 13.50, order.TotalAmount, 0.001)

	order.OrderItems = nil
	order.RecalculateTotal()
	assert.Equal(t, 0.0, order.TotalAmount)
}
