package models

import "fmt"

type OrderStatus string

const (
	StatusCreated   OrderStatus = "created"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// statusFlow is the complete set of legal edges. Orders move strictly
// forward along the chain, or jump to cancelled from any non-terminal
// status. There are no other edges.
var statusFlow = map[OrderStatus][]OrderStatus{
	StatusCreated:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

func (s OrderStatus) Valid() bool {
	_, ok := statusFlow[s]
	return ok
}

// Terminal reports whether no further transition is defined from s.
func (s OrderStatus) Terminal() bool {
	return len(statusFlow[s]) == 0 && s.Valid()
}

// CanTransitionTo looks the edge up in the transition table.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range statusFlow[s] {
		if next == target {
			return true
		}
	}
	return false
}

func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown order status %q", raw)
	}
	return s, nil
}
