package model

import "time"

// Product event types.
const (
	ProductCreated = "product.created"
	ProductUpdated = "product.updated"
	ProductDeleted = "product.deleted"
)

// ProductEvent describes a change to a catalogue product.
type ProductEvent struct {
	Type       string    `json:"type"`
	ProductID  int64     `json:"productId"`
	OccurredAt time.Time `json:"occurredAt"`
	Product    *Product  `json:"product,omitempty"`
}
