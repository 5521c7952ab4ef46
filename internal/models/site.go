package models

import (
	"time"

	"github.com/google/uuid"
)

// Site represents an apartment site managed by the operator.
type Site struct {
	ID         string    `bson:"_id" json:"id"`
	Name       string    `bson:"name" json:"name"`
	Address    string    `bson:"address" json:"address"`
	TotalUnits int       `bson:"total_units" json:"totalUnits"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// NewID returns an opaque identifier for newly created entities.
func NewID() string {
	return uuid.NewString()
}
