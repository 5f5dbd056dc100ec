package models

import "time"

// Hotel is a property registered by a hotel owner.
type Hotel struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Address   string    `bson:"address" json:"address"`
	Contact   string    `bson:"contact" json:"contact"`
	City      string    `bson:"city" json:"city"`
	OwnerID   string    `bson:"ownerId" json:"ownerId"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
