package product

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Price       float64            `json:"price" bson:"price"`
	// Code se guarda en minúsculas; la unicidad se valida sin distinguir mayúsculas
	Code      string    `json:"code" bson:"code"`
	Stock     int       `json:"stock" bson:"stock"`
	Status    bool      `json:"status" bson:"status"`
	Category  string    `json:"category" bson:"category"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// Error message
	// example: not found
	Error string `json:"error"`
}

// CreateRequest payload of creation. Every field is required; zero values
// are accepted through the pointers.
// swagger:model CreateProductRequest
type CreateRequest struct {
	ID          string   `json:"id"`
	MongoID     string   `json:"_id"`
	Title       *string  `json:"title" binding:"required"`
	Description *string  `json:"description" binding:"required"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Code        *string  `json:"code" binding:"required"`
	Stock       *int     `json:"stock" binding:"required,gte=0"`
	Status      *bool    `json:"status" binding:"required"`
	Category    *string  `json:"category" binding:"required"`
}

// HasClientID reports whether the client tried to supply an identifier.
func (r CreateRequest) HasClientID() bool { return r.ID != "" || r.MongoID != "" }

// UpdateRequest payload of partial update.
// swagger:model UpdateProductRequest
type UpdateRequest struct {
	MongoID     string   `json:"_id"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Code        *string  `json:"code"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
	Status      *bool    `json:"status"`
	Category    *string  `json:"category"`
}

// Changes lists the fields a partial update may touch; nil means untouched.
type Changes struct {
	Title       *string
	Description *string
	Price       *float64
	Code        *string
	Stock       *int
	Status      *bool
	Category    *string
}
