package domain

import "time"

type Dish struct {
	DishID      string    `json:"id" dynamodbav:"dish_id"`
	Name        string    `json:"name" dynamodbav:"name"`
	Description string    `json:"description,omitempty" dynamodbav:"description"`
	Price       float64   `json:"price" dynamodbav:"price"`
	CategoryID  string    `json:"category_id" dynamodbav:"category_id"`
	Images      []string  `json:"images" dynamodbav:"images"`
	IsAvailable bool      `json:"is_available" dynamodbav:"is_available"`
	IsActive    bool      `json:"is_active" dynamodbav:"is_active"`
	CreatedBy   string    `json:"created_by,omitempty" dynamodbav:"created_by"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

type CreateDishRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	CategoryID  string   `json:"category_id" validate:"required"`
	Images      []string `json:"images"`
	IsAvailable *bool    `json:"is_available"`
}

type UpdateDishRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	CategoryID  *string  `json:"category_id"`
	Images      []string `json:"images"`
	IsAvailable *bool    `json:"is_available"`
	IsActive    *bool    `json:"is_active"`
}
