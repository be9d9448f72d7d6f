package domain

import (
	"time"
)

type Customer struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name"`
	Country     string    `json:"country"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UpsertCustomerRequest struct {
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contact_name" binding:"required"`
	Country     string `json:"country" binding:"required"`
}
