package domain

import (
	"time"
)

type Shipper struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpsertShipperRequest struct {
	Name string `json:"name" binding:"required"`
}
