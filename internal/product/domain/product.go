package domain

import (
	"time"
)

// Product adalah item katalog. UnitPrice dalam minor units (mis. cents)
// supaya tidak ada float drift saat agregasi.
type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	UnitPrice     int64     `json:"unit_price"`
	StockQuantity int       `json:"stock_quantity"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreateProductRequest struct {
	Name          string `json:"name" binding:"required"`
	UnitPrice     int64  `json:"unit_price" binding:"required,gt=0"`
	StockQuantity int    `json:"stock_quantity" binding:"gte=0"`
}

type UpdateProductRequest struct {
	Name      string `json:"name" binding:"required"`
	UnitPrice int64  `json:"unit_price" binding:"required,gt=0"`
}

type AddStockRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// Laporan penjualan per produk (kuartal)
type ProductSales struct {
	ProductName string `json:"product_name"`
	TotalSales  int64  `json:"total_sales"`
}
