package domain

import (
	"time"
)

type OrderStatus string

// Satu-satunya status saat ini. Lifecycle (fulfilled/cancelled) adalah ekstensi terpisah.
const StatusPlaced OrderStatus = "PLACED"

type Order struct {
	ID          int64       `json:"id"`
	CustomerID  int64       `json:"customer_id"`
	ShipperID   *int64      `json:"shipper_id,omitempty"`
	OrderDate   time.Time   `json:"order_date"`
	Status      OrderStatus `json:"status"`
	TotalAmount int64       `json:"total_amount"`
	Lines       []OrderLine `json:"lines,omitempty"`
}

// OrderLine menyimpan harga saat pembelian; tidak pernah dibaca ulang dari
// harga produk live supaya order historis stabil.
type OrderLine struct {
	ID                  int64 `json:"id"`
	OrderID             int64 `json:"-"`
	ProductID           int64 `json:"product_id"`
	Quantity            int   `json:"quantity"`
	UnitPriceAtPurchase int64 `json:"unit_price_at_purchase"`
}

// Request pembuatan order. Harga TIDAK diterima dari client.
type PlaceOrderLineRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

type PlaceOrderRequest struct {
	CustomerID int64                   `json:"customer_id" binding:"required"`
	ShipperID  *int64                  `json:"shipper_id"`
	Lines      []PlaceOrderLineRequest `json:"lines" binding:"required,dive"`
}

type PlaceOrderResponse struct {
	Order
}

// --- Report DTOs ---

type OrderCustomerInfo struct {
	OrderID             int64     `json:"order_id"`
	OrderDate           time.Time `json:"order_date"`
	CustomerID          int64     `json:"customer_id"`
	CustomerName        string    `json:"customer_name"`
	CustomerContactName string    `json:"customer_contact_name"`
	CustomerCountry     string    `json:"customer_country"`
	OrderLineID         int64     `json:"order_line_id"`
	ProductID           int64     `json:"product_id"`
	Quantity            int       `json:"quantity"`
	Price               int64     `json:"price"`
	ProductName         string    `json:"product_name"`
	ProductUnitPrice    int64     `json:"product_unit_price"`
}

type OrderDayCount struct {
	Date       string `json:"order_date"` // YYYY-MM-DD
	OrderCount int    `json:"order_count"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
}

type DayWithoutOrders struct {
	Date  string `json:"order_date"` // YYYY-MM-DD
	Month int    `json:"month"`
	Year  int    `json:"year"`
}

type CustomerSalesRank struct {
	Year         int    `json:"year"`
	CustomerName string `json:"customer_name"`
	TotalSales   int64  `json:"total_sales"`
}

type OrderTotal struct {
	CustomerName string `json:"customer_name"`
	ShipperName  string `json:"shipper_name"`
	TotalAmount  int64  `json:"total_amount"`
}

type CountrySales struct {
	Country     string `json:"country"`
	TotalAmount int64  `json:"total_amount"`
}

type OrderSummary struct {
	OrderID      int64     `json:"order_id"`
	CustomerInfo string    `json:"customer_info"`
	ShipperInfo  string    `json:"shipper_info"`
	TotalAmount  int64     `json:"total_amount"`
	OrderDate    time.Time `json:"order_date"`
}
