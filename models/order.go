package models

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

var OrderStatuses = []OrderStatus{
	StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

type PaymentMethod string

const (
	PaymentCOD          PaymentMethod = "COD"
	PaymentBankTransfer PaymentMethod = "BankTransfer"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCOD || m == PaymentBankTransfer
}

// OrderItem is the snapshot of a cart line taken at checkout.
type OrderItem struct {
	ProductID     string `json:"productId"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	Quantity      int    `json:"quantity"`
	SelectedSize  string `json:"selectedSize"`
	SelectedColor string `json:"selectedColor"`
	Image         string `json:"image"`
}

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// OrderRequest is the creation payload posted to the backend.
type OrderRequest struct {
	Items         []OrderItem   `json:"items"`
	Customer      Customer      `json:"customer"`
	Subtotal      int64         `json:"subtotal"`
	Shipping      int64         `json:"shipping"`
	Total         int64         `json:"total"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Status        OrderStatus   `json:"status"`
}

// Order is owned by the backend; the storefront creates it and the admin
// screens read, patch and delete it.
type Order struct {
	ID                string        `json:"_id"`
	Items             []OrderItem   `json:"items"`
	Customer          Customer      `json:"customer"`
	Subtotal          int64         `json:"subtotal"`
	Shipping          int64         `json:"shipping"`
	Total             int64         `json:"total"`
	PaymentMethod     PaymentMethod `json:"paymentMethod"`
	PaymentScreenshot string        `json:"paymentScreenshot,omitempty"`
	Status            OrderStatus   `json:"status"`
	CreatedAt         time.Time     `json:"createdAt"`
}

// Attachment is an uploaded file held in memory.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}
