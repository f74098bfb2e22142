package models

import (
	"time"
)

type Product struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	ImageURL        string    `json:"imageUrl"`
	PriceInCurrency float64   `json:"priceInCurrency"`
	Currency        string    `json:"currency"`
	Category        string    `json:"category"`
	Stock           int       `json:"stock"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type User struct {
	ID              int64     `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	ShippingAddress string    `json:"shippingAddress,omitempty"`
	BirthDate       string    `json:"birthDate,omitempty"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// CartLine is one distinct product entry in the cart. The product snapshot is
// taken at first add and is not refreshed when the catalog changes.
type CartLine struct {
	ID        string  `json:"id"`
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Product   Product `json:"product"`
}

// Cart is the persisted snapshot shape: lines plus the derived totals.
type Cart struct {
	Items      []CartLine `json:"items"`
	TotalItems int        `json:"totalItems"`
	TotalPrice float64    `json:"totalPrice"`
}

type OrderItem struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	TotalPrice  float64 `json:"totalPrice"`
	Currency    string  `json:"currency"`
}

type Order struct {
	ID              int64       `json:"id"`
	OrderNumber     string      `json:"orderNumber"`
	UserID          int64       `json:"userId"`
	UserEmail       string      `json:"userEmail"`
	Status          string      `json:"status"`
	TotalItems      int         `json:"totalItems"`
	Subtotal        float64     `json:"subtotal"`
	Tax             float64     `json:"tax"`
	Total           float64     `json:"total"`
	Currency        string      `json:"currency"`
	Notes           string      `json:"notes,omitempty"`
	ShippingAddress string      `json:"shippingAddress,omitempty"`
	BillingAddress  string      `json:"billingAddress,omitempty"`
	PaymentMethod   string      `json:"paymentMethod,omitempty"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	ShippingAddress string `json:"shippingAddress,omitempty"`
	BirthDate       string `json:"birthDate,omitempty"`
}

type OrderItemRequest struct {
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items"`
	Notes           string             `json:"notes,omitempty"`
	ShippingAddress string             `json:"shippingAddress,omitempty"`
	BillingAddress  string             `json:"billingAddress,omitempty"`
	PaymentMethod   string             `json:"paymentMethod,omitempty"`
}
