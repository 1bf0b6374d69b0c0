package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role is a user's capability set.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleBoth   Role = "both"
)

// ParseRole accepts buyer, seller or both.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleBuyer, RoleSeller, RoleBoth:
		return r, true
	}
	return "", false
}

// CanSell reports whether the role may list items and manage seller orders.
func (r Role) CanSell() bool {
	return r == RoleSeller || r == RoleBoth
}

// User represents a marketplace account
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password" json:"-"`
	Email        string    `db:"email" json:"email"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID   int64
	Username string
	Role     Role
}

// Item represents a listing in the catalog
type Item struct {
	ID          int64           `db:"id" json:"id"`
	SellerID    int64           `db:"seller_id" json:"seller_id"`
	SellerName  string          `db:"seller_name" json:"seller_name,omitempty"`
	Title       string          `db:"title" json:"title"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Category    string          `db:"category" json:"category"`
	Condition   string          `db:"condition" json:"condition"`
	ImageURL    string          `db:"image_url" json:"image_url"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// ItemInput carries the seller-editable fields of an item.
type ItemInput struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Condition   string          `json:"condition"`
	ImageURL    string          `json:"image_url"`
}

// CartLine is one (user, item, quantity) row
type CartLine struct {
	ID       int64     `db:"id" json:"id"`
	UserID   int64     `db:"user_id" json:"user_id"`
	ItemID   int64     `db:"item_id" json:"item_id"`
	Quantity int       `db:"quantity" json:"quantity"`
	AddedAt  time.Time `db:"added_at" json:"added_at"`
}

// CartEntry is a cart line joined with its item
type CartEntry struct {
	CartID    int64           `db:"cart_id" json:"cart_id"`
	ItemID    int64           `db:"item_id" json:"item_id"`
	SellerID  int64           `db:"seller_id" json:"seller_id"`
	Title     string          `db:"title" json:"title"`
	Category  string          `db:"category" json:"category"`
	ImageURL  string          `db:"image_url" json:"image_url"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Quantity  int             `db:"quantity" json:"quantity"`
	LineTotal decimal.Decimal `db:"line_total" json:"total_price"`
}

// Cart is the shopper-facing view of all cart lines
type Cart struct {
	Items      []CartEntry     `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// CheckoutLine is a cart line read inside the order transaction, carrying the
// item price and seller at that instant.
type CheckoutLine struct {
	CartID   int64           `db:"cart_id"`
	ItemID   int64           `db:"item_id"`
	SellerID int64           `db:"seller_id"`
	Quantity int             `db:"quantity"`
	Price    decimal.Decimal `db:"price"`
}

// Order represents a placed order
type Order struct {
	ID          int64           `db:"id" json:"id"`
	BuyerID     int64           `db:"buyer_id" json:"buyer_id"`
	BuyerName   string          `db:"buyer_name" json:"buyer_name,omitempty"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"total_amount"`
	Status      OrderStatus     `db:"status" json:"status"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
	Items       []OrderLine     `db:"-" json:"items,omitempty"`
}

// HasSeller reports whether sellerID owns at least one line of the order.
func (o *Order) HasSeller(sellerID int64) bool {
	for _, line := range o.Items {
		if line.SellerID == sellerID {
			return true
		}
	}
	return false
}

// OrderLine represents one item within an order. PriceAtPurchase never changes.
type OrderLine struct {
	ID              int64           `db:"id" json:"id"`
	OrderID         int64           `db:"order_id" json:"order_id"`
	ItemID          int64           `db:"item_id" json:"item_id"`
	SellerID        int64           `db:"seller_id" json:"seller_id"`
	Quantity        int             `db:"quantity" json:"quantity"`
	PriceAtPurchase decimal.Decimal `db:"price_at_purchase" json:"price_at_purchase"`
	Title           string          `db:"title" json:"title,omitempty"`
	Description     string          `db:"description" json:"description,omitempty"`
	ImageURL        string          `db:"image_url" json:"image_url,omitempty"`
}

// Notification is an in-app message for a user
type Notification struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Message   string    `db:"message" json:"message"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SellerSale is one seller's share of a single order
type SellerSale struct {
	SellerID int64
	Units    int
	Revenue  decimal.Decimal
}

// SellerStats aggregates a seller's sales
type SellerStats struct {
	SellerID    int64           `db:"seller_id" json:"seller_id"`
	OrdersCount int64           `db:"orders_count" json:"orders_count"`
	UnitsSold   int64           `db:"units_sold" json:"units_sold"`
	Revenue     decimal.Decimal `db:"revenue" json:"revenue"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// ProcessedEvent for idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
