package store

import (
	"context"

	"campus-market/internal/models"

	"github.com/shopspring/decimal"
)

// UserStore persists accounts and credentials.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserRole(ctx context.Context, id int64, role models.Role) error
	UpdateUserEmail(ctx context.Context, id int64, email string) error
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
}

// CatalogStore persists item listings.
type CatalogStore interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	ListItems(ctx context.Context) ([]models.Item, error)
	ListItemsByCategory(ctx context.Context, category string) ([]models.Item, error)
	ListItemsBySeller(ctx context.Context, sellerID int64) ([]models.Item, error)
	SearchItems(ctx context.Context, query string) ([]models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id int64) error
}

// CartStore persists cart lines. SetCartQuantity and RemoveCartItem report
// whether a line existed.
type CartStore interface {
	AddCartItem(ctx context.Context, userID, itemID int64, quantity int) error
	SetCartQuantity(ctx context.Context, userID, itemID int64, quantity int) (bool, error)
	RemoveCartItem(ctx context.Context, userID, itemID int64) (bool, error)
	ClearCart(ctx context.Context, userID int64) error
	ListCart(ctx context.Context, userID int64) ([]models.CartEntry, error)
	CartTotal(ctx context.Context, userID int64) (decimal.Decimal, error)
}

// NotificationStore persists in-app notifications.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	GetNotification(ctx context.Context, id int64) (*models.Notification, error)
	ListNotifications(ctx context.Context, userID int64, unreadOnly bool) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
	MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error)
	DeleteNotification(ctx context.Context, id int64) error
}

// OrderStore reads orders and runs multi-statement order writes atomically.
type OrderStore interface {
	// WithinTx runs fn inside one transaction. Any error from fn rolls back
	// every write made through tx.
	WithinTx(ctx context.Context, fn func(tx OrderTx) error) error
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	ListBuyerOrders(ctx context.Context, buyerID int64) ([]models.Order, error)
	ListSellerOrders(ctx context.Context, sellerID int64) ([]models.Order, error)
}

// OrderTx is the write surface available inside an order transaction.
type OrderTx interface {
	CheckoutLines(ctx context.Context, buyerID int64) ([]models.CheckoutLine, error)
	InsertOrder(ctx context.Context, order *models.Order) error
	InsertOrderLine(ctx context.Context, line *models.OrderLine) error
	InsertNotification(ctx context.Context, n *models.Notification) error
	ClearCart(ctx context.Context, buyerID int64) error
	LockOrder(ctx context.Context, orderID int64) (*models.Order, error)
	OrderSellerIDs(ctx context.Context, orderID int64) ([]int64, error)
	SetOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) error
}

// StatsStore maintains seller statistics derived from order events.
type StatsStore interface {
	// ApplyOrderPlaced records eventID and folds sales into seller_stats in
	// one transaction. It returns false when eventID was already processed.
	ApplyOrderPlaced(ctx context.Context, eventID, eventType string, sales []models.SellerSale) (bool, error)
	GetSellerStats(ctx context.Context, sellerID int64) (*models.SellerStats, error)
}
