// Package memstore is an in-memory implementation of the store interfaces.
// It mirrors the Postgres store's observable behaviour (ordering, error codes,
// upserts, foreign keys) and is used by service and handler tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"campus-market/internal/apperr"
	"campus-market/internal/models"
	"campus-market/internal/store"

	"github.com/shopspring/decimal"
)

var (
	_ store.UserStore         = (*Store)(nil)
	_ store.CatalogStore      = (*Store)(nil)
	_ store.CartStore         = (*Store)(nil)
	_ store.NotificationStore = (*Store)(nil)
	_ store.OrderStore        = (*Store)(nil)
	_ store.StatsStore        = (*Store)(nil)
)

type state struct {
	users         map[int64]models.User
	items         map[int64]models.Item
	cart          []models.CartLine
	orders        map[int64]models.Order
	lines         []models.OrderLine
	notifications []models.Notification
	processed     map[string]models.ProcessedEvent
	stats         map[int64]models.SellerStats

	nextUser, nextItem, nextCart, nextOrder, nextLine, nextNotification int64
}

func newState() *state {
	return &state{
		users:     make(map[int64]models.User),
		items:     make(map[int64]models.Item),
		orders:    make(map[int64]models.Order),
		processed: make(map[string]models.ProcessedEvent),
		stats:     make(map[int64]models.SellerStats),
	}
}

func (s *state) clone() *state {
	c := *s
	c.users = make(map[int64]models.User, len(s.users))
	for k, v := range s.users {
		c.users[k] = v
	}
	c.items = make(map[int64]models.Item, len(s.items))
	for k, v := range s.items {
		c.items[k] = v
	}
	c.orders = make(map[int64]models.Order, len(s.orders))
	for k, v := range s.orders {
		c.orders[k] = v
	}
	c.processed = make(map[string]models.ProcessedEvent, len(s.processed))
	for k, v := range s.processed {
		c.processed[k] = v
	}
	c.stats = make(map[int64]models.SellerStats, len(s.stats))
	for k, v := range s.stats {
		c.stats[k] = v
	}
	c.cart = append([]models.CartLine(nil), s.cart...)
	c.lines = append([]models.OrderLine(nil), s.lines...)
	c.notifications = append([]models.Notification(nil), s.notifications...)
	return &c
}

// Store is safe for concurrent use. WithinTx holds the store lock for the
// whole callback, so transactions are serialized.
type Store struct {
	mu     sync.Mutex
	st     *state
	faults map[string]error
	now    func() time.Time
}

func New() *Store {
	return &Store{
		st:     newState(),
		faults: make(map[string]error),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// InjectFault makes the named operation (a method name such as
// "InsertOrderLine") fail with err until cleared with a nil err.
func (s *Store) InjectFault(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

func (s *Store) fault(op string) error {
	return s.faults[op]
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Counts reports table sizes, for assertions in tests.
func (s *Store) Counts() (orders, lines, notifications, cart int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.orders), len(s.st.lines), len(s.st.notifications), len(s.st.cart)
}

func notFound(entity string, id any) error {
	return apperr.Newf(apperr.CodeNotFound, "%s not found: %v", entity, id)
}

// ---- users ----

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("CreateUser"); err != nil {
		return err
	}
	for _, u := range s.st.users {
		if u.Username == user.Username {
			return apperr.New(apperr.CodeConflict, "username already taken")
		}
	}
	s.st.nextUser++
	user.ID = s.st.nextUser
	user.CreatedAt = s.now()
	s.st.users[user.ID] = *user
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.st.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("GetUserByUsername"); err != nil {
		return nil, err
	}
	for _, u := range s.st.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, notFound("user", username)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found *models.User
	for _, u := range s.st.users {
		if u.Email == email && (found == nil || u.ID < found.ID) {
			u := u
			found = &u
		}
	}
	if found == nil {
		return nil, notFound("user", email)
	}
	return found, nil
}

func (s *Store) updateUser(id int64, fn func(u *models.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.st.users[id]
	if !ok {
		return notFound("user", id)
	}
	fn(&u)
	s.st.users[id] = u
	return nil
}

func (s *Store) UpdateUserRole(ctx context.Context, id int64, role models.Role) error {
	return s.updateUser(id, func(u *models.User) { u.Role = role })
}

func (s *Store) UpdateUserEmail(ctx context.Context, id int64, email string) error {
	return s.updateUser(id, func(u *models.User) { u.Email = email })
}

func (s *Store) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	return s.updateUser(id, func(u *models.User) { u.PasswordHash = passwordHash })
}

// ---- catalog ----

func (s *Store) withSeller(item models.Item) models.Item {
	item.SellerName = s.st.users[item.SellerID].Username
	return item
}

func (s *Store) CreateItem(ctx context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("CreateItem"); err != nil {
		return err
	}
	if _, ok := s.st.users[item.SellerID]; !ok {
		return apperr.New(apperr.CodeNotFound, "seller not found")
	}
	s.st.nextItem++
	item.ID = s.st.nextItem
	item.CreatedAt = s.now()
	stored := *item
	stored.SellerName = ""
	s.st.items[item.ID] = stored
	return nil
}

func (s *Store) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.st.items[id]
	if !ok {
		return nil, notFound("item", id)
	}
	item = s.withSeller(item)
	return &item, nil
}

func (s *Store) filterItems(keep func(models.Item) bool) []models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Item{}
	for _, item := range s.st.items {
		if keep(item) {
			out = append(out, s.withSeller(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) ListItems(ctx context.Context) ([]models.Item, error) {
	return s.filterItems(func(models.Item) bool { return true }), nil
}

func (s *Store) ListItemsByCategory(ctx context.Context, category string) ([]models.Item, error) {
	return s.filterItems(func(i models.Item) bool { return i.Category == category }), nil
}

func (s *Store) ListItemsBySeller(ctx context.Context, sellerID int64) ([]models.Item, error) {
	return s.filterItems(func(i models.Item) bool { return i.SellerID == sellerID }), nil
}

func (s *Store) SearchItems(ctx context.Context, query string) ([]models.Item, error) {
	q := strings.ToLower(query)
	return s.filterItems(func(i models.Item) bool {
		return strings.Contains(strings.ToLower(i.Title), q) ||
			strings.Contains(strings.ToLower(i.Description), q)
	}), nil
}

func (s *Store) UpdateItem(ctx context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.st.items[item.ID]
	if !ok {
		return notFound("item", item.ID)
	}
	existing.Title = item.Title
	existing.Description = item.Description
	existing.Price = item.Price
	existing.Category = item.Category
	existing.Condition = item.Condition
	existing.ImageURL = item.ImageURL
	s.st.items[item.ID] = existing
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.items[id]; !ok {
		return notFound("item", id)
	}
	for _, line := range s.st.lines {
		if line.ItemID == id {
			return apperr.New(apperr.CodeConflict, "item has been ordered and cannot be deleted")
		}
	}
	delete(s.st.items, id)
	kept := s.st.cart[:0]
	for _, c := range s.st.cart {
		if c.ItemID != id {
			kept = append(kept, c)
		}
	}
	s.st.cart = kept
	return nil
}

// ---- cart ----

func (s *Store) AddCartItem(ctx context.Context, userID, itemID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("AddCartItem"); err != nil {
		return err
	}
	if _, ok := s.st.items[itemID]; !ok {
		return apperr.New(apperr.CodeNotFound, "item not found")
	}
	for i := range s.st.cart {
		if s.st.cart[i].UserID == userID && s.st.cart[i].ItemID == itemID {
			s.st.cart[i].Quantity += quantity
			return nil
		}
	}
	s.st.nextCart++
	s.st.cart = append(s.st.cart, models.CartLine{
		ID: s.st.nextCart, UserID: userID, ItemID: itemID, Quantity: quantity, AddedAt: s.now(),
	})
	return nil
}

func (s *Store) SetCartQuantity(ctx context.Context, userID, itemID int64, quantity int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.st.cart {
		if s.st.cart[i].UserID == userID && s.st.cart[i].ItemID == itemID {
			s.st.cart[i].Quantity = quantity
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) RemoveCartItem(ctx context.Context, userID, itemID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.st.cart {
		if c.UserID == userID && c.ItemID == itemID {
			s.st.cart = append(s.st.cart[:i], s.st.cart[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ClearCart(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&tx{s: s}).ClearCart(ctx, userID)
}

func (s *Store) ListCart(ctx context.Context, userID int64) ([]models.CartEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := []models.CartEntry{}
	for _, c := range s.st.cart {
		if c.UserID != userID {
			continue
		}
		item := s.st.items[c.ItemID]
		entries = append(entries, models.CartEntry{
			CartID:    c.ID,
			ItemID:    item.ID,
			SellerID:  item.SellerID,
			Title:     item.Title,
			Category:  item.Category,
			ImageURL:  item.ImageURL,
			Price:     item.Price,
			Quantity:  c.Quantity,
			LineTotal: item.Price.Mul(decimal.NewFromInt(int64(c.Quantity))),
		})
	}
	return entries, nil
}

func (s *Store) CartTotal(ctx context.Context, userID int64) (decimal.Decimal, error) {
	entries, err := s.ListCart(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.LineTotal)
	}
	return total, nil
}

// ---- notifications ----

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&tx{s: s}).InsertNotification(ctx, n)
}

func (s *Store) GetNotification(ctx context.Context, id int64) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.st.notifications {
		if n.ID == id {
			return &n, nil
		}
	}
	return nil, notFound("notification", id)
}

func (s *Store) ListNotifications(ctx context.Context, userID int64, unreadOnly bool) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []models.Notification{}
	for i := len(s.st.notifications) - 1; i >= 0; i-- {
		n := s.st.notifications[i]
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			list = append(list, n)
		}
	}
	return list, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.st.notifications {
		if s.st.notifications[i].ID == id {
			s.st.notifications[i].IsRead = true
			return nil
		}
	}
	return notFound("notification", id)
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for i := range s.st.notifications {
		if s.st.notifications[i].UserID == userID && !s.st.notifications[i].IsRead {
			s.st.notifications[i].IsRead = true
			n++
		}
	}
	return n, nil
}

func (s *Store) DeleteNotification(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.st.notifications {
		if n.ID == id {
			s.st.notifications = append(s.st.notifications[:i], s.st.notifications[i+1:]...)
			return nil
		}
	}
	return notFound("notification", id)
}

// ---- orders ----

// WithinTx runs fn against a working copy of the state and installs the copy
// only when fn succeeds.
func (s *Store) WithinTx(ctx context.Context, fn func(tx store.OrderTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := s.st
	s.st = committed.clone()
	if err := fn(&tx{s: s}); err != nil {
		s.st = committed
		return err
	}
	if err := s.fault("Commit"); err != nil {
		s.st = committed
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) orderLines(orderID int64, keep func(models.OrderLine) bool) []models.OrderLine {
	lines := []models.OrderLine{}
	for _, l := range s.st.lines {
		if l.OrderID == orderID && keep(l) {
			item := s.st.items[l.ItemID]
			l.Title = item.Title
			l.Description = item.Description
			l.ImageURL = item.ImageURL
			lines = append(lines, l)
		}
	}
	return lines
}

func (s *Store) withBuyer(o models.Order) models.Order {
	o.BuyerName = s.st.users[o.BuyerID].Username
	return o
}

func (s *Store) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.st.orders[id]
	if !ok {
		return nil, notFound("order", id)
	}
	o = s.withBuyer(o)
	o.Items = s.orderLines(id, func(models.OrderLine) bool { return true })
	return &o, nil
}

func (s *Store) sortedOrders(keep func(models.Order) bool) []models.Order {
	out := []models.Order{}
	for _, o := range s.st.orders {
		if keep(o) {
			out = append(out, s.withBuyer(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *Store) ListBuyerOrders(ctx context.Context, buyerID int64) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedOrders(func(o models.Order) bool { return o.BuyerID == buyerID }), nil
}

func (s *Store) ListSellerOrders(ctx context.Context, sellerID int64) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	involved := make(map[int64]bool)
	for _, l := range s.st.lines {
		if l.SellerID == sellerID {
			involved[l.OrderID] = true
		}
	}
	orders := s.sortedOrders(func(o models.Order) bool { return involved[o.ID] })
	for i := range orders {
		orders[i].Items = s.orderLines(orders[i].ID, func(l models.OrderLine) bool { return l.SellerID == sellerID })
	}
	return orders, nil
}

// ---- stats ----

func (s *Store) ApplyOrderPlaced(ctx context.Context, eventID, eventType string, sales []models.SellerSale) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("ApplyOrderPlaced"); err != nil {
		return false, err
	}
	if _, done := s.st.processed[eventID]; done {
		return false, nil
	}
	now := s.now()
	s.st.processed[eventID] = models.ProcessedEvent{EventID: eventID, EventType: eventType, ProcessedAt: now}
	for _, sale := range sales {
		st, ok := s.st.stats[sale.SellerID]
		if !ok {
			st = models.SellerStats{SellerID: sale.SellerID, Revenue: decimal.Zero}
		}
		st.OrdersCount++
		st.UnitsSold += int64(sale.Units)
		st.Revenue = st.Revenue.Add(sale.Revenue)
		st.UpdatedAt = now
		s.st.stats[sale.SellerID] = st
	}
	return true, nil
}

func (s *Store) GetSellerStats(ctx context.Context, sellerID int64) (*models.SellerStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.st.stats[sellerID]
	if !ok {
		return nil, notFound("seller stats", sellerID)
	}
	return &st, nil
}
