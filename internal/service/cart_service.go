package service

import (
	"context"

	"campus-market/internal/apperr"
	"campus-market/internal/models"
	"campus-market/internal/store"
	"campus-market/internal/util"
)

// CartService manages a user's cart lines
type CartService struct {
	cart store.CartStore
}

func NewCartService(cart store.CartStore) *CartService {
	return &CartService{cart: cart}
}

// View returns the cart lines with the total at current prices
func (s *CartService) View(ctx context.Context, userID int64) (*models.Cart, error) {
	items, err := s.cart.ListCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	total, err := s.cart.CartTotal(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.Cart{Items: items, TotalPrice: total}, nil
}

// AddItem adds quantity of item to the cart, incrementing an existing line.
// A zero quantity means one.
func (s *CartService) AddItem(ctx context.Context, userID, itemID int64, quantity int) (*models.Cart, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, apperr.New(apperr.CodeValidation, "quantity must be positive")
	}
	if err := s.cart.AddCartItem(ctx, userID, itemID, quantity); err != nil {
		return nil, err
	}
	util.CartOperationsTotal.WithLabelValues("add").Inc()
	return s.View(ctx, userID)
}

// SetQuantity overwrites a line's quantity; quantity <= 0 removes the line.
// A line that is not in the cart is NotFound.
func (s *CartService) SetQuantity(ctx context.Context, userID, itemID int64, quantity int) (*models.Cart, error) {
	var (
		found bool
		err   error
		op    = "update"
	)
	if quantity <= 0 {
		op = "remove"
		found, err = s.cart.RemoveCartItem(ctx, userID, itemID)
	} else {
		found, err = s.cart.SetCartQuantity(ctx, userID, itemID, quantity)
	}
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.Newf(apperr.CodeNotFound, "item %d is not in the cart", itemID)
	}
	util.CartOperationsTotal.WithLabelValues(op).Inc()
	return s.View(ctx, userID)
}

// RemoveItem deletes a line. Removing an absent line is not an error.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int64) (*models.Cart, error) {
	if _, err := s.cart.RemoveCartItem(ctx, userID, itemID); err != nil {
		return nil, err
	}
	util.CartOperationsTotal.WithLabelValues("remove").Inc()
	return s.View(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID int64) error {
	if err := s.cart.ClearCart(ctx, userID); err != nil {
		return err
	}
	util.CartOperationsTotal.WithLabelValues("clear").Inc()
	return nil
}
