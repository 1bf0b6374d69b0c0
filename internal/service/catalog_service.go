package service

import (
	"context"
	"strings"

	"campus-market/internal/apperr"
	"campus-market/internal/models"
	"campus-market/internal/store"
	"campus-market/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxItemPrice is the largest value items.price NUMERIC(10,2) holds
var maxItemPrice = decimal.New(9999999999, -2)

// CatalogService manages item listings
type CatalogService struct {
	items  store.CatalogStore
	logger *zap.Logger
}

func NewCatalogService(items store.CatalogStore) *CatalogService {
	return &CatalogService{items: items, logger: util.GetLogger()}
}

func validateItemInput(in *models.ItemInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return apperr.New(apperr.CodeValidation, "title is required")
	}
	if in.Price.IsNegative() {
		return apperr.New(apperr.CodeValidation, "price must not be negative")
	}
	if !in.Price.Equal(in.Price.Round(2)) {
		return apperr.New(apperr.CodeValidation, "price must have at most two decimal places")
	}
	if in.Price.GreaterThan(maxItemPrice) {
		return apperr.Newf(apperr.CodeValidation, "price must not exceed %s", maxItemPrice.StringFixed(2))
	}
	return nil
}

// Create lists a new item owned by actor. Only sellers may list.
func (s *CatalogService) Create(ctx context.Context, actor models.Actor, in *models.ItemInput) (*models.Item, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Create")
	defer span.End()

	if !actor.Role.CanSell() {
		return nil, apperr.New(apperr.CodeForbidden, "only sellers can list items")
	}
	if err := validateItemInput(in); err != nil {
		return nil, err
	}

	item := &models.Item{
		SellerID:    actor.UserID,
		SellerName:  actor.Username,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Condition:   in.Condition,
		ImageURL:    in.ImageURL,
	}
	if err := s.items.CreateItem(ctx, item); err != nil {
		util.RecordError(span, err)
		return nil, err
	}

	util.ItemsListedTotal.Inc()
	s.logger.Info("Item listed", zap.Int64("item_id", item.ID), zap.Int64("seller_id", item.SellerID))
	return item, nil
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*models.Item, error) {
	return s.items.GetItem(ctx, id)
}

func (s *CatalogService) List(ctx context.Context) ([]models.Item, error) {
	return s.items.ListItems(ctx)
}

func (s *CatalogService) ListByCategory(ctx context.Context, category string) ([]models.Item, error) {
	return s.items.ListItemsByCategory(ctx, category)
}

func (s *CatalogService) ListBySeller(ctx context.Context, sellerID int64) ([]models.Item, error) {
	return s.items.ListItemsBySeller(ctx, sellerID)
}

// Search matches query against title and description
func (s *CatalogService) Search(ctx context.Context, query string) ([]models.Item, error) {
	return s.items.SearchItems(ctx, strings.TrimSpace(query))
}

// ownedItem loads an item and checks actor is its seller
func (s *CatalogService) ownedItem(ctx context.Context, actor models.Actor, id int64, verb string) (*models.Item, error) {
	item, err := s.items.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.SellerID != actor.UserID {
		return nil, apperr.Newf(apperr.CodeForbidden, "you can only %s your own items", verb)
	}
	return item, nil
}

// Update overwrites the editable fields of one of actor's items
func (s *CatalogService) Update(ctx context.Context, actor models.Actor, id int64, in *models.ItemInput) (*models.Item, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Update")
	defer span.End()

	item, err := s.ownedItem(ctx, actor, id, "edit")
	if err != nil {
		return nil, err
	}
	if err := validateItemInput(in); err != nil {
		return nil, err
	}

	item.Title = strings.TrimSpace(in.Title)
	item.Description = in.Description
	item.Price = in.Price
	item.Category = in.Category
	item.Condition = in.Condition
	item.ImageURL = in.ImageURL
	if err := s.items.UpdateItem(ctx, item); err != nil {
		util.RecordError(span, err)
		return nil, err
	}
	return item, nil
}

// Delete removes one of actor's items
func (s *CatalogService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	if _, err := s.ownedItem(ctx, actor, id, "delete"); err != nil {
		return err
	}
	if err := s.items.DeleteItem(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Item deleted", zap.Int64("item_id", id), zap.Int64("seller_id", actor.UserID))
	return nil
}
