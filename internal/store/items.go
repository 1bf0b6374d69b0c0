package store

import (
	"context"
	"fmt"
	"strings"

	"campus-market/internal/apperr"
	"campus-market/internal/models"
)

const itemSelect = `
	SELECT i.id, i.seller_id, u.username AS seller_name, i.title, i.description,
	       i.price, i.category, i."condition", i.image_url, i.created_at
	FROM items i
	JOIN users u ON u.id = i.seller_id`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// CreateItem inserts a new listing
func (s *Store) CreateItem(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (seller_id, title, description, price, category, "condition", image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := s.db.QueryRowxContext(ctx, query,
		item.SellerID, item.Title, item.Description, item.Price,
		item.Category, item.Condition, item.ImageURL).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return apperr.Wrap(apperr.CodeNotFound, err, "seller not found")
		}
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// GetItem retrieves an item with its seller name
func (s *Store) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	if err := s.db.GetContext(ctx, &item, itemSelect+" WHERE i.id = $1", id); err != nil {
		return nil, notFound(err, "item", id)
	}
	return &item, nil
}

// ListItems retrieves all items
func (s *Store) ListItems(ctx context.Context) ([]models.Item, error) {
	return s.selectItems(ctx, itemSelect+" ORDER BY i.id")
}

// ListItemsByCategory retrieves items in one category
func (s *Store) ListItemsByCategory(ctx context.Context, category string) ([]models.Item, error) {
	return s.selectItems(ctx, itemSelect+" WHERE i.category = $1 ORDER BY i.id", category)
}

// ListItemsBySeller retrieves a seller's listings
func (s *Store) ListItemsBySeller(ctx context.Context, sellerID int64) ([]models.Item, error) {
	return s.selectItems(ctx, itemSelect+" WHERE i.seller_id = $1 ORDER BY i.id", sellerID)
}

// SearchItems matches query as a case-insensitive substring of title or description
func (s *Store) SearchItems(ctx context.Context, query string) ([]models.Item, error) {
	pattern := "%" + likeEscaper.Replace(query) + "%"
	return s.selectItems(ctx, itemSelect+" WHERE i.title ILIKE $1 OR i.description ILIKE $1 ORDER BY i.id", pattern)
}

func (s *Store) selectItems(ctx context.Context, query string, args ...any) ([]models.Item, error) {
	items := []models.Item{}
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// UpdateItem overwrites the editable fields of an item
func (s *Store) UpdateItem(ctx context.Context, item *models.Item) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE items
		SET title = $1, description = $2, price = $3, category = $4, "condition" = $5, image_url = $6
		WHERE id = $7`,
		item.Title, item.Description, item.Price, item.Category, item.Condition, item.ImageURL, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return rowsAffected(res, "item", item.ID)
}

// DeleteItem removes a listing. Items referenced by orders cannot be removed.
func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM items WHERE id = $1", id)
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return apperr.Wrap(apperr.CodeConflict, err, "item has been ordered and cannot be deleted")
		}
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return rowsAffected(res, "item", id)
}
