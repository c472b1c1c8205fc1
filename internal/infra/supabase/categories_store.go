package supabase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boddenberg/pj-ledger-go/internal/domain"
)

// ============================================================
// Categories and subcategories
// ============================================================

func (c *Client) ListCategories(ctx context.Context) ([]domain.CategoryItem, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListCategories")
	defer span.End()

	var categories []domain.CategoryItem
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, "categories?order=name.asc")
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, &categories); err != nil {
			return fmt.Errorf("decode categories: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/categories", Err: err}
	}
	return categories, nil
}

func (c *Client) ListSubcategories(ctx context.Context) ([]domain.SubcategoryItem, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListSubcategories")
	defer span.End()

	var subcategories []domain.SubcategoryItem
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, "subcategories?order=name.asc")
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, &subcategories); err != nil {
			return fmt.Errorf("decode subcategories: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/subcategories", Err: err}
	}
	return subcategories, nil
}

func (c *Client) CreateCategory(ctx context.Context, item *domain.CategoryItem) (*domain.CategoryItem, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateCategory")
	defer span.End()

	var created *domain.CategoryItem
	err := c.execute(ctx, func() error {
		body, err := c.doPost(ctx, "categories", map[string]any{
			"name": item.Name,
			"kind": item.Kind,
		})
		if err != nil {
			return err
		}

		var rows []domain.CategoryItem
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode created category: %w", err)
		}
		if len(rows) == 0 {
			return fmt.Errorf("create category: empty representation")
		}
		created = &rows[0]
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/categories", Err: err}
	}

	c.bumpVersion()
	return created, nil
}

func (c *Client) CreateSubcategory(ctx context.Context, item *domain.SubcategoryItem) (*domain.SubcategoryItem, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateSubcategory")
	defer span.End()

	var created *domain.SubcategoryItem
	err := c.execute(ctx, func() error {
		body, err := c.doPost(ctx, "subcategories", map[string]any{
			"name":        item.Name,
			"category_id": item.CategoryID,
		})
		if err != nil {
			return err
		}

		var rows []domain.SubcategoryItem
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode created subcategory: %w", err)
		}
		if len(rows) == 0 {
			return fmt.Errorf("create subcategory: empty representation")
		}
		created = &rows[0]
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/subcategories", Err: err}
	}

	c.bumpVersion()
	return created, nil
}
