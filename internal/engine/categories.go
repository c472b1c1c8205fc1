package engine

import "github.com/boddenberg/pj-ledger-go/internal/domain"

// CategoryIndex resolves transaction classifications against the category
// and subcategory lists. Categories own subcategories by foreign key: a
// plain one-to-many tree, indexed here for O(1) lookup.
//
// Transactions carry a legacy dual representation: a normalized category id
// and a free-text category name left over from records that predate ids.
// Resolution prefers the id and falls back to the name; that fallback lives
// only here, never per report.
type CategoryIndex struct {
	categories    map[string]domain.CategoryItem
	byName        map[string]string // legacy name -> category id
	subcategories map[string]domain.SubcategoryItem
}

// NewCategoryIndex builds the index from entity snapshots.
func NewCategoryIndex(categories []domain.CategoryItem, subcategories []domain.SubcategoryItem) CategoryIndex {
	ix := CategoryIndex{
		categories:    make(map[string]domain.CategoryItem, len(categories)),
		byName:        make(map[string]string, len(categories)),
		subcategories: make(map[string]domain.SubcategoryItem, len(subcategories)),
	}
	for _, c := range categories {
		ix.categories[c.ID] = c
		ix.byName[c.Name] = c.ID
	}
	for _, s := range subcategories {
		ix.subcategories[s.ID] = s
	}
	return ix
}

// ResolveCategoryID normalizes a transaction's classification to a category
// id: the id when present, otherwise a name-match against the legacy
// free-text category, otherwise "".
func (ix CategoryIndex) ResolveCategoryID(t domain.Transaction) string {
	if t.CategoryID != "" {
		return t.CategoryID
	}
	if id, ok := ix.byName[t.CategoryName]; ok {
		return id
	}
	return ""
}

// CategoryName resolves the display category of a transaction. A missing
// or unknown id falls back to the legacy name and finally to the raw id,
// so one malformed record never aborts a whole report.
func (ix CategoryIndex) CategoryName(t domain.Transaction) string {
	if t.CategoryID != "" {
		if c, ok := ix.categories[t.CategoryID]; ok {
			return c.Name
		}
	}
	if t.CategoryName != "" {
		return t.CategoryName
	}
	if t.CategoryID != "" {
		return t.CategoryID
	}
	return "uncategorized"
}

// CategoryNameByID resolves a category id alone (used by budget lines,
// which have no legacy name to fall back to).
func (ix CategoryIndex) CategoryNameByID(id string) string {
	if c, ok := ix.categories[id]; ok {
		return c.Name
	}
	return id
}

// SubcategoryName resolves a subcategory id, falling back to the raw id.
func (ix CategoryIndex) SubcategoryName(id string) string {
	if s, ok := ix.subcategories[id]; ok {
		return s.Name
	}
	return id
}

// ParentCategoryID returns the owning category of a subcategory, or ""
// when the subcategory is unknown.
func (ix CategoryIndex) ParentCategoryID(subcategoryID string) string {
	if s, ok := ix.subcategories[subcategoryID]; ok {
		return s.CategoryID
	}
	return ""
}
