package models

import (
	"strings"

	"gorm.io/gorm"
)

// DefaultPageLimit is the page size used when the caller supplies none, or an
// invalid one (limit <= 0 is clamped here rather than rejected).
const DefaultPageLimit = 20

// ProductFilter selects products for catalog listings. Zero-value fields and
// unknown categories are not applied; present fields are combined with AND.
type ProductFilter struct {
	Category string
	Village  string // matches the owner-village snapshot
	Search   string // case-insensitive substring over title OR description
}

// escapeLike neutralizes LIKE metacharacters in user-supplied search text so
// it is matched as a literal substring.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Apply chains the filter's conditions onto query.
func (f ProductFilter) Apply(query *gorm.DB) *gorm.DB {
	if f.Category != "" && ValidCategory(f.Category) {
		query = query.Where("category = ?", f.Category)
	}
	if f.Village != "" {
		query = query.Where("owner_village = ?", f.Village)
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(escapeLike(f.Search)) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\'",
			pattern, pattern,
		)
	}
	return query
}

// NormalizePage clamps page and limit to usable values: page < 1 becomes 1,
// limit <= 0 becomes fallback (or DefaultPageLimit when fallback is not
// positive either).
func NormalizePage(page, limit, fallback int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		if fallback > 0 {
			limit = fallback
		} else {
			limit = DefaultPageLimit
		}
	}
	return page, limit
}

// QueryProducts runs a filtered, paginated catalog query: newest first with a
// stable id tie-break, offset (page-1)*limit. Total counts every match
// regardless of the page window; a page past the end yields an empty slice
// and no error.
func QueryProducts(db *gorm.DB, filter ProductFilter, page, limit int) ([]Product, PageMeta, error) {
	page, limit = NormalizePage(page, limit, DefaultPageLimit)

	var total int64
	if err := filter.Apply(db.Model(&Product{})).Count(&total).Error; err != nil {
		return nil, PageMeta{}, err
	}

	products := []Product{}
	err := filter.Apply(db.Model(&Product{})).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, PageMeta{}, err
	}

	return products, NewPageMeta(page, limit, total), nil
}

// DistinctVillages lists every non-empty village that has at least one user.
func DistinctVillages(db *gorm.DB) ([]string, error) {
	villages := []string{}
	err := db.Model(&User{}).
		Where("village <> ''").
		Distinct().
		Order("village").
		Pluck("village", &villages).Error
	return villages, err
}
