package models

// PageMeta describes one page of a catalog listing.
type PageMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPageMeta computes pagination metadata. Pages is ceil(total/limit).
func NewPageMeta(page, limit int, total int64) PageMeta {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return PageMeta{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}
