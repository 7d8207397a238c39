package store

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type OffsetPage[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NormalizePage clamps request parameters to sane bounds.
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}

// Paginate slices an in-memory result set. A page past the end yields an
// empty, non-nil Items slice.
func Paginate[T any](all []T, page, pageSize int) OffsetPage[T] {
	page, pageSize = NormalizePage(page, pageSize)
	total := len(all)

	totalPages := total / pageSize
	if total%pageSize > 0 {
		totalPages++
	}

	offset := (page - 1) * pageSize
	items := []T{}
	if offset < total {
		end := offset + pageSize
		if end > total {
			end = total
		}
		items = append(items, all[offset:end]...)
	}

	return OffsetPage[T]{
		Items:      items,
		Total:      int64(total),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
