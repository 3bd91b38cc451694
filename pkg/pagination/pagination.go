package pagination

const (
	// DefaultSize is the page size used when a request does not pick an allowed one.
	DefaultSize = 20
	// MaxVisiblePages is the number of page buttons shown before windowing kicks in.
	MaxVisiblePages = 7
	// windowSpan is the width of the centred window once windowing applies.
	windowSpan = 5
)

// AllowedSizes lists the page sizes the catalog views offer.
var AllowedSizes = []int{12, 20, 48}

// IsAllowedSize reports whether size is one of AllowedSizes.
func IsAllowedSize(size int) bool {
	for _, s := range AllowedSizes {
		if s == size {
			return true
		}
	}
	return false
}

// NormalizeSize maps unsupported sizes onto DefaultSize.
func NormalizeSize(size int) int {
	if IsAllowedSize(size) {
		return size
	}
	return DefaultSize
}

// NormalizePage clamps page numbers below 1.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// TotalPages returns max(1, ceil(total/size)).
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	pages := (total + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// Offset returns the zero-based index of the first item on page.
func Offset(page, size int) int {
	return (NormalizePage(page) - 1) * size
}

// Bounds returns the half-open [start, end) slice window for page over n items.
func Bounds(page, size, n int) (int, int) {
	if size <= 0 {
		return 0, 0
	}
	start := Offset(page, size)
	if start > n {
		start = n
	}
	end := start + size
	if end > n {
		end = n
	}
	return start, end
}

// Window returns the page numbers to render as buttons for the current page.
func Window(page, totalPages int) []int {
	if totalPages < 1 {
		totalPages = 1
	}
	if totalPages <= MaxVisiblePages {
		return pageRange(1, totalPages)
	}

	half := windowSpan / 2
	switch {
	case page <= half:
		return pageRange(1, windowSpan)
	case page >= totalPages-1:
		return pageRange(totalPages-windowSpan+1, totalPages)
	default:
		return pageRange(page-half, page+half)
	}
}

func pageRange(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

// Meta summarises pagination state for API responses.
type Meta struct {
	Page        int   `json:"page"`
	Size        int   `json:"size"`
	Total       int   `json:"total"`
	TotalPages  int   `json:"total_pages"`
	Pages       []int `json:"pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// NewMeta computes the page window and navigation flags for a result set.
func NewMeta(page, size, total int) Meta {
	totalPages := TotalPages(total, size)
	return Meta{
		Page:        page,
		Size:        size,
		Total:       total,
		TotalPages:  totalPages,
		Pages:       Window(page, totalPages),
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}
