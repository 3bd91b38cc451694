package pagination

// Navigator tracks the current page of a list view. Every move returns true only when
// the page actually changed, so callers reload data on true and do nothing otherwise.
type Navigator struct {
	page  int
	size  int
	total int
}

func NewNavigator(size int) *Navigator {
	return &Navigator{page: 1, size: NormalizeSize(size)}
}

func (n *Navigator) Page() int { return n.page }

func (n *Navigator) Size() int { return n.size }

func (n *Navigator) Total() int { return n.total }

func (n *Navigator) TotalPages() int { return TotalPages(n.total, n.size) }

// Window returns the visible page buttons for the current state.
func (n *Navigator) Window() []int { return Window(n.page, n.TotalPages()) }

// SetResult records the outcome of a page load. The page echoed by the source wins when
// it is positive.
func (n *Navigator) SetResult(page, total int) {
	if page > 0 {
		n.page = page
	}
	if total < 0 {
		total = 0
	}
	n.total = total
}

// GoTo moves to p when it differs from the current page and lies within [1, TotalPages].
func (n *Navigator) GoTo(p int) bool {
	if p == n.page || p < 1 || p > n.TotalPages() {
		return false
	}
	n.page = p
	return true
}

func (n *Navigator) Next() bool { return n.GoTo(n.page + 1) }

func (n *Navigator) Previous() bool { return n.GoTo(n.page - 1) }

// ChangeSize switches to an allowed page size and rewinds to the first page.
func (n *Navigator) ChangeSize(size int) bool {
	if size == n.size || !IsAllowedSize(size) {
		return false
	}
	n.size = size
	n.page = 1
	return true
}

// Reset rewinds to page 1, used when filters change.
func (n *Navigator) Reset() {
	n.page = 1
}
