package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/angelmondragon/moda-storefront/pkg/pagination"
)

// Query is built fresh for every listing request. Zero values mean "no filter".
type Query struct {
	Page       int
	PageSize   int
	SearchText string
	CategoryID int64
	Size       string
	Color      string
}

// Normalize clamps the page, maps unsupported page sizes to the default one and
// trims the text filters.
func (q Query) Normalize() Query {
	q.Page = pagination.NormalizePage(q.Page)
	q.PageSize = pagination.NormalizeSize(q.PageSize)
	q.SearchText = strings.TrimSpace(q.SearchText)
	q.Size = strings.TrimSpace(q.Size)
	q.Color = strings.TrimSpace(q.Color)
	if q.CategoryID < 0 {
		q.CategoryID = 0
	}
	return q
}

// Values renders the query parameters understood by the storefront API. Unset
// filters are omitted.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.PageSize))
	if q.SearchText != "" {
		v.Set("q", q.SearchText)
	}
	if q.CategoryID != 0 {
		v.Set("categoria", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.Size != "" {
		v.Set("talla", q.Size)
	}
	if q.Color != "" {
		v.Set("color", q.Color)
	}
	return v
}

// Matches applies the client-side filter rules to one product.
func (q Query) Matches(p Product) bool {
	if q.SearchText != "" {
		needle := strings.ToLower(q.SearchText)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	if q.CategoryID != 0 && p.CategoryID != q.CategoryID {
		return false
	}
	if q.Size != "" && !anyVariant(p, func(v Variant) bool { return v.Size == q.Size }) {
		return false
	}
	if q.Color != "" && !anyVariant(p, func(v Variant) bool { return v.Color == q.Color }) {
		return false
	}
	return true
}

func anyVariant(p Product, fn func(Variant) bool) bool {
	for _, v := range p.Variants {
		if fn(v) {
			return true
		}
	}
	return false
}

// Apply filters items in order and cuts the requested page out of the result.
func Apply(items []Product, q Query) Page {
	filtered := make([]Product, 0, len(items))
	for _, p := range items {
		if q.Matches(p) {
			filtered = append(filtered, p)
		}
	}
	start, end := pagination.Bounds(q.Page, q.PageSize, len(filtered))
	return Page{
		Items: filtered[start:end],
		Page:  q.Page,
		Size:  q.PageSize,
		Total: len(filtered),
	}
}
