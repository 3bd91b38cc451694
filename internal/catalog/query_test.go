package catalog

import (
	"reflect"
	"testing"
)

func TestQueryNormalize(t *testing.T) {
	q := Query{Page: -3, PageSize: 15, SearchText: "  camisa ", CategoryID: -1}.Normalize()
	if q.Page != 1 || q.PageSize != 20 {
		t.Fatalf("expected page 1 size 20, got %d/%d", q.Page, q.PageSize)
	}
	if q.SearchText != "camisa" || q.CategoryID != 0 {
		t.Fatalf("unexpected normalized query %+v", q)
	}
	if got := (Query{Page: 2, PageSize: 48}).Normalize().PageSize; got != 48 {
		t.Fatalf("expected allowed size to survive, got %d", got)
	}
}

func TestQueryValuesOmitsUnsetFilters(t *testing.T) {
	v := Query{Page: 2, PageSize: 12}.Values()
	if v.Encode() != "page=2&size=12" {
		t.Fatalf("unexpected params %q", v.Encode())
	}

	v = Query{Page: 1, PageSize: 20, SearchText: "jean", CategoryID: 3, Size: "M", Color: "Azul"}.Values()
	want := "categoria=3&color=Azul&page=1&q=jean&size=20&talla=M"
	if v.Encode() != want {
		t.Fatalf("expected %q, got %q", want, v.Encode())
	}
}

func TestApplyFilters(t *testing.T) {
	items := fixtureProducts()
	cases := []struct {
		name  string
		query Query
		want  []int64
	}{
		{"no filter", Query{}, []int64{1, 2, 3, 4}},
		{"text matches name or description", Query{SearchText: "ROJ"}, []int64{1, 2}},
		{"category exact", Query{CategoryID: 1}, []int64{1, 3}},
		{"any variant size", Query{Size: "M"}, []int64{1, 3}},
		{"any variant color", Query{Color: "Rojo"}, []int64{1, 3}},
		{"combined", Query{CategoryID: 1, Size: "S"}, []int64{3}},
		{"nothing", Query{Color: "Verde"}, []int64{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := tc.query
			q.Page, q.PageSize = 1, 20
			page := Apply(items, q)
			if got := productIDs(page.Items); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			if page.Total != len(tc.want) {
				t.Fatalf("expected total %d, got %d", len(tc.want), page.Total)
			}
		})
	}
}

func TestApplyPaginates(t *testing.T) {
	items := make([]Product, 0, 25)
	for i := 1; i <= 25; i++ {
		items = append(items, Product{ID: int64(i), Name: "p"})
	}

	page := Apply(items, Query{Page: 2, PageSize: 12})
	if page.Total != 25 || len(page.Items) != 12 || page.Items[0].ID != 13 {
		t.Fatalf("unexpected page 2: total=%d len=%d", page.Total, len(page.Items))
	}

	page = Apply(items, Query{Page: 3, PageSize: 12})
	if len(page.Items) != 1 || page.Items[0].ID != 25 {
		t.Fatalf("expected single trailing item, got %v", productIDs(page.Items))
	}

	page = Apply(items, Query{Page: 9, PageSize: 12})
	if len(page.Items) != 0 || page.Total != 25 {
		t.Fatalf("expected empty page beyond range with total, got %d items total %d", len(page.Items), page.Total)
	}
}

func TestBuildFilterIndex(t *testing.T) {
	idx := BuildFilterIndex(fixtureProducts())

	wantCats := []CategoryOption{{ID: 1, Name: "Categoría 1"}, {ID: 2, Name: "Categoría 2"}}
	if !reflect.DeepEqual(idx.Categories, wantCats) {
		t.Fatalf("expected categories %v, got %v", wantCats, idx.Categories)
	}
	if want := []string{"M", "L", "S"}; !reflect.DeepEqual(idx.Sizes, want) {
		t.Fatalf("expected sizes %v, got %v", want, idx.Sizes)
	}
	if want := []string{"Rojo", "Azul", "Negro"}; !reflect.DeepEqual(idx.Colors, want) {
		t.Fatalf("expected colors %v, got %v", want, idx.Colors)
	}

	empty := BuildFilterIndex(nil)
	if empty.Categories == nil || len(empty.Sizes) != 0 {
		t.Fatalf("expected empty non-nil index, got %+v", empty)
	}
}
