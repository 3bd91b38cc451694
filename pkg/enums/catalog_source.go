package enums

// CatalogSource names the product source that answered a catalog query.
type CatalogSource string

const (
	CatalogSourceRemote  CatalogSource = "remote"
	CatalogSourceDataset CatalogSource = "dataset"
	CatalogSourceSample  CatalogSource = "sample"
)

// String implements fmt.Stringer.
func (s CatalogSource) String() string {
	return string(s)
}
