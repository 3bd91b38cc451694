package catalog

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/angelmondragon/moda-storefront/pkg/enums"
)

type datasetFile struct {
	Data struct {
		Items []Product `json:"items"`
	} `json:"data"`
}

// DatasetSource reads the bundled product dataset ({data:{items:[...]}}) in full on
// every call and filters it locally.
type DatasetSource struct {
	fsys fs.FS
	path string
}

func NewDatasetSource(fsys fs.FS, path string) *DatasetSource {
	return &DatasetSource{fsys: fsys, path: path}
}

func (s *DatasetSource) Name() enums.CatalogSource { return enums.CatalogSourceDataset }

func (s *DatasetSource) Online() bool { return false }

func (s *DatasetSource) ListProducts(_ context.Context, q Query) (Page, error) {
	items, err := s.load()
	if err != nil {
		return Page{}, err
	}
	return Apply(items, q), nil
}

func (s *DatasetSource) GetProduct(_ context.Context, id int64) (Product, error) {
	items, err := s.load()
	if err != nil {
		return Product{}, err
	}
	return findProduct(items, id)
}

func (s *DatasetSource) load() ([]Product, error) {
	raw, err := fs.ReadFile(s.fsys, s.path)
	if err != nil {
		return nil, newSourceError(s.Name(), KindUnavailable, err)
	}
	var file datasetFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, newSourceError(s.Name(), KindUnavailable, err)
	}
	return file.Data.Items, nil
}

func findProduct(items []Product, id int64) (Product, error) {
	for _, p := range items {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrProductNotFound
}

// OpenDataset returns the dataset source for path, or the embedded dataset when
// path is empty.
func OpenDataset(embedded fs.FS, embeddedPath, path string) *DatasetSource {
	if path == "" {
		return NewDatasetSource(embedded, embeddedPath)
	}
	return NewDatasetSource(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}
