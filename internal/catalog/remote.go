package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/angelmondragon/moda-storefront/pkg/apiclient"
	"github.com/angelmondragon/moda-storefront/pkg/config"
	"github.com/angelmondragon/moda-storefront/pkg/enums"
	"github.com/angelmondragon/moda-storefront/pkg/types"
)

const (
	productsPath = "/api/products"
	// remoteRetries is the number of automatic retries after a transport failure.
	remoteRetries = 1
)

// NewRemoteClient builds the API client for RemoteSource from the catalog config.
func NewRemoteClient(cfg config.CatalogConfig) (*apiclient.Client, error) {
	return apiclient.New("catalog", cfg.APIBaseURL, apiclient.Options{
		Timeout: cfg.HTTPTimeout,
		Retries: remoteRetries,
		Backoff: cfg.RetryBackoff,
	})
}

// RemoteSource queries the storefront products API. Transport retries are handled
// by the client.
type RemoteSource struct {
	client *apiclient.Client
}

func NewRemoteSource(client *apiclient.Client) *RemoteSource {
	return &RemoteSource{client: client}
}

func (s *RemoteSource) Name() enums.CatalogSource { return enums.CatalogSourceRemote }

func (s *RemoteSource) Online() bool { return true }

func (s *RemoteSource) ListProducts(ctx context.Context, q Query) (Page, error) {
	var env types.RemoteEnvelope[types.ItemsPage[Product]]
	if err := s.client.GetJSON(ctx, productsPath, q.Values(), &env); err != nil {
		return Page{}, s.classify(err)
	}
	if !env.OK() {
		return Page{}, newSourceError(s.Name(), KindMalformed, unexpected(env.Status, env.Message))
	}

	data := env.Data
	page := Page{Items: data.Items, Page: data.Page, Size: data.Size, Total: data.Total}
	if page.Items == nil {
		page.Items = []Product{}
	}
	if page.Page == 0 {
		page.Page = q.Page
	}
	if page.Size == 0 {
		page.Size = q.PageSize
	}
	return page, nil
}

func (s *RemoteSource) GetProduct(ctx context.Context, id int64) (Product, error) {
	var env types.RemoteEnvelope[Product]
	path := productsPath + "/" + strconv.FormatInt(id, 10)
	if err := s.client.GetJSON(ctx, path, nil, &env); err != nil {
		var te *apiclient.TransportError
		if errors.As(err, &te) && te.StatusCode == http.StatusNotFound {
			return Product{}, ErrProductNotFound
		}
		return Product{}, s.classify(err)
	}
	if !env.OK() {
		return Product{}, newSourceError(s.Name(), KindMalformed, unexpected(env.Status, env.Message))
	}
	return *env.Data, nil
}

func (s *RemoteSource) classify(err error) error {
	var de *apiclient.DecodeError
	if errors.As(err, &de) {
		return newSourceError(s.Name(), KindMalformed, err)
	}
	return newSourceError(s.Name(), KindTransport, err)
}

func unexpected(status, message string) error {
	if message != "" {
		return fmt.Errorf("unexpected response: status=%q message=%q", status, message)
	}
	return fmt.Errorf("unexpected response: status=%q", status)
}
