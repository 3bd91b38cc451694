package orders

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/angelmondragon/moda-storefront/pkg/apiclient"
	"github.com/angelmondragon/moda-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/moda-storefront/pkg/errors"
	"github.com/angelmondragon/moda-storefront/pkg/types"
)

const ordersPath = "/api/orders"

type createRequest struct {
	UserID          int64        `json:"usuario_id"`
	PaymentMethod   string       `json:"metodo_pago"`
	ShippingAddress string       `json:"direccion_envio"`
	Items           []createItem `json:"items"`
}

type createItem struct {
	VariantID int64 `json:"variant_id"`
	Quantity  int   `json:"cantidad"`
}

// RemoteBackend talks to the storefront orders API.
type RemoteBackend struct {
	client *apiclient.Client
}

func NewRemoteBackend(client *apiclient.Client) *RemoteBackend {
	return &RemoteBackend{client: client}
}

// NewRemoteClient builds the orders API client. Reads are retried once; order
// creation never is.
func NewRemoteClient(cfg config.OrdersConfig) (*apiclient.Client, error) {
	return apiclient.New("orders", cfg.APIBaseURL, apiclient.Options{
		Timeout: cfg.HTTPTimeout,
		Retries: 1,
		Backoff: cfg.RetryBackoff,
	})
}

func (b *RemoteBackend) Create(ctx context.Context, input CreateInput) (Confirmation, error) {
	req := createRequest{
		UserID:          input.UserID,
		PaymentMethod:   input.PaymentMethod.String(),
		ShippingAddress: input.ShippingAddress,
		Items:           make([]createItem, 0, len(input.Items)),
	}
	for _, it := range input.Items {
		req.Items = append(req.Items, createItem{VariantID: it.VariantID, Quantity: it.Quantity})
	}

	var env types.RemoteEnvelope[Confirmation]
	if err := b.client.PostJSON(ctx, ordersPath, req, &env); err != nil {
		return Confirmation{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, MsgCreateFailed)
	}
	if !env.OK() || env.Data.OrderID == 0 {
		msg := MsgCreateFailed
		if env.Message != "" {
			msg = env.Message
		}
		return Confirmation{}, pkgerrors.New(pkgerrors.CodeDependency, msg).
			WithDetails(map[string]any{"status": env.Status})
	}
	return *env.Data, nil
}

func (b *RemoteBackend) ListByUser(ctx context.Context, userID int64, page, size int) (List, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	var env types.RemoteEnvelope[List]
	path := fmt.Sprintf("%s/user/%d", ordersPath, userID)
	if err := b.client.GetJSON(ctx, path, query, &env); err != nil {
		return List{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, MsgListFailed)
	}
	if !env.OK() {
		return List{}, pkgerrors.New(pkgerrors.CodeDependency, MsgListFailed)
	}

	list := *env.Data
	if list.Items == nil {
		list.Items = []Order{}
	}
	list.Page, list.Size = page, size
	return list, nil
}

func (b *RemoteBackend) Get(ctx context.Context, id int64) (Order, error) {
	var env types.RemoteEnvelope[Order]
	path := fmt.Sprintf("%s/%d", ordersPath, id)
	if err := b.client.GetJSON(ctx, path, nil, &env); err != nil {
		var te *apiclient.TransportError
		if errors.As(err, &te) && te.StatusCode == http.StatusNotFound {
			return Order{}, pkgerrors.New(pkgerrors.CodeNotFound, MsgOrderNotFound)
		}
		return Order{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if !env.OK() {
		return Order{}, pkgerrors.New(pkgerrors.CodeNotFound, MsgOrderNotFound)
	}
	return *env.Data, nil
}
