package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/moda-storefront/pkg/errors"
)

type recordingBackend struct {
	name      string
	creates   int
	listPage  int
	listSize  int
	lastGetID int64
}

func (r *recordingBackend) Create(context.Context, CreateInput) (Confirmation, error) {
	r.creates++
	return Confirmation{OrderID: 1}, nil
}

func (r *recordingBackend) ListByUser(_ context.Context, _ int64, page, size int) (List, error) {
	r.listPage, r.listSize = page, size
	return List{Items: []Order{}, Page: page, Size: size}, nil
}

func (r *recordingBackend) Get(_ context.Context, id int64) (Order, error) {
	r.lastGetID = id
	return Order{ID: id}, nil
}

func TestGatewayRouting(t *testing.T) {
	remote := &recordingBackend{name: "remote"}
	local := &recordingBackend{name: "local"}

	g, err := NewGateway(remote, local, GatewayOptions{})
	require.NoError(t, err)
	assert.Equal(t, "remote", g.Mode())
	_, err = g.Create(context.Background(), sampleInput(1))
	require.NoError(t, err)
	assert.Equal(t, 1, remote.creates)
	assert.Zero(t, local.creates)

	g, err = NewGateway(remote, local, GatewayOptions{Offline: true})
	require.NoError(t, err)
	assert.Equal(t, "local", g.Mode())
	_, err = g.Create(context.Background(), sampleInput(1))
	require.NoError(t, err)
	assert.Equal(t, 1, local.creates)

	_, err = NewGateway(nil, nil, GatewayOptions{})
	assert.Error(t, err)
}

func TestGatewayValidatesInput(t *testing.T) {
	g, err := NewGateway(&recordingBackend{}, nil, GatewayOptions{})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = g.Create(ctx, CreateInput{UserID: 1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	bad := sampleInput(1)
	bad.Items[0].Quantity = 0
	_, err = g.Create(ctx, bad)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = g.Get(ctx, 0)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestGatewayNormalizesListPaging(t *testing.T) {
	backend := &recordingBackend{}
	g, err := NewGateway(backend, nil, GatewayOptions{})
	require.NoError(t, err)

	_, err = g.ListByUser(context.Background(), 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.listPage)
	assert.Equal(t, defaultListSize, backend.listSize)

	_, err = g.ListByUser(context.Background(), 1, 3, 1000)
	require.NoError(t, err)
	assert.Equal(t, maxListSize, backend.listSize)
}
