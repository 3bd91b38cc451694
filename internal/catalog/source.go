package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/moda-storefront/pkg/enums"
)

// Source is one strategy in the fallback chain.
type Source interface {
	Name() enums.CatalogSource
	// Online reports whether the source needs the network. Online sources are
	// skipped when the resolver runs offline.
	Online() bool
	ListProducts(ctx context.Context, q Query) (Page, error)
	GetProduct(ctx context.Context, id int64) (Product, error)
}

// placeholder is implemented by sources whose data is not representative.
type placeholder interface {
	Placeholder() bool
}

// ErrorKind classifies why a source could not answer.
type ErrorKind string

const (
	KindTransport   ErrorKind = "transport"
	KindMalformed   ErrorKind = "malformed"
	KindUnavailable ErrorKind = "unavailable"
)

// Human-readable messages surfaced to shoppers.
const (
	MsgTransport       = "Error al cargar productos"
	MsgMalformed       = "Respuesta inesperada del servicio"
	MsgUnavailable     = "No se pudo cargar el catálogo local"
	MsgProductNotFound = "Producto no encontrado"
)

// ErrProductNotFound is returned by a healthy source that does not know the id.
var ErrProductNotFound = errors.New("catalog: product not found")

type SourceError struct {
	Kind    ErrorKind
	Source  enums.CatalogSource
	Message string
	Err     error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s source %s: %v", e.Source, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s source %s: %s", e.Source, e.Kind, e.Message)
}

func (e *SourceError) Unwrap() error { return e.Err }

func newSourceError(source enums.CatalogSource, kind ErrorKind, err error) *SourceError {
	msg := MsgTransport
	switch kind {
	case KindMalformed:
		msg = MsgMalformed
	case KindUnavailable:
		msg = MsgUnavailable
	}
	return &SourceError{Kind: kind, Source: source, Message: msg, Err: err}
}
