package types

// RemoteStatusOK is the status value the storefront backend uses for success.
const RemoteStatusOK = "ok"

// RemoteEnvelope is the storefront backend's response shape: {status, data, message}.
// Data is a pointer so a missing payload can be told apart from an empty one.
type RemoteEnvelope[T any] struct {
	Status  string `json:"status"`
	Data    *T     `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK reports a successful envelope that carries data.
func (e RemoteEnvelope[T]) OK() bool {
	return e.Status == RemoteStatusOK && e.Data != nil
}

// ItemsPage is the paginated list payload used by the backend.
type ItemsPage[T any] struct {
	Items []T `json:"items"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Total int `json:"total"`
}
