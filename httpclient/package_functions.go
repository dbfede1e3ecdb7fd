package httpclient

import (
	"context"

	"github.com/ThalesGroup/dispatch"
)

// DefaultClient is the singleton used by the package-level verb
// functions.  It sends requests with http.DefaultClient.
// nolint:gochecknoglobals
var DefaultClient = &Client{}

// Get does the same as Client.Get(), using the DefaultClient.
func Get(ctx context.Context, payload dispatch.Payload) (interface{}, error) {
	return DefaultClient.Get(ctx, payload)
}

// Post does the same as Client.Post(), using the DefaultClient.
func Post(ctx context.Context, payload dispatch.Payload) (interface{}, error) {
	return DefaultClient.Post(ctx, payload)
}

// Put does the same as Client.Put(), using the DefaultClient.
func Put(ctx context.Context, payload dispatch.Payload) (interface{}, error) {
	return DefaultClient.Put(ctx, payload)
}

// Delete does the same as Client.Delete(), using the DefaultClient.
func Delete(ctx context.Context, payload dispatch.Payload) (interface{}, error) {
	return DefaultClient.Delete(ctx, payload)
}

// Execute does the same as Client.Execute(), using the DefaultClient.
func Execute(ctx context.Context, method string, payload dispatch.Payload) (interface{}, error) {
	return DefaultClient.Execute(ctx, method, payload)
}

// NewRequest returns a dispatch.Request wired to a new Client built
// from the options.
func NewRequest(opts ...Option) (*dispatch.Request, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return dispatch.New(dispatch.WithClient(c))
}
