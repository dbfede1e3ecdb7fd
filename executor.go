package dispatch

import (
	"context"
	"net/http"
	"strings"

	"github.com/ansel1/merry"
)

// Error metadata attached to ErrBadRequest, retrievable with
// merry.Value().
const (
	// ErrorDomain is the value of the "domain" key on errors raised by
	// this package.
	ErrorDomain = "HttpRequest"

	// BadRequestCode is the value of the "code" key on ErrBadRequest.
	BadRequestCode = "HttpRequestExecutor_400"
)

// ErrBadRequest is returned by Execute when the payload has no keys at
// all, or no usable url.  It is the only error condition raised
// locally; any error from the Client passes through unwrapped, so
// callers can tell a malformed request apart from a transport failure:
//
//	if merry.Is(err, dispatch.ErrBadRequest) { ... }
//
// nolint:gochecknoglobals
var ErrBadRequest = merry.New("Bad Request").
	WithHTTPCode(http.StatusBadRequest).
	WithValue("domain", ErrorDomain).
	WithValue("code", BadRequestCode)

// ErrNoClient is returned by Execute when no Client is configured.
// nolint:gochecknoglobals
var ErrNoClient = merry.New("no http client configured").
	WithValue("domain", ErrorDomain)

// Client executes payloads.  It is the external HTTP client
// collaborator: one function per verb, each accepting a payload object
// and returning the response body, or the full response when the
// payload's resolveWithFullResponse flag is set.
//
// The httpclient package provides an implementation backed by
// net/http.  Tests can substitute a MockClient.
type Client interface {
	Get(ctx context.Context, payload Payload) (interface{}, error)
	Post(ctx context.Context, payload Payload) (interface{}, error)
	Put(ctx context.Context, payload Payload) (interface{}, error)
	Delete(ctx context.Context, payload Payload) (interface{}, error)
}

// ClientFunc adapts a single function to the Client interface.  The
// verb is passed as the second argument, in http.Method* form.
type ClientFunc func(ctx context.Context, method string, payload Payload) (interface{}, error)

// Get implements Client.
func (f ClientFunc) Get(ctx context.Context, payload Payload) (interface{}, error) {
	return f(ctx, http.MethodGet, payload)
}

// Post implements Client.
func (f ClientFunc) Post(ctx context.Context, payload Payload) (interface{}, error) {
	return f(ctx, http.MethodPost, payload)
}

// Put implements Client.
func (f ClientFunc) Put(ctx context.Context, payload Payload) (interface{}, error) {
	return f(ctx, http.MethodPut, payload)
}

// Delete implements Client.
func (f ClientFunc) Delete(ctx context.Context, payload Payload) (interface{}, error) {
	return f(ctx, http.MethodDelete, payload)
}

// Executor validates payloads and dispatches them to a Client.  It is
// a stateless pass-through after validation: no retries, no timeouts,
// no transformation of the result.  Request embeds an Executor, so
// every Request exposes the Executor's methods alongside the builder
// methods.
type Executor struct {
	// Client is the external HTTP client the payloads are handed to.
	Client Client
}

// Execute validates the payload and dispatches it to the Client
// function named by method.  Method is case-insensitive and must be
// one of GET, POST, PUT, or DELETE.
//
// If the payload has zero keys, or its url is absent or falsy,
// ErrBadRequest is returned and the Client is never invoked.  The
// result of the Client call is returned as-is, including any error.
func (e *Executor) Execute(ctx context.Context, method string, payload Payload) (interface{}, error) {
	if e.Client == nil {
		return nil, ErrNoClient.Here()
	}
	if len(payload) == 0 || !payload.hasURL() {
		return nil, ErrBadRequest.Here()
	}

	switch strings.ToUpper(method) {
	case http.MethodGet:
		return e.Client.Get(ctx, payload)
	case http.MethodPost:
		return e.Client.Post(ctx, payload)
	case http.MethodPut:
		return e.Client.Put(ctx, payload)
	case http.MethodDelete:
		return e.Client.Delete(ctx, payload)
	default:
		return nil, merry.Errorf("unsupported method: %s", method).WithValue("domain", ErrorDomain)
	}
}

// Get dispatches the payload with the GET verb.
func (e *Executor) Get(ctx context.Context, payload Payload) (interface{}, error) {
	return e.Execute(ctx, http.MethodGet, payload)
}

// Post dispatches the payload with the POST verb.
func (e *Executor) Post(ctx context.Context, payload Payload) (interface{}, error) {
	return e.Execute(ctx, http.MethodPost, payload)
}

// Put dispatches the payload with the PUT verb.
func (e *Executor) Put(ctx context.Context, payload Payload) (interface{}, error) {
	return e.Execute(ctx, http.MethodPut, payload)
}

// Delete dispatches the payload with the DELETE verb.
func (e *Executor) Delete(ctx context.Context, payload Payload) (interface{}, error) {
	return e.Execute(ctx, http.MethodDelete, payload)
}

// The Request verb methods shadow the embedded Executor's.  They
// default the payload to the Request's current Payload() projection,
// computed at call time, so mutations between calls are observed.  An
// explicit payload argument overrides the projection entirely.

// Get dispatches with the GET verb.  If no payload argument is given,
// the Request's current Payload() is used.
func (r *Request) Get(payload ...Payload) (interface{}, error) {
	return r.GetContext(context.Background(), payload...)
}

// GetContext does the same as Get, but requires a context.
func (r *Request) GetContext(ctx context.Context, payload ...Payload) (interface{}, error) {
	return r.ExecuteContext(ctx, http.MethodGet, payload...)
}

// Post dispatches with the POST verb.  If no payload argument is
// given, the Request's current Payload() is used.
func (r *Request) Post(payload ...Payload) (interface{}, error) {
	return r.PostContext(context.Background(), payload...)
}

// PostContext does the same as Post, but requires a context.
func (r *Request) PostContext(ctx context.Context, payload ...Payload) (interface{}, error) {
	return r.ExecuteContext(ctx, http.MethodPost, payload...)
}

// Put dispatches with the PUT verb.  If no payload argument is given,
// the Request's current Payload() is used.
func (r *Request) Put(payload ...Payload) (interface{}, error) {
	return r.PutContext(context.Background(), payload...)
}

// PutContext does the same as Put, but requires a context.
func (r *Request) PutContext(ctx context.Context, payload ...Payload) (interface{}, error) {
	return r.ExecuteContext(ctx, http.MethodPut, payload...)
}

// Delete dispatches with the DELETE verb.  If no payload argument is
// given, the Request's current Payload() is used.
func (r *Request) Delete(payload ...Payload) (interface{}, error) {
	return r.DeleteContext(context.Background(), payload...)
}

// DeleteContext does the same as Delete, but requires a context.
func (r *Request) DeleteContext(ctx context.Context, payload ...Payload) (interface{}, error) {
	return r.ExecuteContext(ctx, http.MethodDelete, payload...)
}

// Execute dispatches with an arbitrary verb.  If no payload argument
// is given, the Request's current Payload() is used.
func (r *Request) Execute(method string, payload ...Payload) (interface{}, error) {
	return r.ExecuteContext(context.Background(), method, payload...)
}

// ExecuteContext does the same as Execute, but requires a context.
func (r *Request) ExecuteContext(ctx context.Context, method string, payload ...Payload) (interface{}, error) {
	var p Payload
	if len(payload) > 0 {
		p = payload[0]
	} else {
		p = r.Payload()
	}
	return r.Executor.Execute(ctx, method, p)
}
