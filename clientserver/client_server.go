// Package clientserver is a utility for writing HTTP tests.
//
// A ClientServer embeds an httptest.Server and a dispatch.Request
// preconfigured to send payloads to the server.
package clientserver

import (
	"net/http"
	"net/http/httptest"

	"github.com/ThalesGroup/dispatch"
	"github.com/ThalesGroup/dispatch/httpclient"
)

// New creates a new ClientServer.  If s is nil, a plain
// httptest.Server is started.
//
// Panics if the option arguments cause an error.
func New(s *httptest.Server, options ...dispatch.Option) *ClientServer {
	if s == nil {
		s = httptest.NewServer(nil)
	}
	t := &ClientServer{
		Server: s,
	}

	c := &httpclient.Client{Doer: s.Client()}
	c.Middleware = append(c.Middleware, t.captureClientReqResp)

	t.Request = dispatch.MustNew(
		dispatch.WithClient(c),
		dispatch.URL(s.URL),
	)
	t.Request.MustApply(options...)

	// insert ourselves in the handler chain before the real handler
	t.Handler = s.Config.Handler
	s.Config.Handler = t

	return t
}

// A ClientServer is an HTTP server and an HTTP client.  The client is
// preconfigured to talk to the server.  Because it embeds a
// dispatch.Request, it supports all the same methods for composing
// and dispatching payloads, which are sent to the embedded server.
//
// Should be closed at the end of the test.
type ClientServer struct {
	*httptest.Server
	*dispatch.Request
	Handler http.Handler

	// These attributes are populated automatically during each
	// request.  Use Clear() to reset them between tests.

	// The last request handled by the server.
	LastSrvReq *http.Request

	// The last request sent by the client.
	LastClientReq *http.Request

	// The last response received by the client.
	LastClientResp *http.Response
}

// Close shuts down the embedded HTTP server.
func (t *ClientServer) Close() {
	t.Server.Close()
}

// Clear clears the attributes captured by the last request.
func (t *ClientServer) Clear() {
	t.LastSrvReq = nil
	t.LastClientReq = nil
	t.LastClientResp = nil
}

// ServeHTTP implements http.Handler.  ClientServer installs itself as
// the server's Handler so it can capture the request.  It then
// delegates to the Handler attribute.
func (t *ClientServer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	t.LastSrvReq = req
	if t.Handler != nil {
		t.Handler.ServeHTTP(w, req)
	}
}

func (t *ClientServer) captureClientReqResp(next httpclient.Doer) httpclient.Doer {
	return httpclient.DoerFunc(func(req *http.Request) (*http.Response, error) {
		t.LastClientReq = req
		resp, err := next.Do(req)
		t.LastClientResp = resp
		return resp, err
	})
}

// Mux returns a ServeMux.  If the current Handler is a ServeMux, that
// is returned.  Otherwise, a new ServeMux is created and installed as
// the handler.
func (t *ClientServer) Mux() *http.ServeMux {
	if m, ok := t.Handler.(*http.ServeMux); ok {
		return m
	}
	m := http.NewServeMux()
	t.Handler = m
	return m
}

// HandlerFunc is a convenience method for installing an
// http.HandlerFunc as the handler.
func (t *ClientServer) HandlerFunc(hf http.HandlerFunc) {
	t.Handler = hf
}
