package httpclient

import (
	"bytes"
	"io/ioutil"
	"net/http"
)

// Inspector is a Client Option which captures requests and responses.
// It's useful for inspecting the contents of exchanges in tests.
//
// It is not an efficient way to capture bodies, and keeps requests
// and responses around longer than their intended lifespan, so it
// should not be used in production code or benchmarks.
type Inspector struct {

	// The last request sent by the client.
	Request *http.Request

	// The last response received by the client.
	Response *http.Response

	// The last request body.
	RequestBody *bytes.Buffer

	// The last response body.
	ResponseBody *bytes.Buffer
}

// Clear clears the inspector's fields.
func (i *Inspector) Clear() {
	i.Request = nil
	i.Response = nil
	i.RequestBody = nil
	i.ResponseBody = nil
}

// Apply implements Option.
func (i *Inspector) Apply(c *Client) error {
	return c.Apply(Middleware(i.MiddlewareFunc))
}

// MiddlewareFunc implements Middleware.
func (i *Inspector) MiddlewareFunc(next Doer) Doer {
	return DoerFunc(func(req *http.Request) (*http.Response, error) {
		i.Request = req
		if req.Body != nil {
			reqBody, _ := ioutil.ReadAll(req.Body)
			req.Body.Close()
			req.Body = ioutil.NopCloser(bytes.NewReader(reqBody))
			i.RequestBody = bytes.NewBuffer(reqBody)
		}
		resp, err := next.Do(req)
		i.Response = resp
		if resp != nil && resp.Body != nil {
			respBody, _ := ioutil.ReadAll(resp.Body)
			resp.Body.Close()
			resp.Body = ioutil.NopCloser(bytes.NewReader(respBody))
			i.ResponseBody = bytes.NewBuffer(respBody)
		}
		return resp, err
	})
}
