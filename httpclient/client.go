// Package httpclient is a dispatch.Client implementation backed by
// net/http.
//
// A Client translates payload objects into *http.Requests, executes
// them with a configurable Doer, and resolves with the response body
// (or the full Response, when the payload sets
// resolveWithFullResponse).
//
// Clients are created with New(), which takes a set of Options:
//
//	c, err := httpclient.New(httpclient.Timeout(10*time.Second), httpclient.SkipVerify(true))
//
// Middleware can be installed to intercept requests and responses,
// e.g. for dumping traffic, asserting status codes, or retrying.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ThalesGroup/dispatch"
	"github.com/ansel1/merry"
	goquery "github.com/google/go-querystring/query"
)

// HTTP constants.
const (
	HeaderAccept      = "Accept"
	HeaderContentType = "Content-Type"

	MediaTypeJSON = "application/json"

	contentTypeJSON = MediaTypeJSON + "; charset=UTF-8"
)

// Client executes payloads over HTTP.  It implements dispatch.Client.
//
// The zero value is usable, and sends requests with
// http.DefaultClient.
type Client struct {
	// Doer executes the constructed requests.  Defaults to
	// http.DefaultClient.
	Doer Doer

	// Middleware wraps the Doer.  Middleware is invoked in the order
	// it appears in this slice.
	Middleware []Middleware
}

// New returns a new Client, applying all options.
func New(opts ...Option) (*Client, error) {
	c := &Client{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNew creates a new Client, applying all options.  If an error
// occurs applying options, this will panic.
func MustNew(opts ...Option) *Client {
	c := &Client{}
	if err := c.Apply(opts...); err != nil {
		panic(err)
	}
	return c
}

// Apply applies the options to the receiver.
func (c *Client) Apply(opts ...Option) error {
	for _, o := range opts {
		if err := o.Apply(c); err != nil {
			return merry.Prepend(err, "applying options")
		}
	}
	return nil
}

// Get implements dispatch.Client.
func (c *Client) Get(ctx context.Context, payload dispatch.Payload) (interface{}, error) {
	return c.Execute(ctx, http.MethodGet, payload)
}

// Post implements dispatch.Client.
func (c *Client) Post(ctx context.Context, payload dispatch.Payload) (interface{}, error) {
	return c.Execute(ctx, http.MethodPost, payload)
}

// Put implements dispatch.Client.
func (c *Client) Put(ctx context.Context, payload dispatch.Payload) (interface{}, error) {
	return c.Execute(ctx, http.MethodPut, payload)
}

// Delete implements dispatch.Client.
func (c *Client) Delete(ctx context.Context, payload dispatch.Payload) (interface{}, error) {
	return c.Execute(ctx, http.MethodDelete, payload)
}

// Execute translates the payload into an *http.Request, sends it, and
// resolves the response.
//
// The response body is always read and closed.  If the payload's json
// flag is set, the body is decoded as JSON; otherwise the body is
// returned as a string.  If resolveWithFullResponse is set, a
// *Response carrying the status code and headers is returned instead
// of the bare body.
func (c *Client) Execute(ctx context.Context, method string, payload dispatch.Payload) (interface{}, error) {
	req, err := c.NewRequest(ctx, method, payload)
	if err != nil {
		return nil, err
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}

	return resolve(resp, payload)
}

// Do executes the request using the configured Doer and Middleware.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	doer := c.Doer
	if doer == nil {
		doer = http.DefaultClient
	}
	return Wrap(doer, c.Middleware...).Do(req)
}

// NewRequest translates a payload into an *http.Request.  The request
// is not sent.
//
// The payload's url is required.  headers must be a
// map[string]string.  qs may be a url.Values, map[string][]string,
// map[string]string, map[string]interface{}, or a struct with `url`
// tags (encoded with github.com/google/go-querystring); its values
// are merged into any query already encoded in the url.  Unrecognized
// payload keys are ignored.
func (c *Client) NewRequest(ctx context.Context, method string, payload dispatch.Payload) (*http.Request, error) {
	urlS := payload.URL()
	if urlS == "" {
		return nil, merry.New("payload has no url")
	}

	body, contentType, err := requestBody(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(method, urlS, body)
	if err != nil {
		return nil, merry.Wrap(err)
	}

	if contentType != "" {
		req.Header.Set(HeaderContentType, contentType)
	}
	if jsonFlag(payload) && req.Header.Get(HeaderAccept) == "" {
		req.Header.Set(HeaderAccept, MediaTypeJSON)
	}

	// explicit headers override anything set above
	if h, ok := payload[dispatch.KeyHeaders].(map[string]string); ok {
		for k, v := range h {
			req.Header.Set(k, v)
		}
	}

	if qs := payload[dispatch.KeyQS]; qs != nil {
		values, err := queryValues(qs)
		if err != nil {
			return nil, err
		}
		if len(values) > 0 {
			if req.URL.RawQuery != "" {
				existing := req.URL.Query()
				for key, vs := range values {
					for _, v := range vs {
						existing.Add(key, v)
					}
				}
				req.URL.RawQuery = existing.Encode()
			} else {
				req.URL.RawQuery = values.Encode()
			}
		}
	}

	return req.WithContext(ctx), nil
}

// requestBody returns the io.Reader which should be used as the body
// of the request, and the Content-Type implied by the body value.
//
// io.Reader, string, and []byte bodies are used directly.  Any other
// non-nil body is marshaled to JSON.  The json payload flag sets the
// JSON content type even for raw bodies.
func requestBody(payload dispatch.Payload) (io.Reader, string, error) {
	isJSON := jsonFlag(payload)

	ct := ""
	if isJSON {
		ct = contentTypeJSON
	}

	switch v := payload[dispatch.KeyBody].(type) {
	case nil:
		return nil, ct, nil
	case io.Reader:
		return v, ct, nil
	case string:
		return strings.NewReader(v), ct, nil
	case []byte:
		return bytes.NewReader(v), ct, nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", merry.Prepend(err, "marshaling body")
		}
		return bytes.NewReader(b), contentTypeJSON, nil
	}
}

// queryValues coerces a payload's qs value into url.Values.
func queryValues(qs interface{}) (url.Values, error) {
	switch t := qs.(type) {
	case url.Values:
		return t, nil
	case map[string][]string:
		return url.Values(t), nil
	case map[string]string:
		values := url.Values{}
		for k, v := range t {
			values.Set(k, v)
		}
		return values, nil
	case map[string]interface{}:
		values := url.Values{}
		for k, v := range t {
			values.Set(k, fmt.Sprint(v))
		}
		return values, nil
	default:
		values, err := goquery.Values(qs)
		if err != nil {
			return nil, merry.Prepend(err, "invalid qs value")
		}
		return values, nil
	}
}

// Response is the result of a payload executed with
// resolveWithFullResponse set.
type Response struct {
	StatusCode int
	Header     http.Header

	// Body is the resolved response body: decoded JSON when the
	// payload's json flag was set, otherwise the body as a string.
	Body interface{}
}

func resolve(resp *http.Response, payload dispatch.Payload) (interface{}, error) {
	raw, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	var body interface{}
	if jsonFlag(payload) && len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, merry.Prepend(err, "unmarshaling response body")
		}
	} else {
		body = string(raw)
	}

	if resolveFullFlag(payload) {
		return &Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       body,
		}, nil
	}

	return body, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	if resp == nil || resp.Body == nil {
		return nil, nil
	}

	defer resp.Body.Close()

	// pre-size the buffer if the server sent a content length hint
	cls := resp.Header.Get("Content-Length")
	var cl int64
	if cls != "" {
		cl, _ = strconv.ParseInt(cls, 10, 0)
	}

	if cl == 0 {
		body, err := ioutil.ReadAll(resp.Body)
		return body, merry.Prepend(err, "reading response body")
	}

	buf := bytes.Buffer{}
	buf.Grow(int(cl))
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, merry.Prepend(err, "reading response body")
	}
	return buf.Bytes(), nil
}

func jsonFlag(payload dispatch.Payload) bool {
	b, _ := payload[dispatch.KeyJSON].(bool)
	return b
}

func resolveFullFlag(payload dispatch.Payload) bool {
	b, _ := payload[dispatch.KeyResolveWithFullResponse].(bool)
	return b
}
