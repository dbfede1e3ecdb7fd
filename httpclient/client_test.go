package httpclient_test

import (
	"context"
	"io/ioutil"
	"net/http"
	"strings"
	"testing"

	"github.com/ThalesGroup/dispatch"
	"github.com/ThalesGroup/dispatch/clientserver"
	"github.com/ThalesGroup/dispatch/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_NewRequest(t *testing.T) {
	type queryStruct struct {
		Color string `url:"color"`
	}

	cases := []struct {
		name           string
		method         string
		payload        dispatch.Payload
		expectedURL    string
		expectedBody   string
		expectedHeader http.Header
	}{
		{
			name:        "url only",
			method:      "GET",
			payload:     dispatch.Payload{"url": "http://a.io/red"},
			expectedURL: "http://a.io/red",
		},
		{
			name:        "qs map of strings",
			method:      "GET",
			payload:     dispatch.Payload{"url": "http://a.io", "qs": map[string]string{"flavor": "vanilla"}},
			expectedURL: "http://a.io?flavor=vanilla",
		},
		{
			name:        "qs merges into existing query",
			method:      "GET",
			payload:     dispatch.Payload{"url": "http://a.io?color=red", "qs": map[string]string{"flavor": "vanilla"}},
			expectedURL: "http://a.io?color=red&flavor=vanilla",
		},
		{
			name:        "qs mixed value types",
			method:      "GET",
			payload:     dispatch.Payload{"url": "http://a.io", "qs": map[string]interface{}{"query": "s", "page": 4}},
			expectedURL: "http://a.io?page=4&query=s",
		},
		{
			name:        "qs struct",
			method:      "GET",
			payload:     dispatch.Payload{"url": "http://a.io", "qs": queryStruct{Color: "blue"}},
			expectedURL: "http://a.io?color=blue",
		},
		{
			name:         "string body",
			method:       "POST",
			payload:      dispatch.Payload{"url": "http://a.io", "body": "this-is-a-test"},
			expectedURL:  "http://a.io",
			expectedBody: "this-is-a-test",
		},
		{
			name:         "byte slice body",
			method:       "POST",
			payload:      dispatch.Payload{"url": "http://a.io", "body": []byte("this-is-a-test")},
			expectedURL:  "http://a.io",
			expectedBody: "this-is-a-test",
		},
		{
			name:         "reader body",
			method:       "PUT",
			payload:      dispatch.Payload{"url": "http://a.io", "body": strings.NewReader("this-is-a-test")},
			expectedURL:  "http://a.io",
			expectedBody: "this-is-a-test",
		},
		{
			name:           "structured body is marshaled to JSON",
			method:         "POST",
			payload:        dispatch.Payload{"url": "http://a.io", "body": map[string]interface{}{"color": "red"}},
			expectedURL:    "http://a.io",
			expectedBody:   `{"color":"red"}`,
			expectedHeader: http.Header{"Content-Type": []string{"application/json; charset=UTF-8"}},
		},
		{
			name:         "json flag sets content type and accept",
			method:       "POST",
			payload:      dispatch.Payload{"url": "http://a.io", "body": "raw", "json": true},
			expectedURL:  "http://a.io",
			expectedBody: "raw",
			expectedHeader: http.Header{
				"Content-Type": []string{"application/json; charset=UTF-8"},
				"Accept":       []string{"application/json"},
			},
		},
		{
			name:           "explicit headers win",
			method:         "POST",
			payload:        dispatch.Payload{"url": "http://a.io", "body": map[string]interface{}{"a": 1}, "headers": map[string]string{"Content-Type": "application/vnd.api+json"}},
			expectedURL:    "http://a.io",
			expectedBody:   `{"a":1}`,
			expectedHeader: http.Header{"Content-Type": []string{"application/vnd.api+json"}},
		},
		{
			name:           "headers",
			method:         "GET",
			payload:        dispatch.Payload{"url": "http://a.io", "headers": map[string]string{"X-Color": "red"}},
			expectedURL:    "http://a.io",
			expectedHeader: http.Header{"X-Color": []string{"red"}},
		},
		{
			name:        "unrecognized options are ignored",
			method:      "GET",
			payload:     dispatch.Payload{"url": "http://a.io", "custom": true},
			expectedURL: "http://a.io",
		},
	}

	c := httpclient.MustNew()

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := c.NewRequest(context.Background(), tc.method, tc.payload)
			require.NoError(t, err)

			assert.Equal(t, tc.method, req.Method)
			assert.Equal(t, tc.expectedURL, req.URL.String())

			if tc.expectedBody != "" {
				b, err := ioutil.ReadAll(req.Body)
				require.NoError(t, err)
				assert.Equal(t, tc.expectedBody, string(b))
			} else {
				assert.Nil(t, req.Body)
			}

			for key, values := range tc.expectedHeader {
				assert.Equal(t, values, req.Header[key])
			}
		})
	}

	t.Run("no url", func(t *testing.T) {
		_, err := c.NewRequest(context.Background(), "GET", dispatch.Payload{"custom": true})
		require.Error(t, err)
	})

	t.Run("context is attached", func(t *testing.T) {
		type key struct{}
		ctx := context.WithValue(context.Background(), key{}, "red")
		req, err := c.NewRequest(ctx, "GET", dispatch.Payload{"url": "http://a.io"})
		require.NoError(t, err)
		assert.Equal(t, "red", req.Context().Value(key{}))
	})
}

func TestClient_Execute(t *testing.T) {
	cs := clientserver.New(nil)
	defer cs.Close()

	mux := cs.Mux()
	mux.HandleFunc("/text", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(201)
		w.Write([]byte("pong"))
	})
	mux.HandleFunc("/model.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"color":"green","count":25}`))
	})

	t.Run("resolves with the body as a string", func(t *testing.T) {
		body, err := cs.Get(dispatch.Payload{"url": cs.URL + "/text"})
		require.NoError(t, err)
		assert.Equal(t, "pong", body)
	})

	t.Run("json flag decodes the body", func(t *testing.T) {
		body, err := cs.Get(dispatch.Payload{"url": cs.URL + "/model.json", "json": true})
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"color": "green", "count": float64(25)}, body)
	})

	t.Run("resolveWithFullResponse", func(t *testing.T) {
		result, err := cs.Get(dispatch.Payload{"url": cs.URL + "/text", "resolveWithFullResponse": true})
		require.NoError(t, err)

		resp, ok := result.(*httpclient.Response)
		require.True(t, ok, "expected a *httpclient.Response, got %T", result)
		assert.Equal(t, 201, resp.StatusCode)
		assert.Equal(t, "pong", resp.Body)
	})

	t.Run("full response with decoded body", func(t *testing.T) {
		result, err := cs.Get(dispatch.Payload{"url": cs.URL + "/model.json", "json": true, "resolveWithFullResponse": true})
		require.NoError(t, err)

		resp := result.(*httpclient.Response)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		assert.Equal(t, map[string]interface{}{"color": "green", "count": float64(25)}, resp.Body)
	})

	t.Run("server sees method headers and body", func(t *testing.T) {
		mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
			b, _ := ioutil.ReadAll(r.Body)
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "red", r.Header.Get("X-Color"))
			assert.Equal(t, `{"color":"red"}`, string(b))
			assert.Equal(t, "vanilla", r.URL.Query().Get("flavor"))
			w.WriteHeader(204)
		})

		_, err := cs.Post(dispatch.Payload{
			"url":     cs.URL + "/echo",
			"headers": map[string]string{"X-Color": "red"},
			"body":    map[string]interface{}{"color": "red"},
			"qs":      map[string]string{"flavor": "vanilla"},
		})
		require.NoError(t, err)
	})

	t.Run("invalid json in response", func(t *testing.T) {
		mux.HandleFunc("/garbage", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{not json"))
		})

		_, err := cs.Get(dispatch.Payload{"url": cs.URL + "/garbage", "json": true})
		require.Error(t, err)
	})

	t.Run("all verbs", func(t *testing.T) {
		mux.HandleFunc("/method", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(r.Method))
		})

		p := dispatch.Payload{"url": cs.URL + "/method"}
		ctx := context.Background()
		c := httpclient.MustNew(httpclient.WithDoer(cs.Client()))

		for _, expected := range []string{"GET", "POST", "PUT", "DELETE"} {
			var body interface{}
			var err error
			switch expected {
			case "GET":
				body, err = c.Get(ctx, p)
			case "POST":
				body, err = c.Post(ctx, p)
			case "PUT":
				body, err = c.Put(ctx, p)
			case "DELETE":
				body, err = c.Delete(ctx, p)
			}
			require.NoError(t, err)
			assert.Equal(t, expected, body)
		}
	})
}

func TestPackageFunctions(t *testing.T) {
	cs := clientserver.New(nil)
	defer cs.Close()

	cs.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.Method))
	})

	ctx := context.Background()
	p := dispatch.Payload{"url": cs.URL}

	body, err := httpclient.Get(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "GET", body)

	body, err = httpclient.Post(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "POST", body)

	body, err = httpclient.Put(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "PUT", body)

	body, err = httpclient.Delete(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "DELETE", body)
}

func TestNewRequest(t *testing.T) {
	cs := clientserver.New(nil)
	defer cs.Close()

	cs.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})

	r, err := httpclient.NewRequest()
	require.NoError(t, err)

	body, err := r.SetURL(cs.URL).Get()
	require.NoError(t, err)
	assert.Equal(t, "pong", body)
}
