package httpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/ansel1/merry"
)

// Option is a configuration option for building a Client.
type Option interface {

	// Apply is called when constructing a Client.  Apply should make
	// some configuration change to the argument.
	//
	// The client argument will not be nil.
	Apply(*Client) error
}

// OptionFunc adapts a function to the Option interface.
type OptionFunc func(*Client) error

// Apply implements Option.
func (f OptionFunc) Apply(c *Client) error {
	return f(c)
}

// WithDoer replaces the Client's Doer.  If nil, the Client reverts to
// the http.DefaultClient.
func WithDoer(d Doer) Option {
	return OptionFunc(func(c *Client) error {
		c.Doer = d
		return nil
	})
}

// Use appends middleware to the Client.  Middleware is invoked in the
// order added.
func Use(m ...Middleware) Option {
	return OptionFunc(func(c *Client) error {
		c.Middleware = append(c.Middleware, m...)
		return nil
	})
}

// httpClient returns the Client's Doer as an *http.Client so it can be
// configured, installing a fresh one if no Doer is set yet.  With no
// configuration the fresh client behaves identically to
// http.DefaultClient, but is a different instance, so configuring it
// has no global effect.
func httpClient(c *Client) (*http.Client, error) {
	switch t := c.Doer.(type) {
	case nil:
		hc := &http.Client{}
		c.Doer = hc
		return hc, nil
	case *http.Client:
		return t, nil
	default:
		return nil, merry.Errorf("client.Doer is not an *http.Client.  It's a %T", c.Doer)
	}
}

// An HTTPClientOption configures the underlying *http.Client.  It
// returns an error if the Client's Doer is set to something other
// than an *http.Client.
type HTTPClientOption func(*http.Client) error

// Apply implements Option.
func (f HTTPClientOption) Apply(c *Client) error {
	hc, err := httpClient(c)
	if err != nil {
		return err
	}
	return f(hc)
}

func newDefaultTransport() *http.Transport {
	// configured identically to http.DefaultTransport.  Copying the
	// init code rather than the value: copying the value trips go vet
	// (the Transport holds mutexes).
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
			DualStack: true,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// A TransportOption configures the underlying client's transport.
//
// The argument will never be nil.  TransportOption will create a
// default http.Transport (configured identically to the
// http.DefaultTransport) if necessary.
//
// If the client's transport is not an *http.Transport, an error is
// returned.
type TransportOption func(transport *http.Transport) error

// Apply implements Option.
func (f TransportOption) Apply(c *Client) error {
	return HTTPClientOption(func(hc *http.Client) error {
		var transport *http.Transport
		switch t := hc.Transport.(type) {
		case nil:
			transport = newDefaultTransport()
			hc.Transport = transport
		case *http.Transport:
			transport = t
		default:
			return merry.Errorf("client.Transport is not an *http.Transport.  It's a %T", hc.Transport)
		}
		return f(transport)
	}).Apply(c)
}

// A TLSOption configures the TLS configuration of the underlying
// client.
//
// The argument will never be nil.  A new, default config will be
// created if necessary.
//
// See SkipVerify for an example implementation.
type TLSOption func(c *tls.Config) error

// Apply implements Option.
func (f TLSOption) Apply(c *Client) error {
	return TransportOption(func(t *http.Transport) error {
		if t.TLSClientConfig == nil {
			t.TLSClientConfig = &tls.Config{}
		}
		return f(t.TLSClientConfig)
	}).Apply(c)
}

// Timeout configures the underlying client's Timeout property.
func Timeout(d time.Duration) Option {
	return HTTPClientOption(func(hc *http.Client) error {
		hc.Timeout = d
		return nil
	})
}

// NoRedirects configures the client to not perform any redirects.
func NoRedirects() Option {
	return HTTPClientOption(func(hc *http.Client) error {
		hc.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
		return nil
	})
}

// MaxRedirects configures the max number of redirects the client will
// perform before giving up.
func MaxRedirects(max int) Option {
	return HTTPClientOption(func(hc *http.Client) error {
		hc.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= max {
				return merry.Errorf("stopped after max %d requests", len(via))
			}
			return nil
		}
		return nil
	})
}

// CookieJar installs a cookie jar into the client, configured with the
// options argument.
//
// The argument may be nil.
func CookieJar(opts *cookiejar.Options) Option {
	return HTTPClientOption(func(hc *http.Client) error {
		jar, err := cookiejar.New(opts)
		if err != nil {
			return merry.Wrap(err)
		}
		hc.Jar = jar
		return nil
	})
}

// ProxyURL will proxy all calls through a single proxy URL.
func ProxyURL(proxyURL string) Option {
	return TransportOption(func(t *http.Transport) error {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return merry.Wrap(err)
		}
		t.Proxy = func(request *http.Request) (*url.URL, error) {
			return u, nil
		}
		return nil
	})
}

// ProxyFunc configures the client's proxy function.
func ProxyFunc(f func(request *http.Request) (*url.URL, error)) Option {
	return TransportOption(func(t *http.Transport) error {
		t.Proxy = f
		return nil
	})
}

// SkipVerify sets the TLS config's InsecureSkipVerify flag.
func SkipVerify(skip bool) Option {
	return TLSOption(func(c *tls.Config) error {
		c.InsecureSkipVerify = skip
		return nil
	})
}
