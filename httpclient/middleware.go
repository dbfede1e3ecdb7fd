package httpclient

import (
	"io"
	"net/http"
	"net/http/httputil"
	"os"

	"github.com/ansel1/merry"
)

// Middleware can be used to wrap Doers with additional functionality:
//
//	loggingMiddleware := func(next Doer) Doer {
//	    return DoerFunc(func(req *http.Request) (*http.Response, error) {
//	        logRequest(req)
//	        return next.Do(req)
//	    })
//	}
//
// Middleware can be installed in a Client with the Use() option:
//
//	c.Apply(httpclient.Use(loggingMiddleware))
//
// Middleware itself is an Option, so it can also be applied directly.
type Middleware func(Doer) Doer

// Apply implements Option.
func (m Middleware) Apply(c *Client) error {
	c.Middleware = append(c.Middleware, m)
	return nil
}

// Wrap applies a set of middleware to a Doer.  The returned Doer will
// invoke the middleware in the order of the arguments.
func Wrap(d Doer, m ...Middleware) Doer {
	for i := len(m) - 1; i > -1; i-- {
		d = m[i](d)
	}
	return d
}

// Dump dumps requests and responses to a writer.  Just intended for
// debugging.
func Dump(w io.Writer) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			dump, dumperr := httputil.DumpRequestOut(req, true)
			// write the whole request in a single Write() call, so if
			// the writer is redirected to a logger, it arrives as one
			// message
			if dumperr != nil {
				io.WriteString(w, "Error dumping request: "+dumperr.Error()+"\n")
			} else {
				io.WriteString(w, string(dump)+"\n")
			}
			resp, err := next.Do(req)
			if resp != nil {
				dump, dumperr = httputil.DumpResponse(resp, true)
				if dumperr != nil {
					io.WriteString(w, "Error dumping response: "+dumperr.Error()+"\n")
				} else {
					io.WriteString(w, string(dump)+"\n")
				}
			}
			return resp, err
		})
	}
}

// DumpToStdout dumps requests and responses to os.Stdout.
func DumpToStdout() Middleware {
	return Dump(os.Stdout)
}

type logFunc func(a ...interface{})

func (f logFunc) Write(p []byte) (n int, err error) {
	f(string(p))
	return len(p), nil
}

// DumpToLog dumps requests and responses to a logging function.  logf
// is compatible with fmt.Print(), testing.T.Log, or log.XXX()
// functions.
//
// Request and response will be logged separately.  Though logf takes
// a variadic arg, it will only be called with one string arg at a
// time.
func DumpToLog(logf func(a ...interface{})) Middleware {
	return Dump(logFunc(logf))
}

// ExpectCode is middleware which generates an error if the response's
// status code does not match the expected code.
func ExpectCode(code int) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.Do(req)
			if err == nil && resp != nil && resp.StatusCode != code {
				return resp, merry.Errorf("server returned unexpected status code.  expected: %d, received: %d", code, resp.StatusCode)
			}

			return resp, err
		})
	}
}

// ExpectSuccessCode is middleware which generates an error if the
// response's status code is not between 200 and 299.
func ExpectSuccessCode() Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.Do(req)
			if err == nil && resp != nil && (resp.StatusCode < 200 || resp.StatusCode > 299) {
				return resp, merry.Errorf("server returned an unsuccessful status code: %d", resp.StatusCode)
			}

			return resp, err
		})
	}
}
