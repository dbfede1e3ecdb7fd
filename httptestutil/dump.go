package httptestutil

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/http/httputil"

	"github.com/felixge/httpsnoop"
)

// DumpTo wraps an http.Handler.  It dumps requests and responses to a
// writer, using the httputil.DumpRequest and httputil.DumpResponse
// functions.
func DumpTo(handler http.Handler, writer io.Writer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dump, err := httputil.DumpRequest(r, true)
		if err != nil {
			fmt.Fprintf(writer, "error dumping request: %#v", err)
		} else {
			writer.Write(append(dump, []byte("\r\n")...))
		}

		ex := Exchange{ResponseBody: &bytes.Buffer{}}

		w = httpsnoop.Wrap(w, hooks(&ex, w))

		handler.ServeHTTP(w, r)

		// build a dummy response to dump
		resp := http.Response{
			Proto:         r.Proto,
			ProtoMajor:    r.ProtoMajor,
			ProtoMinor:    r.ProtoMinor,
			StatusCode:    ex.StatusCode,
			Header:        w.Header(),
			Body:          ioutil.NopCloser(bytes.NewReader(ex.ResponseBody.Bytes())),
			ContentLength: int64(ex.ResponseBody.Len()),
		}

		d, err := httputil.DumpResponse(&resp, true)
		if err != nil {
			fmt.Fprintf(writer, "error dumping response: %#v", err)
		} else {
			writer.Write(append(d, []byte("\r\n")...))
		}
	})
}
