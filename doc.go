/*
Package dispatch is a fluent builder and executor for outbound HTTP
request payloads.

A Request accumulates fields through chainable setters or Build()
merges, projects them into a flat Payload object, and dispatches the
payload to a Client, which does the actual sending.

	req := dispatch.MustNew(
	    dispatch.WithClient(httpclient.MustNew()),
	    dispatch.URL("http://api.com/resources"),
	    dispatch.JSON(true),
	)

	body, err := req.Post(dispatch.Payload{
	    "url":  "http://api.com/resources",
	    "body": map[string]interface{}{"color": "red"},
	    "json": true,
	})

The same request can be assembled incrementally:

	body, err := dispatch.MustNew(dispatch.WithClient(c)).
	    SetURL("http://api.com/resources").
	    SetBody(map[string]interface{}{"color": "red"}).
	    SetJSON(true).
	    Post()

# Payloads

A Payload is the flat key/value object handed to the Client.  The
recognized keys are "url", "headers", "body", "json", "qs", and
"resolveWithFullResponse".  Any other key set through SetOption,
SetOptions, or extra keys in Build's argument rides along opaquely:

	req.SetOption("timeout", 3000)
	req.Payload()  // {"url": ..., "timeout": 3000}

Named fields always win over a same-named option key.  Fields which
were never set contribute nothing to the payload: presence, not
truthiness, governs inclusion, so an explicit false or 0 value is kept.

# Execution

The verb methods (Get, Post, Put, Delete) and the generic Execute
validate the payload, then hand it to the matching Client function.
A payload with no keys, or without a usable url, fails fast with
ErrBadRequest and the Client is never invoked.  Everything else,
including non-2XX responses and network failures, is the Client's
business and passes through untouched.  This package adds no retry,
timeout, or cancellation layer of its own; pass a context via the
*Context method variants to control cancellation.

The httpclient subpackage provides a Client implementation backed by
net/http.  Any other implementation of the four verb functions works,
including MockClient for tests.
*/
package dispatch
