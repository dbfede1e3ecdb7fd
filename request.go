package dispatch

// Request is an HTTP payload builder and dispatcher.
//
// Request accumulates the fields of an outbound request through
// chainable setters or Build() merges, exposes the assembled Payload,
// and dispatches it to a Client via the verb methods.  A Request can
// also be configured by applying functional Options, which simply
// modify the Request's fields.
//
// A Request is constructed with New() or MustNew():
//
//	req, err := dispatch.New(dispatch.URL("http://test.com/red"), dispatch.JSON(true))
//
// ...then further configured with setters, which return the Request
// for chaining:
//
//	req.SetHeader("Accept", "application/json").SetBody(b)
//
// ...or with a single Build() call merging a structured object:
//
//	req.Build(dispatch.Payload{"url": "http://test.com/red", "body": b})
//
// The verb methods assemble the current Payload and hand it to the
// configured Client:
//
//	body, err := req.Post(dispatch.Payload{"url": "http://test.com/blue"})
//	body, err := req.Get()   // uses req.Payload()
//
// Requests can be cloned.  The clone can be further configured without
// affecting the parent:
//
//	req2 := req.Clone()
//	req2.SetURL("http://test.com/green")
//
// Each Request instance is independent.  Concurrent use of a single
// instance from multiple goroutines is not supported; fields are plain
// mutable state with no synchronization.
type Request struct {
	Executor

	// named fields.  nil means unset: an unset field contributes
	// nothing to the Payload.
	url     *string
	headers map[string]string
	body    interface{}
	json    *bool
	qs      interface{}
	resolve *bool

	// options holds arbitrary extra keys merged into the Payload
	// before (and therefore overridden by) the named fields.
	options map[string]interface{}
}

// New returns a new Request, applying all options.  With no arguments
// it returns an empty Request with no fields set.
func New(options ...Option) (*Request, error) {
	r := &Request{}
	if err := r.Apply(options...); err != nil {
		return nil, err
	}
	return r, nil
}

// MustNew creates a new Request, applying all options.  If an error
// occurs applying options, this will panic.
func MustNew(options ...Option) *Request {
	r := &Request{}
	r.MustApply(options...)
	return r
}

// Build merges a structured object into the Request.  The recognized
// keys ("url", "headers", "body", "json", "qs",
// "resolveWithFullResponse") are each assigned onto the corresponding
// field if present and non-nil; keys omitted from data retain their
// prior values.  All remaining keys are collected into the options
// field.  If that collection is non-empty it replaces any prior
// options outright (unlike SetOption, which merges).
//
// Values with a type the named field cannot hold (e.g. a string for
// "json") are ignored.  nil values never assign, and never enter
// options.
//
// Calling Build with a nil or empty map is a no-op.  Returns the
// Request for chaining.
func (r *Request) Build(data Payload) *Request {
	if len(data) == 0 {
		return r
	}

	var opts map[string]interface{}

	for k, v := range data {
		if v == nil {
			continue
		}
		switch k {
		case KeyURL:
			if s, ok := v.(string); ok {
				r.url = &s
			}
		case KeyHeaders:
			if h, ok := asHeaderMap(v); ok {
				r.headers = h
			}
		case KeyBody:
			r.body = v
		case KeyJSON:
			if b, ok := v.(bool); ok {
				r.json = &b
			}
		case KeyQS:
			r.qs = v
		case KeyResolveWithFullResponse:
			if b, ok := v.(bool); ok {
				r.resolve = &b
			}
		default:
			if opts == nil {
				opts = map[string]interface{}{}
			}
			opts[k] = v
		}
	}

	if len(opts) > 0 {
		r.options = opts
	}
	return r
}

// asHeaderMap coerces a headers value into a map[string]string.
func asHeaderMap(v interface{}) (map[string]string, bool) {
	switch t := v.(type) {
	case map[string]string:
		return t, true
	case map[string]interface{}:
		h := make(map[string]string, len(t))
		for k, hv := range t {
			s, ok := hv.(string)
			if !ok {
				return nil, false
			}
			h[k] = s
		}
		return h, true
	default:
		return nil, false
	}
}

// SetURL sets the url field.
func (r *Request) SetURL(url string) *Request {
	r.url = &url
	return r
}

// SetHeaders replaces the headers field.  A nil map unsets it.
func (r *Request) SetHeaders(headers map[string]string) *Request {
	r.headers = headers
	return r
}

// SetHeader sets a single header, initializing the headers field if
// necessary.
func (r *Request) SetHeader(key, value string) *Request {
	if r.headers == nil {
		r.headers = map[string]string{}
	}
	r.headers[key] = value
	return r
}

// SetBody sets the body field.  A nil body unsets it.
func (r *Request) SetBody(body interface{}) *Request {
	r.body = body
	return r
}

// SetJSON sets the json flag, which tells the client to treat the body
// as JSON.
func (r *Request) SetJSON(json bool) *Request {
	r.json = &json
	return r
}

// SetQS sets the query string field.  The value is surfaced unchanged
// at the payload's "qs" key; interpretation is up to the client.  A
// nil value unsets it.
func (r *Request) SetQS(qs interface{}) *Request {
	r.qs = qs
	return r
}

// SetResolveWithFullResponse sets the resolveWithFullResponse flag,
// which tells the client to resolve with the full response object
// rather than just the body.
func (r *Request) SetResolveWithFullResponse(flag bool) *Request {
	r.resolve = &flag
	return r
}

// SetOption sets or overwrites a single arbitrary option, preserving
// existing ones.  If key names one of the recognized payload fields,
// the value is routed to that field instead, consistent with Build.
func (r *Request) SetOption(key string, value interface{}) *Request {
	data := make(Payload, len(r.options)+1)
	for k, v := range r.options {
		data[k] = v
	}
	data[key] = value
	return r.Build(data)
}

// SetOptions replaces the entire options mapping.  Recognized payload
// fields inside options, if any, are still extracted to their
// dedicated fields, consistent with Build.
func (r *Request) SetOptions(options Payload) *Request {
	r.options = nil
	return r.Build(options)
}

// Payload assembles and returns the Request's current payload
// projection: the options first, then each set named field added under
// its own key, overriding same-named options.  Unset fields contribute
// nothing.  The projection is computed fresh on each call and never
// mutates the Request.
func (r *Request) Payload() Payload {
	p := make(Payload, len(r.options)+6)
	for k, v := range r.options {
		p[k] = v
	}
	if r.url != nil {
		p[KeyURL] = *r.url
	}
	if r.headers != nil {
		p[KeyHeaders] = r.headers
	}
	if r.body != nil {
		p[KeyBody] = r.body
	}
	if r.json != nil {
		p[KeyJSON] = *r.json
	}
	if r.qs != nil {
		p[KeyQS] = r.qs
	}
	if r.resolve != nil {
		p[KeyResolveWithFullResponse] = *r.resolve
	}
	return p
}

// Clone returns a deep copy of the Request.  Mutating the clone's
// headers or options does not affect the parent.  The body and qs
// values are shared.
func (r *Request) Clone() *Request {
	r2 := *r
	if r.url != nil {
		u := *r.url
		r2.url = &u
	}
	if r.json != nil {
		b := *r.json
		r2.json = &b
	}
	if r.resolve != nil {
		b := *r.resolve
		r2.resolve = &b
	}
	if r.headers != nil {
		h := make(map[string]string, len(r.headers))
		for k, v := range r.headers {
			h[k] = v
		}
		r2.headers = h
	}
	if r.options != nil {
		o := make(map[string]interface{}, len(r.options))
		for k, v := range r.options {
			o[k] = v
		}
		r2.options = o
	}
	return &r2
}
