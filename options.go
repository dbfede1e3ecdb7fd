package dispatch

import (
	"github.com/ansel1/merry"
)

// Option applies some setting to a Request.  Options can be passed to
// New(), Apply(), and With().
type Option interface {

	// Apply modifies the Request argument.  The Request pointer will
	// never be nil.  Returning an error stops applying the rest of
	// the Options, and the error floats up to the original caller.
	Apply(*Request) error
}

// OptionFunc adapts a function to the Option interface.
type OptionFunc func(*Request) error

// Apply implements Option.
func (f OptionFunc) Apply(r *Request) error {
	return f(r)
}

// Apply applies the options to the receiver.
func (r *Request) Apply(opts ...Option) error {
	for _, o := range opts {
		if err := o.Apply(r); err != nil {
			return merry.Prepend(err, "applying options")
		}
	}
	return nil
}

// MustApply applies the options to the receiver, and panics on error.
func (r *Request) MustApply(opts ...Option) {
	if err := r.Apply(opts...); err != nil {
		panic(err)
	}
}

// With clones the Request, then applies the options to the clone.
func (r *Request) With(opts ...Option) (*Request, error) {
	r2 := r.Clone()
	if err := r2.Apply(opts...); err != nil {
		return nil, err
	}
	return r2, nil
}

// URL sets the url field.
func URL(url string) Option {
	return OptionFunc(func(r *Request) error {
		r.SetURL(url)
		return nil
	})
}

// Headers replaces the headers field.
func Headers(headers map[string]string) Option {
	return OptionFunc(func(r *Request) error {
		r.SetHeaders(headers)
		return nil
	})
}

// Header sets a single header value.
func Header(key, value string) Option {
	return OptionFunc(func(r *Request) error {
		r.SetHeader(key, value)
		return nil
	})
}

// Body sets the body field.
func Body(body interface{}) Option {
	return OptionFunc(func(r *Request) error {
		r.SetBody(body)
		return nil
	})
}

// JSON sets the json flag, which tells the client to treat the body as
// JSON.
func JSON(json bool) Option {
	return OptionFunc(func(r *Request) error {
		r.SetJSON(json)
		return nil
	})
}

// QS sets the query string field.
func QS(qs interface{}) Option {
	return OptionFunc(func(r *Request) error {
		r.SetQS(qs)
		return nil
	})
}

// ResolveWithFullResponse sets the resolveWithFullResponse flag.
func ResolveWithFullResponse(flag bool) Option {
	return OptionFunc(func(r *Request) error {
		r.SetResolveWithFullResponse(flag)
		return nil
	})
}

// Opt sets a single arbitrary option, preserving existing ones, like
// SetOption.
func Opt(key string, value interface{}) Option {
	return OptionFunc(func(r *Request) error {
		r.SetOption(key, value)
		return nil
	})
}

// Merge merges a structured object into the Request, like Build.
func Merge(data Payload) Option {
	return OptionFunc(func(r *Request) error {
		r.Build(data)
		return nil
	})
}

// WithClient sets the Client used to execute payloads.
func WithClient(c Client) Option {
	return OptionFunc(func(r *Request) error {
		r.Client = c
		return nil
	})
}
