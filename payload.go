package dispatch

// Well-known payload keys.  These are the field names the external
// HTTP client recognizes.  Any other key in a Payload is an opaque
// option, passed through to the client unmodified.
const (
	KeyURL                     = "url"
	KeyHeaders                 = "headers"
	KeyBody                    = "body"
	KeyJSON                    = "json"
	KeyQS                      = "qs"
	KeyResolveWithFullResponse = "resolveWithFullResponse"
)

// Payload is the flattened key/value object handed to a Client.  It is
// assembled from a Request's fields by Request.Payload(), or constructed
// directly by the caller and passed to an Executor.
//
// A usable payload has at least a non-empty "url" value.
type Payload map[string]interface{}

// URL returns the payload's url value, or "" if the value is absent or
// not a string.
func (p Payload) URL() string {
	s, _ := p[KeyURL].(string)
	return s
}

// hasURL reports whether the payload carries a usable url: the key must
// be present and its value must not be falsy (nil, "", false, or a zero
// number).
func (p Payload) hasURL() bool {
	return !isFalsy(p[KeyURL])
}

func isFalsy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case int:
		return t == 0
	case int64:
		return t == 0
	case float64:
		return t == 0
	default:
		return false
	}
}
