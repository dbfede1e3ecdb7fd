package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	cases := []struct {
		name     string
		option   Option
		expected Payload
	}{
		{"URL", URL("u"), Payload{"url": "u"}},
		{"Headers", Headers(map[string]string{"h": "v"}), Payload{"headers": map[string]string{"h": "v"}}},
		{"Header", Header("h", "v"), Payload{"headers": map[string]string{"h": "v"}}},
		{"Body", Body("b"), Payload{"body": "b"}},
		{"JSON", JSON(true), Payload{"json": true}},
		{"QS", QS(map[string]interface{}{"page": 4}), Payload{"qs": map[string]interface{}{"page": 4}}},
		{"ResolveWithFullResponse", ResolveWithFullResponse(true), Payload{"resolveWithFullResponse": true}},
		{"Opt", Opt("a", 1), Payload{"a": 1}},
		{"Merge", Merge(Payload{"url": "u", "a": 1}), Payload{"url": "u", "a": 1}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := New(c.option)
			require.NoError(t, err)
			assert.Equal(t, c.expected, r.Payload())
		})
	}

	t.Run("WithClient", func(t *testing.T) {
		mc := &MockClient{}
		r, err := New(WithClient(mc))
		require.NoError(t, err)
		assert.Equal(t, Client(mc), r.Client)
	})

	t.Run("Opt preserves existing options", func(t *testing.T) {
		r := MustNew(Opt("a", 1), Opt("b", 2), Opt("a", 3))
		assert.Equal(t, Payload{"a": 3, "b": 2}, r.Payload())
	})
}

func TestRequest_Apply(t *testing.T) {
	r := MustNew()
	err := r.Apply(URL("u"), Header("h", "v"))
	require.NoError(t, err)
	assert.Equal(t, Payload{"url": "u", "headers": map[string]string{"h": "v"}}, r.Payload())

	t.Run("error stops application", func(t *testing.T) {
		r := MustNew()
		err := r.Apply(URL("u"), failOption(), Header("h", "v"))
		require.Error(t, err)
		assert.Equal(t, Payload{"url": "u"}, r.Payload(), "options after the failing one should not be applied")
	})
}

func TestRequest_MustApply(t *testing.T) {
	r := MustNew()
	r.MustApply(URL("u"))
	assert.Equal(t, "u", r.Payload().URL())

	require.Panics(t, func() {
		r.MustApply(failOption())
	})
}
