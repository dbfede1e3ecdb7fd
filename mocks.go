package dispatch

import (
	"context"
)

// These are tools for writing tests.

// MockCall records one dispatch to a MockClient.
type MockCall struct {
	Method  string
	Payload Payload
}

// MockClient is a Client which returns canned results and records the
// calls made to it, for writing tests.
//
// The zero value is usable: every verb returns nil, nil.
type MockClient struct {
	// Result is returned by every verb function.
	Result interface{}

	// Err is returned by every verb function.
	Err error

	// Calls records every dispatch, in order.
	Calls []MockCall
}

// LastCall returns the most recent call, or nil if no call was made.
func (m *MockClient) LastCall() *MockCall {
	if len(m.Calls) == 0 {
		return nil
	}
	return &m.Calls[len(m.Calls)-1]
}

// Clear discards the recorded calls.
func (m *MockClient) Clear() {
	m.Calls = nil
}

func (m *MockClient) record(method string, payload Payload) (interface{}, error) {
	m.Calls = append(m.Calls, MockCall{Method: method, Payload: payload})
	return m.Result, m.Err
}

// Get implements Client.
func (m *MockClient) Get(_ context.Context, payload Payload) (interface{}, error) {
	return m.record("GET", payload)
}

// Post implements Client.
func (m *MockClient) Post(_ context.Context, payload Payload) (interface{}, error) {
	return m.record("POST", payload)
}

// Put implements Client.
func (m *MockClient) Put(_ context.Context, payload Payload) (interface{}, error) {
	return m.record("PUT", payload)
}

// Delete implements Client.
func (m *MockClient) Delete(_ context.Context, payload Payload) (interface{}, error) {
	return m.record("DELETE", payload)
}

// ChannelClient returns a Client and a channel.  The Client returns
// the results sent on the channel, one per call.
func ChannelClient() (chan<- interface{}, Client) {
	input := make(chan interface{}, 1)

	return input, ClientFunc(func(_ context.Context, _ string, _ Payload) (interface{}, error) {
		return <-input, nil
	})
}
