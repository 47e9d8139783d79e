package command

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logue/drop-compress-image/internal/logging"
	"github.com/logue/drop-compress-image/internal/logging/logtest"
)

func constant(s string) Handler {
	return func(context.Context, logging.Sink, json.RawMessage) (string, error) { return s, nil }
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry([]Entry{
		{Name: "a", Handler: constant("1")},
		{Name: "a", Handler: constant("2")},
	})
	assert.True(t, errors.Is(err, ErrDuplicateCommand), err)
}

func TestNewRegistryRejectsBadNames(t *testing.T) {
	for _, name := range []string{"", "Echo", "echo-message", "1abc", "plugin:log|log"} {
		_, err := NewRegistry([]Entry{{Name: name, Handler: constant("x")}})
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}

	_, err := NewRegistry([]Entry{{Name: "nil_handler"}})
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestRegistryUnknownCommand(t *testing.T) {
	r, err := New("1.2.3")
	require.NoError(t, err)

	_, err = r.Invoke(context.Background(), "delete_everything", nil, nil)
	assert.ErrorIs(t, err, ErrCommandNotFound)
	assert.Contains(t, err.Error(), "delete_everything")
}

func TestRegistryNamesAreFixed(t *testing.T) {
	r, err := New("1.2.3")
	require.NoError(t, err)

	assert.Equal(t, []string{"echo_message", "get_app_version", "process_data"}, r.Names())
	for _, n := range r.Names() {
		assert.True(t, r.Has(n))
	}
	assert.False(t, r.Has("echo"))

	names := r.Names()
	names[0] = "mutated"
	assert.Equal(t, "echo_message", r.Names()[0])
}

func TestRegistryNilSinkIsDiscarded(t *testing.T) {
	r, err := New("1.2.3")
	require.NoError(t, err)

	out, err := r.Invoke(context.Background(), EchoMessageName, nil, json.RawMessage(`{"message":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, "Echo: x", out)
}

func TestMiddlewareOrder(t *testing.T) {
	var order []string
	mark := func(tag string) Middleware {
		return func(name string, next Handler) Handler {
			return func(ctx context.Context, sink logging.Sink, p json.RawMessage) (string, error) {
				order = append(order, tag+">"+name)
				return next(ctx, sink, p)
			}
		}
	}

	r, err := NewRegistry([]Entry{{Name: "cmd", Handler: constant("ok")}}, WithMiddleware(mark("outer"), mark("inner")))
	require.NoError(t, err)

	_, err = r.Invoke(context.Background(), "cmd", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"outer>cmd", "inner>cmd"}, order)
}

func TestRecoverAnswersPanics(t *testing.T) {
	r, err := NewRegistry([]Entry{{
		Name: "explode",
		Handler: func(context.Context, logging.Sink, json.RawMessage) (string, error) {
			panic("kaboom")
		},
	}}, WithMiddleware(Defaults()...))
	require.NoError(t, err)

	out, err := r.Invoke(context.Background(), "explode", nil, nil)
	assert.Empty(t, out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestRegistryConcurrentInvocations(t *testing.T) {
	r, err := New("1.2.3")
	require.NoError(t, err)

	const n = 64
	var wg sync.WaitGroup
	results := make([]string, n)
	errs := make([]error, n)
	recorders := make([]*logtest.Recorder, n)

	for i := 0; i < n; i++ {
		recorders[i] = &logtest.Recorder{}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			payload, _ := json.Marshal(map[string]string{"message": string(rune('a' + i%26))})
			results[i], errs[i] = r.Invoke(context.Background(), EchoMessageName, recorders[i], payload)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "Echo: "+string(rune('a'+i%26)), results[i])
		assert.Len(t, recorders[i].Records(), 2)
	}
}
