package batch

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evaldb/cli/pkg/evaldb"
)

type fakeQuerier struct {
	mu       sync.Mutex
	inFlight int32
	maxSeen  int32
	delay    time.Duration
	respond  func(req evaldb.Request) (*evaldb.Result, error)
}

func (f *fakeQuerier) Do(ctx context.Context, req evaldb.Request) (*evaldb.Result, error) {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)

	f.mu.Lock()
	if n > f.maxSeen {
		f.maxSeen = n
	}
	f.mu.Unlock()

	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return f.respond(req)
}

func result(t *testing.T, body string) *evaldb.Result {
	t.Helper()
	var res evaldb.Result
	require.NoError(t, json.Unmarshal([]byte(body), &res))
	return &res
}

func TestRun_OrderAndErrors(t *testing.T) {
	transportErr := errors.New("connection reset")
	q := &fakeQuerier{
		delay: time.Millisecond,
		respond: func(req evaldb.Request) (*evaldb.Result, error) {
			switch req.Code {
			case "fail":
				return result(t, `{"error":"boom"}`), nil
			case "drop":
				return nil, transportErr
			default:
				return result(t, `{"object":"`+req.Code+`"}`), nil
			}
		},
	}

	reqs := []evaldb.Request{{Code: "a"}, {Code: "fail"}, {Code: "b"}, {Code: "drop"}, {Code: "c"}}
	outcomes, err := Run(context.Background(), q, reqs, Options{Concurrency: 3})
	require.NoError(t, err)
	require.Len(t, outcomes, len(reqs))

	for i, o := range outcomes {
		assert.Equal(t, i, o.Index)
		assert.Equal(t, reqs[i].Code, o.Request.Code)
	}
	s, ok := outcomes[0].Value.Str()
	assert.True(t, ok)
	assert.Equal(t, "a", s)
	assert.ErrorIs(t, outcomes[1].Err, evaldb.ErrQuery)
	assert.Equal(t, `"c"`, outcomes[4].Value.String())
	assert.ErrorIs(t, outcomes[3].Err, transportErr)
	assert.Equal(t, 2, Failed(outcomes))
}

func TestRun_ConcurrencyLimit(t *testing.T) {
	q := &fakeQuerier{
		delay: 20 * time.Millisecond,
		respond: func(evaldb.Request) (*evaldb.Result, error) {
			return result(t, `{"object":null}`), nil
		},
	}
	reqs := make([]evaldb.Request, 12)
	for i := range reqs {
		reqs[i] = evaldb.Request{Code: "x"}
	}

	_, err := Run(context.Background(), q, reqs, Options{Concurrency: 2})
	require.NoError(t, err)
	assert.LessOrEqual(t, q.maxSeen, int32(2))
}

func TestRun_ContextCancel(t *testing.T) {
	q := &fakeQuerier{
		delay: time.Second,
		respond: func(evaldb.Request) (*evaldb.Result, error) {
			return result(t, `{"object":1}`), nil
		},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	reqs := []evaldb.Request{{Code: "a"}, {Code: "b"}, {Code: "c"}}
	outcomes, err := Run(ctx, q, reqs, Options{Concurrency: 1})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.Len(t, outcomes, 3)
	for _, o := range outcomes {
		assert.Error(t, o.Err)
	}
}

func TestParseJSONL(t *testing.T) {
	input := `{"code":"return 1","readonly":true}

{"code":"return args.x","args":{"x":2},"gen":5}
`
	reqs, err := ParseJSONL(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.True(t, reqs[0].Readonly)
	require.NotNil(t, reqs[1].Gen)
	assert.Equal(t, 5, *reqs[1].Gen)

	_, err = ParseJSONL(strings.NewReader("{\"code\":\"ok\"}\nnot json\n"))
	assert.ErrorContains(t, err, "line 2")

	_, err = ParseJSONL(strings.NewReader(`{"readonly":true}`))
	assert.ErrorContains(t, err, "missing code")
}
