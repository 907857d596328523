package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evaldb/cli/internal/batch"
	"evaldb/cli/pkg/evaldb"
)

// testContext mirrors testing.T.Context (Go 1.24+): a context canceled when
// the test finishes.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

func TestReadCode(t *testing.T) {
	code, err := readCode("return 1", strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "return 1", code)

	code, err = readCode("-", strings.NewReader("  return args.x\n"))
	require.NoError(t, err)
	assert.Equal(t, "return args.x", code)

	_, err = readCode("-", strings.NewReader("\n"))
	assert.Error(t, err)
}

func TestCollectArgs_Precedence(t *testing.T) {
	f := &queryFlags{args: []string{`a=2`, `c="x"`}}
	args, err := collectArgs(testContext(t), f)
	require.NoError(t, err)

	b, err := args.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"c":"x"}`, string(b))
}

func TestCollectArgs_SQLNeedsDSN(t *testing.T) {
	f := &queryFlags{sqlArgs: []string{"rows=SELECT 1"}}
	_, err := collectArgs(testContext(t), f)
	assert.ErrorContains(t, err, "--dsn")
}

func TestPrintValue_KeepsOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printValue(&buf, evaldb.MustValue(map[string]any{"b": 1, "a": []any{true}})))
	assert.Equal(t, "{\n  \"a\": [\n    true\n  ],\n  \"b\": 1\n}\n", buf.String())

	buf.Reset()
	v, err := evaldb.ParseValue([]byte(`{"z":1,"a":2}`))
	require.NoError(t, err)
	require.NoError(t, printValue(&buf, v))
	assert.Equal(t, "{\n  \"z\": 1,\n  \"a\": 2\n}\n", buf.String())
}

func TestWriteTransactionJSON(t *testing.T) {
	var buf bytes.Buffer
	tx := evaldb.Transaction{
		Query:  evaldb.Request{Code: "return 1", Readonly: true},
		Result: evaldb.Result{Object: evaldb.MustValue(1), Gen: 2, WallTime: time.Microsecond},
	}
	require.NoError(t, writeTransactionJSON(&buf, tx))
	assert.JSONEq(t, `{"query":{"code":"return 1","readonly":true,"args":{}},"result":{"object":1,"warm":false,"walltime":1000,"gen":2,"parent":0}}`, buf.String())
}

func TestToBatchLine(t *testing.T) {
	ok := batch.Outcome{Index: 0, Result: &evaldb.Result{Gen: 4}, Value: evaldb.MustValue("hi")}
	line := toBatchLine(ok)
	assert.Equal(t, `"hi"`, string(line.Object))
	assert.Equal(t, 4, line.Gen)
	assert.Empty(t, line.Error)

	failed := batch.Outcome{Index: 1, Err: errors.New("boom")}
	line = toBatchLine(failed)
	assert.Equal(t, 1, line.Index)
	assert.Equal(t, "boom", line.Error)
	assert.Nil(t, line.Object)
}
