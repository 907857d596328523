package argparse

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evaldb/cli/pkg/evaldb"
)

func TestParseFlag(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantJSON string
		wantErr  bool
	}{
		{name: "number", input: "n=42", wantName: "n", wantJSON: "42"},
		{name: "string", input: `who="world"`, wantName: "who", wantJSON: `"world"`},
		{name: "object with equals", input: `q={"a":"x=y"}`, wantName: "q", wantJSON: `{"a":"x=y"}`},
		{name: "unquoted string", input: "who=world", wantErr: true},
		{name: "missing value", input: "n=", wantErr: true},
		{name: "no separator", input: "n", wantErr: true},
		{name: "empty name", input: "=1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arg, err := ParseFlag(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, arg.Name)
			assert.Equal(t, json.RawMessage(tt.wantJSON), arg.Value)
		})
	}
}

func TestDecodeKeepsOrder(t *testing.T) {
	args, err := Decode(strings.NewReader(`{"z": 1, "a": [true], "m": null}`))
	require.NoError(t, err)
	require.Len(t, args, 3)
	assert.Equal(t, []string{"z", "a", "m"}, []string{args[0].Name, args[1].Name, args[2].Name})

	_, err = Decode(strings.NewReader(`[1,2]`))
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "args.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"limit": 10}`), 0o600))

	args, err := ReadFile(path)
	require.NoError(t, err)
	v, ok := args.Get("limit")
	require.True(t, ok)
	assert.Equal(t, json.RawMessage("10"), v)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestMergeLaterWins(t *testing.T) {
	fromFile := evaldb.Args{evaldb.A("a", 1), evaldb.A("b", 2)}
	fromFlags := evaldb.Args{evaldb.A("a", 3)}

	data, err := json.Marshal(Merge(fromFile, fromFlags))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3,"b":2}`, string(data))
	assert.Equal(t, `{"a":3,"b":2}`, string(data))
}
