package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"

	"evaldb/cli/pkg/evaldb"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    Category
		network bool
	}{
		{name: "nil", err: nil},
		{name: "deadline", err: fmt.Errorf("post: %w", context.DeadlineExceeded), want: CategoryTimeout, network: true},
		{name: "canceled", err: context.Canceled},
		{name: "dns", err: &url.Error{Op: "Post", URL: "x", Err: &net.DNSError{Err: "no such host", Name: "nope.invalid"}}, want: CategoryDNS, network: true},
		{name: "refused", err: &url.Error{Op: "Post", URL: "x", Err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}}, want: CategoryRefused, network: true},
		{name: "tls", err: &url.Error{Op: "Post", URL: "x", Err: errors.New("x509: certificate signed by unknown authority")}, want: CategoryTLS, network: true},
		{name: "other url error", err: &url.Error{Op: "Post", URL: "x", Err: errors.New("EOF")}, want: CategoryOther, network: true},
		{name: "query error", err: &evaldb.Error{Kind: evaldb.KindQuery, Message: "boom"}},
		{name: "server 502", err: &evaldb.Error{Kind: evaldb.KindStatus, Message: "502 Bad Gateway"}, want: CategoryServer, network: true},
		{name: "status 404", err: &evaldb.Error{Kind: evaldb.KindStatus, Message: "404 Not Found"}},
		{name: "plain", err: errors.New("something")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, network := Classify(tt.err)
			assert.Equal(t, tt.network, network)
			if network {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFormatNetworkError_PassesThroughNonNetwork(t *testing.T) {
	err := &evaldb.Error{Kind: evaldb.KindQuery, Message: "boom"}
	assert.Same(t, err, FormatNetworkError(err, "running query", "evaldb.turb.io"))
	assert.NoError(t, FormatNetworkError(nil, "running query", ""))
}

func TestFormatNetworkError_Wraps(t *testing.T) {
	base := fmt.Errorf("post: %w", context.DeadlineExceeded)
	err := FormatNetworkError(base, "running query", "evaldb.turb.io")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "network error")
}

func TestExtractHostFromURL(t *testing.T) {
	assert.Equal(t, "evaldb.turb.io", ExtractHostFromURL("https://evaldb.turb.io"))
	assert.Equal(t, "server", ExtractHostFromURL("::bad"))
}
