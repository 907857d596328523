// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns transport failures talking to an evaldb server
// into messages a user can act on.
package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"

	"evaldb/cli/internal/logging"
	"evaldb/cli/pkg/evaldb"
)

// Category classifies a failed request.
type Category int

const (
	CategoryOther Category = iota
	CategoryTimeout
	CategoryDNS
	CategoryRefused
	CategoryTLS
	CategoryServer
)

// Classify reports which kind of network failure err represents.
// Errors reported by the evaldb server itself are never network failures.
func Classify(err error) (Category, bool) {
	if err == nil {
		return CategoryOther, false
	}
	if errors.Is(err, evaldb.ErrQuery) || errors.Is(err, evaldb.ErrInvalidKey) ||
		errors.Is(err, evaldb.ErrInvalidLanguage) || errors.Is(err, context.Canceled) {
		return CategoryOther, false
	}

	var ee *evaldb.Error
	if errors.As(err, &ee) && ee.Kind == evaldb.KindStatus {
		if isServerError(ee.Message) {
			return CategoryServer, true
		}
		return CategoryOther, false
	}

	switch {
	case isTimeoutError(err):
		return CategoryTimeout, true
	case isDNSError(err):
		return CategoryDNS, true
	case isConnectionRefusedError(err):
		return CategoryRefused, true
	case isSSLError(err):
		return CategoryTLS, true
	}

	if isServerError(err.Error()) {
		return CategoryServer, true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return CategoryOther, true
	}
	return CategoryOther, false
}

// FormatNetworkError prints troubleshooting help for network failures and
// returns err wrapped. Any other error is returned unchanged.
func FormatNetworkError(err error, context, host string) error {
	cat, ok := Classify(err)
	if !ok {
		return err
	}
	if host == "" {
		host = "the evaldb server"
	}

	switch cat {
	case CategoryTimeout:
		showTimeoutError(context)
	case CategoryDNS:
		showDNSError(context, host)
	case CategoryRefused:
		showConnectionRefusedError(context, host)
	case CategoryTLS:
		showSSLError(context)
	case CategoryServer:
		showServerError(context, host)
	default:
		showGenericError(context, host, err.Error())
	}

	return fmt.Errorf("network error: %w", err)
}

func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded")
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

// isServerError checks if the error indicates a server-side problem (5xx errors).
func isServerError(errStr string) bool {
	lower := strings.ToLower(errStr)
	for _, s := range []string{"500", "502", "503", "504", "internal server error", "bad gateway", "service unavailable", "gateway timeout"} {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

func showTimeoutError(context string) {
	pterm.Printf("⏱️  Timed out while %s\n", context)
	pterm.Println()
	pterm.Println("The server took too long to answer. Long-running scripts may need")
	pterm.Println("a larger --timeout (or EVALDB_TIMEOUT).")
	pterm.Println()
}

func showDNSError(context, host string) {
	pterm.Printf("🌐 Cannot resolve server address while %s\n", context)
	pterm.Println()
	pterm.Printf("Unable to look up %s. Check your connection and --base-url.\n", host)
	pterm.Println()
}

func showConnectionRefusedError(context, host string) {
	pterm.Printf("🚫 Connection refused while %s\n", context)
	pterm.Println()
	pterm.Printf("Nothing is accepting connections at %s.\n", host)
	pterm.Println("If you run evaldb locally, make sure the server is started.")
	pterm.Println()
}

func showSSLError(context string) {
	pterm.Printf("🔒 Secure connection failed while %s\n", context)
	pterm.Println()
	pterm.Println("Check your system clock and any proxy intercepting HTTPS.")
	pterm.Println()
}

func showServerError(context, host string) {
	pterm.Printf("⚠️  Server error while %s\n", context)
	pterm.Println()
	pterm.Printf("%s answered with a 5xx status. Please try again shortly.\n", host)
	pterm.Println()
}

func showGenericError(context, host, details string) {
	pterm.Printf("❌ Cannot reach %s while %s\n", host, context)
	pterm.Println()
	details = logging.Mask(details)
	if len(details) > 100 {
		details = details[:100] + "..."
	}
	pterm.Debug.Printfln("Technical details: %s", details)
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
