package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	neturl "net/url"
)

// ErrorKind classifies why a request could not be completed.
type ErrorKind string

const (
	ErrInvalidURL         ErrorKind = "invalid url"
	ErrTimeout            ErrorKind = "timeout"
	ErrFailedConnection   ErrorKind = "failed connection"
	ErrRedirect           ErrorKind = "redirect"
	ErrInvalidFile        ErrorKind = "invalid file"
	ErrUnsupportedVersion ErrorKind = "unsupported version"
	ErrUnknown            ErrorKind = "unknown"
)

// RequestError is returned by Client.Do when no response could be obtained.
type RequestError struct {
	Kind ErrorKind
	URL  string
	Err  error
}

func (e *RequestError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Kind, e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

var errTooManyRedirects = errors.New("too many redirects")

// classify maps an error from the transport onto a RequestError.
func classify(rawURL string, err error) *RequestError {
	kind := ErrUnknown

	var (
		urlErr *neturl.Error
		netErr net.Error
		opErr  *net.OpError
		dnsErr *net.DNSError
	)
	switch {
	case errors.Is(err, errTooManyRedirects):
		kind = ErrRedirect
	case errors.Is(err, context.DeadlineExceeded):
		kind = ErrTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = ErrTimeout
	case errors.As(err, &opErr), errors.As(err, &dnsErr):
		kind = ErrFailedConnection
	case errors.As(err, &urlErr):
		if urlErr.Op == "parse" {
			kind = ErrInvalidURL
		}
	}
	return &RequestError{Kind: kind, URL: rawURL, Err: err}
}
