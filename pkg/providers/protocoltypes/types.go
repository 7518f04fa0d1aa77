// Package protocoltypes holds the request and client plumbing shared by every
// generation backend.
package protocoltypes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrMissingCredential = errors.New("missing credential")
	ErrEmptyResponse     = errors.New("empty response")
)

const DefaultTimeout = 60 * time.Second

// Request is one generation call: the instruction controls the stance, the
// subject is what to analyze, MaxWords is a soft length hint.
type Request struct {
	Instruction string
	Subject     string
	MaxWords    int
}

// MaxTokens converts the word hint into a token budget with headroom for
// markdown and long words.
func (r Request) MaxTokens() int64 {
	if r.MaxWords <= 0 {
		return 512
	}
	return int64(r.MaxWords) * 3
}

type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// ClientOptions are the transport settings every backend accepts.
type ClientOptions struct {
	APIBase string
	Model   string
	Proxy   string
	Timeout time.Duration
}

// NewHTTPClient builds the client backends hand to their SDKs.
func NewHTTPClient(proxy string, timeout time.Duration) (*http.Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := &http.Client{Timeout: timeout}
	if strings.TrimSpace(proxy) == "" {
		return client, nil
	}
	proxyURL, err := url.Parse(proxy)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL: %w", err)
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = http.ProxyURL(proxyURL)
	client.Transport = transport
	return client, nil
}
