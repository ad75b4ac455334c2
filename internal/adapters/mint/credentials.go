package mint

import (
	"context"
	"errors"
)

// ErrNoCredentials is returned when a provider has nothing to offer.
var ErrNoCredentials = errors.New("mint: no credentials available")

// Credentials carries what the API needs on each request.
type Credentials struct {
	APIToken string
	Cookie   string
}

// CredentialProvider supplies credentials and can refresh them when the
// API rejects a request. Implementations decide whether refresh means
// re-reading a file, re-running a login flow, or nothing at all.
type CredentialProvider interface {
	Credentials(ctx context.Context) (*Credentials, error)
	Refresh(ctx context.Context) (*Credentials, error)
	Clear()
}

// StaticProvider serves fixed credentials, typically from config or
// environment. Refresh re-serves the same values.
type StaticProvider struct {
	creds *Credentials
}

// NewStaticProvider creates a provider around fixed credentials.
func NewStaticProvider(apiToken, cookie string) *StaticProvider {
	return &StaticProvider{creds: &Credentials{APIToken: apiToken, Cookie: cookie}}
}

func (p *StaticProvider) Credentials(_ context.Context) (*Credentials, error) {
	if p.creds == nil || p.creds.APIToken == "" {
		return nil, ErrNoCredentials
	}
	return p.creds, nil
}

func (p *StaticProvider) Refresh(ctx context.Context) (*Credentials, error) {
	return p.Credentials(ctx)
}

func (p *StaticProvider) Clear() {
	p.creds = nil
}
