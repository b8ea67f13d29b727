// Package publisher is the publisher-side API facade.
//
// It covers the account, affiliate program and reference-data endpoints on
// top of a transport.Client:
//
//	pub, err := publisher.New(transport.Config{ClientID: id, ClientSecret: secret, AccessToken: token})
//	if err != nil {
//		return err
//	}
//	defer pub.Close()
//
//	programs, err := pub.Programs.List(ctx, publisher.ProgramsQuery{Pagination: publisher.Pagination{Limit: 50}})
package publisher

import (
	"context"
	"net/url"

	"admitad/pkg/apierror"
	"admitad/pkg/transport"
)

// Getter is the part of transport.Client the resource services use.
type Getter interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
}

// Publisher groups the publisher resource services over one client.
type Publisher struct {
	client *transport.Client

	User      *UserService
	Programs  *ProgramsService
	Auxiliary *AuxiliaryService
}

// New creates a Publisher with its own transport.Client.
func New(cfg transport.Config) (*Publisher, error) {
	if cfg.Language != "" && !IsLanguage(cfg.Language) {
		return nil, &apierror.ValidationError{Field: "language", Description: "unsupported language " + cfg.Language}
	}
	client, err := transport.New(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithClient(client), nil
}

// NewWithClient creates a Publisher over an existing client. Close on the
// Publisher closes client.
func NewWithClient(client *transport.Client) *Publisher {
	return &Publisher{
		client:    client,
		User:      &UserService{get: client},
		Programs:  &ProgramsService{get: client},
		Auxiliary: &AuxiliaryService{get: client},
	}
}

// Client returns the underlying transport client for endpoints without a
// typed service.
func (p *Publisher) Client() *transport.Client {
	return p.client
}

// SetAccessToken replaces the access token used for subsequent requests.
func (p *Publisher) SetAccessToken(token string) {
	p.client.SetAccessToken(token)
}

// Close cancels all in-flight requests. The Publisher is unusable afterwards.
func (p *Publisher) Close() {
	p.client.Close()
}
