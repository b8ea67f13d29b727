// Package advertiser is the advertiser-side API facade. It is not available
// yet; New always fails.
package advertiser

import (
	"admitad/pkg/apierror"
	"admitad/pkg/transport"
)

// Advertiser will group the advertiser resource services.
type Advertiser struct {
	client *transport.Client
}

// New reports that the advertiser API is not implemented. cfg is accepted so
// callers can already be written against the final signature.
func New(cfg transport.Config) (*Advertiser, error) {
	return nil, &apierror.NotImplementedError{Feature: "Advertiser API"}
}
