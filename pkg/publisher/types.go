package publisher

import (
	"net/url"
	"strconv"

	"admitad/pkg/apierror"
)

// Response languages accepted by the API.
const (
	LanguageRussian = "ru"
	LanguageEnglish = "en"
	LanguageSpanish = "es"
	LanguageTurkish = "tr"
	LanguagePolish  = "pl"
)

// Languages lists every supported response language.
var Languages = []string{LanguageRussian, LanguageEnglish, LanguageSpanish, LanguageTurkish, LanguagePolish}

// IsLanguage reports whether lang is a supported response language.
func IsLanguage(lang string) bool {
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// Pagination defaults and bounds.
const (
	DefaultLimit  = 20
	MaxLimit      = 500
	DefaultOffset = 0
)

// Pagination selects a page of a list endpoint. Zero values leave the
// server defaults in place.
type Pagination struct {
	Limit  int
	Offset int
}

// validate rejects limits and offsets the API would refuse.
func (p Pagination) validate() error {
	if p.Limit < 0 || p.Limit > MaxLimit {
		return &apierror.ValidationError{
			Field:       "limit",
			Description: "must be between 0 and " + strconv.Itoa(MaxLimit),
		}
	}
	if p.Offset < 0 {
		return &apierror.ValidationError{Field: "offset", Description: "must not be negative"}
	}
	return nil
}

// apply adds the non-zero fields to q.
func (p Pagination) apply(q url.Values) {
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		q.Set("offset", strconv.Itoa(p.Offset))
	}
}

// Meta describes the page returned by a list endpoint.
type Meta struct {
	Count  int `json:"count"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Paginated is the envelope of every list endpoint.
type Paginated[T any] struct {
	Results []T  `json:"results"`
	Meta    Meta `json:"_meta"`
}

// HasMore reports whether pages follow this one.
func (p *Paginated[T]) HasMore() bool {
	return p.Meta.Offset+len(p.Results) < p.Meta.Count
}

// Next returns the pagination for the following page.
func (p *Paginated[T]) Next() Pagination {
	return Pagination{Limit: p.Meta.Limit, Offset: p.Meta.Offset + len(p.Results)}
}
