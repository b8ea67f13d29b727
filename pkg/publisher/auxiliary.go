package publisher

import (
	"context"
	"net/url"

	"admitad/pkg/apierror"
)

// WebsiteKind is a type of publisher website.
type WebsiteKind struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Region is a website region.
type Region struct {
	Region string `json:"region"`
	Name   string `json:"name"`
}

// Category is a program category.
type Category struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Parent   *Category `json:"parent,omitempty"`
	Language string    `json:"language"`
}

// CategoryNode is a Category placed in a tree.
type CategoryNode struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Language string          `json:"language"`
	Children []*CategoryNode `json:"children"`
}

// SystemLanguage is an interface language.
type SystemLanguage struct {
	Language string `json:"language"`
	Name     string `json:"name"`
	Flag     string `json:"flag"`
}

// Currency is a supported currency.
type Currency struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Sign       string  `json:"sign"`
	MinPayment float64 `json:"min_payment"`
}

// CurrencyRate is an exchange rate on a date.
type CurrencyRate struct {
	Base   string  `json:"base"`
	Target string  `json:"target"`
	Rate   float64 `json:"rate"`
	Date   string  `json:"date"`
}

// TrafficSource is a traffic type.
type TrafficSource struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategoriesQuery filters AuxiliaryService.Categories.
type CategoriesQuery struct {
	Pagination
	Language string
	OrderBy  string
}

// AuxiliaryService reads reference data. It needs no special scope.
type AuxiliaryService struct {
	get Getter
}

// WebsiteKinds returns the website types.
func (s *AuxiliaryService) WebsiteKinds(ctx context.Context) (*Paginated[WebsiteKind], error) {
	return getPage[WebsiteKind](ctx, s.get, "/websites/kinds/", nil)
}

// Regions returns the website regions.
func (s *AuxiliaryService) Regions(ctx context.Context) (*Paginated[Region], error) {
	return getPage[Region](ctx, s.get, "/websites/regions/", nil)
}

// Categories returns a page of program categories.
func (s *AuxiliaryService) Categories(ctx context.Context, q CategoriesQuery) (*Paginated[Category], error) {
	if err := q.Pagination.validate(); err != nil {
		return nil, err
	}
	v := url.Values{}
	q.Pagination.apply(v)
	if q.Language != "" {
		v.Set("language", q.Language)
	}
	if q.OrderBy != "" {
		v.Set("order_by", q.OrderBy)
	}
	return getPage[Category](ctx, s.get, "/categories/", v)
}

// Languages returns the interface languages.
func (s *AuxiliaryService) Languages(ctx context.Context) (*Paginated[SystemLanguage], error) {
	return getPage[SystemLanguage](ctx, s.get, "/languages/", nil)
}

// Currencies returns the supported currencies.
func (s *AuxiliaryService) Currencies(ctx context.Context) (*Paginated[Currency], error) {
	return getPage[Currency](ctx, s.get, "/currencies/", nil)
}

// CurrencyRate returns the base/target rate, on date if given (YYYY-MM-DD
// as accepted by the API).
func (s *AuxiliaryService) CurrencyRate(ctx context.Context, base, target, date string) (*CurrencyRate, error) {
	if base == "" {
		return nil, &apierror.ValidationError{Field: "base", Description: "is required"}
	}
	if target == "" {
		return nil, &apierror.ValidationError{Field: "target", Description: "is required"}
	}
	v := url.Values{"base": {base}, "target": {target}}
	if date != "" {
		v.Set("date", date)
	}
	var rate CurrencyRate
	if err := s.get.Get(ctx, "/currencies/rate/", v, &rate); err != nil {
		return nil, err
	}
	return &rate, nil
}

// TrafficSources returns the traffic types.
func (s *AuxiliaryService) TrafficSources(ctx context.Context) (*Paginated[TrafficSource], error) {
	return getPage[TrafficSource](ctx, s.get, "/traffic/", nil)
}

// BuildCategoryTree arranges a flat category list into trees. Categories
// whose parent is absent from the list become roots. Input order is kept
// among siblings.
func BuildCategoryTree(categories []Category) []*CategoryNode {
	nodes := make(map[int64]*CategoryNode, len(categories))
	for _, c := range categories {
		nodes[c.ID] = &CategoryNode{ID: c.ID, Name: c.Name, Language: c.Language, Children: []*CategoryNode{}}
	}

	var roots []*CategoryNode
	for _, c := range categories {
		node := nodes[c.ID]
		if c.Parent != nil {
			if parent, ok := nodes[c.Parent.ID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

func getPage[T any](ctx context.Context, g Getter, path string, q url.Values) (*Paginated[T], error) {
	var page Paginated[T]
	if err := g.Get(ctx, path, q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
