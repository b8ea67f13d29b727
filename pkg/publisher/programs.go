package publisher

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ProgramAction is an action a program pays for.
type ProgramAction struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	PaymentSize string `json:"payment_size"`
	HoldSize    int    `json:"hold_size"`
}

// Rate is one tariff rate.
type Rate struct {
	Size         string  `json:"size"`
	Country      string  `json:"country"`
	MinPayment   float64 `json:"min_payment"`
	DateStart    string  `json:"date_start"`
	IsPercentage bool    `json:"is_percentage"`
}

// Tariff groups rates of an action.
type Tariff struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Rates []Rate `json:"rates"`
}

// ActionDetail is an action with its tariffs.
type ActionDetail struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Tariffs []Tariff `json:"tariffs"`
}

// ProgramCategory is a program's category, possibly nested.
type ProgramCategory struct {
	ID     int64            `json:"id"`
	Name   string           `json:"name"`
	Parent *ProgramCategory `json:"parent,omitempty"`
}

// Program is an affiliate program.
type Program struct {
	ID                 int64             `json:"id"`
	Name               string            `json:"name"`
	Status             string            `json:"status"`
	Rating             string            `json:"rating"`
	Description        string            `json:"description"`
	SiteURL            string            `json:"site_url"`
	Image              string            `json:"image"`
	Currency           string            `json:"currency"`
	ConnectionStatus   string            `json:"connection_status,omitempty"`
	GotoCookieLifetime int               `json:"goto_cookie_lifetime"`
	Geotargeting       bool              `json:"geotargeting"`
	CR                 float64           `json:"cr"`
	ECPC               float64           `json:"ecpc"`
	EPC                float64           `json:"epc"`
	Actions            []ProgramAction   `json:"actions"`
	ActionsDetail      []ActionDetail    `json:"actions_detail,omitempty"`
	Categories         []ProgramCategory `json:"categories"`
	Regions            []string          `json:"regions"`
	ActionCountries    []string          `json:"action_countries"`
	ProductsXMLLink    string            `json:"products_xml_link,omitempty"`
	ProductsCSVLink    string            `json:"products_csv_link,omitempty"`
}

// Connection statuses of a program for a website.
const (
	ConnectionActive   = "active"
	ConnectionPending  = "pending"
	ConnectionDeclined = "declined"
)

// Tool filters.
const (
	ToolDeeplink = "deeplink"
	ToolProducts = "products"
	ToolRetag    = "retag"
)

// ProgramsQuery filters ProgramsService.List.
type ProgramsQuery struct {
	Pagination
	// Language of category names.
	Language string
	// Website restricts results to programs moderated for that website.
	Website int64
	HasTool string
	Traffic int64
}

func (q ProgramsQuery) values() (url.Values, error) {
	if err := q.Pagination.validate(); err != nil {
		return nil, err
	}
	v := url.Values{}
	q.Pagination.apply(v)
	if q.Language != "" {
		v.Set("language", q.Language)
	}
	if q.Website != 0 {
		v.Set("website", strconv.FormatInt(q.Website, 10))
	}
	if q.HasTool != "" {
		v.Set("has_tool", q.HasTool)
	}
	if q.Traffic != 0 {
		v.Set("traffic_id", strconv.FormatInt(q.Traffic, 10))
	}
	return v, nil
}

// WebsiteProgramsQuery filters ProgramsService.ListForWebsite.
type WebsiteProgramsQuery struct {
	Pagination
	ConnectionStatus string
	HasTool          string
}

func (q WebsiteProgramsQuery) values() (url.Values, error) {
	if err := q.Pagination.validate(); err != nil {
		return nil, err
	}
	v := url.Values{}
	q.Pagination.apply(v)
	if q.ConnectionStatus != "" {
		v.Set("connection_status", q.ConnectionStatus)
	}
	if q.HasTool != "" {
		v.Set("has_tool", q.HasTool)
	}
	return v, nil
}

// ProgramsService lists affiliate programs.
//
// Scopes: advcampaigns, advcampaigns_for_website.
type ProgramsService struct {
	get Getter
}

// List returns a page of all programs.
func (s *ProgramsService) List(ctx context.Context, q ProgramsQuery) (*Paginated[Program], error) {
	v, err := q.values()
	if err != nil {
		return nil, err
	}
	var page Paginated[Program]
	if err := s.get.Get(ctx, "/advcampaigns/", v, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns one program.
func (s *ProgramsService) Get(ctx context.Context, id int64) (*Program, error) {
	var p Program
	if err := s.get.Get(ctx, fmt.Sprintf("/advcampaigns/%d/", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListForWebsite returns a page of programs for a website.
func (s *ProgramsService) ListForWebsite(ctx context.Context, websiteID int64, q WebsiteProgramsQuery) (*Paginated[Program], error) {
	v, err := q.values()
	if err != nil {
		return nil, err
	}
	var page Paginated[Program]
	if err := s.get.Get(ctx, fmt.Sprintf("/advcampaigns/website/%d/", websiteID), v, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetForWebsite returns one program as seen by a website.
func (s *ProgramsService) GetForWebsite(ctx context.Context, campaignID, websiteID int64) (*Program, error) {
	var p Program
	if err := s.get.Get(ctx, fmt.Sprintf("/advcampaigns/%d/website/%d/", campaignID, websiteID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Diff compares two program lists by ID.
func (s *ProgramsService) Diff(previous, current []Program, fields ...DiffField) Diff[Program] {
	return DiffByID(previous, current, func(p Program) int64 { return p.ID }, fields...)
}
