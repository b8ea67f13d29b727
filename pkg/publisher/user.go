package publisher

import "context"

// Profile is the authorized user's account.
type Profile struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name,omitempty"`
	Language        string `json:"language"`
	DefaultCurrency string `json:"default_currency"`
	Country         string `json:"country"`
	// Email requires the private_data_email scope.
	Email string `json:"email,omitempty"`
	// Phone requires the private_data_phone scope.
	Phone string `json:"phone,omitempty"`
}

// Balance is the balance in one currency.
type Balance struct {
	Currency string  `json:"currency"`
	Balance  float64 `json:"balance"`
}

// ExtendedBalance adds processing, today's and frozen funds to a Balance.
type ExtendedBalance struct {
	Balance
	Processing float64 `json:"processing"`
	Today      float64 `json:"today"`
	Stalled    float64 `json:"stalled"`
}

// PaymentSettings is one configured payout method.
type PaymentSettings struct {
	ID             int64   `json:"id"`
	PaymentSystem  string  `json:"payment_system"`
	Account        string  `json:"account"`
	Currency       string  `json:"currency"`
	IsDefault      bool    `json:"is_default"`
	ConversionRate float64 `json:"conversion_rate,omitempty"`
}

// UserService reads the authorized user's account.
//
// Scopes: private_data, private_data_email, private_data_phone,
// private_data_balance.
type UserService struct {
	get Getter
}

// Profile returns the user profile.
func (s *UserService) Profile(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := s.get.Get(ctx, "/me/", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Balance returns the balance per currency.
func (s *UserService) Balance(ctx context.Context) ([]Balance, error) {
	var b []Balance
	if err := s.get.Get(ctx, "/me/balance/", nil, &b); err != nil {
		return nil, err
	}
	return b, nil
}

// ExtendedBalance returns the balance per currency with processing and
// frozen funds.
func (s *UserService) ExtendedBalance(ctx context.Context) ([]ExtendedBalance, error) {
	var b []ExtendedBalance
	if err := s.get.Get(ctx, "/me/balance/extended/", nil, &b); err != nil {
		return nil, err
	}
	return b, nil
}

// PaymentSettings returns the configured payout methods.
func (s *UserService) PaymentSettings(ctx context.Context) ([]PaymentSettings, error) {
	var ps []PaymentSettings
	if err := s.get.Get(ctx, "/me/payment/settings/", nil, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}
