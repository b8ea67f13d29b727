package oauth

import "strings"

// Scope is an API access scope requested at authorization time.
type Scope string

const (
	ScopePublicData              Scope = "public_data"
	ScopeWebsites                Scope = "websites"
	ScopeManageWebsites          Scope = "manage_websites"
	ScopeAdvcampaigns            Scope = "advcampaigns"
	ScopeAdvcampaignsForWebsite  Scope = "advcampaigns_for_website"
	ScopeManageAdvcampaigns      Scope = "manage_advcampaigns"
	ScopeBanners                 Scope = "banners"
	ScopeBannersForWebsite       Scope = "banners_for_website"
	ScopeLandings                Scope = "landings"
	ScopeAnnouncements           Scope = "announcements"
	ScopeReferrals               Scope = "referrals"
	ScopeCoupons                 Scope = "coupons"
	ScopeCouponsForWebsite       Scope = "coupons_for_website"
	ScopePrivateData             Scope = "private_data"
	ScopePrivateDataEmail        Scope = "private_data_email"
	ScopePrivateDataPhone        Scope = "private_data_phone"
	ScopePrivateDataBalance      Scope = "private_data_balance"
	ScopeValidateLinks           Scope = "validate_links"
	ScopeDeeplinkGenerator       Scope = "deeplink_generator"
	ScopeStatistics              Scope = "statistics"
	ScopeOptCodes                Scope = "opt_codes"
	ScopeManageOptCodes          Scope = "manage_opt_codes"
	ScopeWebmasterRetag          Scope = "webmaster_retag"
	ScopeManageWebmasterRetag    Scope = "manage_webmaster_retag"
	ScopeBrokenLinks             Scope = "broken_links"
	ScopeManageBrokenLinks       Scope = "manage_broken_links"
	ScopeLostOrders              Scope = "lost_orders"
	ScopeManageLostOrders        Scope = "manage_lost_orders"
	ScopeBrokerApplication       Scope = "broker_application"
	ScopeManageBrokerApplication Scope = "manage_broker_application"
	ScopeAliexpressCommission    Scope = "aliexpress_commission"
	ScopeVendorTool              Scope = "vendor_tool"
	ScopeShortLink               Scope = "short_link"
	ScopeWebNotificator          Scope = "web_notificator"
)

// AllScopes lists every scope the API knows about.
var AllScopes = []Scope{
	ScopePublicData,
	ScopeWebsites,
	ScopeManageWebsites,
	ScopeAdvcampaigns,
	ScopeAdvcampaignsForWebsite,
	ScopeManageAdvcampaigns,
	ScopeBanners,
	ScopeBannersForWebsite,
	ScopeLandings,
	ScopeAnnouncements,
	ScopeReferrals,
	ScopeCoupons,
	ScopeCouponsForWebsite,
	ScopePrivateData,
	ScopePrivateDataEmail,
	ScopePrivateDataPhone,
	ScopePrivateDataBalance,
	ScopeValidateLinks,
	ScopeDeeplinkGenerator,
	ScopeStatistics,
	ScopeOptCodes,
	ScopeManageOptCodes,
	ScopeWebmasterRetag,
	ScopeManageWebmasterRetag,
	ScopeBrokenLinks,
	ScopeManageBrokenLinks,
	ScopeLostOrders,
	ScopeManageLostOrders,
	ScopeBrokerApplication,
	ScopeManageBrokerApplication,
	ScopeAliexpressCommission,
	ScopeVendorTool,
	ScopeShortLink,
	ScopeWebNotificator,
}

// JoinScopes builds the space-separated scope string sent to the API.
func JoinScopes(scopes ...Scope) string {
	parts := make([]string, len(scopes))
	for i, s := range scopes {
		parts[i] = string(s)
	}
	return strings.Join(parts, " ")
}

// AllScopesString is JoinScopes applied to AllScopes.
func AllScopesString() string {
	return JoinScopes(AllScopes...)
}
