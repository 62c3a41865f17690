package collector

import (
	"net/url"
	"strings"

	"StockLens/internal/model"
)

const logoService = "https://logo.clearbit.com/"

// ResolveLogoURL returns the provider's logo when it has one, otherwise a
// logo service URL derived from the company website, otherwise "".
func ResolveLogoURL(p *model.CompanyProfile) string {
	if p == nil {
		return ""
	}
	if p.LogoURL != "" {
		return p.LogoURL
	}
	if domain := websiteDomain(p.Website); domain != "" {
		return logoService + domain
	}
	return ""
}

func websiteDomain(website string) string {
	website = strings.TrimSpace(website)
	if website == "" {
		return ""
	}
	if !strings.Contains(website, "://") {
		website = "https://" + website
	}
	u, err := url.Parse(website)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
