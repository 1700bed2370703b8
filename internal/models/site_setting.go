package models

import "time"

// SiteSetting represents a single configuration key-value pair.
type SiteSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Well-known setting keys consumed by the frontend for SEO structured
// data and analytics wiring.
const (
	SettingSiteName     = "site_name"
	SettingSiteTagline  = "site_tagline"
	SettingSiteURL      = "site_url"
	SettingAnalyticsID  = "analytics_id"
	SettingTwitterURL   = "twitter_url"
	SettingLinkedInURL  = "linkedin_url"
	SettingContactEmail = "contact_email"
)

// SiteSettings is a convenience map for accessing settings by key.
type SiteSettings map[string]string

// Get returns the value for a key, or the fallback if the key doesn't exist.
func (s SiteSettings) Get(key, fallback string) string {
	if v, ok := s[key]; ok && v != "" {
		return v
	}
	return fallback
}
