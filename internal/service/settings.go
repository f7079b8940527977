package service

import (
	"context"

	"github.com/atinyakov/cardmaster/internal/models"
)

// SiteSettings is the branding shown in the page header.
type SiteSettings struct {
	SiteName string `json:"siteName"`
	SiteLogo string `json:"siteLogo"`
}

// SiteSettings returns the current branding.
func (s *State) SiteSettings() SiteSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SiteSettings{SiteName: s.siteName, SiteLogo: s.siteLogo}
}

// UpdateSiteSettings replaces the branding. Only admins may change it.
func (s *State) UpdateSiteSettings(ctx context.Context, actor models.User, in SiteSettings) (SiteSettings, error) {
	if !canEditSettings(actor) {
		return SiteSettings{}, ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.siteName = in.SiteName
	s.siteLogo = in.SiteLogo
	s.flush(ctx)
	return in, nil
}
