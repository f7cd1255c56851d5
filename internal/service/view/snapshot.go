package view

import (
	"fmt"

	"zerde-web/internal/domain"
)

// Snapshot is the render model of one page at one moment.
type Snapshot struct {
	Page   *Page
	Tab    Tab
	Days   int
	Status Status
	Err    error

	ModuleZh string
	Icon     string
	Hero     *domain.Item
	Items    []domain.Item
	Total    int
	Empty    bool

	Selected    *domain.Item
	OverlayOpen bool
}

// Title prefers the localized module name from the API on generic pages.
func (s Snapshot) Title() string {
	if !s.Page.Tabbed() && s.ModuleZh != "" {
		return s.ModuleZh
	}
	return s.Page.Title
}

func (s Snapshot) Subtitle() string {
	switch s.Status {
	case StatusLoading, StatusIdle:
		return "Loading..."
	case StatusFailed:
		return "Error"
	}
	if s.Total > 0 {
		return fmt.Sprintf("%d %s", s.Total, s.Tab.Unit)
	}
	if s.Page.Tagline != "" {
		return s.Page.Tagline
	}
	return fmt.Sprintf("0 %s", s.Tab.Unit)
}

// ShowHero and ShowList are false on the empty state.
func (s Snapshot) ShowHero() bool { return s.Status == StatusLoaded && s.Hero != nil }

func (s Snapshot) ShowList() bool { return s.Status == StatusLoaded && len(s.Items) > 0 }
