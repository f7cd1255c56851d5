// Package view holds the per-page interaction state: active tab, date range
// and the item selected for the detail overlay. Load status is not stored
// here; it is projected from the query cache.
package view

import (
	"errors"
	"fmt"

	"zerde-web/internal/domain"
	"zerde-web/internal/service/querycache"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// StatusOf projects a cache state onto the page status.
func StatusOf(s querycache.State) Status {
	switch s.Status {
	case querycache.StatusLoading:
		return StatusLoading
	case querycache.StatusSuccess:
		return StatusLoaded
	case querycache.StatusError:
		return StatusFailed
	default:
		return StatusIdle
	}
}

// Datasets maps a module name to its cache state.
type Datasets map[string]querycache.State

// State is the orthogonal interaction state of one page.
type State struct {
	Days      int
	ActiveTab string
	Selected  *domain.Item
}

type Machine struct {
	page  *Page
	state State
}

func NewMachine(page *Page) *Machine {
	return &Machine{
		page: page,
		state: State{
			Days:      DefaultDays,
			ActiveTab: page.DefaultTab().ID,
		},
	}
}

func (m *Machine) Page() *Page { return m.page }

func (m *Machine) State() State { return m.state }

// OverlayOpen is true exactly when an item is selected.
func (m *Machine) OverlayOpen() bool { return m.state.Selected != nil }

// ActiveTab returns the tab currently shown.
func (m *Machine) ActiveTab() Tab {
	t, _ := m.page.Tab(m.state.ActiveTab)
	return t
}

// SetDays ignores values outside the date filter options.
func (m *Machine) SetDays(d int) bool {
	if !ValidDays(d) {
		return false
	}
	m.state.Days = d
	return true
}

// SwitchTab changes which cached dataset is projected. Unknown ids are ignored.
func (m *Machine) SwitchTab(id string) bool {
	if _, ok := m.page.Tab(id); !ok {
		return false
	}
	m.state.ActiveTab = id
	return true
}

func (m *Machine) Select(item domain.Item) {
	domain.Annotate(&item)
	m.state.Selected = &item
}

// SelectByID opens the overlay on an item found in any dataset of the page.
func (m *Machine) SelectByID(id string, data Datasets) bool {
	for _, module := range m.page.Modules() {
		detail, ok := querycache.As[*domain.ModuleDetail](data[module])
		if !ok {
			continue
		}
		if item, found := detail.Find(id); found {
			m.Select(*item)
			return true
		}
	}
	return false
}

func (m *Machine) Close() {
	m.state.Selected = nil
}

// Arrive applies a one-shot handoff: the overlay opens on the carried item
// and the tab is chosen by classifying it.
func (m *Machine) Arrive(h *domain.Handoff) bool {
	if h == nil || h.Item.ID == "" {
		return false
	}
	m.Select(h.Item)
	m.state.ActiveTab = m.page.TabFor(m.state.Selected)
	return true
}

// DaysFor is the day range used to key a tab's dataset.
func (m *Machine) DaysFor(t Tab) int {
	if t.UsesDays {
		return m.state.Days
	}
	return DefaultDays
}

// Keys lists the cache keys of every dataset the page shows, so they can
// be loaded together and tabs switch without another fetch.
func (m *Machine) Keys() map[string]querycache.Key {
	keys := make(map[string]querycache.Key, len(m.page.Tabs))
	for _, t := range m.page.Tabs {
		if _, ok := keys[t.Module]; ok {
			continue
		}
		keys[t.Module] = querycache.ModuleKey(t.Module, m.DaysFor(t))
	}
	return keys
}

var errUnexpectedData = errors.New("unexpected dataset type")

// Snapshot derives what the page renders from the cached datasets.
func (m *Machine) Snapshot(data Datasets) Snapshot {
	tab := m.ActiveTab()
	state := data[tab.Module]

	snap := Snapshot{
		Page:        m.page,
		Tab:         tab,
		Days:        m.state.Days,
		Status:      StatusOf(state),
		Err:         state.Err,
		Selected:    m.state.Selected,
		OverlayOpen: m.OverlayOpen(),
	}
	if snap.Status != StatusLoaded {
		return snap
	}

	detail, ok := querycache.As[*domain.ModuleDetail](state)
	if !ok || detail == nil {
		snap.Status = StatusFailed
		snap.Err = fmt.Errorf("%w: %T", errUnexpectedData, state.Data)
		return snap
	}

	snap.ModuleZh = detail.ModuleZh
	snap.Icon = detail.Icon
	snap.Hero, snap.Items, snap.Total = project(detail, tab)
	if tab.Merge && snap.Hero != nil {
		snap.Items = append([]domain.Item{*snap.Hero}, snap.Items...)
		snap.Hero = nil
	}
	snap.Empty = snap.Hero == nil && len(snap.Items) == 0
	return snap
}

func project(detail *domain.ModuleDetail, tab Tab) (*domain.Item, []domain.Item, int) {
	if tab.Filter == nil {
		return detail.Hero, detail.Items, detail.Total
	}

	var filtered []domain.Item
	for idx := range detail.Items {
		if tab.Filter(&detail.Items[idx]) {
			filtered = append(filtered, detail.Items[idx])
		}
	}

	if detail.Hero != nil && tab.Filter(detail.Hero) {
		return detail.Hero, filtered, len(filtered)
	}
	if len(filtered) == 0 {
		return nil, nil, 0
	}
	hero := filtered[0]
	return &hero, filtered[1:], len(filtered)
}
