// Package listing holds the per-page list state: the filter a page is showing,
// and the controller that turns filter changes into debounced fetches.
package listing

import (
	"maps"
	"net/url"
	"strings"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
)

// TabAll is the tab that applies no status filter.
const TabAll = "all"

// Debounce classes. Pages with free-text search wait longer before fetching.
const (
	DebounceSearch = iota
	DebounceSimple
)

// Tab is one status tab on a list page.
type Tab struct {
	Value string
	Label string
}

// ResourceSpec describes how a resource's list page is filtered.
type ResourceSpec struct {
	Resource   domain.Resource
	Title      string
	Tabs       []Tab
	DefaultTab string
	Debounce   int
	// Searchable pages show a search box.
	Searchable bool
	// LocalSearch resources have no upstream search and are filtered here.
	LocalSearch bool
	// TabAsStatus sends the tab as status even when it is "all".
	TabAsStatus bool
	// Extras are the additional query params the page accepts.
	Extras []string
}

func statusTabs(values ...string) []Tab {
	tabs := make([]Tab, 0, len(values))
	for _, v := range values {
		tabs = append(tabs, Tab{Value: v, Label: tabLabel(v)})
	}
	return tabs
}

func tabLabel(v string) string {
	s := strings.ReplaceAll(v, "_", " ")
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Specs is the list configuration of every resource page.
var Specs = map[domain.Resource]ResourceSpec{
	domain.ResourceResidents: {
		Resource: domain.ResourceResidents, Title: "Residents",
		Tabs:       statusTabs(TabAll, "pending", "approved", "suspended"),
		DefaultTab: TabAll, Debounce: DebounceSearch, Searchable: true,
	},
	domain.ResourceVehicles: {
		Resource: domain.ResourceVehicles, Title: "All Vehicles",
		DefaultTab: TabAll, Debounce: DebounceSearch, Searchable: true, LocalSearch: true,
	},
	domain.ResourceVehicleRequests: {
		Resource: domain.ResourceVehicleRequests, Title: "Vehicle Requests",
		Tabs:       statusTabs("pending", "approved", "rejected", TabAll),
		DefaultTab: "pending", Debounce: DebounceSimple,
	},
	domain.ResourceComplaints: {
		Resource: domain.ResourceComplaints, Title: "Complaints",
		Tabs:       statusTabs(TabAll, "pending", "in_progress", "resolved", "rejected"),
		DefaultTab: TabAll, Debounce: DebounceSearch, Searchable: true,
	},
	domain.ResourcePayments: {
		Resource: domain.ResourcePayments, Title: "Payments",
		Tabs:       statusTabs(TabAll, "pending", "submitted", "approved", "rejected"),
		DefaultTab: TabAll, Debounce: DebounceSearch, Searchable: true,
		Extras: []string{"month", "year", "sort"},
	},
	domain.ResourceDigitalCards: {
		Resource: domain.ResourceDigitalCards, Title: "Digital Cards",
		Tabs:       statusTabs(TabAll, "pending", "approved", "rejected", "suspended"),
		DefaultTab: TabAll, Debounce: DebounceSearch, Searchable: true,
	},
	domain.ResourceGuestRequests: {
		Resource: domain.ResourceGuestRequests, Title: "Guest Requests",
		Tabs:       statusTabs(TabAll, "pending", "approved", "rejected", "expired"),
		DefaultTab: TabAll, Debounce: DebounceSearch, Searchable: true,
	},
	domain.ResourceDeals: {
		Resource: domain.ResourceDeals, Title: "Deals & Discounts",
		Tabs:       statusTabs(TabAll, "active", "inactive"),
		DefaultTab: TabAll, Debounce: DebounceSimple, Searchable: true, LocalSearch: true,
		TabAsStatus: true, Extras: []string{"category"},
	},
	domain.ResourceDealCategories: {
		Resource: domain.ResourceDealCategories, Title: "Deal Categories",
		DefaultTab: TabAll, Debounce: DebounceSimple,
	},
	domain.ResourceAnnouncements: {
		Resource: domain.ResourceAnnouncements, Title: "Announcements",
		DefaultTab: TabAll, Debounce: DebounceSimple,
	},
	// Coupons are listed per deal; the deal param selects which.
	domain.ResourceCoupons: {
		Resource: domain.ResourceCoupons, Title: "Coupons",
		DefaultTab: TabAll, Debounce: DebounceSimple, Searchable: true, LocalSearch: true,
		Extras: []string{"deal"},
	},
}

// SpecFor returns the list configuration for r.
func SpecFor(r domain.Resource) (ResourceSpec, bool) {
	spec, ok := Specs[r]
	return spec, ok
}

// HasTab reports whether v is one of the spec's tabs.
func (s ResourceSpec) HasTab(v string) bool {
	if len(s.Tabs) == 0 {
		return v == s.DefaultTab
	}
	for _, t := range s.Tabs {
		if t.Value == v {
			return true
		}
	}
	return false
}

func (s ResourceSpec) allowsExtra(name string) bool {
	for _, e := range s.Extras {
		if e == name {
			return true
		}
	}
	return false
}

// Filter is what a list page is currently asking for.
type Filter struct {
	Tab    string
	Search string
	Params map[string]string
}

// DefaultFilter is the filter a page shows with no query string.
func DefaultFilter(spec ResourceSpec) Filter {
	return Filter{Tab: spec.DefaultTab}
}

// FilterFromQuery reads a filter from a page URL. Unknown tabs fall back to
// the default and unknown params are ignored; absence is never an error.
func FilterFromQuery(spec ResourceSpec, q url.Values) Filter {
	f := DefaultFilter(spec)
	if tab := q.Get("tab"); tab != "" && spec.HasTab(tab) {
		f.Tab = tab
	}
	if spec.Searchable {
		f.Search = strings.TrimSpace(q.Get("search"))
	}
	for _, name := range spec.Extras {
		if v := strings.TrimSpace(q.Get(name)); v != "" {
			if f.Params == nil {
				f.Params = make(map[string]string)
			}
			f.Params[name] = v
		}
	}
	return f
}

// With returns a copy of f with the named extra param set (or cleared when
// value is empty). Params the spec does not allow are ignored.
func (f Filter) With(spec ResourceSpec, name, value string) Filter {
	if !spec.allowsExtra(name) {
		return f
	}
	out := f.clone()
	if value == "" {
		delete(out.Params, name)
		return out
	}
	if out.Params == nil {
		out.Params = make(map[string]string)
	}
	out.Params[name] = value
	return out
}

// Param returns the extra param name, or "".
func (f Filter) Param(name string) string {
	return f.Params[name]
}

// Equal reports whether two filters ask for the same thing.
func (f Filter) Equal(o Filter) bool {
	if f.Tab != o.Tab || f.Search != o.Search || len(f.Params) != len(o.Params) {
		return false
	}
	for k, v := range f.Params {
		if ov, ok := o.Params[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// displayParams change how fetched records are shown, never what is fetched.
var displayParams = map[string]bool{"sort": true}

// SameFetch reports whether f and o differ at most in display-only params, so
// records fetched for one can be re-prepared for the other.
func (f Filter) SameFetch(o Filter) bool {
	if f.Tab != o.Tab || f.Search != o.Search {
		return false
	}
	for k, v := range f.Params {
		if !displayParams[k] && o.Params[k] != v {
			return false
		}
	}
	for k, v := range o.Params {
		if !displayParams[k] && f.Params[k] != v {
			return false
		}
	}
	return true
}

func (f Filter) clone() Filter {
	out := f
	if f.Params != nil {
		out.Params = maps.Clone(f.Params)
	}
	return out
}

// Query is the canonical page URL query for f.
func (f Filter) Query(spec ResourceSpec) url.Values {
	q := url.Values{}
	if f.Tab != "" && f.Tab != spec.DefaultTab {
		q.Set("tab", f.Tab)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	for k, v := range f.Params {
		q.Set(k, v)
	}
	return q
}

// URL is the page path with f's query. Coupon pages live under their deal.
func (f Filter) URL(spec ResourceSpec) string {
	path := "/" + string(spec.Resource)
	q := f.Query(spec)
	if deal := f.Param("deal"); spec.Resource == domain.ResourceCoupons && deal != "" {
		path = "/deals/" + url.PathEscape(deal) + "/coupons"
		q.Del("deal")
	}
	if q := q.Encode(); q != "" {
		return path + "?" + q
	}
	return path
}

// WithTab returns the page URL for f switched to tab.
func (f Filter) WithTab(spec ResourceSpec, tab string) string {
	out := f.clone()
	out.Tab = tab
	return out.URL(spec)
}

// APIParams maps f to the upstream list query. Status is omitted for the
// "all" tab unless the resource sends its tab verbatim; search is omitted when
// empty or handled locally; display-only params such as sort are dropped.
func (f Filter) APIParams(spec ResourceSpec) url.Values {
	q := url.Values{}
	if len(spec.Tabs) > 0 && (spec.TabAsStatus || f.Tab != TabAll) {
		q.Set("status", f.Tab)
	}
	if f.Search != "" && !spec.LocalSearch {
		q.Set("search", f.Search)
	}
	for k, v := range f.Params {
		if displayParams[k] || v == "" || v == TabAll {
			continue
		}
		q.Set(k, v)
	}
	return q
}
