package web

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/listing"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/societyapi"
)

// lister is a list controller with its record type erased for rendering.
type lister interface {
	Spec() listing.ResourceSpec
	Notify(f listing.Filter) uint64
	Load(f listing.Filter) uint64
	Refresh() uint64
	Await(ctx context.Context, ticket uint64) (listView, error)
	View() listView
	Find(id string) (domain.Record, bool)
	Close()
}

// listView is a snapshot of a list ready for rendering.
type listView struct {
	Records   []domain.Record
	Filter    listing.Filter
	Requested listing.Filter
	Loading   bool
	Err       error
}

type typedList[T domain.Record] struct {
	spec listing.ResourceSpec
	ctl  *listing.Controller[T]
}

func (l *typedList[T]) Spec() listing.ResourceSpec     { return l.spec }
func (l *typedList[T]) Notify(f listing.Filter) uint64 { return l.ctl.Notify(f) }
func (l *typedList[T]) Load(f listing.Filter) uint64   { return l.ctl.Load(f) }
func (l *typedList[T]) Refresh() uint64                { return l.ctl.Refresh() }
func (l *typedList[T]) Close()                         { l.ctl.Close() }
func (l *typedList[T]) View() listView                 { return viewOf(l.ctl.Snapshot()) }
func (l *typedList[T]) Await(ctx context.Context, ticket uint64) (listView, error) {
	snap, err := l.ctl.Await(ctx, ticket)
	if err != nil {
		return listView{}, err
	}
	return viewOf(snap), nil
}

func (l *typedList[T]) Find(id string) (domain.Record, bool) {
	for _, item := range l.ctl.Snapshot().Items {
		if item.RecordID() == id {
			return item, true
		}
	}
	return nil, false
}

func viewOf[T domain.Record](snap listing.Snapshot[T]) listView {
	records := make([]domain.Record, len(snap.Items))
	for i, item := range snap.Items {
		records[i] = item
	}
	return listView{
		Records:   records,
		Filter:    snap.Filter,
		Requested: snap.Requested,
		Loading:   snap.Loading,
		Err:       snap.Err,
	}
}

// listSettings are the knobs shared by every list in a workspace.
type listSettings struct {
	searchDebounce time.Duration
	simpleDebounce time.Duration
	scheduler      listing.Scheduler
	log            logrus.FieldLogger
}

func newList[T domain.Record](resource domain.Resource, set listSettings, fetch listing.FetchFunc[T],
	prepare func(listing.Filter, []T) []T) *typedList[T] {
	spec, _ := listing.SpecFor(resource)
	debounce := set.searchDebounce
	if spec.Debounce == listing.DebounceSimple {
		debounce = set.simpleDebounce
	}
	if prepare == nil {
		prepare = listing.RecordPrepare[T]
	}
	log := set.log.WithField("resource", resource)
	return &typedList[T]{
		spec: spec,
		ctl: listing.NewController(fetch, listing.DefaultFilter(spec), listing.Options[T]{
			Name:      string(resource),
			Debounce:  debounce,
			Prepare:   prepare,
			Scheduler: set.scheduler,
			Logger:    log,
			OnError: func(err error) {
				log.WithError(err).Warn("list fetch failed")
			},
		}),
	}
}

// newLists wires one controller per list page to client.
func newLists(client *societyapi.Client, set listSettings) map[domain.Resource]lister {
	params := func(r domain.Resource, f listing.Filter) url.Values {
		spec, _ := listing.SpecFor(r)
		return f.APIParams(spec)
	}
	lists := map[domain.Resource]lister{
		domain.ResourceResidents: newList[domain.Resident](domain.ResourceResidents, set,
			func(ctx context.Context, f listing.Filter) ([]domain.Resident, error) {
				return client.ListResidents(ctx, params(domain.ResourceResidents, f))
			}, nil),
		domain.ResourceVehicles: newList[domain.Vehicle](domain.ResourceVehicles, set,
			func(ctx context.Context, _ listing.Filter) ([]domain.Vehicle, error) {
				return client.ListVehicles(ctx)
			}, nil),
		domain.ResourceVehicleRequests: newList[domain.VehicleRequest](domain.ResourceVehicleRequests, set,
			func(ctx context.Context, f listing.Filter) ([]domain.VehicleRequest, error) {
				return client.ListVehicleRequests(ctx, params(domain.ResourceVehicleRequests, f))
			}, nil),
		domain.ResourceComplaints: newList[domain.Complaint](domain.ResourceComplaints, set,
			func(ctx context.Context, f listing.Filter) ([]domain.Complaint, error) {
				return client.ListComplaints(ctx, params(domain.ResourceComplaints, f))
			}, nil),
		domain.ResourcePayments: newList[domain.Payment](domain.ResourcePayments, set,
			func(ctx context.Context, f listing.Filter) ([]domain.Payment, error) {
				return client.ListPayments(ctx, params(domain.ResourcePayments, f))
			}, listing.PaymentPrepare),
		domain.ResourceDigitalCards: newList[domain.DigitalCard](domain.ResourceDigitalCards, set,
			func(ctx context.Context, f listing.Filter) ([]domain.DigitalCard, error) {
				return client.ListCards(ctx, params(domain.ResourceDigitalCards, f))
			}, nil),
		domain.ResourceGuestRequests: newList[domain.GuestRequest](domain.ResourceGuestRequests, set,
			func(ctx context.Context, f listing.Filter) ([]domain.GuestRequest, error) {
				return client.ListGuestRequests(ctx, params(domain.ResourceGuestRequests, f))
			}, listing.GuestPrepare),
		domain.ResourceDeals: newList[domain.Deal](domain.ResourceDeals, set,
			func(ctx context.Context, f listing.Filter) ([]domain.Deal, error) {
				return client.ListDeals(ctx, params(domain.ResourceDeals, f))
			}, nil),
		domain.ResourceDealCategories: newList[domain.DealCategory](domain.ResourceDealCategories, set,
			func(ctx context.Context, f listing.Filter) ([]domain.DealCategory, error) {
				return client.ListCategories(ctx, params(domain.ResourceDealCategories, f))
			}, nil),
		domain.ResourceAnnouncements: newList[domain.Announcement](domain.ResourceAnnouncements, set,
			func(ctx context.Context, f listing.Filter) ([]domain.Announcement, error) {
				return client.ListAnnouncements(ctx, params(domain.ResourceAnnouncements, f))
			}, nil),
		domain.ResourceCoupons: newList[domain.Coupon](domain.ResourceCoupons, set,
			func(ctx context.Context, f listing.Filter) ([]domain.Coupon, error) {
				deal := f.Param("deal")
				if deal == "" {
					return []domain.Coupon{}, nil
				}
				return client.ListCoupons(ctx, deal)
			}, nil),
	}
	return lists
}

func tabTitle(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
