package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/listing"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/societyapi"
)

// ErrNoRecordEndpoint is returned by GetRecord for resources the API only
// exposes as lists. Callers look the record up in a list instead.
var ErrNoRecordEndpoint = errors.New("no single-record endpoint")

// FetchRecords loads one list page for f and applies the same local search,
// sort and expiry filtering the console lists use.
func FetchRecords(ctx context.Context, client *societyapi.Client, resource domain.Resource, f listing.Filter) ([]domain.Record, error) {
	spec, ok := listing.SpecFor(resource)
	if !ok {
		return nil, domain.ErrUnknownResource
	}
	q := f.APIParams(spec)

	switch resource {
	case domain.ResourceResidents:
		return prepared(f, listing.RecordPrepare[domain.Resident])(client.ListResidents(ctx, q))
	case domain.ResourceVehicles:
		return prepared(f, listing.RecordPrepare[domain.Vehicle])(client.ListVehicles(ctx))
	case domain.ResourceVehicleRequests:
		return prepared(f, listing.RecordPrepare[domain.VehicleRequest])(client.ListVehicleRequests(ctx, q))
	case domain.ResourceComplaints:
		return prepared(f, listing.RecordPrepare[domain.Complaint])(client.ListComplaints(ctx, q))
	case domain.ResourcePayments:
		return prepared(f, listing.PaymentPrepare)(client.ListPayments(ctx, q))
	case domain.ResourceDigitalCards:
		return prepared(f, listing.RecordPrepare[domain.DigitalCard])(client.ListCards(ctx, q))
	case domain.ResourceGuestRequests:
		return prepared(f, listing.GuestPrepare)(client.ListGuestRequests(ctx, q))
	case domain.ResourceDeals:
		return prepared(f, listing.RecordPrepare[domain.Deal])(client.ListDeals(ctx, q))
	case domain.ResourceDealCategories:
		return prepared(f, listing.RecordPrepare[domain.DealCategory])(client.ListCategories(ctx, q))
	case domain.ResourceAnnouncements:
		return prepared(f, listing.RecordPrepare[domain.Announcement])(client.ListAnnouncements(ctx, q))
	case domain.ResourceCoupons:
		deal := f.Param("deal")
		if deal == "" {
			return nil, fmt.Errorf("%w: coupons are listed per deal", domain.ErrInvalidInput)
		}
		return prepared(f, listing.RecordPrepare[domain.Coupon])(client.ListCoupons(ctx, deal))
	}
	return nil, domain.ErrUnknownResource
}

func prepared[T domain.Record](f listing.Filter, prepare func(listing.Filter, []T) []T) func([]T, error) ([]domain.Record, error) {
	return func(items []T, err error) ([]domain.Record, error) {
		if err != nil {
			return nil, err
		}
		items = prepare(f, items)
		out := make([]domain.Record, len(items))
		for i, item := range items {
			out[i] = item
		}
		return out, nil
	}
}

// GetRecord loads one record. Residents come with their vehicles as related
// records.
func GetRecord(ctx context.Context, client *societyapi.Client, resource domain.Resource, id string) (domain.Record, []domain.Record, error) {
	switch resource {
	case domain.ResourceResidents:
		d, err := client.GetResident(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		related := make([]domain.Record, len(d.Vehicles))
		for i, v := range d.Vehicles {
			related[i] = v
		}
		return d.User, related, nil
	case domain.ResourceComplaints:
		return one(client.GetComplaint(ctx, id))
	case domain.ResourcePayments:
		return one(client.GetPayment(ctx, id))
	case domain.ResourceDigitalCards:
		return one(client.GetCard(ctx, id))
	case domain.ResourceGuestRequests:
		return one(client.GetGuestRequest(ctx, id))
	case domain.ResourceDeals:
		return one(client.GetDeal(ctx, id))
	case domain.ResourceDealCategories:
		return one(client.GetCategory(ctx, id))
	case domain.ResourceCoupons:
		return one(client.GetCoupon(ctx, id))
	case domain.ResourceVehicles, domain.ResourceVehicleRequests, domain.ResourceAnnouncements:
		return nil, nil, fmt.Errorf("%s: %w", resource, ErrNoRecordEndpoint)
	}
	return nil, nil, domain.ErrUnknownResource
}

func one[T domain.Record](rec *T, err error) (domain.Record, []domain.Record, error) {
	if err != nil {
		return nil, nil, err
	}
	return *rec, nil, nil
}
