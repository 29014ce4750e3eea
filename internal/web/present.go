package web

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/service"
)

// Card is a record as the list and detail pages show it.
type Card struct {
	Resource domain.Resource
	ID       string
	Title    string
	Subtitle string
	Status   string
	ImageURL string
	// Summary is shown on the list; Details only on the detail page.
	Summary []Field
	Details []Field
	Images  []Field
	Actions []ActionLink
}

// Field is a labelled value. For images Value is the URL.
type Field struct {
	Label string
	Value string
}

// ActionLink is a button on a card.
type ActionLink struct {
	Action domain.Action
	Label  string
	URL    string
	// Dialog links open the action dialog rather than navigating.
	Dialog bool
	Danger bool
}

const dateLayout = "Jan 2, 2006"

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "N/A"
	}
	return t.Format(dateLayout)
}

func fields(pairs ...string) []Field {
	out := make([]Field, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		out = append(out, Field{Label: pairs[i], Value: pairs[i+1]})
	}
	return out
}

func ownerName(u *domain.UserRef, fallback string) string {
	if u != nil && u.FullName != "" {
		return u.FullName
	}
	if fallback != "" {
		return fallback
	}
	return "Unknown"
}

func ownerField(u *domain.UserRef, get func(*domain.UserRef) string) string {
	if u == nil {
		return ""
	}
	return get(u)
}

func imageURL(img *domain.Image) string {
	if img == nil {
		return ""
	}
	return img.URL
}

func couponsURL(dealID string) string {
	return "/deals/" + url.PathEscape(dealID) + "/coupons"
}

func recordPath(resource domain.Resource, id string) string {
	return "/" + string(resource) + "/" + url.PathEscape(id)
}

// actionLinks maps a record's actions to buttons.
func actionLinks(resource domain.Resource, id string, actions []domain.Action) []ActionLink {
	links := make([]ActionLink, 0, len(actions))
	for _, a := range actions {
		link := ActionLink{Action: a, Label: service.ActionLabel(a)}
		switch a {
		case domain.ActionView:
			link.URL = recordPath(resource, id)
		case domain.ActionCoupons:
			link.URL = couponsURL(id)
		default:
			link.URL = recordPath(resource, id) + "/" + string(a)
			link.Dialog = true
			link.Danger = a == domain.ActionDelete || a == domain.ActionReject || a == domain.ActionSuspend
		}
		links = append(links, link)
	}
	return links
}

// present builds the card for any record the console lists.
func present(resource domain.Resource, r domain.Record, now time.Time) Card {
	c := Card{
		Resource: resource,
		ID:       r.RecordID(),
		Status:   r.StatusLabel(now),
		Actions:  actionLinks(resource, r.RecordID(), r.Actions(now)),
	}
	switch v := r.(type) {
	case domain.Resident:
		c.Title, c.Subtitle = v.FullName, v.CNIC
		c.ImageURL = v.ProfileURL()
		c.Summary = fields("House", v.HouseNumber, "Phone", v.PhoneNumber, "Email", v.Email)
		c.Details = fields("Ownership", v.OwnershipStatus, "Registered", formatDate(&v.CreatedAt),
			"Rejection reason", v.RejectionReason, "Suspension reason", v.SuspensionReason)
		c.Images = fields("CNIC front", imageURL(v.CNICFront), "CNIC back", imageURL(v.CNICBack))
	case domain.Vehicle:
		c.Title, c.Subtitle = v.PlateNumber, v.Make+" "+v.Model
		c.ImageURL = imageURL(v.VehicleImage)
		c.Summary = fields("Owner", ownerName(v.Owner, ""), "Type", v.Type, "Color", v.Color,
			"House", ownerField(v.Owner, func(u *domain.UserRef) string { return u.HouseNumber }))
		c.Details = fields("Owner CNIC", ownerField(v.Owner, func(u *domain.UserRef) string { return u.CNIC }),
			"Registered", formatDate(&v.CreatedAt))
		c.Images = fields("Registration", imageURL(v.RegistrationImage), "Vehicle", imageURL(v.VehicleImage))
	case domain.VehicleRequest:
		d := v.RequestedData
		c.Title = fmt.Sprintf("%s vehicle: %s", tabTitle(v.RequestType), d.PlateNumber)
		c.Subtitle = ownerName(v.Owner, "")
		c.ImageURL = imageURL(d.VehicleImage)
		c.Summary = fields("Vehicle", d.Make+" "+d.Model, "Color", d.Color, "Type", d.Type,
			"Requested", formatDate(&v.CreatedAt))
		c.Details = fields("Reviewed", formatDate(v.ReviewedAt), "Rejection reason", v.RejectionReason)
		c.Images = fields("Registration", imageURL(d.RegistrationImage), "Vehicle", imageURL(d.VehicleImage))
	case domain.Complaint:
		c.Title = v.ComplaintNumber + " " + tabTitle(v.ComplaintType)
		c.Subtitle = ownerName(v.Owner, v.UserName)
		c.Summary = fields("Priority", v.Priority, "CNIC", v.UserCNIC, "Filed", formatDate(&v.CreatedAt))
		c.Details = fields("Description", v.Description, "Admin response", v.AdminResponse)
	case domain.Payment:
		c.Title = v.MonthDisplay
		if c.Title == "" {
			c.Title = fmt.Sprintf("%02d/%d", v.MonthNumber, v.Year)
		}
		c.Subtitle = ownerName(v.Owner, "")
		c.Summary = fields("Amount", "Rs. "+v.Amount.StringFixed(0), "Transaction", v.TransactionID,
			"House", ownerField(v.Owner, func(u *domain.UserRef) string { return u.HouseNumber }))
		c.Details = fields("Due", formatDate(v.DueDate), "Paid", formatDate(v.PaidDate),
			"Submitted", formatDate(v.SubmittedAt), "Remarks", v.Remarks, "Rejection reason", v.RejectionReason)
		c.Images = fields("Payment proof", imageURL(v.PaymentProof))
	case domain.DigitalCard:
		c.Title, c.Subtitle = v.CardNumber, ownerName(v.Owner, "")
		c.ImageURL = v.Owner.ProfileURL()
		c.Summary = fields("Issued", formatDate(v.IssuedDate), "Expires", formatDate(v.ExpiryDate),
			"CNIC", ownerField(v.Owner, func(u *domain.UserRef) string { return u.CNIC }))
		c.Details = fields("Printed", strconv.Itoa(v.PrintCount), "Last printed", formatDate(v.LastPrintedAt),
			"Rejection reason", v.RejectionReason, "Suspension reason", v.SuspensionReason)
	case domain.GuestRequest:
		c.Title, c.Subtitle = v.GuestName, v.VisitLabel()
		c.Summary = fields("Resident", ownerName(v.Owner, v.UserName), "House", v.UserHouseNumber,
			"Visit", formatDate(v.VisitDate), "Time", v.ExpectedTime)
		c.Details = fields("Guest mobile", v.GuestMobile, "Resident CNIC", v.UserCNIC,
			"Expires", formatDate(v.ExpiresAt), "Admin response", v.AdminResponse)
	case domain.Deal:
		c.Title, c.Subtitle = v.Name, v.Category
		c.ImageURL = imageURL(v.Image)
		featured := ""
		if v.IsFeatured {
			featured = "Yes"
		}
		c.Summary = fields("Discount", v.Discount, "Featured", featured, "Phone", v.Phone)
		c.Details = fields("Description", v.Description, "Address", v.Address)
	case domain.DealCategory:
		c.Title, c.Subtitle = v.Name, v.Icon
		c.Summary = fields("Order", strconv.Itoa(v.Order), "Deals", strconv.Itoa(v.DealCount))
	case domain.Coupon:
		c.Title, c.Subtitle = v.Code, v.Discount
		c.Summary = fields("Usage", v.UsageType, "Used", strconv.Itoa(v.UsedCount),
			"Valid till", formatDate(v.ValidTill))
		c.Details = fields("Description", v.Description, "Valid from", formatDate(v.ValidFrom))
	case domain.Announcement:
		c.Title, c.Subtitle = v.Title, tabTitle(v.Type)
		c.Summary = fields("Posted", formatDate(&v.CreatedAt),
			"Read", fmt.Sprintf("%d of %d", v.ReadCount, v.UserCount))
		c.Details = fields("Message", v.Message)
	}
	return c
}
