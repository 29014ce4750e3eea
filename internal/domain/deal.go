package domain

import (
	"time"
)

// Coupon usage types.
const (
	UsageOneTime   = "one-time"
	UsageMultiple  = "multiple"
	UsageUnlimited = "unlimited"
)

// DefaultCategoryIcon is used for categories created without an icon.
const DefaultCategoryIcon = "pricetag-outline"

// MaxDealImageSize is the largest deal image accepted for upload.
const MaxDealImageSize = 5 << 20

// Deal is a partner offer shown to residents.
type Deal struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Discount    string    `json:"discount,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	Image       *Image    `json:"image,omitempty"`
	IsFeatured  bool      `json:"isFeatured"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (d Deal) RecordID() string { return d.ID }

func (d Deal) StatusLabel(time.Time) string { return activeLabel(d.IsActive) }

func (d Deal) SearchFields() []string {
	return []string{d.Name, d.Category, d.Description, d.Address}
}

func (d Deal) Actions(time.Time) []Action {
	return []Action{ActionUpdate, ActionToggleFeatured, ActionToggleActive, ActionCoupons, ActionDelete}
}

// DealInput is the editable part of a deal. It is sent as a multipart form.
type DealInput struct {
	Name        string `form:"name" validate:"required,max=120"`
	Category    string `form:"category" validate:"required"`
	Description string `form:"description" validate:"required,max=2000"`
	Discount    string `form:"discount" validate:"max=60"`
	Phone       string `form:"phone" validate:"max=30"`
	Address     string `form:"address" validate:"max=300"`
	IsFeatured  bool   `form:"isFeatured"`
}

// Upload is a file attached to a multipart request.
type Upload struct {
	Filename string
	Data     []byte
}

// DealCategory groups deals.
type DealCategory struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Order     int    `json:"order"`
	IsActive  bool   `json:"isActive"`
	DealCount int    `json:"dealCount"`
}

func (c DealCategory) RecordID() string { return c.ID }

func (c DealCategory) StatusLabel(time.Time) string { return activeLabel(c.IsActive) }

func (c DealCategory) SearchFields() []string { return []string{c.Name} }

func (c DealCategory) Actions(time.Time) []Action {
	return []Action{ActionUpdate, ActionToggleActive, ActionDelete}
}

// DealCategoryInput is the body of a category create or update.
type DealCategoryInput struct {
	Name     string `json:"name" form:"name" validate:"required,max=60"`
	Icon     string `json:"icon" form:"icon" validate:"max=60"`
	Order    int    `json:"order" form:"order" validate:"gte=0"`
	IsActive bool   `json:"isActive" form:"isActive"`
}

// Coupon is a discount code attached to a deal.
type Coupon struct {
	ID              string     `json:"_id"`
	DealID          string     `json:"dealId,omitempty"`
	Code            string     `json:"code"`
	Description     string     `json:"description"`
	Discount        string     `json:"discount"`
	ValidFrom       *time.Time `json:"validFrom,omitempty"`
	ValidTill       *time.Time `json:"validTill,omitempty"`
	UsageType       string     `json:"usageType"`
	MaxUsagePerUser int        `json:"maxUsagePerUser"`
	TotalUsageLimit int        `json:"totalUsageLimit"`
	MinPurchase     float64    `json:"minPurchase"`
	UsedCount       int        `json:"usedCount"`
	IsActive        bool       `json:"isActive"`
}

func (c Coupon) RecordID() string { return c.ID }

func (c Coupon) StatusLabel(now time.Time) string {
	if c.ValidTill != nil && c.ValidTill.Before(now) {
		return "expired"
	}
	return activeLabel(c.IsActive)
}

func (c Coupon) SearchFields() []string { return []string{c.Code, c.Description} }

func (c Coupon) Actions(time.Time) []Action {
	return []Action{ActionUpdate, ActionToggleActive, ActionDelete}
}

// CouponInput is the body of a coupon create or update.
type CouponInput struct {
	Code            string  `json:"code" form:"code" validate:"required,alphanum,max=30"`
	Description     string  `json:"description" form:"description" validate:"max=500"`
	Discount        string  `json:"discount" form:"discount" validate:"required,max=60"`
	ValidFrom       string  `json:"validFrom,omitempty" form:"validFrom" validate:"omitempty,datetime=2006-01-02"`
	ValidTill       string  `json:"validTill,omitempty" form:"validTill" validate:"omitempty,datetime=2006-01-02"`
	UsageType       string  `json:"usageType" form:"usageType" validate:"required,oneof=one-time multiple unlimited"`
	MaxUsagePerUser int     `json:"maxUsagePerUser" form:"maxUsagePerUser" validate:"gte=0"`
	TotalUsageLimit int     `json:"totalUsageLimit" form:"totalUsageLimit" validate:"gte=0"`
	MinPurchase     float64 `json:"minPurchase" form:"minPurchase" validate:"gte=0"`
	IsActive        bool    `json:"isActive" form:"isActive"`
}

func activeLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}
