package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
)

func TestStructReportsFormFieldNames(t *testing.T) {
	err := Struct(domain.AnnouncementInput{Title: "", Message: "Water off", Type: "party", Priority: "high"})
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.NotEmpty(t, verrs.For("title"))
	assert.NotEmpty(t, verrs.For("type"))
	assert.Empty(t, verrs.For("message"))
	assert.Empty(t, verrs.For("priority"))
}

func TestStructAcceptsValidInput(t *testing.T) {
	assert.NoError(t, Struct(domain.AnnouncementInput{
		Title: "Maintenance", Message: "Lift service on Friday", Type: "maintenance", Priority: "medium",
	}))
	assert.NoError(t, Struct(domain.CouponInput{
		Code: "SAVE10", Discount: "10%", UsageType: domain.UsageOneTime, ValidFrom: "2025-01-01",
	}))
}

func TestCouponInput(t *testing.T) {
	err := Struct(domain.CouponInput{Code: "save 10", Discount: "10%", UsageType: "forever", ValidTill: "next week"})
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.NotEmpty(t, verrs.For("code"))
	assert.NotEmpty(t, verrs.For("usageType"))
	assert.NotEmpty(t, verrs.For("validTill"))
}

func TestLogin(t *testing.T) {
	err := Login(domain.LoginInput{CNIC: "   ", Password: "x"})
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.For("cnicNumber"), "cannot be blank")
	require.Len(t, verrs, 1)
	assert.Equal(t, "notblank", verrs[0].Rule)

	assert.NoError(t, Login(domain.LoginInput{CNIC: "42201-1111111-1", Password: "x"}))
}

func TestReason(t *testing.T) {
	assert.ErrorIs(t, Reason(""), domain.ErrReasonRequired)
	assert.ErrorIs(t, Reason(" \t\n"), domain.ErrReasonRequired)
	assert.NoError(t, Reason("Documents unreadable"))
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.False(t, errs.HasErrors())
	assert.Nil(t, errs.Err())

	errs.Add("name", "required", "name is required")
	errs.Add("code", "alphanum", "code must be alphanumeric")
	assert.True(t, errs.HasErrors())
	assert.Equal(t, "name: name is required (and 1 more errors)", errs.Error())
	assert.Equal(t, "code must be alphanumeric", errs.For("code"))
}
