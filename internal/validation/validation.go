// Package validation checks admin form input before anything is sent to the
// society API.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

const notBlankTag = "notblank"

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report fields by their form name, falling back to the json name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	_ = validate.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = validate.RegisterTranslation(notBlankTag, translator,
		func(ut.Translator) error { return nil },
		func(_ ut.Translator, fe validator.FieldError) string {
			return fmt.Sprintf("%s cannot be blank", fe.Field())
		})
}

// Struct validates v against its validate tags. It returns ValidationErrors
// or nil.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating input: %w", err)
	}
	var out ValidationErrors
	for _, fe := range verrs {
		out.Add(fe.Field(), fe.Tag(), fe.Translate(translator))
	}
	return out
}

// Reason checks that a rejection or suspension reason was given.
func Reason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return domain.ErrReasonRequired
	}
	return nil
}

// Login validates the login form.
func Login(in domain.LoginInput) error {
	return Struct(in)
}
