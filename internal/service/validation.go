package service

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"storefront/internal/models"
)

// Address field names, as used in forms and error maps.
const (
	FieldFullName      = "fullName"
	FieldStreetAddress = "streetAddress"
	FieldApartment     = "apartment"
	FieldCity          = "city"
	FieldState         = "state"
	FieldZipCode       = "zipCode"
	FieldCountry       = "country"
	FieldPhone         = "phone"
)

// Payment field names.
const (
	FieldCardNumber  = "cardNumber"
	FieldCardName    = "cardName"
	FieldExpiryMonth = "expiryMonth"
	FieldExpiryYear  = "expiryYear"
	FieldCVV         = "cvv"
)

// BillingPrefix namespaces billing-address errors in the shared error map.
const BillingPrefix = "billing_"

const (
	msgRequired     = "This field is required"
	msgPhone        = "Please enter a valid 10-digit phone number"
	msgZip          = "Please enter a valid ZIP code (e.g., 12345 or 12345-6789)"
	msgCardNumber   = "Please enter a valid 16-digit card number"
	msgCardName     = "Please enter the name on your card"
	msgExpiry       = "Required"
	msgCVV          = "Please enter a valid 3 or 4 digit CVV"
	cardNumberWidth = 19
)

var (
	zipPattern        = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	cvvPattern        = regexp.MustCompile(`^\d{3,4}$`)
	cardDigitsPattern = regexp.MustCompile(`^\d{16}$`)
)

var requiredAddressFields = []string{
	FieldFullName, FieldStreetAddress, FieldCity, FieldState, FieldZipCode, FieldPhone,
}

// FieldErrors maps a field name to its message. A missing key means the
// field is valid.
type FieldErrors map[string]string

// Fields returns the offending field names in sorted order.
func (fe FieldErrors) Fields() []string {
	names := make([]string, 0, len(fe))
	for k := range fe {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ValidationError blocks a stage transition.
type ValidationError struct {
	Stage  Stage
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s form invalid: %s", e.Stage, strings.Join(e.Fields.Fields(), ", "))
}

// AddressForm is the address-stage form state.
type AddressForm struct {
	Shipping       models.Address `json:"shipping"`
	Billing        models.Address `json:"billing"`
	SameAsShipping bool           `json:"sameAsShipping"`
}

// NewAddressForm returns blank addresses with billing same as shipping.
func NewAddressForm() AddressForm {
	return AddressForm{
		Shipping:       models.NewAddress(),
		Billing:        models.NewAddress(),
		SameAsShipping: true,
	}
}

// BillingAddress is the address billed: shipping unless opted out.
func (f AddressForm) BillingAddress() models.Address {
	if f.SameAsShipping {
		return f.Shipping
	}
	return f.Billing
}

// ValidateAddress checks one address. Error keys are prefixed with prefix.
// Required fields only reject the empty string; whitespace counts as a
// value.
func ValidateAddress(a models.Address, prefix string) FieldErrors {
	errs := FieldErrors{}

	for _, field := range requiredAddressFields {
		if v, _ := addressField(a, field); v == "" {
			errs[prefix+field] = msgRequired
		}
	}

	if a.Phone != "" && len(DigitsOnly(a.Phone)) != 10 {
		errs[prefix+FieldPhone] = msgPhone
	}

	if a.ZipCode != "" && !zipPattern.MatchString(a.ZipCode) {
		errs[prefix+FieldZipCode] = msgZip
	}

	return errs
}

// ValidateAddressForm validates shipping, and billing when it differs.
func ValidateAddressForm(f AddressForm) FieldErrors {
	errs := ValidateAddress(f.Shipping, "")
	if !f.SameAsShipping {
		for k, v := range ValidateAddress(f.Billing, BillingPrefix) {
			errs[k] = v
		}
	}
	return errs
}

// ValidatePayment checks the payment form.
func ValidatePayment(p models.PaymentDetails) FieldErrors {
	errs := FieldErrors{}

	if p.CardNumber == "" || !cardDigitsPattern.MatchString(stripSpace(p.CardNumber)) {
		errs[FieldCardNumber] = msgCardNumber
	}
	if p.CardName == "" {
		errs[FieldCardName] = msgCardName
	}
	if p.ExpiryMonth == "" {
		errs[FieldExpiryMonth] = msgExpiry
	}
	if p.ExpiryYear == "" {
		errs[FieldExpiryYear] = msgExpiry
	}
	if !cvvPattern.MatchString(p.CVV) {
		errs[FieldCVV] = msgCVV
	}

	return errs
}

// FormatCardNumber keeps the digits of raw, groups them by four and caps
// the result at 16 digits plus separators.
func FormatCardNumber(raw string) string {
	digits := DigitsOnly(raw)

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}

	out := b.String()
	if len(out) > cardNumberWidth {
		out = out[:cardNumberWidth]
	}
	return out
}

// DigitsOnly drops every non-digit character.
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// ExpiryMonths are the selectable months "01".."12".
func ExpiryMonths() []string {
	months := make([]string, 12)
	for i := range months {
		months[i] = fmt.Sprintf("%02d", i+1)
	}
	return months
}

// ExpiryYears are the selectable years: the current one and the nine after.
func ExpiryYears(now time.Time) []string {
	years := make([]string, 10)
	for i := range years {
		years[i] = strconv.Itoa(now.Year() + i)
	}
	return years
}

func addressField(a models.Address, field string) (string, bool) {
	switch field {
	case FieldFullName:
		return a.FullName, true
	case FieldStreetAddress:
		return a.StreetAddress, true
	case FieldApartment:
		return a.Apartment, true
	case FieldCity:
		return a.City, true
	case FieldState:
		return a.State, true
	case FieldZipCode:
		return a.ZipCode, true
	case FieldCountry:
		return a.Country, true
	case FieldPhone:
		return a.Phone, true
	}
	return "", false
}

func setAddressField(a *models.Address, field, value string) bool {
	switch field {
	case FieldFullName:
		a.FullName = value
	case FieldStreetAddress:
		a.StreetAddress = value
	case FieldApartment:
		a.Apartment = value
	case FieldCity:
		a.City = value
	case FieldState:
		a.State = value
	case FieldZipCode:
		a.ZipCode = value
	case FieldCountry:
		a.Country = value
	case FieldPhone:
		a.Phone = value
	default:
		return false
	}
	return true
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
