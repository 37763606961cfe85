package normalize

import (
	"strings"

	"github.com/amlakhub/listingbot/internal/listing"
)

// Surface-form tables for the categorical fields. Keys include Persian
// synonyms, English values the extractor sometimes emits, emoji-decorated
// button captions, and the canonical tokens themselves, so normalizing a
// canonical value round-trips.

var transactionForms = map[string]listing.TransactionType{
	"فروش": listing.Sale, "خرید": listing.Sale, "sale": listing.Sale,
	"🏷 فروش":      listing.Sale,
	"رهن و اجاره": listing.Rent, "اجاره": listing.Rent, "رهن": listing.Rent,
	"اجارە": listing.Rent, "rent": listing.Rent, "🔑 رهن و اجاره": listing.Rent,
	"پیش‌فروش": listing.Presale, "پیش فروش": listing.Presale,
	"پیشفروش": listing.Presale, "presale": listing.Presale,
	"pre-sale": listing.Presale, "🏗 پیش‌فروش": listing.Presale,
}

var propertyForms = map[string]listing.PropertyType{
	"آپارتمان": listing.Apartment, "اپارتمان": listing.Apartment,
	"apartment": listing.Apartment, "🏢 آپارتمان": listing.Apartment,
	"ویلا": listing.Villa, "ویلایی": listing.Villa, "villa": listing.Villa,
	"🏡 ویلا": listing.Villa,
	"زمین":   listing.Land, "land": listing.Land, "🌍 زمین": listing.Land,
	"مغازه": listing.Shop, "غازه": listing.Shop, "shop": listing.Shop,
	"🏪 مغازه": listing.Shop,
	"سوله":    listing.OtherProperty, "باغ": listing.OtherProperty,
	"کلنگی": listing.OtherProperty, "سایر": listing.OtherProperty,
	"other": listing.OtherProperty,
}

var usageForms = map[string]listing.UsageType{
	"مسکونی": listing.Residential, "residential": listing.Residential,
	"🏠 مسکونی": listing.Residential,
	"تجاری":    listing.Commercial, "commercial": listing.Commercial,
	"🏬 تجاری": listing.Commercial,
	"اداری":   listing.Administrative, "administrative": listing.Administrative,
	"office": listing.Administrative, "🏛 اداری": listing.Administrative,
}

func fold(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Transaction maps a surface form to the canonical transaction type.
func Transaction(raw string) (listing.TransactionType, bool) {
	v, ok := transactionForms[fold(raw)]
	return v, ok
}

// Property maps a surface form to the canonical property type.
func Property(raw string) (listing.PropertyType, bool) {
	v, ok := propertyForms[fold(raw)]
	return v, ok
}

// Usage maps a surface form to the canonical usage type.
func Usage(raw string) (listing.UsageType, bool) {
	v, ok := usageForms[fold(raw)]
	return v, ok
}

// TransactionForms returns every accepted surface form. Used by tests to
// assert the round-trip property over the full vocabulary.
func TransactionForms() map[string]listing.TransactionType { return transactionForms }

// PropertyForms returns every accepted surface form.
func PropertyForms() map[string]listing.PropertyType { return propertyForms }

// UsageForms returns every accepted surface form.
func UsageForms() map[string]listing.UsageType { return usageForms }
