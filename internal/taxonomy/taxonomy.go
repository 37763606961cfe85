// Package taxonomy is the single source of truth for the intake form: every
// field, its question, choice buttons, when it is required, when it counts
// as answered, and how a raw targeted answer is validated and written.
package taxonomy

import (
	"strings"

	"github.com/amlakhub/listingbot/internal/listing"
	"github.com/amlakhub/listingbot/internal/normalize"
)

// Domain classifies a field's value space.
type Domain string

const (
	Categorical Domain = "categorical"
	Integer     Domain = "integer"
	Currency    Domain = "currency"
	Boolean     Domain = "boolean"
	PhoneNumber Domain = "phone"
	FreeText    Domain = "free_text"
)

// Descriptor describes one slot of the form. Immutable after startup.
type Descriptor struct {
	Name     listing.Field
	Domain   Domain
	Question string
	// Prompt overrides Question when the wording depends on earlier
	// answers (rent deposits reuse price_total).
	Prompt   func(*listing.Record) string
	Keyboard [][]string
	Invalid  string // re-prompt reason shown on a failed targeted answer

	Required func(*listing.Record) bool
	Present  func(*listing.Record) bool
	// Assign validates raw input and writes the canonical value into the
	// partial record. false means the input was not understood.
	Assign func(*listing.Record, string) bool
}

// QuestionFor returns the question text for the current record.
func (d *Descriptor) QuestionFor(r *listing.Record) string {
	if d.Prompt != nil {
		return d.Prompt(r)
	}
	return d.Question
}

func always(*listing.Record) bool { return true }

func apartment(r *listing.Record) bool { return r.IsApartment() }

func intInRange(min, max int, set func(*listing.Record, int)) func(*listing.Record, string) bool {
	return func(r *listing.Record, raw string) bool {
		n, ok := normalize.Int(raw)
		if !ok || n < min || n > max {
			return false
		}
		set(r, n)
		return true
	}
}

func freeText(minLen, maxLen int, set func(*listing.Record, string)) func(*listing.Record, string) bool {
	return func(r *listing.Record, raw string) bool {
		v := strings.TrimSpace(raw)
		n := len([]rune(v))
		if n < minLen || (maxLen > 0 && n > maxLen) {
			return false
		}
		// A bare number is never a name or a place.
		if _, numeric := normalize.Int(v); numeric {
			return false
		}
		set(r, v)
		return true
	}
}

var yesNoKeyboard = [][]string{{"✅ بله", "❌ خیر"}}

// ordered is the fixed, total ask order. The resolver scans it front to
// back and asks the first required-but-absent field.
var ordered = []*Descriptor{
	{
		Name:     listing.FieldTransactionType,
		Domain:   Categorical,
		Question: "🏷 قصد چه کاری دارید؟ (فروش / رهن و اجاره)",
		Keyboard: [][]string{{"🏷 فروش", "🔑 رهن و اجاره"}, {"🏗 پیش‌فروش"}},
		Invalid:  "نوع معامله را متوجه نشدم. یکی از گزینه‌ها را انتخاب کنید.",
		Required: always,
		Present:  func(r *listing.Record) bool { return r.TransactionType != nil },
		Assign: func(r *listing.Record, raw string) bool {
			v, ok := normalize.Transaction(raw)
			if ok {
				r.TransactionType = &v
			}
			return ok
		},
	},
	{
		Name:     listing.FieldPropertyType,
		Domain:   Categorical,
		Question: "🏠 نوع ملک چیست؟ (آپارتمان، ویلا، زمین، مغازه)",
		Keyboard: [][]string{{"🏢 آپارتمان", "🏡 ویلا"}, {"🌍 زمین", "🏪 مغازه"}},
		Invalid:  "نوع ملک را متوجه نشدم. یکی از گزینه‌ها را انتخاب کنید.",
		Required: always,
		Present:  func(r *listing.Record) bool { return r.PropertyType != nil },
		Assign: func(r *listing.Record, raw string) bool {
			v, ok := normalize.Property(raw)
			if ok {
				r.PropertyType = &v
			}
			return ok
		},
	},
	{
		Name:     listing.FieldUsageType,
		Domain:   Categorical,
		Question: "🏢 نوع کاربری چیست؟ (مسکونی / تجاری / اداری)",
		Keyboard: [][]string{{"🏠 مسکونی", "🏬 تجاری"}, {"🏛 اداری"}},
		Invalid:  "نوع کاربری را متوجه نشدم. یکی از گزینه‌ها را انتخاب کنید.",
		Required: apartment,
		Present:  func(r *listing.Record) bool { return r.UsageType != nil },
		Assign: func(r *listing.Record, raw string) bool {
			v, ok := normalize.Usage(raw)
			if ok {
				r.UsageType = &v
			}
			return ok
		},
	},
	{
		Name:     listing.FieldArea,
		Domain:   Integer,
		Question: "📐 متراژ ملک چقدر است؟",
		Invalid:  "متراژ باید عددی بین 10 تا 10000 متر باشد.",
		Required: always,
		Present:  func(r *listing.Record) bool { return r.Area != nil },
		Assign:   intInRange(10, 10000, func(r *listing.Record, n int) { r.Area = &n }),
	},
	{
		Name:     listing.FieldBedroomCount,
		Domain:   Integer,
		Question: "🛏 چند خواب دارد؟",
		Invalid:  "تعداد خواب باید عددی بین 0 تا 10 باشد.",
		Required: func(r *listing.Record) bool {
			if r.IsVilla() {
				return true
			}
			return r.IsApartment() && r.UsageType != nil && *r.UsageType == listing.Residential
		},
		Present: func(r *listing.Record) bool { return r.BedroomCount != nil },
		Assign:  intInRange(0, 10, func(r *listing.Record, n int) { r.BedroomCount = &n }),
	},
	{
		Name:     listing.FieldTotalFloors,
		Domain:   Integer,
		Question: "🏢 ساختمان چند طبقه است؟",
		Invalid:  "تعداد طبقات باید عددی بین 1 تا 150 باشد.",
		Required: apartment,
		Present:  func(r *listing.Record) bool { return r.TotalFloors != nil },
		Assign:   intInRange(1, 150, func(r *listing.Record, n int) { r.TotalFloors = &n }),
	},
	{
		Name:     listing.FieldFloor,
		Domain:   Integer,
		Question: "📍 واحد در چه طبقه‌ای است؟",
		Invalid:  "طبقه باید عددی بین -5 تا 150 باشد.",
		Required: apartment,
		// Ground floor (0) and basements are explicit, valid answers.
		Present: func(r *listing.Record) bool { return r.Floor != nil },
		Assign:  intInRange(-5, 150, func(r *listing.Record, n int) { r.Floor = &n }),
	},
	{
		Name:     listing.FieldUnitCount,
		Domain:   Integer,
		Question: "🚪 هر طبقه چند واحد دارد؟",
		Invalid:  "تعداد واحد باید عددی بین 1 تا 20 باشد.",
		Required: apartment,
		Present:  func(r *listing.Record) bool { return r.UnitCount != nil },
		Assign:   intInRange(1, 20, func(r *listing.Record, n int) { r.UnitCount = &n }),
	},
	{
		Name:     listing.FieldHasElevator,
		Domain:   Boolean,
		Question: "🛗 آسانسور دارد؟ (بله / خیر)",
		Keyboard: yesNoKeyboard,
		Invalid:  "با «بله» یا «خیر» پاسخ دهید.",
		Required: apartment,
		Present:  func(r *listing.Record) bool { return r.HasElevator != nil },
		Assign: func(r *listing.Record, raw string) bool {
			v, ok := normalize.YesNo(raw)
			if ok {
				r.HasElevator = &v
			}
			return ok
		},
	},
	{
		Name:     listing.FieldBuildYear,
		Domain:   Integer,
		Question: "📅 سال ساخت چه سالی است؟ (مثلاً 1402)",
		Invalid:  "سال ساخت باید شمسی (1300 تا 1450) یا میلادی (1950 تا 2030) باشد.",
		Required: apartment,
		Present:  func(r *listing.Record) bool { return r.BuildYear != nil },
		Assign: func(r *listing.Record, raw string) bool {
			n, ok := normalize.Int(raw)
			if !ok {
				return false
			}
			if (n >= 1300 && n <= 1450) || (n >= 1950 && n <= 2030) {
				r.BuildYear = &n
				return true
			}
			return false
		},
	},
	{
		Name:     listing.FieldPriceTotal,
		Domain:   Currency,
		Question: "💰 قیمت کل چقدر است؟",
		Prompt: func(r *listing.Record) string {
			if r.TransactionType != nil && *r.TransactionType == listing.Rent {
				return "💰 مبلغ رهن (ودیعه) چقدر است؟"
			}
			return "💰 قیمت کل چقدر است؟"
		},
		Invalid:  "مبلغ را متوجه نشدم. مثال: 4 میلیارد و 200 میلیون تومان",
		Required: func(r *listing.Record) bool { return r.TransactionType != nil },
		Present:  func(r *listing.Record) bool { return r.PriceTotal != nil },
		Assign: func(r *listing.Record, raw string) bool {
			v, ok := normalize.Money(raw)
			if !ok || v <= 0 {
				return false
			}
			r.PriceTotal = &v
			return true
		},
	},
	{
		Name:     listing.FieldRent,
		Domain:   Currency,
		Question: "💵 اجاره ماهیانه چقدر است؟",
		Invalid:  "مبلغ اجاره را متوجه نشدم. مثال: 15 میلیون تومان",
		Required: func(r *listing.Record) bool {
			return r.TransactionType != nil && *r.TransactionType == listing.Rent
		},
		Present: func(r *listing.Record) bool { return r.Rent != nil },
		Assign: func(r *listing.Record, raw string) bool {
			// Zero is a real answer here (رهن کامل).
			v, ok := normalize.Money(raw)
			if !ok || v < 0 {
				return false
			}
			r.Rent = &v
			return true
		},
	},
	{
		Name:     listing.FieldNeighborhood,
		Domain:   FreeText,
		Question: "📍 ملک در کدام محله/منطقه است؟",
		Invalid:  "نام محله باید متنی کوتاه باشد، مثل «گلسار».",
		Required: always,
		Present: func(r *listing.Record) bool {
			return r.Neighborhood != nil && strings.TrimSpace(*r.Neighborhood) != ""
		},
		Assign: freeText(3, 29, func(r *listing.Record, v string) { r.Neighborhood = &v }),
	},
	{
		Name:     listing.FieldAddress,
		Domain:   FreeText,
		Question: "🏠 آدرس دقیق ملک را وارد کنید:\n(مثال: رشت، گلسار، خیابان ۱۰۷)",
		Invalid:  "آدرس خیلی کوتاه است. کمی کامل‌تر بنویسید.",
		// Skipped for property types outside the enumerated set, which
		// collapse to the minimal base field set.
		Required: func(r *listing.Record) bool { return r.KnownPropertyType() },
		Present: func(r *listing.Record) bool {
			return r.Address != nil && strings.TrimSpace(*r.Address) != ""
		},
		Assign: func(r *listing.Record, raw string) bool {
			v := strings.TrimSpace(raw)
			if len([]rune(v)) <= 5 {
				return false
			}
			r.Address = &v
			return true
		},
	},
	{
		Name:     listing.FieldOwnerName,
		Domain:   FreeText,
		Question: "👤 نام شریف شما؟",
		Invalid:  "نام را متوجه نشدم. لطفاً نام خود را بنویسید.",
		Required: always,
		Present: func(r *listing.Record) bool {
			return r.OwnerName != nil && strings.TrimSpace(*r.OwnerName) != ""
		},
		Assign: freeText(3, 29, func(r *listing.Record, v string) { r.OwnerName = &v }),
	},
	{
		Name:     listing.FieldOwnerPhone,
		Domain:   PhoneNumber,
		Question: "📞 لطفاً شماره تماس خود را وارد کنید:",
		Invalid:  "شماره موبایل معتبر نیست. مثال: 09121234567",
		Required: always,
		Present:  func(r *listing.Record) bool { return r.OwnerPhone != nil },
		Assign: func(r *listing.Record, raw string) bool {
			v, ok := normalize.Phone(raw)
			if ok {
				r.OwnerPhone = &v
			}
			return ok
		},
	},
}

// features is the one optional field: asked at most once after the required
// set completes, any answer accepted, «ندارد» recorded as an empty value.
var features = &Descriptor{
	Name:     listing.FieldFeatures,
	Domain:   FreeText,
	Question: "✨ امکانات خاصی دارد؟ (مثلاً پارکینگ، انباری، بالکن — یا «ندارد»)",
	Keyboard: [][]string{{"ندارد"}},
	Required: func(*listing.Record) bool { return false },
	Present:  func(r *listing.Record) bool { return r.FeaturesAsked },
	Assign: func(r *listing.Record, raw string) bool {
		v := strings.TrimSpace(raw)
		switch strings.ToLower(v) {
		case "ندارد", "نداره", "خیر", "نه", "no", "none", "-", "":
			v = ""
		}
		r.Features = &v
		r.FeaturesAsked = true
		return true
	},
}

var byName = func() map[listing.Field]*Descriptor {
	m := make(map[listing.Field]*Descriptor, len(ordered)+1)
	for _, d := range ordered {
		m[d.Name] = d
	}
	m[features.Name] = features
	return m
}()

// Ordered returns the required fields in ask order.
func Ordered() []*Descriptor { return ordered }

// Features returns the optional trailing free-text field.
func Features() *Descriptor { return features }

// ByName looks up a descriptor by field key.
func ByName(f listing.Field) (*Descriptor, bool) {
	d, ok := byName[f]
	return d, ok
}

// RequiredFields computes the required field names for the record so far.
// Pure and deterministic: it is re-evaluated fresh on every turn so edits
// to earlier answers immediately reshape the rest of the form.
func RequiredFields(r *listing.Record) []listing.Field {
	var out []listing.Field
	for _, d := range ordered {
		if d.Required(r) {
			out = append(out, d.Name)
		}
	}
	return out
}
