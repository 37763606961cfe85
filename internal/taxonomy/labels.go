package taxonomy

import (
	"strings"

	"github.com/amlakhub/listingbot/internal/listing"
)

// buttonCaptions maps decorated reply-keyboard captions to the plain
// surface text the normalizers understand. Decoding happens once, before
// any other input handling.
var buttonCaptions = map[string]string{
	"🏷 فروش":        "فروش",
	"🔑 رهن و اجاره": "رهن و اجاره",
	"🏗 پیش‌فروش":    "پیش‌فروش",
	"🏢 آپارتمان":    "آپارتمان",
	"🏡 ویلا":        "ویلا",
	"🌍 زمین":        "زمین",
	"🏪 مغازه":       "مغازه",
	"🏠 مسکونی":      "مسکونی",
	"🏬 تجاری":       "تجاری",
	"🏛 اداری":       "اداری",
	"✅ بله":         "بله",
	"❌ خیر":         "خیر",
	"✅ تایید":       "تایید",
	"✏️ ویرایش":     "ویرایش",
	"❌ انصراف":      "انصراف",
}

// DecodeButton strips the decoration from a known button caption. The
// second result reports whether the text was a button at all.
func DecodeButton(text string) (string, bool) {
	v, ok := buttonCaptions[strings.TrimSpace(text)]
	if !ok {
		return strings.TrimSpace(text), false
	}
	return v, true
}

// editLabels maps the Persian labels users type in «label: value» edit
// requests to field keys. Many labels share one field.
var editLabels = map[string]listing.Field{
	"نوع معامله":   listing.FieldTransactionType,
	"معامله":       listing.FieldTransactionType,
	"نوع ملک":      listing.FieldPropertyType,
	"ملک":          listing.FieldPropertyType,
	"نوع کاربری":   listing.FieldUsageType,
	"کاربری":       listing.FieldUsageType,
	"متراژ":        listing.FieldArea,
	"متر":          listing.FieldArea,
	"اتاق":         listing.FieldBedroomCount,
	"خواب":         listing.FieldBedroomCount,
	"تعداد اتاق":   listing.FieldBedroomCount,
	"تعداد خواب":   listing.FieldBedroomCount,
	"طبقه":         listing.FieldFloor,
	"کل طبقات":     listing.FieldTotalFloors,
	"تعداد طبقات":  listing.FieldTotalFloors,
	"واحد در طبقه": listing.FieldUnitCount,
	"تعداد واحد":   listing.FieldUnitCount,
	"آسانسور":      listing.FieldHasElevator,
	"سال ساخت":     listing.FieldBuildYear,
	"قیمت":         listing.FieldPriceTotal,
	"قیمت کل":      listing.FieldPriceTotal,
	"رهن":          listing.FieldPriceTotal,
	"ودیعه":        listing.FieldPriceTotal,
	"اجاره":        listing.FieldRent,
	"محله":         listing.FieldNeighborhood,
	"منطقه":        listing.FieldNeighborhood,
	"آدرس":         listing.FieldAddress,
	"نام":          listing.FieldOwnerName,
	"اسم":          listing.FieldOwnerName,
	"نام مالک":     listing.FieldOwnerName,
	"تلفن":         listing.FieldOwnerPhone,
	"شماره":        listing.FieldOwnerPhone,
	"موبایل":       listing.FieldOwnerPhone,
	"شماره تماس":   listing.FieldOwnerPhone,
	"امکانات":      listing.FieldFeatures,
	"ویژگی":        listing.FieldFeatures,
	"ویژگی‌ها":     listing.FieldFeatures,
}

// ParseEdit parses a «label: value» (or «label = value») edit request and
// resolves the label to a field key. Returns ok=false when the text is not
// an edit request or names an unknown label.
func ParseEdit(text string) (listing.Field, string, bool) {
	text = strings.TrimSpace(text)
	sep := ":"
	if !strings.Contains(text, ":") {
		if !strings.Contains(text, "=") {
			return "", "", false
		}
		sep = "="
	}
	parts := strings.SplitN(text, sep, 2)
	label := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	f, ok := editLabels[label]
	if !ok || value == "" {
		return "", "", false
	}
	return f, value, true
}

// FieldByLabel resolves a bare Persian label («محله») to a field key, used
// for targeted re-asks while editing.
func FieldByLabel(text string) (listing.Field, bool) {
	f, ok := editLabels[strings.TrimSpace(text)]
	return f, ok
}
