package listing

import (
	"fmt"
	"strings"
)

var transactionLabels = map[TransactionType]string{
	Sale:    "فروش",
	Rent:    "رهن و اجاره",
	Presale: "پیش‌فروش",
}

var propertyLabels = map[PropertyType]string{
	Apartment:     "آپارتمان",
	Villa:         "ویلا",
	Land:          "زمین",
	Shop:          "مغازه",
	OtherProperty: "سایر",
}

var usageLabels = map[UsageType]string{
	Residential:    "مسکونی",
	Commercial:     "تجاری",
	Administrative: "اداری",
}

// Label returns the Persian display name of a canonical enum value.
func (t TransactionType) Label() string { return transactionLabels[t] }
func (p PropertyType) Label() string    { return propertyLabels[p] }
func (u UsageType) Label() string       { return usageLabels[u] }

func yesNo(b bool) string {
	if b {
		return "دارد"
	}
	return "ندارد"
}

// group3 renders n with thousands separators, e.g. 4200000000 → "4,200,000,000".
func group3(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// Summary renders the record for the confirmation screen. Only present
// fields appear; price lines follow the transaction type.
func (r *Record) Summary() string {
	lines := []string{"خلاصه اطلاعات ملک:", strings.Repeat("=", 30)}

	if r.TransactionType != nil {
		lines = append(lines, "نوع معامله: "+r.TransactionType.Label())
	}
	if r.PropertyType != nil {
		lines = append(lines, "نوع ملک: "+r.PropertyType.Label())
	}
	if r.UsageType != nil {
		lines = append(lines, "نوع کاربری: "+r.UsageType.Label())
	}
	if r.Neighborhood != nil {
		lines = append(lines, "محله: "+*r.Neighborhood)
	}
	if r.City != nil {
		lines = append(lines, "شهر: "+*r.City)
	}
	if r.Address != nil {
		lines = append(lines, "آدرس: "+*r.Address)
	}
	if r.Area != nil {
		lines = append(lines, fmt.Sprintf("متراژ: %d متر", *r.Area))
	}
	if r.BedroomCount != nil {
		lines = append(lines, fmt.Sprintf("تعداد اتاق: %d", *r.BedroomCount))
	}
	if r.TotalFloors != nil {
		lines = append(lines, fmt.Sprintf("تعداد کل طبقات: %d", *r.TotalFloors))
	}
	if r.Floor != nil {
		lines = append(lines, fmt.Sprintf("طبقه: %d", *r.Floor))
	}
	if r.UnitCount != nil {
		lines = append(lines, fmt.Sprintf("واحد در هر طبقه: %d", *r.UnitCount))
	}
	if r.HasElevator != nil {
		lines = append(lines, "آسانسور: "+yesNo(*r.HasElevator))
	}
	if r.HasParking != nil {
		lines = append(lines, "پارکینگ: "+yesNo(*r.HasParking))
	}
	if r.HasStorage != nil {
		lines = append(lines, "انباری: "+yesNo(*r.HasStorage))
	}
	if r.BuildYear != nil {
		lines = append(lines, fmt.Sprintf("سال ساخت: %d", *r.BuildYear))
	}

	rental := r.TransactionType != nil && *r.TransactionType == Rent
	if r.PriceTotal != nil {
		if rental {
			lines = append(lines, fmt.Sprintf("💰 مبلغ رهن: %s ریال", group3(*r.PriceTotal)))
		} else {
			lines = append(lines, fmt.Sprintf("💰 قیمت کل: %s ریال", group3(*r.PriceTotal)))
		}
	}
	if rental && r.Rent != nil {
		lines = append(lines, fmt.Sprintf("💵 اجاره ماهیانه: %s ریال", group3(*r.Rent)))
	}

	if r.OwnerName != nil {
		lines = append(lines, "نام مالک: "+*r.OwnerName)
	}
	if r.OwnerPhone != nil {
		lines = append(lines, "تلفن: "+*r.OwnerPhone)
	}
	if r.Features != nil && *r.Features != "" {
		lines = append(lines, "امکانات: "+*r.Features)
	}

	lines = append(lines, strings.Repeat("=", 30))
	return strings.Join(lines, "\n")
}
