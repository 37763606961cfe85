package engine

import (
	"strings"

	"github.com/amlakhub/listingbot/internal/listing"
)

// defaultCity backs listings whose text never names a city. The agency
// operates in Rasht.
const defaultCity = "رشت"

var knownCities = []string{
	"رشت", "تهران", "انزلی", "لاهیجان", "لنگرود", "رودسر", "فومن", "صومعه‌سرا", "آستانه",
}

var usageHints = []struct {
	token string
	usage listing.UsageType
}{
	{"تجاری", listing.Commercial},
	{"اداری", listing.Administrative},
	{"دفتر کار", listing.Administrative},
	{"مسکونی", listing.Residential},
}

// inferDefaults derives fields the user implied without stating. Returns
// nil when nothing new can be derived. Inference never overwrites a value
// that is already present.
func inferDefaults(text string, r *listing.Record) *listing.Record {
	inf := &listing.Record{}
	changed := false

	// Floor numbers, unit counts and elevators only exist in apartments.
	if r.PropertyType == nil &&
		(r.Floor != nil || r.TotalFloors != nil || r.UnitCount != nil || r.HasElevator != nil) {
		v := listing.Apartment
		inf.PropertyType = &v
		changed = true
	}

	isApartment := r.IsApartment() || inf.PropertyType != nil
	if r.UsageType == nil && isApartment {
		for _, h := range usageHints {
			if strings.Contains(text, h.token) {
				u := h.usage
				inf.UsageType = &u
				changed = true
				break
			}
		}
	}

	if r.City == nil {
		if city, ok := cityFromText(text); ok {
			inf.City = &city
			changed = true
		} else if r.Neighborhood != nil {
			city := defaultCity
			inf.City = &city
			changed = true
		}
	}

	if !changed {
		return nil
	}
	return inf
}

func cityFromText(text string) (string, bool) {
	for _, c := range knownCities {
		if strings.Contains(text, c) {
			return c, true
		}
	}
	return "", false
}
