// Package listing holds the domain types for a real-estate intake
// conversation: the partially-filled listing record, its enums and the
// conversation mode.
package listing

// TransactionType is the canonical deal kind.
type TransactionType string

const (
	Sale    TransactionType = "sale"
	Rent    TransactionType = "rent"
	Presale TransactionType = "presale"
)

// PropertyType is the canonical property kind.
type PropertyType string

const (
	Apartment PropertyType = "apartment"
	Villa     PropertyType = "villa"
	Land      PropertyType = "land"
	Shop      PropertyType = "shop"
	// OtherProperty covers kinds the form has no dedicated flow for
	// (warehouses, orchards, ...). They collect the minimal field set.
	OtherProperty PropertyType = "other"
)

// UsageType is the canonical usage kind (apartments only).
type UsageType string

const (
	Residential    UsageType = "residential"
	Commercial     UsageType = "commercial"
	Administrative UsageType = "administrative"
)

// Mode is the per-user conversation phase.
type Mode string

const (
	Collecting Mode = "collecting"
	Confirming Mode = "confirming"
	Editing    Mode = "editing"
)

// Field identifies one slot of the intake form.
type Field string

const (
	FieldTransactionType Field = "transaction_type"
	FieldPropertyType    Field = "property_type"
	FieldUsageType       Field = "usage_type"
	FieldArea            Field = "area"
	FieldBedroomCount    Field = "bedroom_count"
	FieldTotalFloors     Field = "total_floors"
	FieldFloor           Field = "floor"
	FieldUnitCount       Field = "unit_count"
	FieldHasElevator     Field = "has_elevator"
	FieldBuildYear       Field = "build_year"
	FieldPriceTotal      Field = "price_total"
	FieldRent            Field = "rent"
	FieldNeighborhood    Field = "neighborhood"
	FieldAddress         Field = "address"
	FieldOwnerName       Field = "owner_name"
	FieldOwnerPhone      Field = "owner_phone"
	FieldFeatures        Field = "additional_features"

	// Extraction-only fields: accepted when volunteered, never asked.
	FieldCity       Field = "city"
	FieldHasParking Field = "has_parking"
	FieldHasStorage Field = "has_storage"
)

// Record is the accumulated listing data for one conversation. Every field
// is optional; nil means "not yet known". Monetary amounts are rials.
type Record struct {
	TransactionType *TransactionType
	PropertyType    *PropertyType
	UsageType       *UsageType

	Area         *int
	BedroomCount *int
	TotalFloors  *int
	Floor        *int
	UnitCount    *int
	HasElevator  *bool
	BuildYear    *int

	PriceTotal *int64 // sale: total price; rent: deposit
	Rent       *int64 // monthly rent

	Neighborhood *string
	Address      *string
	OwnerName    *string
	OwnerPhone   *string

	// Features holds the free-text amenities answer. FeaturesAsked is a
	// separate flag because "ندارد" is a valid answer that leaves the
	// value empty; the question must still never be asked twice.
	Features      *string
	FeaturesAsked bool

	// Volunteered extras, filled by extraction or inference only.
	City       *string
	HasParking *bool
	HasStorage *bool
}

// Merge copies every present field of p into r. Absent fields of p never
// erase values already in r.
func (r *Record) Merge(p *Record) {
	if p == nil {
		return
	}
	if p.TransactionType != nil {
		r.TransactionType = p.TransactionType
	}
	if p.PropertyType != nil {
		r.PropertyType = p.PropertyType
	}
	if p.UsageType != nil {
		r.UsageType = p.UsageType
	}
	if p.Area != nil {
		r.Area = p.Area
	}
	if p.BedroomCount != nil {
		r.BedroomCount = p.BedroomCount
	}
	if p.TotalFloors != nil {
		r.TotalFloors = p.TotalFloors
	}
	if p.Floor != nil {
		r.Floor = p.Floor
	}
	if p.UnitCount != nil {
		r.UnitCount = p.UnitCount
	}
	if p.HasElevator != nil {
		r.HasElevator = p.HasElevator
	}
	if p.BuildYear != nil {
		r.BuildYear = p.BuildYear
	}
	if p.PriceTotal != nil {
		r.PriceTotal = p.PriceTotal
	}
	if p.Rent != nil {
		r.Rent = p.Rent
	}
	if p.Neighborhood != nil {
		r.Neighborhood = p.Neighborhood
	}
	if p.Address != nil {
		r.Address = p.Address
	}
	if p.OwnerName != nil {
		r.OwnerName = p.OwnerName
	}
	if p.OwnerPhone != nil {
		r.OwnerPhone = p.OwnerPhone
	}
	if p.Features != nil {
		r.Features = p.Features
	}
	if p.FeaturesAsked {
		r.FeaturesAsked = true
	}
	if p.City != nil {
		r.City = p.City
	}
	if p.HasParking != nil {
		r.HasParking = p.HasParking
	}
	if p.HasStorage != nil {
		r.HasStorage = p.HasStorage
	}
}

// Clear removes one field so it can be re-asked or re-extracted.
func (r *Record) Clear(f Field) {
	switch f {
	case FieldTransactionType:
		r.TransactionType = nil
	case FieldPropertyType:
		r.PropertyType = nil
	case FieldUsageType:
		r.UsageType = nil
	case FieldArea:
		r.Area = nil
	case FieldBedroomCount:
		r.BedroomCount = nil
	case FieldTotalFloors:
		r.TotalFloors = nil
	case FieldFloor:
		r.Floor = nil
	case FieldUnitCount:
		r.UnitCount = nil
	case FieldHasElevator:
		r.HasElevator = nil
	case FieldBuildYear:
		r.BuildYear = nil
	case FieldPriceTotal:
		r.PriceTotal = nil
	case FieldRent:
		r.Rent = nil
	case FieldNeighborhood:
		r.Neighborhood = nil
	case FieldAddress:
		r.Address = nil
	case FieldOwnerName:
		r.OwnerName = nil
	case FieldOwnerPhone:
		r.OwnerPhone = nil
	case FieldFeatures:
		r.Features = nil
	case FieldCity:
		r.City = nil
	case FieldHasParking:
		r.HasParking = nil
	case FieldHasStorage:
		r.HasStorage = nil
	}
}

// IsApartment reports whether the record describes an apartment.
func (r *Record) IsApartment() bool {
	return r.PropertyType != nil && *r.PropertyType == Apartment
}

// IsVilla reports whether the record describes a villa.
func (r *Record) IsVilla() bool {
	return r.PropertyType != nil && *r.PropertyType == Villa
}

// KnownPropertyType reports whether the property type is one of the
// enumerated kinds. Records carrying anything else fall back to the
// minimal required-field set.
func (r *Record) KnownPropertyType() bool {
	if r.PropertyType == nil {
		return false
	}
	switch *r.PropertyType {
	case Apartment, Villa, Land, Shop:
		return true
	}
	return false
}
