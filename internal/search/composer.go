package search

import (
	"strings"
)

type Op string

const (
	OpEq  Op = "=="
	OpGte Op = ">="
	OpLte Op = "<="
)

// Predicate is one store-side constraint. Field names are the logical
// listing field names; the repository maps them to columns.
type Predicate struct {
	Field string
	Op    Op
	Value any
}

const (
	FieldListingType  = "listingType"
	FieldPrice        = "price"
	FieldPropertyType = "propertyType"
	FieldProvince     = "province"
	FieldCategory     = "category"
	FieldYearBuilt    = "yearBuilt"
	FieldBedrooms     = "bedrooms"
	FieldBathrooms    = "bathrooms"
	FieldGarage       = "garage"
	FieldFurnished    = "furnished"
)

// Compose validates f and builds its predicate list. Predicates are
// appended in a fixed field order: listing type, price bounds, property
// type, province, category, amenities, year built, bedrooms, bathrooms,
// garage, furnished.
func Compose(f Filter) ([]Predicate, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	var preds []Predicate
	eq := func(field string, v any) {
		preds = append(preds, Predicate{Field: field, Op: OpEq, Value: v})
	}
	gte := func(field string, v any) {
		preds = append(preds, Predicate{Field: field, Op: OpGte, Value: v})
	}

	eq(FieldListingType, normalize(f.ListingType))

	if f.MinPrice != nil {
		gte(FieldPrice, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		preds = append(preds, Predicate{Field: FieldPrice, Op: OpLte, Value: *f.MaxPrice})
	}
	if v := normalize(f.PropertyType); v != "" {
		eq(FieldPropertyType, v)
	}
	if v := normalize(f.Province); v != "" {
		eq(FieldProvince, v)
	}
	if v := normalize(f.Category); v != "" {
		eq(FieldCategory, v)
	}

	seen := make(map[string]bool, len(f.Amenities))
	for _, name := range f.Amenities {
		field, ok := AmenityField(name)
		if !ok || seen[field] {
			continue
		}
		seen[field] = true
		eq(field, true)
	}

	if f.YearBuilt != nil {
		gte(FieldYearBuilt, *f.YearBuilt)
	}
	if f.Bedrooms != nil {
		gte(FieldBedrooms, *f.Bedrooms)
	}
	if f.Bathrooms != nil {
		gte(FieldBathrooms, *f.Bathrooms)
	}
	if f.Garage != nil {
		gte(FieldGarage, *f.Garage)
	}
	if f.Furnished != nil {
		eq(FieldFurnished, *f.Furnished)
	}

	return preds, nil
}

// Stored enumerations (listing type, province, ...) are lower case.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
