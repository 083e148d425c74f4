package search

import (
	"errors"
	"reflect"
	"testing"

	"estatehub/internal/models/db_models"
	"estatehub/pkg/utils"
)

func ptr[T any](v T) *T { return &v }

func TestComposeFieldOrder(t *testing.T) {
	f := Filter{
		Location:     "ignored by compose",
		Province:     "Lusaka",
		MinPrice:     ptr(1000.0),
		MaxPrice:     ptr(5000.0),
		PropertyType: "House",
		Category:     "Residential",
		Amenities:    []string{"Garden", "Swimming Pool"},
		YearBuilt:    ptr(2010),
		Bedrooms:     ptr(3),
		Bathrooms:    ptr(2),
		Garage:       ptr(1),
		Furnished:    ptr(true),
		ListingType:  "Rent",
	}

	got, err := Compose(f)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	want := []Predicate{
		{FieldListingType, OpEq, "rent"},
		{FieldPrice, OpGte, 1000.0},
		{FieldPrice, OpLte, 5000.0},
		{FieldPropertyType, OpEq, "house"},
		{FieldProvince, OpEq, "lusaka"},
		{FieldCategory, OpEq, "residential"},
		{"features.garden", OpEq, true},
		{"features.pool", OpEq, true},
		{FieldYearBuilt, OpGte, 2010},
		{FieldBedrooms, OpGte, 3},
		{FieldBathrooms, OpGte, 2},
		{FieldGarage, OpGte, 1},
		{FieldFurnished, OpEq, true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Compose =\n%v\nwant\n%v", got, want)
	}
}

func TestComposeOnlyListingType(t *testing.T) {
	got, err := Compose(Filter{ListingType: "sale"})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(got) != 1 || got[0] != (Predicate{FieldListingType, OpEq, "sale"}) {
		t.Fatalf("Compose = %v", got)
	}
}

func TestComposeFurnishedFalseIsAFilter(t *testing.T) {
	got, _ := Compose(Filter{ListingType: "rent", Furnished: ptr(false)})
	last := got[len(got)-1]
	if last != (Predicate{FieldFurnished, OpEq, false}) {
		t.Fatalf("last predicate = %v", last)
	}
}

func TestComposeRejects(t *testing.T) {
	tests := []struct {
		name string
		f    Filter
		want error
	}{
		{"missing listing type", Filter{Province: "lusaka"}, utils.ErrListingTypeRequired},
		{"blank listing type", Filter{ListingType: "  "}, utils.ErrListingTypeRequired},
		{"min above max", Filter{ListingType: "sale", MinPrice: ptr(10.0), MaxPrice: ptr(5.0)}, utils.ErrInvalidPriceRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preds, err := Compose(tt.f)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if preds != nil {
				t.Fatalf("predicates returned on error: %v", preds)
			}
		})
	}
}

func TestComposeEqualPriceBoundsAllowed(t *testing.T) {
	if _, err := Compose(Filter{ListingType: "sale", MinPrice: ptr(5.0), MaxPrice: ptr(5.0)}); err != nil {
		t.Fatalf("equal bounds rejected: %v", err)
	}
}

func TestAmenityMapping(t *testing.T) {
	for name, field := range amenityFields {
		t.Run(name, func(t *testing.T) {
			preds, err := Compose(Filter{ListingType: "sale", Amenities: []string{name}})
			if err != nil {
				t.Fatalf("Compose: %v", err)
			}
			var hits []Predicate
			for _, p := range preds {
				if _, ok := IsFeatureField(p.Field); ok {
					hits = append(hits, p)
				}
			}
			if len(hits) != 1 || hits[0] != (Predicate{field, OpEq, true}) {
				t.Fatalf("amenity predicates = %v, want exactly %s == true", hits, field)
			}
		})
	}
}

func TestUnknownAmenitiesDropped(t *testing.T) {
	preds, err := Compose(Filter{ListingType: "sale", Amenities: []string{"helipad", "", "moat"}})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(preds) != 1 {
		t.Fatalf("unknown amenities produced predicates: %v", preds)
	}
}

func TestDuplicateAmenitiesCollapse(t *testing.T) {
	preds, _ := Compose(Filter{ListingType: "sale", Amenities: []string{"Pool", "swimming pool", " POOL "}})
	if len(preds) != 2 {
		t.Fatalf("predicates = %v", preds)
	}
}

func TestIsFeatureField(t *testing.T) {
	if key, ok := IsFeatureField("features.solarPower"); !ok || key != "solarPower" {
		t.Fatalf("IsFeatureField = %q, %v", key, ok)
	}
	if _, ok := IsFeatureField("features."); ok {
		t.Fatal("empty key accepted")
	}
	if _, ok := IsFeatureField(FieldPrice); ok {
		t.Fatal("plain field treated as feature")
	}
}

func TestMatchLocation(t *testing.T) {
	listings := []db_models.Listing{
		{Title: "a", Address: "12 Kabulonga Road, Lusaka"},
		{Title: "b", Address: "Plot 4, Ndola"},
		{Title: "c", Address: "KABULONGA shopping area"},
		{Title: "d", Address: ""},
	}

	tests := []struct {
		location string
		want     []string
	}{
		{"", []string{"a", "b", "c", "d"}},
		{"   ", []string{"a", "b", "c", "d"}},
		{"kabulonga", []string{"a", "c"}},
		{"KaBuLoNgA", []string{"a", "c"}},
		{"ndola", []string{"b"}},
		{"kitwe", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			got := MatchLocation(listings, tt.location)
			titles := make([]string, 0, len(got))
			for _, l := range got {
				titles = append(titles, l.Title)
			}
			if !reflect.DeepEqual(titles, tt.want) {
				t.Fatalf("MatchLocation(%q) = %v, want %v", tt.location, titles, tt.want)
			}
		})
	}
}
