package search

import "strings"

const featuresPrefix = "features."

// amenityFields maps the amenity names offered by the search form to the
// nested boolean they are stored under.
var amenityFields = map[string]string{
	"swimming pool":     "features.pool",
	"pool":              "features.pool",
	"garden":            "features.garden",
	"security":          "features.security",
	"24/7 security":     "features.security",
	"parking":           "features.parking",
	"air conditioning":  "features.airConditioning",
	"gym":               "features.gym",
	"balcony":           "features.balcony",
	"borehole":          "features.borehole",
	"solar power":       "features.solarPower",
	"internet":          "features.internet",
	"wifi":              "features.internet",
	"electric fence":    "features.electricFence",
	"servants quarters": "features.servantsQuarters",
	"pet friendly":      "features.petFriendly",
}

// AmenityField resolves a display name to its field path.
func AmenityField(name string) (string, bool) {
	field, ok := amenityFields[strings.ToLower(strings.TrimSpace(name))]
	return field, ok
}

// IsFeatureField reports whether field addresses the feature bag and
// returns the key inside it.
func IsFeatureField(field string) (string, bool) {
	if !strings.HasPrefix(field, featuresPrefix) {
		return "", false
	}
	key := strings.TrimPrefix(field, featuresPrefix)
	return key, key != ""
}
