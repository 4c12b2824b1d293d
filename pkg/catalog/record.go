package catalog

import "github.com/bastiangx/foodserve/internal/utils"

// Unknown is the placeholder attribute value used by catalog files for
// missing information. It is never indexed.
const Unknown = "Unknown"

// Record describes one catalog entry. Empty strings mean absent.
type Record struct {
	Ingredients      []string `json:"primary_ingredients,omitempty" msgpack:"primary_ingredients,omitempty"`
	CulturalOrigin   string   `json:"cultural_origin,omitempty" msgpack:"cultural_origin,omitempty"`
	Category         string   `json:"category,omitempty" msgpack:"category,omitempty"`
	OntologyClass    string   `json:"ontology_class,omitempty" msgpack:"ontology_class,omitempty"`
	FoodType         string   `json:"food_type,omitempty" msgpack:"food_type,omitempty"`
	Region           string   `json:"region,omitempty" msgpack:"region,omitempty"`
	Preparation      string   `json:"preparation,omitempty" msgpack:"preparation,omitempty"`
	NutritionalFocus string   `json:"nutritional_focus,omitempty" msgpack:"nutritional_focus,omitempty"`
}

// DefaultRecord is what Mapping returns for names missing from a catalog.
func DefaultRecord() Record {
	return Record{
		OntologyClass: "Food",
		FoodType:      Unknown,
		Category:      Unknown,
		Region:        Unknown,
	}
}

// IndexedOrigin returns the cultural origin if it should be indexed.
func (r Record) IndexedOrigin() (string, bool) {
	return indexable(r.CulturalOrigin)
}

// IndexedCategory returns the category if it should be indexed.
func (r Record) IndexedCategory() (string, bool) {
	return indexable(r.Category)
}

func indexable(v string) (string, bool) {
	if v == "" || v == Unknown {
		return "", false
	}
	return v, true
}

// recordFromMap reads the known attributes out of a decoded JSON or TOML
// table. Fields with unexpected types are treated as absent.
func recordFromMap(m map[string]any) Record {
	var r Record
	if m == nil {
		return r
	}
	r.Ingredients, _ = utils.ExtractStrings(m, "primary_ingredients")
	r.CulturalOrigin, _ = utils.ExtractString(m, "cultural_origin")
	r.Category, _ = utils.ExtractString(m, "category")
	r.OntologyClass, _ = utils.ExtractString(m, "ontology_class")
	r.FoodType, _ = utils.ExtractString(m, "food_type")
	r.Region, _ = utils.ExtractString(m, "region")
	r.Preparation, _ = utils.ExtractString(m, "preparation")
	r.NutritionalFocus, _ = utils.ExtractString(m, "nutritional_focus")
	return r
}
