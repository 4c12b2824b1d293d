package catalog

// Filter restricts results to records with the given attribute values.
// Empty fields do not constrain; set fields must match exactly.
type Filter struct {
	OntologyClass    string `msgpack:"class,omitempty"`
	Region           string `msgpack:"region,omitempty"`
	Category         string `msgpack:"category,omitempty"`
	Preparation      string `msgpack:"preparation,omitempty"`
	NutritionalFocus string `msgpack:"nutrition,omitempty"`
}

// IsZero reports whether the filter accepts every record.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Matches reports whether rec satisfies every set field of f.
func (f Filter) Matches(rec Record) bool {
	return matchField(f.OntologyClass, rec.OntologyClass) &&
		matchField(f.Region, rec.Region) &&
		matchField(f.Category, rec.Category) &&
		matchField(f.Preparation, rec.Preparation) &&
		matchField(f.NutritionalFocus, rec.NutritionalFocus)
}

func matchField(want, got string) bool {
	return want == "" || want == got
}
