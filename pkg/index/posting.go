package index

// Kind says why a term points at an entity.
type Kind string

const (
	KindName        Kind = "name"
	KindAlternative Kind = "alternative"
	KindIngredient  Kind = "ingredient"
	KindCulture     Kind = "culture"
	KindCategory    Kind = "category"
)

// Base weights per kind, independent of any query.
const (
	WeightName        = 1.0
	WeightAlternative = 0.8
	WeightIngredient  = 0.6
	WeightCulture     = 0.5
	WeightCategory    = 0.4
)

// Weight returns the base weight of k, or 0 for unknown kinds.
func (k Kind) Weight() float64 {
	switch k {
	case KindName:
		return WeightName
	case KindAlternative:
		return WeightAlternative
	case KindIngredient:
		return WeightIngredient
	case KindCulture:
		return WeightCulture
	case KindCategory:
		return WeightCategory
	}
	return 0
}

// Posting links a term to an entity.
type Posting struct {
	Entity string
	Kind   Kind
	Weight float64
}
