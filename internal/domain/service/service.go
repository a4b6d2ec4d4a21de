package service

// Type is the service catalog key stored on appointments and subscriptions.
type Type string

const (
	Bath               Type = "banho"
	Grooming           Type = "tosa"
	BathGrooming       Type = "banho_tosa"
	MobileBath         Type = "pet_movel_banho"
	MobileGrooming     Type = "pet_movel_tosa"
	MobileBathGrooming Type = "pet_movel_banho_tosa"
	DaycareVisit       Type = "visita_creche"
	HotelVisit         Type = "visita_hotel"
)

// Family selects the physical collection and the capacity rule.
type Family string

const (
	FamilyStore  Family = "store"
	FamilyMobile Family = "mobile"
)

func (f Family) Valid() bool {
	return f == FamilyStore || f == FamilyMobile
}

// Kind selects the working-hour set.
type Kind string

const (
	KindGrooming Kind = "grooming"
	KindVisit    Kind = "visit"
)

// Component says which tier prices make up the unit price.
type Component int

const (
	ComponentNone Component = iota
	ComponentBath
	ComponentGrooming
	ComponentBoth
)

type WeightTier string

// TierNotApplicable is stamped on visit services, which have no weight pricing.
const TierNotApplicable WeightTier = "N/A"

type Definition struct {
	Type          Type
	Label         string
	DurationHours int
	Family        Family
	Kind          Kind
	Component     Component
}

var definitions = map[Type]Definition{
	Bath:               {Bath, "Banho", 1, FamilyStore, KindGrooming, ComponentBath},
	Grooming:           {Grooming, "Tosa", 1, FamilyStore, KindGrooming, ComponentGrooming},
	BathGrooming:       {BathGrooming, "Banho & Tosa", 2, FamilyStore, KindGrooming, ComponentBoth},
	MobileBath:         {MobileBath, "Pet Móvel - Banho", 1, FamilyMobile, KindGrooming, ComponentBath},
	MobileGrooming:     {MobileGrooming, "Pet Móvel - Tosa", 1, FamilyMobile, KindGrooming, ComponentGrooming},
	MobileBathGrooming: {MobileBathGrooming, "Pet Móvel - Banho & Tosa", 2, FamilyMobile, KindGrooming, ComponentBoth},
	DaycareVisit:       {DaycareVisit, "Visita Creche", 1, FamilyStore, KindVisit, ComponentNone},
	HotelVisit:         {HotelVisit, "Visita Hotel", 1, FamilyStore, KindVisit, ComponentNone},
}

// CanonicalPriority orders services when one label must represent a subscription package.
var CanonicalPriority = []Type{
	BathGrooming,
	Bath,
	Grooming,
	MobileBathGrooming,
	MobileBath,
	MobileGrooming,
}

func Lookup(t Type) (Definition, bool) {
	d, ok := definitions[t]
	return d, ok
}

func All() []Definition {
	out := make([]Definition, 0, len(definitions))
	for _, t := range append(append([]Type{}, CanonicalPriority...), DaycareVisit, HotelVisit) {
		out = append(out, definitions[t])
	}
	return out
}

func (t Type) Valid() bool {
	_, ok := definitions[t]
	return ok
}

func (t Type) Family() Family {
	return definitions[t].Family
}

func (t Type) IsMobile() bool {
	return t.Family() == FamilyMobile
}

func (t Type) IsVisit() bool {
	return definitions[t].Kind == KindVisit
}

func (t Type) Duration() int {
	if d, ok := definitions[t]; ok && d.DurationHours > 0 {
		return d.DurationHours
	}
	return 1
}

func (t Type) Label() string {
	if d, ok := definitions[t]; ok {
		return d.Label
	}
	return string(t)
}

// Canonical picks the first service of CanonicalPriority with a positive quantity.
func Canonical(quantities map[Type]int) (Type, bool) {
	for _, t := range CanonicalPriority {
		if quantities[t] > 0 {
			return t, true
		}
	}
	return "", false
}
