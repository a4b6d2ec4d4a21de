package pricing

import (
	"slices"

	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
)

type Tier struct {
	ID       service.WeightTier `mapstructure:"id" json:"id"`
	Label    string             `mapstructure:"label" json:"label"`
	Bath     float64            `mapstructure:"bath" json:"bath"`
	Grooming float64            `mapstructure:"grooming" json:"grooming"`
}

// Addon is an optional extra sold with a grooming service. Empty constraint fields mean
// no restriction.
type Addon struct {
	ID              string               `mapstructure:"id" json:"id"`
	Label           string               `mapstructure:"label" json:"label"`
	Price           float64              `mapstructure:"price" json:"price"`
	OnlyTiers       []service.WeightTier `mapstructure:"only_tiers" json:"only_tiers,omitempty"`
	ExcludeTiers    []service.WeightTier `mapstructure:"exclude_tiers" json:"exclude_tiers,omitempty"`
	RequiresService service.Type         `mapstructure:"requires_service" json:"requires_service,omitempty"`
}

type HotelRates struct {
	Nightly      float64 `mapstructure:"nightly" json:"nightly"`
	Overnight    float64 `mapstructure:"overnight" json:"overnight"`
	BathGrooming float64 `mapstructure:"bath_grooming" json:"bath_grooming"`
	BathOnly     float64 `mapstructure:"bath_only" json:"bath_only"`
	Trainer      float64 `mapstructure:"trainer" json:"trainer"`
	Medical      float64 `mapstructure:"medical" json:"medical"`
	ExtraDay     float64 `mapstructure:"extra_day" json:"extra_day"`
	Transport    float64 `mapstructure:"transport" json:"transport"`
	Vet          float64 `mapstructure:"vet" json:"vet"`
	Training     float64 `mapstructure:"training" json:"training"`
	Bath         float64 `mapstructure:"bath" json:"bath"`
}

type Catalog struct {
	Tiers                []Tier             `mapstructure:"tiers" json:"tiers"`
	Addons               []Addon            `mapstructure:"addons" json:"addons"`
	SubscriptionDiscount float64            `mapstructure:"subscription_discount" json:"subscription_discount"`
	DaycarePlans         map[string]float64 `mapstructure:"daycare_plans" json:"daycare_plans"`
	Hotel                HotelRates         `mapstructure:"hotel" json:"hotel"`
}

func DefaultCatalog() Catalog {
	return Catalog{
		Tiers: []Tier{
			{ID: "ate_5kg", Label: "Até 5kg", Bath: 40, Grooming: 30},
			{ID: "5_10kg", Label: "5kg a 10kg", Bath: 45, Grooming: 35},
			{ID: "10_15kg", Label: "10kg a 15kg", Bath: 50, Grooming: 40},
			{ID: "15_20kg", Label: "15kg a 20kg", Bath: 55, Grooming: 45},
			{ID: "20_25kg", Label: "20kg a 25kg", Bath: 60, Grooming: 50},
			{ID: "25_30kg", Label: "25kg a 30kg", Bath: 65, Grooming: 55},
			{ID: "acima_30kg", Label: "Acima de 30kg", Bath: 75, Grooming: 65},
		},
		Addons: []Addon{
			{ID: "hidratacao", Label: "Hidratação", Price: 20},
			{ID: "corte_unhas", Label: "Corte de unhas", Price: 10},
			{ID: "escovacao_dentes", Label: "Escovação de dentes", Price: 15},
			{ID: "desembolo", Label: "Desembolo", Price: 25, ExcludeTiers: []service.WeightTier{"ate_5kg"}},
			{ID: "tosa_higienica", Label: "Tosa higiênica", Price: 15, RequiresService: service.Bath},
			{ID: "banho_ozonio", Label: "Banho de ozônio", Price: 30, OnlyTiers: []service.WeightTier{"ate_5kg", "5_10kg", "10_15kg"}},
		},
		SubscriptionDiscount: 10,
		DaycarePlans: map[string]float64{
			"2x_semana": 400,
			"3x_semana": 550,
			"5x_semana": 800,
		},
		Hotel: HotelRates{
			Nightly:      90,
			Overnight:    50,
			BathGrooming: 80,
			BathOnly:     50,
			Trainer:      60,
			Medical:      0,
			ExtraDay:     90,
			Transport:    40,
			Vet:          100,
			Training:     60,
			Bath:         50,
		},
	}
}

func (c Catalog) Tier(id service.WeightTier) (Tier, bool) {
	for _, t := range c.Tiers {
		if t.ID == id {
			return t, true
		}
	}
	return Tier{}, false
}

func (c Catalog) Addon(id string) (Addon, bool) {
	for _, a := range c.Addons {
		if a.ID == id {
			return a, true
		}
	}
	return Addon{}, false
}

// AddonAllowed applies the tier and service constraints of an add-on.
func AddonAllowed(a Addon, tier service.WeightTier, svc service.Type) bool {
	if len(a.OnlyTiers) > 0 && !slices.Contains(a.OnlyTiers, tier) {
		return false
	}
	if slices.Contains(a.ExcludeTiers, tier) {
		return false
	}
	if a.RequiresService != "" && a.RequiresService != svc {
		return false
	}
	return true
}

// AvailableAddons lists the add-ons selectable for a tier and service, in catalog order.
func (c Catalog) AvailableAddons(tier service.WeightTier, svc service.Type) []Addon {
	out := make([]Addon, 0, len(c.Addons))
	for _, a := range c.Addons {
		if AddonAllowed(a, tier, svc) {
			out = append(out, a)
		}
	}
	return out
}
