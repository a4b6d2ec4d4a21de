package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
)

var (
	ErrUnknownService = errors.New("unknown service")
	ErrUnknownTier    = errors.New("unknown weight tier")
)

// UnitPrice is the per-visit price of a grooming service for a weight tier. Visit
// services cost nothing here and an unselected input yields 0.
func (c Catalog) UnitPrice(tier service.WeightTier, svc service.Type) (float64, error) {
	if tier == "" || svc == "" {
		return 0, nil
	}

	def, ok := service.Lookup(svc)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownService, svc)
	}
	if def.Component == service.ComponentNone {
		return 0, nil
	}

	t, ok := c.Tier(tier)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}

	switch def.Component {
	case service.ComponentBath:
		return roundCents(t.Bath), nil
	case service.ComponentGrooming:
		return roundCents(t.Grooming), nil
	default:
		return roundCents(t.Bath + t.Grooming), nil
	}
}

// AddonsTotal sums catalog prices; unknown ids count as zero.
func (c Catalog) AddonsTotal(ids []string) float64 {
	total := 0.0
	for _, id := range ids {
		if a, ok := c.Addon(id); ok {
			total += a.Price
		}
	}
	return roundCents(total)
}

// PackagePrice prices a subscription: each unit gets the flat discount (never below
// zero), multiplied by its quantity, plus the add-ons once.
func (c Catalog) PackagePrice(
	quantities map[service.Type]int,
	tier service.WeightTier,
	addons []string,
) (float64, error) {

	total := 0.0
	for _, svc := range service.CanonicalPriority {
		qty := quantities[svc]
		if qty <= 0 {
			continue
		}

		unit, err := c.DiscountedUnitPrice(tier, svc)
		if err != nil {
			return 0, err
		}
		total += unit * float64(qty)
	}

	for svc, qty := range quantities {
		if qty > 0 && !svc.Valid() {
			return 0, fmt.Errorf("%w: %q", ErrUnknownService, svc)
		}
	}

	return roundCents(total + c.AddonsTotal(addons)), nil
}

func (c Catalog) DiscountedUnitPrice(tier service.WeightTier, svc service.Type) (float64, error) {
	unit, err := c.UnitPrice(tier, svc)
	if err != nil {
		return 0, err
	}
	return roundCents(math.Max(0, unit-c.SubscriptionDiscount)), nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
