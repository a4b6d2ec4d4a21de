package pricing

import (
	"math"
	"time"
)

type DaycareEnrollment struct {
	TotalPrice float64
	Plan       string
	Extras     ExtraServices
}

type HotelStay struct {
	CheckIn  time.Time
	CheckOut time.Time
	Extras   ExtraServices

	// Flags kept on registrations created before itemized extras existed.
	Transport bool
	Vet       bool
	Training  bool
	Bath      bool

	// TotalServicesPrice, when positive, is the negotiated total and replaces the computation.
	TotalServicesPrice float64
}

// DaycareInvoiceTotal is the explicit total (or the plan price) plus enabled extras.
func (c Catalog) DaycareInvoiceTotal(e DaycareEnrollment) float64 {
	base := 0.0
	switch {
	case e.TotalPrice > 0:
		base = e.TotalPrice
	case e.Plan != "":
		base = c.DaycarePlans[e.Plan]
	}
	return roundCents(base + e.Extras.Sum())
}

// Nights counts started days between check-in and check-out, at least one.
func Nights(checkIn, checkOut time.Time) int {
	if checkIn.IsZero() || checkOut.IsZero() {
		return 1
	}
	days := math.Ceil(checkOut.Sub(checkIn).Hours() / 24)
	if days < 1 {
		return 1
	}
	return int(days)
}

func (c Catalog) HotelInvoiceTotal(s HotelStay) float64 {
	if s.TotalServicesPrice > 0 {
		return roundCents(s.TotalServicesPrice)
	}

	rates := c.Hotel
	total := rates.Nightly * float64(Nights(s.CheckIn, s.CheckOut))

	withDefault := func(it LineItem, def float64) float64 {
		if !it.Enabled {
			return 0
		}
		if it.Value > 0 {
			return it.Value
		}
		return def
	}

	total += withDefault(s.Extras.Overnight, rates.Overnight)
	total += withDefault(s.Extras.BathGrooming, rates.BathGrooming)
	total += withDefault(s.Extras.BathOnly, rates.BathOnly)
	total += withDefault(s.Extras.Trainer, rates.Trainer)
	total += withDefault(s.Extras.Medical, rates.Medical)

	if d := s.Extras.ExtraDays; d.Enabled && d.Quantity > 0 {
		rate := d.Value
		if rate <= 0 {
			rate = rates.ExtraDay
		}
		total += float64(d.Quantity) * rate
	}

	for _, flag := range []struct {
		on    bool
		price float64
	}{
		{s.Transport, rates.Transport},
		{s.Vet, rates.Vet},
		{s.Training, rates.Training},
		{s.Bath, rates.Bath},
	} {
		if flag.on {
			total += flag.price
		}
	}

	return roundCents(total)
}
