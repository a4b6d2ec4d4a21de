package availability

import (
	"slices"
	"strings"
	"time"

	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
)

// Policy holds the adjustable scheduling rules.
type Policy struct {
	StoreHours     []int
	VisitHours     []int
	StoreCapacity  int
	MobileCapacity int
	StoreWeekdays  []time.Weekday
	Condominiums   map[string]time.Weekday

	// BlockForwardOverlap makes a multi-hour service also require room in the hours it
	// runs into. Off unless the shop decides otherwise.
	BlockForwardOverlap bool
}

func DefaultPolicy() Policy {
	return Policy{
		StoreHours:     []int{9, 10, 11, 13, 14, 15, 16, 17},
		VisitHours:     []int{10, 11, 14, 15, 16},
		StoreCapacity:  2,
		MobileCapacity: 1,
		StoreWeekdays:  []time.Weekday{time.Monday, time.Tuesday},
		Condominiums: map[string]time.Weekday{
			"Vitta Parque":            time.Wednesday,
			"Residencial Bosque Azul": time.Thursday,
			"Condomínio Jardins":      time.Friday,
		},
	}
}

func (p Policy) Hours(svc service.Type) []int {
	if svc.IsVisit() {
		return p.VisitHours
	}
	return p.StoreHours
}

func (p Policy) Capacity(f service.Family) int {
	c := p.StoreCapacity
	if f == service.FamilyMobile {
		c = p.MobileCapacity
	}
	if c < 1 {
		return 1
	}
	return c
}

// CondominiumWeekday resolves a condominium name ignoring case and surrounding spaces.
func (p Policy) CondominiumWeekday(name string) (time.Weekday, bool) {
	key := normalize(name)
	for condo, wd := range p.Condominiums {
		if normalize(condo) == key {
			return wd, true
		}
	}
	return 0, false
}

func (p Policy) storeDayAllowed(wd time.Weekday) bool {
	return slices.Contains(p.StoreWeekdays, wd)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
