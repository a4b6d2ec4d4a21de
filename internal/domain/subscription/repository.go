package subscription

import (
	"context"
	"time"

	"github.com/sandyspetshop/petshop-scheduler/internal/httperr"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
)

var ErrNotFound = httperr.ErrBusiness("subscription_not_found")

// Regenerate builds the rows to insert, given the instants the client keeps after its
// future occurrences are gone.
type Regenerate func(kept []time.Time) ([]models.Appointment, error)

type Repository interface {
	// -------- Monthly client --------
	// CreateMonthlyClient stores the client and its occurrence rows in one transaction.
	CreateMonthlyClient(ctx context.Context, mc *models.MonthlyClient, rows []models.Appointment) error
	GetMonthlyClient(ctx context.Context, id string) (*models.MonthlyClient, error)
	UpdateMonthlyClient(ctx context.Context, mc *models.MonthlyClient) error
	ListActive(ctx context.Context) ([]models.MonthlyClient, error)

	// -------- Occurrences --------
	// ReplaceFutureOccurrences runs in one transaction: removes the client's rows at or
	// after from in both collections, saves mc, then inserts whatever regen returns.
	// Any error leaves client and rows as they were. regen may be nil.
	ReplaceFutureOccurrences(
		ctx context.Context,
		mc *models.MonthlyClient,
		from time.Time,
		regen Regenerate,
	) (removed int64, err error)

	// NextAppointment is the first live row of the client at or after from, or nil.
	NextAppointment(ctx context.Context, clientID string, from time.Time) (*models.Appointment, error)
}
