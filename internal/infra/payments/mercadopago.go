package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

var ErrNotConfigured = errors.New("mercado pago access token not configured")

// LinkRequest is one Checkout Pro charge.
type LinkRequest struct {
	ExternalReference string
	Title             string
	Description       string
	Amount            float64
	PayerName         string
}

type Link struct {
	PreferenceID string
	URL          string
	SandboxURL   string
}

type URLs struct {
	Success      string
	Failure      string
	Pending      string
	Notification string
}

// PreferenceAPI is the subset of the SDK preference client in use.
type PreferenceAPI interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

type MercadoPago struct {
	client PreferenceAPI
	urls   URLs
}

// NewMercadoPago builds the SDK client. An empty token yields a gateway that refuses
// every request with ErrNotConfigured.
func NewMercadoPago(accessToken string, urls URLs) (*MercadoPago, error) {
	if accessToken == "" {
		return &MercadoPago{urls: urls}, nil
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &MercadoPago{client: preference.NewClient(cfg), urls: urls}, nil
}

func NewMercadoPagoWithClient(client PreferenceAPI, urls URLs) *MercadoPago {
	return &MercadoPago{client: client, urls: urls}
}

func (m *MercadoPago) CreateLink(ctx context.Context, req LinkRequest) (*Link, error) {
	if m.client == nil {
		return nil, ErrNotConfigured
	}

	pref := preference.Request{
		Items: []preference.ItemRequest{
			{
				ID:          req.ExternalReference,
				Title:       req.Title,
				Description: req.Description,
				Quantity:    1,
				UnitPrice:   req.Amount,
				CurrencyID:  "BRL",
			},
		},
		Payer: &preference.PayerRequest{
			Name: req.PayerName,
		},
		ExternalReference: req.ExternalReference,
		NotificationURL:   m.urls.Notification,
	}

	if m.urls.Success != "" {
		pref.AutoReturn = "approved"
		pref.BackURLs = &preference.BackURLsRequest{
			Success: m.urls.Success,
			Failure: m.urls.Failure,
			Pending: m.urls.Pending,
		}
	}

	res, err := m.client.Create(ctx, pref)
	if err != nil {
		return nil, fmt.Errorf("mercadopago preference: %w", err)
	}

	return &Link{
		PreferenceID: res.ID,
		URL:          res.InitPoint,
		SandboxURL:   res.SandboxInitPoint,
	}, nil
}
