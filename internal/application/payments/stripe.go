package payments

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"creativeminds-backend/internal/domain"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
)

// StripeCheckoutCreator uses Stripe Checkout Sessions as payment intents: the
// session id is the intent id and the hosted session URL is the payment URL.
type StripeCheckoutCreator struct {
	SecretKey  string
	SuccessURL string
	CancelURL  string
	Timeout    time.Duration
}

func (s *StripeCheckoutCreator) CreateIntent(ctx context.Context, in IntentRequest) (*Intent, error) {
	if s.SecretKey == "" {
		return nil, fmt.Errorf("%w: payments: STRIPE_SECRET_KEY is not set", domain.ErrExternalService)
	}
	stripe.Key = s.SecretKey

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	name := in.ProjectTitle
	if name == "" {
		name = "Project contribution"
	}
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.SuccessURL),
		CancelURL:  stripe.String(s.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(in.Currency)),
					UnitAmount: stripe.Int64(int64(math.Round(in.Amount * 100))),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(name),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"releaseType": releaseLocked,
			"projectId":   in.ProjectID,
		},
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: stripe checkout session: %v", domain.ErrExternalService, err)
	}
	return &Intent{ID: sess.ID, PaymentURL: sess.URL}, nil
}
