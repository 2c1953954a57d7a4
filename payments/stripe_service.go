package payments

import (
	"log"
	"math"

	config "github.com/notesnest/backend/configs"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// PaymentIntent is the short-lived handle the frontend completes the
// card payment with.
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// InitStripe sets the package-wide API key once at startup.
func InitStripe() {
	key := config.Config("STRIPE_SECRET_KEY")
	if key == "" {
		log.Fatal("🔥 STRIPE_SECRET_KEY is not set")
	}
	stripe.Key = key
	log.Println("✅ Stripe client initialized")
}

// CreatePaymentIntent is a variable so handler tests can stub the
// gateway out.
var CreatePaymentIntent = createStripeIntent

func createStripeIntent(amount int64, currency string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}

	return &PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// ToMinorUnits converts a catalog price to the gateway's smallest
// currency unit (cents for USD).
func ToMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}
