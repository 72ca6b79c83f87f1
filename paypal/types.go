package paypal

// Product is the catalog entry created once per deployment.
type Product struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Category    string `json:"category"`
}

// DefaultProduct is the monthly subscription product sold by the poem chat.
func DefaultProduct() Product {
	return Product{
		Name:        "Chat Poético IA - Suscripción Mensual",
		Description: "Acceso ilimitado al generador de poemas con IA",
		Type:        "SERVICE",
		Category:    "SOFTWARE",
	}
}

type Money struct {
	Value        string `json:"value"`
	CurrencyCode string `json:"currency_code"`
}

type Frequency struct {
	IntervalUnit  string `json:"interval_unit"`
	IntervalCount int    `json:"interval_count"`
}

type PricingScheme struct {
	FixedPrice Money `json:"fixed_price"`
}

type BillingCycle struct {
	Frequency     Frequency     `json:"frequency"`
	TenureType    string        `json:"tenure_type"`
	Sequence      int           `json:"sequence"`
	TotalCycles   int           `json:"total_cycles"` // 0 = sin fin
	PricingScheme PricingScheme `json:"pricing_scheme"`
}

type PaymentPreferences struct {
	AutoBillOutstanding     bool   `json:"auto_bill_outstanding"`
	SetupFee                Money  `json:"setup_fee"`
	SetupFeeFailureAction   string `json:"setup_fee_failure_action"`
	PaymentFailureThreshold int    `json:"payment_failure_threshold"`
}

type Taxes struct {
	Percentage string `json:"percentage"`
	Inclusive  bool   `json:"inclusive"`
}

// PlanRequest is the body of POST /v1/billing/plans.
type PlanRequest struct {
	ProductID          string             `json:"product_id"`
	Name               string             `json:"name"`
	Description        string             `json:"description"`
	Status             string             `json:"status"`
	BillingCycles      []BillingCycle     `json:"billing_cycles"`
	PaymentPreferences PaymentPreferences `json:"payment_preferences"`
	Taxes              Taxes              `json:"taxes"`
}

const (
	Currency     = "USD"
	MonthlyPrice = "25.00"
	SetupFee     = "0.00"

	PaymentFailureThreshold = 3
)

// MonthlyPlan builds the $25 USD/month plan, billed indefinitely, for productID.
func MonthlyPlan(productID string) PlanRequest {
	return PlanRequest{
		ProductID:   productID,
		Name:        "Plan Mensual Chat Poético",
		Description: "Suscripción mensual de $25 USD",
		Status:      "ACTIVE",
		BillingCycles: []BillingCycle{{
			Frequency:     Frequency{IntervalUnit: "MONTH", IntervalCount: 1},
			TenureType:    "REGULAR",
			Sequence:      1,
			TotalCycles:   0,
			PricingScheme: PricingScheme{FixedPrice: Money{Value: MonthlyPrice, CurrencyCode: Currency}},
		}},
		PaymentPreferences: PaymentPreferences{
			AutoBillOutstanding:     true,
			SetupFee:                Money{Value: SetupFee, CurrencyCode: Currency},
			SetupFeeFailureAction:   "CONTINUE",
			PaymentFailureThreshold: PaymentFailureThreshold,
		},
		Taxes: Taxes{Percentage: "0", Inclusive: false},
	}
}

// Resource is a created product or plan. Raw keeps the full PayPal response.
type Resource struct {
	ID     string
	Name   string
	Status string
	Raw    map[string]any
}

// SubscriptionStatus is whatever PayPal reports; the constants are the
// values it documents, others are passed through as-is.
type SubscriptionStatus string

const (
	StatusApprovalPending SubscriptionStatus = "APPROVAL_PENDING"
	StatusApproved        SubscriptionStatus = "APPROVED"
	StatusActive          SubscriptionStatus = "ACTIVE"
	StatusSuspended       SubscriptionStatus = "SUSPENDED"
	StatusCancelled       SubscriptionStatus = "CANCELLED"
	StatusExpired         SubscriptionStatus = "EXPIRED"
)

func (s SubscriptionStatus) Known() bool {
	switch s {
	case StatusApprovalPending, StatusApproved, StatusActive, StatusSuspended, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// SubscriptionDetails is the permissive view of GET /v1/billing/subscriptions/{id}.
// Fields PayPal did not send stay nil.
type SubscriptionDetails struct {
	Status          *SubscriptionStatus
	SubscriberEmail *string
}
