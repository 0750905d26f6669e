package entity

import "time"

type PaymentGateway string

const (
	GatewayChapa    PaymentGateway = "chapa"
	GatewayTelebirr PaymentGateway = "telebirr"
	GatewayStripe   PaymentGateway = "stripe"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

// Transaction records a purchase attempt by a buyer against a property or
// vehicle listing. Reference is the gateway's unique payment code.
type Transaction struct {
	ID          string         `json:"id"`
	BuyerID     string         `json:"buyer_id"`
	ListingID   string         `json:"listing_id"`
	ListingKind ListingKind    `json:"listing_kind"`
	Amount      float64        `json:"amount"`
	Gateway     PaymentGateway `json:"gateway"`
	Status      PaymentStatus  `json:"status"`
	Reference   string         `json:"reference"`
	CreatedAt   time.Time      `json:"created_at"`
}
