package entity

import "time"

type PropertyType string

const (
	PropertyHouse     PropertyType = "house"
	PropertyApartment PropertyType = "apartment"
	PropertyLand      PropertyType = "land"
	PropertyOffice    PropertyType = "office"
)

type ListingStatus string

const (
	ListingAvailable ListingStatus = "available"
	ListingRented    ListingStatus = "rented"
	ListingSold      ListingStatus = "sold"
	ListingLeased    ListingStatus = "leased" // vehicles
)

// ListingKind discriminates which table a transaction's listing id refers to.
type ListingKind string

const (
	KindProperty ListingKind = "property"
	KindVehicle  ListingKind = "vehicle"
)

type PropertyListing struct {
	ID           string        `json:"id"`
	OwnerID      string        `json:"owner_id"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	PropertyType PropertyType  `json:"property_type"`
	Price        float64       `json:"price"`
	Location     string        `json:"location"`
	Latitude     *float64      `json:"latitude,omitempty"`
	Longitude    *float64      `json:"longitude,omitempty"`
	Images       []string      `json:"images"`
	Status       ListingStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

type VehicleListing struct {
	ID           string        `json:"id"`
	OwnerID      string        `json:"owner_id"`
	Title        string        `json:"title"`
	Make         string        `json:"make"`
	Model        string        `json:"model"`
	Year         int           `json:"year"`
	Price        float64       `json:"price"`
	Mileage      int           `json:"mileage"`
	FuelType     string        `json:"fuel_type,omitempty"`
	Transmission string        `json:"transmission,omitempty"`
	Images       []string      `json:"images"`
	Status       ListingStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}
