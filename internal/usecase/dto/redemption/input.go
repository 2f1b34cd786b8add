package redemptiondto

type RedeemInput struct {
	DealID      string
	Code        string
	CustomerID  string
	OrderAmount float64
	Location    *LocationInput
}

type LocationInput struct {
	Latitude  float64
	Longitude float64
}
