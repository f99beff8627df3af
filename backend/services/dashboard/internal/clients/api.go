package clients

// API bundles every resource client over one BaseClient.
type API struct {
	Users    *UsersClient
	Stations *StationsClient
	Spots    *SpotsClient
	Sessions *SessionsClient
	Vehicles *VehiclesClient
	Payments *PaymentsClient
}

// NewAPI builds all resource clients.
func NewAPI(baseURL string, httpClient HTTPDoer, opts ...Option) *API {
	base := NewBaseClient(baseURL, httpClient, opts...)
	return &API{
		Users:    NewUsersClient(base),
		Stations: NewStationsClient(base),
		Spots:    NewSpotsClient(base),
		Sessions: NewSessionsClient(base),
		Vehicles: NewVehiclesClient(base),
		Payments: NewPaymentsClient(base),
	}
}
