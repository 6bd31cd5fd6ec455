package model

// Theater is a venue containing one or more screens.  Like movies,
// theaters are read-only reference data from this service's perspective.
//
// Fields:
//  ID   - theater.TheaterID
//  Name - theater.Name
type Theater struct {
	ID   uint64 `json:"theaterId"`
	Name string `json:"name"`
}

// Screen is a single auditorium inside a theater.  Every screen belongs
// to exactly one theater; seats booked for a show record the screen they
// were sold on.
//
// Fields:
//  ID        - screen.ScreenID
//  TheaterID - screen.TheaterID
type Screen struct {
	ID        uint64 `json:"screenId"`
	TheaterID uint64 `json:"theaterId"`
}
