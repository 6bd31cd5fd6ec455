package model

// Movie is read-only reference data for the booking core.  Titles are
// matched by case-insensitive substring during show resolution, so they
// act as canonical names rather than exact lookup keys.
//
// Fields:
//  ID    - movie.MovieID
//  Title - movie.Title
type Movie struct {
	ID    uint64 `json:"movieId"`
	Title string `json:"title"`
}
