package model

import "time"

// Show is one scheduled screening of a movie on a screen at a specific
// time.  Shows are immutable scheduling facts as far as the booking core
// is concerned: it reads them during resolution and never writes them.
//
// Fields:
//  ID       - show.ShowID
//  ScreenID - show.ScreenID
//  MovieID  - show.MovieID
//  ShowTime - show.ShowTime (UTC)
type Show struct {
	ID       uint64    `json:"showId"`
	ScreenID uint64    `json:"screenId"`
	MovieID  uint64    `json:"movieId"`
	ShowTime time.Time `json:"showTime"`
}
