package model

import (
    "errors"
    "time"
)

// Film is a movie as exposed by the backing store's `films` resource.
// The JSON names mirror the store so records round-trip unchanged.
type Film struct {
    ID        string    `json:"id"`
    NameFilm  string    `json:"nameFilm"`
    Img       string    `json:"img,omitempty"`
    InfoFilm  InfoFilm  `json:"infoFilm"`
    Status    string    `json:"status,omitempty"` // showing or coming
    RatedView RatedView `json:"ratedView"`
}

// InfoFilm is the descriptive block of a film.  Duration is in minutes.
type InfoFilm struct {
    Duration    int          `json:"duration,omitempty"`
    Category    []string     `json:"category,omitempty"`
    Story       string       `json:"story,omitempty"`
    Director    string       `json:"director,omitempty"`
    Language    string       `json:"language,omitempty"`
    ReleaseDate string       `json:"releaseDate,omitempty"`
    Cast        []CastMember `json:"cast,omitempty"`
}

// CastMember is one credited actor.
type CastMember struct {
    Name string `json:"name"`
}

// RatedView holds the film's IMDb and audience scores.
type RatedView struct {
    IMDb float64 `json:"imdb"`
    User float64 `json:"user"`
}

// Showtime represents a scheduled screening of a film in a cinema room.
// Price is the base price from which every seat price is derived.  The
// record is owned by the backing store and treated as read-only.
type Showtime struct {
    ID       string    `json:"id"`
    FilmID   string    `json:"filmId"`
    CinemaID string    `json:"cinemaId,omitempty"`
    Cinema   string    `json:"cinema,omitempty"`
    RoomID   string    `json:"roomId,omitempty"`
    RoomType string    `json:"roomType,omitempty"`
    Datetime time.Time `json:"datetime"`
    Price    int64     `json:"price"`
}

// Validate checks the fields the booking workflow depends on.  It is
// applied to every showtime decoded from the store.
func (s Showtime) Validate() error {
    if s.ID == "" {
        return errors.New("showtime: missing id")
    }
    if s.Price < 0 {
        return errors.New("showtime: negative price")
    }
    return nil
}
