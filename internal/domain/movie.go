package domain

import (
	"errors"
	"fmt"
	"net/url"
)

// SentinelNA is the literal string the upstream API uses for a missing
// field. It must never reach the display layer verbatim.
const SentinelNA = "N/A"

// RatingPlaceholder is shown when the upstream rating is missing or N/A.
const RatingPlaceholder = "—"

const imdbTitleBaseURL = "https://www.imdb.com/title/"

var (
	ErrInvalidQuery  = errors.New("query is required")
	ErrNotConfigured = errors.New("OMDB API key is not configured")
)

// UpstreamError carries the message of an explicit negative outcome
// reported by the discovery call (Response:"False").
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return "no movies found"
	}
	return e.Message
}

// MovieSummary is one discovery record, upstream field values intact.
type MovieSummary struct {
	ImdbID string `json:"imdbID"`
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	Poster string `json:"Poster"`
}

// MovieDetail is one detail record. Poster and ImdbRating may still
// hold the "N/A" sentinel at this layer.
type MovieDetail struct {
	ImdbID     string `json:"imdbID"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Poster     string `json:"Poster"`
	ImdbRating string `json:"imdbRating"`
}

// Movie is the normalized display entity. Poster is empty when the
// upstream poster was absent or the sentinel; Rating is the placeholder
// under the same condition for the upstream rating.
type Movie struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Poster  string `json:"poster,omitempty"`
	Rating  string `json:"rating"`
	Year    string `json:"year"`
	PageURL string `json:"pageUrl"`
}

type SearchResponse struct {
	Query        string  `json:"query"`
	Items        []Movie `json:"items"`
	TotalMatches int     `json:"totalMatches"`
	ElapsedMS    int64   `json:"elapsedMs"`
}

// Normalize maps a detail record into the display shape, substituting
// sentinels per the rules above.
func Normalize(detail MovieDetail) Movie {
	poster := detail.Poster
	if poster == SentinelNA {
		poster = ""
	}
	rating := detail.ImdbRating
	if rating == "" || rating == SentinelNA {
		rating = RatingPlaceholder
	}
	return Movie{
		ID:      detail.ImdbID,
		Title:   detail.Title,
		Poster:  poster,
		Rating:  rating,
		Year:    detail.Year,
		PageURL: ImdbTitleURL(detail.ImdbID),
	}
}

// ImdbTitleURL returns the external page URL for an IMDb identifier.
func ImdbTitleURL(imdbID string) string {
	return fmt.Sprintf("%s%s/", imdbTitleBaseURL, url.PathEscape(imdbID))
}
