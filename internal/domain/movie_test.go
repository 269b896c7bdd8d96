package domain

import "testing"

func TestNormalizeSubstitutesSentinels(t *testing.T) {
	cases := []struct {
		name       string
		detail     MovieDetail
		wantPoster string
		wantRating string
	}{
		{
			name: "all fields present",
			detail: MovieDetail{
				ImdbID:     "tt1375666",
				Title:      "Inception",
				Year:       "2010",
				Poster:     "https://m.media-amazon.com/images/inception.jpg",
				ImdbRating: "8.8",
			},
			wantPoster: "https://m.media-amazon.com/images/inception.jpg",
			wantRating: "8.8",
		},
		{
			name:       "poster sentinel",
			detail:     MovieDetail{ImdbID: "tt0000001", Title: "X", Poster: "N/A", ImdbRating: "6.1"},
			wantPoster: "",
			wantRating: "6.1",
		},
		{
			name:       "rating sentinel",
			detail:     MovieDetail{ImdbID: "tt0000002", Title: "Y", Poster: "https://p/x.jpg", ImdbRating: "N/A"},
			wantPoster: "https://p/x.jpg",
			wantRating: RatingPlaceholder,
		},
		{
			name:       "rating missing",
			detail:     MovieDetail{ImdbID: "tt0000003", Title: "Z"},
			wantPoster: "",
			wantRating: RatingPlaceholder,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			movie := Normalize(tc.detail)
			if movie.Poster != tc.wantPoster {
				t.Fatalf("poster = %q, want %q", movie.Poster, tc.wantPoster)
			}
			if movie.Poster == SentinelNA {
				t.Fatalf("sentinel leaked into poster")
			}
			if movie.Rating != tc.wantRating {
				t.Fatalf("rating = %q, want %q", movie.Rating, tc.wantRating)
			}
			if movie.ID != tc.detail.ImdbID {
				t.Fatalf("id = %q, want %q", movie.ID, tc.detail.ImdbID)
			}
		})
	}
}

func TestImdbTitleURL(t *testing.T) {
	got := ImdbTitleURL("tt1375666")
	want := "https://www.imdb.com/title/tt1375666/"
	if got != want {
		t.Fatalf("url = %q, want %q", got, want)
	}
}

func TestNormalizeSetsPageURL(t *testing.T) {
	movie := Normalize(MovieDetail{ImdbID: "tt0468569", Title: "The Dark Knight"})
	if movie.PageURL != "https://www.imdb.com/title/tt0468569/" {
		t.Fatalf("pageUrl = %q", movie.PageURL)
	}
}

func TestUpstreamErrorMessageFallback(t *testing.T) {
	withMessage := &UpstreamError{Message: "Movie not found!"}
	if withMessage.Error() != "Movie not found!" {
		t.Fatalf("error = %q", withMessage.Error())
	}
	empty := &UpstreamError{}
	if empty.Error() != "no movies found" {
		t.Fatalf("fallback = %q", empty.Error())
	}
}
