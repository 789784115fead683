package domain

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFilmRequest() FilmRequest {
	return FilmRequest{
		Name:        "Heat",
		Description: "Crime drama",
		ReleaseDate: NewDate(1995, time.December, 15),
		Duration:    170,
		MPA:         &IDRef{ID: 4},
	}
}

func TestFilmRequestValidation(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.Struct(validFilmRequest()))

	tests := []struct {
		name   string
		mutate func(r *FilmRequest)
	}{
		{"blank name", func(r *FilmRequest) { r.Name = "   " }},
		{"long description", func(r *FilmRequest) { r.Description = string(make([]byte, 201)) }},
		{"release before cinema", func(r *FilmRequest) { r.ReleaseDate = NewDate(1895, time.December, 27) }},
		{"missing release date", func(r *FilmRequest) { r.ReleaseDate = Date{} }},
		{"zero duration", func(r *FilmRequest) { r.Duration = 0 }},
		{"missing mpa", func(r *FilmRequest) { r.MPA = nil }},
		{"zero genre id", func(r *FilmRequest) { r.Genres = []IDRef{{ID: 0}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validFilmRequest()
			tt.mutate(&req)
			assert.Error(t, v.Struct(req))
		})
	}
}

func TestFilmRequestEarliestReleaseDateAccepted(t *testing.T) {
	req := validFilmRequest()
	req.ReleaseDate = MinReleaseDate
	assert.NoError(t, NewValidator().Struct(req))
}

func TestUserRequestValidation(t *testing.T) {
	v := NewValidator()
	ok := UserRequest{Email: "neo@matrix.io", Login: "neo", Birthday: NewDate(1990, time.March, 1)}
	require.NoError(t, v.Struct(ok))

	withSpace := ok
	withSpace.Login = "the one"
	assert.Error(t, v.Struct(withSpace))

	badEmail := ok
	badEmail.Email = "neo.matrix.io"
	assert.Error(t, v.Struct(badEmail))

	future := ok
	future.Birthday = Date{Time: time.Now().UTC().AddDate(1, 0, 0)}
	assert.Error(t, v.Struct(future))
}

func TestUserRequestNameDefaultsToLogin(t *testing.T) {
	u := UserRequest{Email: "a@b.c", Login: "trinity", Name: "  "}.ToUser()
	assert.Equal(t, "trinity", u.Name)
}

func TestFilmRequestToFilmCollapsesDuplicates(t *testing.T) {
	req := validFilmRequest()
	req.Genres = []IDRef{{ID: 3}, {ID: 1}, {ID: 3}}
	req.Directors = []IDRef{{ID: 7}, {ID: 7}}

	f := req.ToFilm()
	assert.Equal(t, []Genre{{ID: 1}, {ID: 3}}, f.Genres)
	assert.Equal(t, []Director{{ID: 7}}, f.Directors)
	assert.Equal(t, int64(4), f.MPA.ID)
}

func TestDateJSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2020-02-29"`), &d))
	assert.Equal(t, 2020, d.Year())
	assert.Equal(t, time.February, d.Month())

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"2020-02-29"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"29.02.2020"`), &d))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2001, time.May, 4, 13, 0, 0, 0, time.Local)))
	assert.Equal(t, "2001-05-04", d.String())

	require.NoError(t, d.Scan([]byte("1999-12-31T00:00:00Z")))
	assert.Equal(t, "1999-12-31", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
}
