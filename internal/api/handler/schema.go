package handler

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/movieapp/movie-api/internal/core/domain"
)

// --- Requests ---

type registerRequest struct {
	Username string `json:"username" validate:"max=50"`
	Password string `json:"password"`
	Email    string `json:"email"    validate:"omitempty,email,max=100"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createMovieRequest struct {
	Title       string `json:"title"       validate:"max=255"`
	Description string `json:"description"`
	SourceURL   string `json:"source_url"  validate:"max=500"`
	ThumbURL    string `json:"thumb_url"   validate:"max=500"`
	Subtitle    string `json:"subtitle"    validate:"max=255"`
}

// updateMovieRequest distinguishes absent fields from explicit nulls.
type updateMovieRequest struct {
	Title       optionalString `json:"title"       validate:"omitempty,max=255"`
	Description optionalString `json:"description"`
	SourceURL   optionalString `json:"source_url"  validate:"omitempty,max=500"`
	ThumbURL    optionalString `json:"thumb_url"   validate:"omitempty,max=500"`
	Subtitle    optionalString `json:"subtitle"    validate:"omitempty,max=255"`
}

// optionalString remembers whether its key appeared in the body at all.
// It must be held by value: the decoder sets a nil pointer on null without
// consulting UnmarshalJSON.
type optionalString struct {
	Set   bool
	Null  bool
	Value string
}

func (o *optionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null, o.Value = true, ""
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// text returns the value for a non-nullable column. An explicit null reads
// as the empty string so the service rejects it.
func (o optionalString) text() *string {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

func (o optionalString) nullable() *domain.NullableString {
	if !o.Set {
		return nil
	}
	return &domain.NullableString{Value: o.Value, Valid: !o.Null}
}

// --- Responses ---

type userView struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Email     *string     `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

type movieView struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	SourceURL   string    `json:"source_url"`
	ThumbURL    *string   `json:"thumb_url"`
	Subtitle    *string   `json:"subtitle"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type authResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    userView `json:"user"`
}

type userResponse struct {
	Success bool     `json:"success"`
	User    userView `json:"user"`
}

type usersResponse struct {
	Success bool       `json:"success"`
	Users   []userView `json:"users"`
}

type pagination struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

type moviesPageResponse struct {
	Success    bool        `json:"success"`
	Movies     []movieView `json:"movies"`
	Pagination pagination  `json:"pagination"`
}

type moviesResponse struct {
	Success bool        `json:"success"`
	Movies  []movieView `json:"movies"`
}

type movieResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Movie   movieView `json:"movie"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type statsView struct {
	TotalMovies int64 `json:"totalMovies"`
	TotalUsers  int64 `json:"totalUsers"`
	TotalAdmins int64 `json:"totalAdmins"`
}

type statsResponse struct {
	Success bool      `json:"success"`
	Stats   statsView `json:"stats"`
}

// ErrorResponse is the envelope for every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
