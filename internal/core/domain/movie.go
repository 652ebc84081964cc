package domain

import "time"

// Movie is a catalog entry. The video itself lives at SourceURL.
type Movie struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	SourceURL   string    `db:"source_url"`
	ThumbURL    *string   `db:"thumb_url"`
	Subtitle    *string   `db:"subtitle"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// NullableString is a patch value for a nullable column.
// A zero Valid with a non-nil pointer means "set the column to NULL".
type NullableString struct {
	Value string
	Valid bool
}

// Ptr returns the value as a nullable column pointer.
func (n NullableString) Ptr() *string {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// MoviePatch lists the columns an update touches. A nil field is left alone.
type MoviePatch struct {
	Title       *string
	SourceURL   *string
	Description *NullableString
	ThumbURL    *NullableString
	Subtitle    *NullableString
}

func (p MoviePatch) IsEmpty() bool {
	return p.Title == nil && p.SourceURL == nil &&
		p.Description == nil && p.ThumbURL == nil && p.Subtitle == nil
}

// Apply copies the present fields of p onto m.
func (p MoviePatch) Apply(m *Movie) {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.SourceURL != nil {
		m.SourceURL = *p.SourceURL
	}
	if p.Description != nil {
		m.Description = p.Description.Ptr()
	}
	if p.ThumbURL != nil {
		m.ThumbURL = p.ThumbURL.Ptr()
	}
	if p.Subtitle != nil {
		m.Subtitle = p.Subtitle.Ptr()
	}
}
