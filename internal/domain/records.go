package domain

import (
	"fmt"
	"slices"
	"time"
)

// ContentType identifies one listing on the source site and the collection it is stored in.
type ContentType string

const (
	ContentEvents  ContentType = "eventos"
	ContentAgenda  ContentType = "agenda"
	ContentNotices ContentType = "avisos"
	ContentNews    ContentType = "noticias"
)

// AllContentTypes is the default full sync order.
var AllContentTypes = []ContentType{ContentEvents, ContentAgenda, ContentNotices, ContentNews}

// ParseContentType validates a slug coming from a route or CLI argument.
func ParseContentType(s string) (ContentType, error) {
	for _, ct := range AllContentTypes {
		if string(ct) == s {
			return ct, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownContentType, s)
}

// ValidationMode returns how strictly records of this type are checked before insert.
func (c ContentType) ValidationMode() ValidationMode {
	if c == ContentAgenda {
		return Strict
	}
	return Lenient
}

type ValidationMode int

const (
	Lenient ValidationMode = iota
	Strict
)

// RawListingItem is one listing row as it came out of the DOM.
type RawListingItem struct {
	RawDateText *string
	Title       *string
	Subtitle    *string
	DetailLink  *string
}

// Record is anything the ingestion engine can persist.
type Record interface {
	Validate(mode ValidationMode) error
}

// Records converts a typed slice for the ingestion engine.
func Records[T Record](items []T) []Record {
	out := make([]Record, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// EventRecord is shared by the eventos and agenda listings.
type EventRecord struct {
	ID        int64     `db:"id" json:"id,omitempty"`
	EventDate *string   `db:"event_date" json:"event_date"`
	EventTime *string   `db:"event_time" json:"event_time"`
	Title     *string   `db:"title" json:"title"`
	Location  *string   `db:"location" json:"location"`
	CreatedAt time.Time `db:"created_at" json:"created_at,omitzero"`
}

func (e EventRecord) Validate(mode ValidationMode) error {
	required := map[string]*string{"title": e.Title}
	if mode == Strict {
		required["event_date"] = e.EventDate
		required["event_time"] = e.EventTime
		required["location"] = e.Location
	}
	return checkRequired(required)
}

// DefaultCategory is assigned to notices no rule matches.
const DefaultCategory = "Sin categoría"

type NoticeRecord struct {
	ID        int64     `db:"id" json:"id,omitempty"`
	Title     *string   `db:"title" json:"title"`
	Subtitle  *string   `db:"subtitle" json:"subtitle"`
	Link      *string   `db:"link" json:"link"`
	Content   *string   `db:"content" json:"content"`
	Category  string    `db:"category" json:"category"`
	CreatedAt time.Time `db:"created_at" json:"created_at,omitzero"`
}

func (n NoticeRecord) Validate(ValidationMode) error {
	return checkRequired(map[string]*string{"title": n.Title})
}

type NewsRecord struct {
	ID        int64     `db:"id" json:"id,omitempty"`
	Title     *string   `db:"title" json:"title"`
	RawDate   *string   `db:"raw_date" json:"raw_date"`
	Content   *string   `db:"content" json:"content"`
	Link      *string   `db:"link" json:"link"`
	CreatedAt time.Time `db:"created_at" json:"created_at,omitzero"`
}

func (n NewsRecord) Validate(ValidationMode) error {
	return checkRequired(map[string]*string{
		"title":    n.Title,
		"raw_date": n.RawDate,
		"link":     n.Link,
	})
}

func checkRequired(fields map[string]*string) error {
	var missing []string
	for name, v := range fields {
		if v == nil || *v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return &ValidationError{Missing: missing}
}
