package trackid

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Ref is a normalized track reference. Internal voting logic only ever
// sees the derived key; Ref itself exists so callers can carry display
// fields alongside it.
type Ref struct {
	Title  string
	Artist string
	URI    string
}

// FromTitle builds a reference from a bare title string.
func FromTitle(title string) Ref {
	return Ref{Title: title}
}

// FromParts builds a reference from structured track fields.
func FromParts(title, artist, uri string) Ref {
	return Ref{Title: title, Artist: artist, URI: uri}
}

// Coerce accepts the loose shapes chat input produces and degrades to a
// best-effort string rendering for anything unrecognized.
func Coerce(value any) Ref {
	switch v := value.(type) {
	case Ref:
		return v
	case *Ref:
		if v == nil {
			return Ref{}
		}
		return *v
	case string:
		return FromTitle(v)
	case fmt.Stringer:
		return FromTitle(v.String())
	default:
		return FromTitle(fmt.Sprint(value))
	}
}

// Key returns the canonical comparison key for the reference.
func (r Ref) Key() string {
	return normalize(r.Title) + "|" + normalize(r.Artist)
}

// Display returns a human-readable rendering for chat announcements.
func (r Ref) Display() string {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		title = "unknown track"
	}
	artist := strings.TrimSpace(r.Artist)
	if artist == "" {
		return title
	}
	return title + " by " + artist
}

// KeyOf is shorthand for Coerce(value).Key().
func KeyOf(value any) string {
	return Coerce(value).Key()
}

var keyFolder = cases.Fold()

func normalize(value string) string {
	folded := keyFolder.String(strings.TrimSpace(value))
	return strings.Join(strings.Fields(folded), " ")
}
