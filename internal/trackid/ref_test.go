package trackid_test

import (
	"testing"

	"tonearm/internal/trackid"
)

func TestKeyIsCaseAndWhitespaceInsensitive(t *testing.T) {
	a := trackid.FromParts("  Paranoid  Android ", "RADIOHEAD", "spotify:track:abc")
	b := trackid.FromParts("paranoid android", "Radiohead", "")
	if a.Key() != b.Key() {
		t.Fatalf("expected matching keys, got %q and %q", a.Key(), b.Key())
	}
}

func TestKeyMatchesAcrossReferenceShapes(t *testing.T) {
	structured := trackid.FromParts("Karma Police", "", "")
	bare := trackid.FromTitle("karma  police")
	if structured.Key() != bare.Key() {
		t.Fatalf("bare title and structured ref should agree: %q vs %q", structured.Key(), bare.Key())
	}
}

func TestKeySeparatesTitleAndArtist(t *testing.T) {
	a := trackid.FromParts("Help", "Beatles", "")
	b := trackid.FromParts("Help Beatles", "", "")
	if a.Key() == b.Key() {
		t.Fatalf("title/artist boundary must be preserved, both gave %q", a.Key())
	}
}

func TestCoerceDegradesGracefully(t *testing.T) {
	if got := trackid.KeyOf("One More Time"); got != trackid.FromTitle("one more time").Key() {
		t.Fatalf("string coercion mismatch: %q", got)
	}
	if got := trackid.KeyOf(42); got != trackid.FromTitle("42").Key() {
		t.Fatalf("fallback coercion mismatch: %q", got)
	}
	var nilRef *trackid.Ref
	if got := trackid.KeyOf(nilRef); got != (trackid.Ref{}).Key() {
		t.Fatalf("nil ref should coerce to empty ref, got %q", got)
	}
}

func TestDisplay(t *testing.T) {
	if got := trackid.FromParts("Roygbiv", "Boards of Canada", "").Display(); got != "Roygbiv by Boards of Canada" {
		t.Fatalf("unexpected display: %q", got)
	}
	if got := (trackid.Ref{}).Display(); got != "unknown track" {
		t.Fatalf("unexpected empty display: %q", got)
	}
}
