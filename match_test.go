package stitch_test

import (
	"reflect"
	"testing"

	stitch "github.com/rishikaushal2009/Audio-Stich"
)

// Ensure assets match at their first occurrence position.
func TestMatchAssets(t *testing.T) {
	assets := []stitch.Asset{
		{Name: "cat", Path: "cat.mp3"},
		{Name: "dog", Path: "dog.mp3"},
		{Name: "bird", Path: "bird.mp3"},
	}

	matches := stitch.MatchAssets("the dog and the cat and the dog", assets)
	if len(matches) != 2 {
		t.Fatalf("unexpected match count: %d", len(matches))
	}

	// Only the first occurrence of "dog" is represented.
	if m := matches[1]; m.Start != 4 || m.End != 7 || m.Asset.Name != "dog" {
		t.Fatalf("unexpected match: %#v", m)
	}
	if m := matches[0]; m.Start != 16 || m.End != 19 || m.Asset.Name != "cat" {
		t.Fatalf("unexpected match: %#v", m)
	}
}

// Ensure assets with empty names never match.
func TestMatchAssets_EmptyName(t *testing.T) {
	matches := stitch.MatchAssets("anything", []stitch.Asset{{Name: ""}})
	if len(matches) != 0 {
		t.Fatalf("unexpected match count: %d", len(matches))
	}
}

// Ensure playback order follows message order, not catalog order.
func TestOrderMatches(t *testing.T) {
	assets := []stitch.Asset{
		{Name: "cat", Path: "cat.mp3"},
		{Name: "dog", Path: "dog.mp3"},
	}

	matches := stitch.MatchAssets("the dog and the cat", assets)
	ordered := stitch.OrderMatches(matches)

	var names []string
	for _, a := range ordered {
		names = append(names, a.Name)
	}
	if !reflect.DeepEqual(names, []string{"dog", "cat"}) {
		t.Fatalf("unexpected order: %v", names)
	}
}

// Ensure an asset name that is a substring of another matches
// independently, with ties broken by catalog discovery order.
func TestOrderMatches_SubstringCollision(t *testing.T) {
	assets := []stitch.Asset{
		{Name: "cat", Path: "cat.mp3"},
		{Name: "category", Path: "category.mp3"},
	}

	matches := stitch.MatchAssets("category", assets)
	if len(matches) != 2 {
		t.Fatalf("unexpected match count: %d", len(matches))
	}
	for _, m := range matches {
		if m.Start != 0 {
			t.Fatalf("unexpected start for %q: %d", m.Asset.Name, m.Start)
		}
	}

	// Both match at 0; catalog order wins.
	ordered := stitch.OrderMatches(matches)
	if ordered[0].Name != "cat" || ordered[1].Name != "category" {
		t.Fatalf("unexpected order: %v, %v", ordered[0].Name, ordered[1].Name)
	}
}

// Ensure a message without any asset names yields no matches.
func TestMatchAssets_NoMatch(t *testing.T) {
	assets := []stitch.Asset{{Name: "cat"}, {Name: "dog"}}
	if matches := stitch.MatchAssets("nothing to see here", assets); len(matches) != 0 {
		t.Fatalf("unexpected match count: %d", len(matches))
	}
}
