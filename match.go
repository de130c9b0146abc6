package stitch

import (
	"sort"
	"strings"
)

// Match represents the first occurrence of an asset's name inside a
// normalized message as a half-open [Start, End) span.
type Match struct {
	Start int
	End   int
	Asset Asset
}

// MatchAssets finds, for each asset, the first occurrence of its name
// inside the normalized message. Assets whose names do not occur
// contribute no match; assets with empty names are skipped. Matching
// uses raw substring semantics: an asset named "cat" matches inside
// "category". Later occurrences of a name are not represented.
func MatchAssets(normalized string, assets []Asset) []Match {
	var matches []Match
	for _, asset := range assets {
		name := strings.ToLower(asset.Name)
		if name == "" {
			continue
		}

		i := strings.Index(normalized, name)
		if i == -1 {
			continue
		}
		matches = append(matches, Match{Start: i, End: i + len(name), Asset: asset})
	}
	return matches
}

// OrderMatches returns the matched assets in playback order: ascending
// by match start. Matches with equal starts keep their relative input
// order, which is the catalog's discovery order.
func OrderMatches(matches []Match) []Asset {
	sorted := make([]Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	assets := make([]Asset, len(sorted))
	for i, m := range sorted {
		assets[i] = m.Asset
	}
	return assets
}
