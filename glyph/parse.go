package glyph

import (
	"strings"
	"unicode"

	"github.com/forPelevin/gomoji"
	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"

	"github.com/pthm-cable/aquarium/prng"
)

// Parse splits free text into a deduplicated glyph list.
// Emoji grapheme clusters are kept in order of first appearance; when
// the text holds none, it is split on whitespace and commas instead.
func Parse(input string) []string {
	input = norm.NFC.String(input)

	var found []string
	gr := uniseg.NewGraphemes(input)
	for gr.Next() {
		cluster := gr.Str()
		if isEmoji(cluster) {
			found = append(found, cluster)
		}
	}

	if len(found) == 0 {
		found = strings.FieldsFunc(input, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
	}
	return addUnique(nil, found)
}

// RandomSelection returns n distinct glyphs from the showcase list.
// n is clamped to the list size.
func RandomSelection(rng *prng.RNG, n int) []string {
	list := append([]string(nil), showcase...)
	for i := len(list) - 1; i > 0; i-- {
		j := int(rng.Float64() * float64(i+1))
		list[i], list[j] = list[j], list[i]
	}
	if n < 0 {
		n = 0
	}
	if n > len(list) {
		n = len(list)
	}
	return list[:n]
}

// isEmoji reports whether cluster is a listed emoji sequence. Clusters typed
// without the emoji variation selector are accepted when the qualified form
// is listed.
func isEmoji(cluster string) bool {
	if gomoji.ContainsEmoji(cluster) {
		return true
	}
	return !strings.ContainsRune(cluster, variationSelector) &&
		gomoji.ContainsEmoji(cluster+string(variationSelector))
}

const variationSelector = '\uFE0F'
