package models

import (
	"strconv"
	"strings"
	"unicode"
)

// Room is a physical room in the building. Name is the canonical identifier
// ("GH 1420") and is globally unique.
type Room struct {
	Name string `json:"name"`
}

// SplitMergedRoom decomposes a merged display name into its constituent
// canonical room names. Two forms appear in the calendar feed:
//
//	"GH 1420&30"   -> ["GH 1420", "GH 1430"]   (second room = number + 10)
//	"GH 2410A&B"   -> ["GH 2410A", "GH 2410B"] (sibling letter suffix)
//
// A name without "&" is returned as-is. Merged names are display-only; only
// the constituents are ever valid assignment targets.
func SplitMergedRoom(name string) []string {
	idx := strings.IndexByte(name, '&')
	if idx < 0 {
		return []string{name}
	}
	first := name[:idx]
	suffix := name[idx+1:]

	if len(suffix) == 1 && unicode.IsLetter(rune(suffix[0])) {
		// Letter form: replace the trailing letter of the first room.
		base := strings.TrimRightFunc(first, unicode.IsLetter)
		return []string{first, base + suffix}
	}

	// Numeric form: the first room ends in a number; the sibling is that
	// number plus ten. The suffix digits are display shorthand only.
	cut := len(first)
	for cut > 0 && first[cut-1] >= '0' && first[cut-1] <= '9' {
		cut--
	}
	numStr := first[cut:]
	if numStr == "" {
		return []string{first}
	}
	n, err := strconv.Atoi(numStr)
	if err != nil {
		return []string{first}
	}
	return []string{first, first[:cut] + strconv.Itoa(n+10)}
}
