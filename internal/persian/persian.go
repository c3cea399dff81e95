// Package persian normalizes Persian text embedded in upstream payloads.
//
// The upstream mixes Arabic and Persian code points for the same letters and
// uses zero-width non-joiners inside names, so ticker matching needs a
// canonical form.
package persian

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/tsedata/tsetmc/internal/errs"
)

const zwnj = '‌'

// Arabic code points folded to their Persian equivalents.
var arabicToPersian = map[rune]rune{
	'ي': 'ی', // ARABIC YEH -> FARSI YEH
	'ى': 'ی', // ALEF MAKSURA -> FARSI YEH
	'ك': 'ک', // ARABIC KAF -> KEHEH
	'ة': 'ه', // TEH MARBUTA -> HEH
	'ؤ': 'و', // WAW WITH HAMZA -> WAW
	'إ': 'ا', // ALEF WITH HAMZA BELOW -> ALEF
	'أ': 'ا', // ALEF WITH HAMZA ABOVE -> ALEF
	// Arabic-Indic digits -> extended (Persian) digits.
	'٠': '۰', '١': '۱', '٢': '۲', '٣': '۳',
	'٤': '۴', '٥': '۵', '٦': '۶', '٧': '۷',
	'٨': '۸', '٩': '۹',
}

var folder = runes.Map(func(r rune) rune {
	if p, ok := arabicToPersian[r]; ok {
		return p
	}
	if r == zwnj {
		return ' '
	}
	return r
})

// CleanText folds Arabic characters to Persian, replaces zero-width
// non-joiners with spaces and collapses runs of whitespace.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	out, _, err := transform.String(folder, s)
	if err != nil {
		// Mapping transforms cannot fail on valid UTF-8; fall back to the
		// raw input for anything else.
		out = s
	}
	return strings.Join(strings.Fields(out), " ")
}

// NormalizeSymbol canonicalizes a ticker symbol for matching: cleaned text
// with all interior spaces removed.
func NormalizeSymbol(symbol string) (string, error) {
	if strings.TrimSpace(symbol) == "" {
		return "", errs.Validation("symbol", symbol, "stock symbol cannot be empty")
	}
	normalized := strings.Join(strings.Fields(CleanText(symbol)), "")
	if normalized == "" {
		return "", errs.Validation("symbol", symbol, "stock symbol is empty after normalization")
	}
	return normalized, nil
}
