package resolution

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold normalizes a spoken name for comparison: trims whitespace,
// lowercases, and strips combining diacritical marks so that "José" and
// "Jose" compare equal.
func Fold(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// Levenshtein returns the edit distance between two strings, computed
// over runes so multi-byte characters count as one edit.
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// Soundex returns the four-character Soundex code of a name, computed on
// the folded form. It absorbs the spelling drift transliterated names
// pick up ("Sunil" and "Suneel" share a code). Empty input yields "".
func Soundex(name string) string {
	upper := strings.ToUpper(Fold(name))
	letters := make([]rune, 0, len(upper))
	for _, r := range upper {
		if r >= 'A' && r <= 'Z' {
			letters = append(letters, r)
		}
	}
	if len(letters) == 0 {
		return ""
	}

	out := []byte{byte(letters[0])}
	last := soundexCode(letters[0])
	for _, r := range letters[1:] {
		c := soundexCode(r)
		switch {
		case c == 0:
			// Vowels separate duplicate codes; H and W do not.
			if r != 'H' && r != 'W' {
				last = 0
			}
		case c != last:
			out = append(out, '0'+c)
			last = c
		}
		if len(out) == 4 {
			break
		}
	}
	for len(out) < 4 {
		out = append(out, '0')
	}
	return string(out)
}

func soundexCode(r rune) byte {
	switch r {
	case 'B', 'F', 'P', 'V':
		return 1
	case 'C', 'G', 'J', 'K', 'Q', 'S', 'X', 'Z':
		return 2
	case 'D', 'T':
		return 3
	case 'L':
		return 4
	case 'M', 'N':
		return 5
	case 'R':
		return 6
	}
	return 0
}
