package crawler

import (
	"regexp"
	"strings"
)

// Whitespace here includes Unicode space separators so that a no-break space
// ends a handle the same way an ASCII space does.
var (
	// leadingMention matches a reply that opens with a mention. The handle may
	// be followed by one more token, which covers display names with a space
	// that YouTube inserts when replying to a reply.
	leadingMention = regexp.MustCompile(`^[\s\p{Z}]*@([^\s\p{Z}]+(?:[\s\p{Z}]+[^\s\p{Z}]+)?)`)

	// inlineMention matches a single-token mention anywhere in the text.
	inlineMention = regexp.MustCompile(`@([^\s\p{Z}]+)`)
)

// ExtractDestination returns the addressee mentioned in a reply's text.
//
// A reply that starts with "@" yields the handle plus at most one following
// token ("@carol smith see above" gives "carol smith"). Otherwise the first
// "@" directly followed by a non-space run yields that run alone
// ("hi @bob thanks" gives "bob"). Text without a usable mention, including
// text where "@" is followed by whitespace or ends the string, yields "".
func ExtractDestination(text string) string {
	if !strings.Contains(text, "@") {
		return ""
	}
	if m := leadingMention.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := inlineMention.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}
