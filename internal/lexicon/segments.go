package lexicon

import (
	"strings"

	"golang.org/x/net/html"
)

// Segment is a run of code text with a single highlighting role.
type Segment struct {
	Role Role
	Text string
}

// Segments tokenizes span markup produced by CodeBlock into role-tagged runs.
// Adjacent runs with the same role are merged. Unknown tags are ignored.
func Segments(markup string) []Segment {
	var (
		out   []Segment
		roles []Role
	)
	emit := func(text string) {
		if text == "" {
			return
		}
		role := RolePlain
		if len(roles) > 0 {
			role = roles[len(roles)-1]
		}
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Text += text
			return
		}
		out = append(out, Segment{Role: role, Text: text})
	}

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return out
		case html.TextToken:
			emit(string(z.Text()))
		case html.StartTagToken:
			tok := z.Token()
			if tok.Data != "span" {
				continue
			}
			role := RolePlain
			for _, a := range tok.Attr {
				if a.Key == "class" && strings.HasPrefix(a.Val, "code-") {
					role = Role(strings.TrimPrefix(a.Val, "code-"))
				}
			}
			roles = append(roles, role)
		case html.EndTagToken:
			tok := z.Token()
			if tok.Data == "span" && len(roles) > 0 {
				roles = roles[:len(roles)-1]
			}
		}
	}
}

// PlainCode strips the markup, leaving the text a user would copy.
func PlainCode(markup string) string {
	var b strings.Builder
	for _, s := range Segments(markup) {
		b.WriteString(s.Text)
	}
	return b.String()
}
