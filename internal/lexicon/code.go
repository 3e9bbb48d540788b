package lexicon

import (
	"fmt"
	"strings"

	"glorp/internal/logging"
)

// Role is the highlighting class of a pseudo-code token.
type Role string

const (
	RoleKeyword  Role = "keyword"
	RoleFunction Role = "function"
	RoleOperator Role = "operator"
	RoleNumber   Role = "number"
	RoleBracket  Role = "bracket"
	RolePlain    Role = "" // identifiers, whitespace, punctuation
)

var (
	codeKeywords = []string{"glorp", "florp", "blop", "zork", "prunk", "glorpify", "blorpinate"}
	operators    = []string{"==", "!=", ">", "<", "&&", "||", "+", "-", "*", "/", "%"}
)

const indentUnit = "  "

// span wraps text in the markup the renderers understand.
func span(role Role, text string) string {
	return fmt.Sprintf(`<span class="code-%s">%s</span>`, role, text)
}

// CodeBlock returns lineCount lines of glorpscript (more if blocks are left
// open; they are closed at the end). Lines are joined by "\n".
// A count <= 0 returns "".
func (g *Generator) CodeBlock(lineCount int) string {
	if lineCount <= 0 {
		return ""
	}

	lines := make([]string, 0, lineCount+4)
	indent := 0

	for i := 0; i < lineCount; i++ {
		pad := strings.Repeat(indentUnit, indent)
		r := g.rng.Float64()

		var line string
		switch {
		case r < 0.3:
			// function declaration
			kw := g.pick(codeKeywords)
			name := g.Word()
			param := g.Word()
			line = pad + span(RoleKeyword, kw) + " " + span(RoleFunction, name) +
				span(RoleBracket, "(") + param + span(RoleBracket, ")") + " " + span(RoleBracket, "{")
			indent++
		case r < 0.5:
			// assignment
			op := g.pick(operators)
			name := g.Word()
			value := g.Word()
			var rhs string
			if g.rng.Float64() < 0.5 {
				rhs = span(RoleFunction, value) + span(RoleBracket, "()")
			} else {
				rhs = span(RoleNumber, value)
			}
			line = pad + name + " " + span(RoleOperator, op) + " " + rhs + ";"
		case r < 0.7:
			// if statement
			cond := g.Word()
			op := g.pick(operators)
			n := g.rng.Intn(100)
			line = pad + span(RoleKeyword, "if") + " " + span(RoleBracket, "(") + cond + " " +
				span(RoleOperator, op) + " " + span(RoleNumber, fmt.Sprint(n)) +
				span(RoleBracket, ")") + " " + span(RoleBracket, "{")
			indent++
		case r < 0.85:
			// method call
			obj := g.Word()
			method := g.Word()
			arg := ""
			if g.rng.Float64() < 0.5 {
				arg = g.Word()
			}
			line = pad + obj + "." + span(RoleFunction, method) + span(RoleBracket, "(") + arg + span(RoleBracket, ")") + ";"
		default:
			if indent > 0 {
				indent--
				line = strings.Repeat(indentUnit, indent) + span(RoleBracket, "}")
			} else {
				line = pad + span(RoleFunction, g.Word()) + span(RoleBracket, "()") + ";"
			}
		}
		lines = append(lines, line)
	}

	for indent > 0 {
		indent--
		lines = append(lines, strings.Repeat(indentUnit, indent)+span(RoleBracket, "}"))
	}

	logging.Get(logging.CategoryLexicon).Debug("code block: requested %d lines, emitted %d", lineCount, len(lines))
	return strings.Join(lines, "\n")
}
