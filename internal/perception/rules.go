package perception

import "glorp/internal/types"

// Rule maps a trigger keyword to the reply style it asks for.
// Keywords match as case-insensitive substrings ("how" matches "show").
type Rule struct {
	Keyword             string
	RequiresCodeBlock   bool
	CodeBlockSize       types.CodeBlockSize
	WordCountMultiplier float64
	HistoryWeight       float64
	FormatKind          types.FormatKind
	HappyMultiplier     float64 // 0 means neutral (1.0)
	InheritsPrevious    bool    // reuse the previous style, scaled by WordCountMultiplier
}

// Style returns the rule's configuration as a resolved style.
func (r Rule) Style() types.Style {
	happy := r.HappyMultiplier
	if happy == 0 {
		happy = 1.0
	}
	kind := r.FormatKind
	if kind == "" {
		kind = types.FormatText
	}
	size := r.CodeBlockSize
	if size == "" {
		size = types.SizeNone
	}
	return types.Style{
		RequiresCodeBlock:   r.RequiresCodeBlock,
		CodeBlockSize:       size,
		WordCountMultiplier: r.WordCountMultiplier,
		HistoryWeight:       r.HistoryWeight,
		FormatKind:          kind,
		HappyMultiplier:     happy,
	}
}

// IsThanks reports whether the rule produces gratitude replies.
func (r Rule) IsThanks() bool {
	return r.FormatKind == types.FormatThanks
}

// DefaultRules is the keyword table. Order is the scan order used wherever
// the first matching keyword wins; it is never mutated.
var DefaultRules = []Rule{
	// Code
	{Keyword: "program", RequiresCodeBlock: true, CodeBlockSize: types.SizeLarge, WordCountMultiplier: 0.9, HistoryWeight: 1.5, FormatKind: types.FormatCode},
	{Keyword: "script", RequiresCodeBlock: true, CodeBlockSize: types.SizeLarge, WordCountMultiplier: 0.8, HistoryWeight: 1.4, FormatKind: types.FormatCode},
	{Keyword: "code", RequiresCodeBlock: true, CodeBlockSize: types.SizeMedium, WordCountMultiplier: 0.6, HistoryWeight: 1.2, FormatKind: types.FormatCode},
	{Keyword: "function", RequiresCodeBlock: true, CodeBlockSize: types.SizeMedium, WordCountMultiplier: 0.7, HistoryWeight: 1.3, FormatKind: types.FormatCode},
	{Keyword: "algorithm", RequiresCodeBlock: true, CodeBlockSize: types.SizeLarge, WordCountMultiplier: 0.8, HistoryWeight: 1.4, FormatKind: types.FormatCode},
	{Keyword: "debug", RequiresCodeBlock: true, CodeBlockSize: types.SizeLarge, WordCountMultiplier: 0.8, HistoryWeight: 1.4, FormatKind: types.FormatCode},
	{Keyword: "build", RequiresCodeBlock: true, CodeBlockSize: types.SizeLarge, WordCountMultiplier: 0.7, HistoryWeight: 1.3, FormatKind: types.FormatCode},

	// Prose
	{Keyword: "essay", CodeBlockSize: types.SizeNone, WordCountMultiplier: 2.0, FormatKind: types.FormatText},
	{Keyword: "paragraph", CodeBlockSize: types.SizeNone, WordCountMultiplier: 1.5, FormatKind: types.FormatText},
	{Keyword: "write", CodeBlockSize: types.SizeSmall, WordCountMultiplier: 0.9, HistoryWeight: 0.5, FormatKind: types.FormatText},
	{Keyword: "explain", CodeBlockSize: types.SizeSmall, WordCountMultiplier: 1.2, HistoryWeight: 0.6, FormatKind: types.FormatText},
	{Keyword: "describe", CodeBlockSize: types.SizeSmall, WordCountMultiplier: 1.0, HistoryWeight: 0.5, FormatKind: types.FormatText},

	// Structure
	{Keyword: "list", CodeBlockSize: types.SizeNone, WordCountMultiplier: 0.7, FormatKind: types.FormatList},
	{Keyword: "steps", CodeBlockSize: types.SizeNone, WordCountMultiplier: 0.8, FormatKind: types.FormatSteps},
	{Keyword: "points", CodeBlockSize: types.SizeNone, WordCountMultiplier: 0.7, FormatKind: types.FormatList},
	{Keyword: "how", CodeBlockSize: types.SizeNone, WordCountMultiplier: 0.8, FormatKind: types.FormatSteps},

	// Gratitude
	{Keyword: "thanks", CodeBlockSize: types.SizeNone, WordCountMultiplier: 0.2, FormatKind: types.FormatThanks, HappyMultiplier: 2.0},
	{Keyword: "thank", CodeBlockSize: types.SizeNone, WordCountMultiplier: 0.2, FormatKind: types.FormatThanks, HappyMultiplier: 2.0},
	{Keyword: "appreciate", CodeBlockSize: types.SizeNone, WordCountMultiplier: 0.25, FormatKind: types.FormatThanks, HappyMultiplier: 1.8},
	{Keyword: "awesome", CodeBlockSize: types.SizeNone, WordCountMultiplier: 0.3, FormatKind: types.FormatThanks, HappyMultiplier: 1.5},
	{Keyword: "great", CodeBlockSize: types.SizeNone, WordCountMultiplier: 0.3, FormatKind: types.FormatThanks, HappyMultiplier: 1.5},

	// Follow-ups
	{Keyword: "fix", WordCountMultiplier: 1.0, InheritsPrevious: true},
	{Keyword: "create", WordCountMultiplier: 1.0, InheritsPrevious: true},
	{Keyword: "update", WordCountMultiplier: 1.0, InheritsPrevious: true},
	{Keyword: "change", WordCountMultiplier: 1.0, InheritsPrevious: true},
}
