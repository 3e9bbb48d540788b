package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"glorp/cmd/glorp/ui"
	"glorp/internal/types"
)

var keywordsFormat string

// keywordsCmd prints the trigger keyword table
var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "List the keywords that shape replies",
	Long: `Lists every trigger keyword in scan order with the style it asks for.

Examples:
  glorp keywords
  glorp keywords --format steps`,
	Args: cobra.NoArgs,
	RunE: runKeywords,
}

func init() {
	keywordsCmd.Flags().StringVar(&keywordsFormat, "format", "", "Only show keywords of this format (code, text, list, steps, thanks)")
}

func runKeywords(cmd *cobra.Command, args []string) error {
	var only types.FormatKind
	if keywordsFormat != "" {
		kind, err := types.ParseFormatKind(keywordsFormat)
		if err != nil {
			return err
		}
		only = kind
	}

	table := ui.NewTable("", "Keyword", "Format", "Code", "Length", "Happy")
	for _, rule := range newEngine(0).Rules() {
		style := rule.Style()
		format := string(style.FormatKind)
		if rule.InheritsPrevious {
			format = "previous"
		}
		if only != "" && (rule.InheritsPrevious || style.FormatKind != only) {
			continue
		}
		code := "-"
		if style.RequiresCodeBlock {
			code = string(style.CodeBlockSize)
		}
		table.AddRow(rule.Keyword, format, code,
			"x"+strconv.FormatFloat(style.WordCountMultiplier, 'f', 2, 64),
			"x"+strconv.FormatFloat(style.HappyMultiplier, 'f', 1, 64))
	}
	if len(table.Rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No keywords.")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), table.View(cliStyles()))
	return nil
}
