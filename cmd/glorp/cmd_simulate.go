package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"glorp/cmd/glorp/ui"
	"glorp/internal/core"
)

var (
	simConversations int
	simTurnsFile     string
	simSeed          int64
	simConcurrency   int
	simJSON          bool
)

// simulateCmd runs many scripted conversations and reports what Glorp said
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run scripted conversations and summarize the replies",
	Long: `Plays the same script through many independent conversations
concurrently and reports reply shapes, code block placement and lengths.

The script is one user message per line; blank lines are skipped. Without
--turns-file a built-in script is used.`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simConversations, "conversations", 100, "Number of conversations")
	simulateCmd.Flags().StringVar(&simTurnsFile, "turns-file", "", "File with one user message per line")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 1, "Seed; conversation i uses seed+i")
	simulateCmd.Flags().IntVar(&simConcurrency, "concurrency", 8, "Conversations run at once (0 = unbounded)")
	simulateCmd.Flags().BoolVar(&simJSON, "json", false, "Print the report as JSON")
}

func readScript(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open turns file: %w", err)
	}
	defer f.Close()

	var script []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			script = append(script, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read turns file: %w", err)
	}
	if len(script) == 0 {
		return nil, fmt.Errorf("turns file %s has no messages", path)
	}
	return script, nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	opts := core.SimulateOptions{
		Conversations: simConversations,
		Seed:          simSeed,
		Concurrency:   simConcurrency,
	}
	if simTurnsFile != "" {
		script, err := readScript(simTurnsFile)
		if err != nil {
			return err
		}
		opts.Script = script
	}

	report, err := core.Simulate(cmd.Context(), opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if simJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	styles := cliStyles()
	fmt.Fprintf(out, "%d conversations, %d replies, %.1f%% with code\n",
		report.Conversations, report.Turns, 100*report.CodeBlockRate())
	fmt.Fprintf(out, "words per reply: min %d, mean %.1f, max %d\n\n",
		report.MinWords, report.MeanWords, report.MaxWords)

	kinds := ui.NewTable("Formats", "Format", "Replies")
	for _, k := range sortedKeys(report.Kinds) {
		kinds.AddRow(string(k), strconv.Itoa(report.Kinds[k]))
	}
	fmt.Fprintln(out, kinds.View(styles))

	positions := ui.NewTable("Code placement", "Position", "Blocks")
	for _, p := range sortedKeys(report.Positions) {
		positions.AddRow(string(p), strconv.Itoa(report.Positions[p]))
	}
	fmt.Fprint(out, positions.View(styles))
	return nil
}

func sortedKeys[K ~string](m map[K]int) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
