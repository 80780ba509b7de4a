package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chatdesk/internal/core/domain"
	"github.com/custodia-labs/chatdesk/internal/finder"
)

var (
	searchFiles         []string
	searchThread        string
	searchCaseSensitive bool
	searchRegex         bool
	searchJSON          bool
	searchActive        int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search conversation threads",
	Long: `Searches message bodies and the top-ranked answer source of each type
in every thread (or one thread with --thread).

Matching is a case-insensitive literal substring by default. Use -c for
case-sensitive matching and -r to treat the query as a regular expression.
An invalid regular expression is reported as a warning and matches nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	addFileFlag(searchCmd, &searchFiles)
	searchCmd.Flags().StringVarP(&searchThread, "thread", "t", "", "search only this thread ID")
	searchCmd.Flags().BoolVarP(&searchCaseSensitive, "case-sensitive", "c", false, "match case exactly")
	searchCmd.Flags().BoolVarP(&searchRegex, "regex", "r", false, "treat the query as a regular expression")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().IntVar(&searchActive, "active", 1, "occurrence to mark as active (1-based)")
	rootCmd.AddCommand(searchCmd)
}

// threadResult is the search outcome for one thread.
type threadResult struct {
	ThreadID    string               `json:"thread_id"`
	Title       string               `json:"title"`
	Query       string               `json:"query"`
	Options     domain.SearchOptions `json:"options"`
	Error       string               `json:"error,omitempty"`
	Occurrences []domain.Occurrence  `json:"occurrences"`
	Active      int                  `json:"active"`
	ScrollTo    string               `json:"scroll_to,omitempty"`

	segments []finder.Segment
	snap     domain.SearchSnapshot
	spans    map[int][]domain.Span
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	query := args[0]

	if err := loadFixtures(ctx, searchFiles); err != nil {
		return err
	}
	threads, err := threadSvc()
	if err != nil {
		return err
	}
	if services.NewSession == nil {
		return errSessionNotConfigured
	}

	var targets []domain.Thread
	if searchThread != "" {
		thread, err := threads.Get(ctx, searchThread)
		if err != nil {
			return fmt.Errorf("thread %s: %w", searchThread, err)
		}
		targets = []domain.Thread{*thread}
	} else {
		targets, err = threads.List(ctx)
		if err != nil {
			return fmt.Errorf("listing threads: %w", err)
		}
	}

	opts := domain.SearchOptions{CaseSensitive: searchCaseSensitive, UseRegex: searchRegex}
	results := make([]threadResult, 0, len(targets))
	for i := range targets {
		results = append(results, searchThreadRecords(&targets[i], query, opts))
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

// searchThreadRecords runs a one-shot session over a thread.
func searchThreadRecords(thread *domain.Thread, query string, opts domain.SearchOptions) threadResult {
	session := services.NewSession(domain.SearchSettings{
		CaseSensitive: opts.CaseSensitive,
		UseRegex:      opts.UseRegex,
	})
	defer session.Close()

	session.SetRecords(thread.Messages)
	session.SetQuery(query)
	session.Flush()

	snap := session.Snapshot()
	if snap.Total() > 0 && searchActive > 1 {
		steps := (searchActive - 1) % snap.Total()
		for i := 0; i < steps; i++ {
			snap = session.Advance(+1)
		}
	}

	res := threadResult{
		ThreadID:    thread.ID,
		Title:       thread.Title,
		Query:       query,
		Options:     opts,
		Occurrences: snap.Occurrences,
		Active:      snap.Position(),
		ScrollTo:    snap.ScrollTo,
		segments:    finder.Segments(thread.Messages),
		snap:        snap,
		spans:       make(map[int][]domain.Span),
	}
	if snap.Err != nil {
		res.Error = snap.Err.Error()
	}

	for i, seg := range res.segments {
		if hasHits(snap.Occurrences, seg) {
			res.spans[i] = session.Highlight(seg.Text, seg.RecordID, seg.Section, seg.SourceKey)
		}
	}
	return res
}

func hasHits(occurrences []domain.Occurrence, seg finder.Segment) bool {
	for i := range occurrences {
		if occurrences[i].InSegment(seg.RecordID, seg.Section, seg.SourceKey) {
			return true
		}
	}
	return false
}

func outputSearchJSON(cmd *cobra.Command, results []threadResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []threadResult) error {
	if len(results) == 0 {
		cmd.Println("No threads loaded.")
		return nil
	}

	hl := newHighlighter(cmd.OutOrStdout())
	total := 0

	for _, res := range results {
		if res.Error != "" {
			cmd.PrintErrf("Warning: %s\n", res.Error)
			continue
		}
		if len(res.Occurrences) == 0 {
			continue
		}
		total += len(res.Occurrences)

		cmd.Printf("Thread %s: %s (%d matches)\n", res.ThreadID, res.Title, len(res.Occurrences))

		texts := make(map[string]string, len(res.segments))
		for _, seg := range res.segments {
			texts[segmentKey(seg.RecordID, seg.Section, seg.SourceKey)] = seg.Text
		}

		rows := make([][]string, 0, len(res.Occurrences))
		for i, occ := range res.Occurrences {
			text := texts[segmentKey(occ.RecordID, occ.Section, occ.SourceKey)]
			marker := strconv.Itoa(i + 1)
			if i == res.snap.Cursor {
				marker = "> " + marker
			}
			rows = append(rows, []string{
				marker,
				occ.RecordID,
				occ.Section.String(),
				occ.SourceKey,
				strconv.Itoa(occ.Occurrence),
				hl.snippet(text, occ.Start, occ.End, i == res.snap.Cursor),
			})
		}
		if err := renderTable(cmd.OutOrStdout(), []string{"#", "Record", "Section", "Source", "Occ", "Snippet"}, rows); err != nil {
			return err
		}

		cmd.Println()
		for i, seg := range res.segments {
			spans, ok := res.spans[i]
			if !ok {
				continue
			}
			label := seg.RecordID + " " + seg.Section.String()
			if seg.SourceKey != "" {
				label += " " + seg.SourceKey
			}
			cmd.Printf("  %s\n    %s\n", label, hl.spans(spans))
		}
		cmd.Println()
	}

	if total == 0 {
		cmd.Println("No matches found.")
		return nil
	}
	cmd.Printf("%d matches\n", total)
	return nil
}

func segmentKey(recordID string, section domain.Section, sourceKey string) string {
	return recordID + "\x00" + string(section) + "\x00" + sourceKey
}
