package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chatdesk/internal/core/domain"
)

var threadsFiles []string

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "List and find conversation threads",
}

var threadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all threads",
	Args:  cobra.NoArgs,
	RunE:  runThreadsList,
}

var threadsFindCmd = &cobra.Command{
	Use:   "find [query]",
	Short: "Fuzzy find threads by title",
	Args:  cobra.ExactArgs(1),
	RunE:  runThreadsFind,
}

func init() {
	threadsCmd.PersistentFlags().StringSliceVarP(&threadsFiles, "file", "f", nil,
		"fixture file to load (.json, .yaml); repeatable")
	threadsCmd.AddCommand(threadsListCmd)
	threadsCmd.AddCommand(threadsFindCmd)
	rootCmd.AddCommand(threadsCmd)
}

func runThreadsList(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	if err := loadFixtures(ctx, threadsFiles); err != nil {
		return err
	}
	threads, err := threadSvc()
	if err != nil {
		return err
	}

	list, err := threads.List(ctx)
	if err != nil {
		return fmt.Errorf("listing threads: %w", err)
	}
	return outputThreads(cmd, list)
}

func runThreadsFind(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	if err := loadFixtures(ctx, threadsFiles); err != nil {
		return err
	}
	threads, err := threadSvc()
	if err != nil {
		return err
	}

	found, err := threads.Find(ctx, args[0])
	if err != nil {
		return fmt.Errorf("finding threads: %w", err)
	}
	return outputThreads(cmd, found)
}

func outputThreads(cmd *cobra.Command, threads []domain.Thread) error {
	if len(threads) == 0 {
		cmd.Println("No threads found.")
		return nil
	}

	rows := make([][]string, 0, len(threads))
	for i := range threads {
		rows = append(rows, []string{
			threads[i].ID,
			threads[i].Title,
			strconv.Itoa(threads[i].MessageCount()),
			formatTime(threads[i].UpdatedAt),
		})
	}
	return renderTable(cmd.OutOrStdout(), []string{"ID", "Title", "Messages", "Updated"}, rows)
}
