package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var chunksFiles []string

var chunksCmd = &cobra.Command{
	Use:   "chunks",
	Short: "Inspect knowledge-base chunks",
}

var chunksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chunks in knowledge-base order",
	Args:  cobra.NoArgs,
	RunE:  runChunksList,
}

func init() {
	addFileFlag(chunksListCmd, &chunksFiles)
	chunksCmd.AddCommand(chunksListCmd)
	rootCmd.AddCommand(chunksCmd)
}

func runChunksList(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	if err := loadFixtures(ctx, chunksFiles); err != nil {
		return err
	}
	chunks, err := chunkSvc()
	if err != nil {
		return err
	}

	list, err := chunks.List(ctx)
	if err != nil {
		return fmt.Errorf("listing chunks: %w", err)
	}
	if len(list) == 0 {
		cmd.Println("No chunks found.")
		return nil
	}

	rows := make([][]string, 0, len(list))
	for i := range list {
		rows = append(rows, []string{
			strconv.Itoa(list[i].Position),
			list[i].ID,
			list[i].Title,
			string(list[i].Status),
		})
	}
	return renderTable(cmd.OutOrStdout(), []string{"Pos", "ID", "Title", "Status"}, rows)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
