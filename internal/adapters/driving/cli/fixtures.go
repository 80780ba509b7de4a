package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// addFileFlag registers the repeatable --file flag on cmd.
func addFileFlag(cmd *cobra.Command, target *[]string) {
	cmd.Flags().StringSliceVarP(target, "file", "f", nil, "fixture file to load (.json, .yaml); repeatable")
}

// loadFixtures reads files and imports their threads and chunks.
func loadFixtures(ctx context.Context, files []string) error {
	if len(files) == 0 {
		return nil
	}
	if services == nil || services.Fixtures == nil {
		return errors.New("fixture loader not configured")
	}

	fx, err := services.Fixtures.LoadAll(ctx, files...)
	if err != nil {
		return fmt.Errorf("loading fixtures: %w", err)
	}

	if len(fx.Threads) > 0 {
		threads, err := threadSvc()
		if err != nil {
			return err
		}
		if err := threads.Import(ctx, fx.Threads); err != nil {
			return fmt.Errorf("importing threads: %w", err)
		}
	}
	if len(fx.Chunks) > 0 {
		chunks, err := chunkSvc()
		if err != nil {
			return err
		}
		if err := chunks.Import(ctx, fx.Chunks); err != nil {
			return fmt.Errorf("importing chunks: %w", err)
		}
	}
	return nil
}

// commandContext returns the command's context or a background one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
