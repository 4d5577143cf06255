package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.refold.dev/refold/internal/adapters/telemetry"
	"go.refold.dev/refold/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Build all bundles and rebuild on file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			debounceMs, _ := cmd.Flags().GetInt("debounce")
			trace, _ := cmd.Flags().GetBool("trace")

			if trace {
				tp := telemetry.Setup()
				defer func() {
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = tp.Shutdown(ctx)
				}()
			}

			return c.app.Watch(cmd.Context(), app.WatchOptions{
				Debounce: time.Duration(debounceMs) * time.Millisecond,
			})
		},
	}
	cmd.Flags().IntP("debounce", "d", 0, "Delay in milliseconds between a file change and the rebuild (overrides configuration)")
	cmd.Flags().Bool("trace", false, "Record build round traces")
	return cmd
}
