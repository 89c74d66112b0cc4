package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	daemongrpc "github.com/andrescamacho/mythic-mines/internal/adapters/grpc"
	"github.com/andrescamacho/mythic-mines/internal/application/world/commands"
	"github.com/andrescamacho/mythic-mines/internal/application/world/queries"
)

// NewSaveCommand creates the save command
func NewSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Persist the world to the database now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *daemongrpc.DaemonClient) error {
				resp, err := client.Save(ctx)
				if err != nil {
					return err
				}
				return render(cmd, resp, func(out io.Writer) {
					fmt.Fprintf(out, "✓ Saved tick %d at %s\n", resp.Tick, resp.SavedAt.Format("2006-01-02 15:04:05"))
				})
			})
		},
	}
}

// NewLoadCommand creates the load command
func NewLoadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Replace the world with the last saved state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *daemongrpc.DaemonClient) error {
				resp, err := client.Load(ctx)
				if err != nil {
					return err
				}
				return render(cmd, resp, func(out io.Writer) { printRestore(out, resp) })
			})
		},
	}
}

func printRestore(out io.Writer, resp *commands.LoadStateResponse) {
	fmt.Fprintf(out, "✓ Restored tick %d\n", resp.Tick)
	if n := len(resp.Report.IgnoredFields); n > 0 {
		fmt.Fprintf(out, "  Ignored fields:    %v\n", resp.Report.IgnoredFields)
	}
	if n := len(resp.Report.DefaultedFields); n > 0 {
		fmt.Fprintf(out, "  New fields:        %v\n", resp.Report.DefaultedFields)
	}
	if n := len(resp.Report.ReleasedWorkers); n > 0 {
		fmt.Fprintf(out, "  Released workers:  %v\n", resp.Report.ReleasedWorkers)
	}
	if resp.Report.Repairs > 0 {
		fmt.Fprintf(out, "  Repairs:           %d\n", resp.Report.Repairs)
	}
}

// NewSnapshotCommand creates the snapshot command with subcommands
func NewSnapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export or import portable world files",
		Long: `Export or import portable world files.
Paths are resolved on the daemon host.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "export <path>",
		Short: "Write the world to a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd, func(ctx context.Context, client *daemongrpc.DaemonClient) error {
				resp, err := client.Export(ctx, path)
				if err != nil {
					return err
				}
				return render(cmd, resp, func(out io.Writer) {
					fmt.Fprintf(out, "✓ Exported tick %d to %s\n", resp.Tick, resp.Path)
				})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <path>",
		Short: "Replace the world with a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd, func(ctx context.Context, client *daemongrpc.DaemonClient) error {
				resp, err := client.Import(ctx, path)
				if err != nil {
					return err
				}
				return render(cmd, resp, func(out io.Writer) { printRestore(out, resp) })
			})
		},
	})

	return cmd
}

// NewEventsCommand creates the events command
func NewEventsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show recent world events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *daemongrpc.DaemonClient) error {
				resp, err := client.Events(ctx, limit)
				if err != nil {
					return err
				}
				return render(cmd, resp, func(out io.Writer) {
					if len(resp.Events) == 0 {
						fmt.Fprintln(out, "No events recorded")
						return
					}
					w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
					fmt.Fprintln(w, "TICK\tKIND\tSUBJECT\tMESSAGE")
					for _, ev := range resp.Events {
						fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", ev.Tick, ev.Kind, ev.Subject, ev.Message)
					}
					w.Flush()
				})
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", queries.DefaultEventLimit, "Maximum number of events")

	return cmd
}
