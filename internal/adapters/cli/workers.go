package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	daemongrpc "github.com/andrescamacho/mythic-mines/internal/adapters/grpc"
	"github.com/andrescamacho/mythic-mines/internal/application/world/commands"
	"github.com/andrescamacho/mythic-mines/internal/domain/workforce"
)

// NewWorkersCommand creates the workers command with subcommands
func NewWorkersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers",
		Short: "Manage the worker roster",
	}

	cmd.AddCommand(newWorkersListCommand())
	cmd.AddCommand(newWorkersHireCommand())
	cmd.AddCommand(newWorkersDismissCommand())
	cmd.AddCommand(newWorkersConditionCommand())

	return cmd
}

func newWorkersListCommand() *cobra.Command {
	var idle bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *daemongrpc.DaemonClient) error {
				resp, err := client.Workers(ctx, idle)
				if err != nil {
					return err
				}
				return render(cmd, resp, func(out io.Writer) {
					if len(resp.Workers) == 0 {
						fmt.Fprintln(out, "No workers found")
						return
					}
					w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tNAME\tJOB\tEFFICIENCY\tCONDITION\tASSIGNMENT")
					for _, wk := range resp.Workers {
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
							wk.ID, wk.Name, wk.JobClassification, formatAmount(wk.Efficiency),
							formatCondition(wk), formatSlot(wk.AssignmentTag))
					}
					w.Flush()
					fmt.Fprintf(out, "\nTotal: %d workers\n", len(resp.Workers))
				})
			})
		},
	}

	cmd.Flags().BoolVar(&idle, "idle", false, "Only workers without an assignment")

	return cmd
}

func formatCondition(w workforce.Worker) string {
	switch {
	case w.Injured && w.StrikeDaysOwed > 0:
		return fmt.Sprintf("injured, striking %dd", w.StrikeDaysOwed)
	case w.Injured:
		return "injured"
	case w.StrikeDaysOwed > 0:
		return fmt.Sprintf("striking %dd", w.StrikeDaysOwed)
	}
	return "ok"
}

func newWorkersHireCommand() *cobra.Command {
	var (
		name       string
		job        string
		efficiency float64
	)

	cmd := &cobra.Command{
		Use:   "hire",
		Short: "Add a worker to the roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *daemongrpc.DaemonClient) error {
				resp, err := client.Hire(ctx, name, job, efficiency)
				if err != nil {
					return err
				}
				return render(cmd, resp, func(out io.Writer) {
					fmt.Fprintf(out, "✓ Hired %s as %s\n", resp.Worker.Name, resp.Worker.ID)
				})
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Worker name (required)")
	cmd.Flags().StringVar(&job, "job", "miner", "Job classification")
	cmd.Flags().Float64Var(&efficiency, "efficiency", 50, "Efficiency rating")
	cmd.MarkFlagRequired("name")

	return cmd
}

func newWorkersDismissCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss <worker-id>",
		Short: "Remove a worker from the roster and any slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *daemongrpc.DaemonClient) error {
				resp, err := client.Dismiss(ctx, args[0])
				if err != nil {
					return err
				}
				return render(cmd, resp, func(out io.Writer) {
					fmt.Fprintf(out, "✓ Dismissed %s\n", resp.Worker.ID)
				})
			})
		},
	}
}

func newWorkersConditionCommand() *cobra.Command {
	var (
		strikeDays int
		injured    bool
	)

	cmd := &cobra.Command{
		Use:   "condition <worker-id>",
		Short: "Set strike days owed or injury",
		Long: `Set strike days owed or injury for a worker.
Ineligible workers are released from their slot on the next tick.

Examples:
  mines workers condition durin-1a2b3c4d --strike-days 2
  mines workers condition durin-1a2b3c4d --injured=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			update := &commands.UpdateWorkerConditionCommand{WorkerID: args[0]}
			if cmd.Flags().Changed("strike-days") {
				update.StrikeDaysOwed = &strikeDays
			}
			if cmd.Flags().Changed("injured") {
				update.Injured = &injured
			}
			if update.StrikeDaysOwed == nil && update.Injured == nil {
				return fmt.Errorf("either --strike-days or --injured is required")
			}

			return withClient(cmd, func(ctx context.Context, client *daemongrpc.DaemonClient) error {
				resp, err := client.UpdateCondition(ctx, update)
				if err != nil {
					return err
				}
				return render(cmd, resp, func(out io.Writer) {
					fmt.Fprintf(out, "✓ %s is %s\n", resp.Worker.ID, formatCondition(resp.Worker))
				})
			})
		},
	}

	cmd.Flags().IntVar(&strikeDays, "strike-days", 0, "Strike days owed")
	cmd.Flags().BoolVar(&injured, "injured", false, "Injury state")

	return cmd
}
