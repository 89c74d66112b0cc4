package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	daemongrpc "github.com/andrescamacho/mythic-mines/internal/adapters/grpc"
)

func parseSlot(arg string) (int, error) {
	switch arg {
	case "a", "A":
		return 0, nil
	case "b", "B":
		return 1, nil
	}
	slot, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("slot must be 0, 1, a or b")
	}
	return slot, nil
}

// NewAssignCommand creates the assign command
func NewAssignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <field-id> <slot> <worker-id>",
		Short: "Place a worker in a field slot",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := parseSlot(args[1])
			if err != nil {
				return err
			}
			return withClient(cmd, func(ctx context.Context, client *daemongrpc.DaemonClient) error {
				resp, err := client.AssignWorker(ctx, args[0], slot, args[2])
				if err != nil {
					return err
				}
				return render(cmd, resp, func(out io.Writer) {
					fmt.Fprintf(out, "✓ %s now works %s slot %d\n", resp.WorkerID, resp.FieldID, resp.Slot)
				})
			})
		},
	}
}

// NewRemoveCommand creates the remove command
func NewRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <field-id> <slot>",
		Short: "Empty a field slot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := parseSlot(args[1])
			if err != nil {
				return err
			}
			return withClient(cmd, func(ctx context.Context, client *daemongrpc.DaemonClient) error {
				resp, err := client.RemoveWorker(ctx, args[0], slot)
				if err != nil {
					return err
				}
				return render(cmd, resp, func(out io.Writer) {
					if resp.WorkerID == "" {
						fmt.Fprintln(out, "Slot was already empty")
						return
					}
					fmt.Fprintf(out, "✓ Removed %s\n", resp.WorkerID)
				})
			})
		},
	}
}

// NewDispatchCommand creates the dispatch command
func NewDispatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dispatch <field-id>",
		Short: "Send an idle transport unit to a field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *daemongrpc.DaemonClient) error {
				resp, err := client.Dispatch(ctx, args[0])
				if err != nil {
					return err
				}
				return render(cmd, resp, func(out io.Writer) {
					fmt.Fprintf(out, "✓ %s dispatched to %s at tick %d\n", resp.UnitID, resp.FieldID, resp.DispatchedAt)
				})
			})
		},
	}
}

// NewCollectCommand creates the collect command
func NewCollectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "collect",
		Short: "Unload every ready transport unit into the central store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *daemongrpc.DaemonClient) error {
				resp, err := client.Collect(ctx)
				if err != nil {
					return err
				}
				return render(cmd, resp, func(out io.Writer) {
					if len(resp.Deliveries) == 0 {
						fmt.Fprintln(out, "No units ready")
						return
					}
					w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
					fmt.Fprintln(w, "UNIT\tRESOURCE\tDELIVERED\tDISCARDED\tRETAINED")
					for _, d := range resp.Deliveries {
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.UnitID, formatSlot(d.ResourceID),
							formatAmount(d.Delivered), formatAmount(d.Discarded), formatAmount(d.Retained))
					}
					w.Flush()
					fmt.Fprintf(out, "\nTotal delivered: %s\n", formatAmount(resp.TotalDelivered))
				})
			})
		},
	}
}
