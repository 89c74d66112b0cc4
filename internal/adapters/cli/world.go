package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	daemongrpc "github.com/andrescamacho/mythic-mines/internal/adapters/grpc"
	"github.com/andrescamacho/mythic-mines/internal/application/world/commands"
	"github.com/andrescamacho/mythic-mines/internal/application/world/queries"
	"github.com/andrescamacho/mythic-mines/internal/domain/fleet"
	"github.com/andrescamacho/mythic-mines/internal/domain/simulation"
)

// NewStatusCommand creates the status command
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show fields, transport units and central store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *daemongrpc.DaemonClient) error {
				st, err := client.Status(ctx)
				if err != nil {
					return err
				}
				return render(cmd, st, func(out io.Writer) { printStatus(out, st) })
			})
		},
	}
}

func printStatus(out io.Writer, st *queries.GetStatusResponse) {
	fmt.Fprintf(out, "Tick %d  Level %d\n\n", st.Tick, st.Level)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tDEPTH\tRESERVOIR\tSLOT A\tSLOT B\tTARGETED BY")
	for _, f := range st.Fields {
		fmt.Fprintf(w, "%s\t%d\t%s/%s\t%s\t%s\t%s\n",
			f.ResourceID,
			f.DepthIndex,
			formatAmount(f.ReservoirLoad),
			formatAmount(f.Capacity),
			formatSlotWithLock(f, 0, st.Level),
			formatSlotWithLock(f, 1, st.Level),
			formatSlot(f.TargetedBy),
		)
	}
	w.Flush()

	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "UNIT\tSTATE\tTARGET\tLOAD\tTIMER")
	for _, u := range st.Units {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s/%s\t%d/%d\n",
			u.ID, u.State, formatSlot(u.TargetFieldID),
			formatAmount(u.CurrentLoad), formatAmount(u.Capacity),
			u.TravelTimer, u.TotalTravelTime,
		)
	}
	w.Flush()

	if len(st.Stock) == 0 {
		return
	}
	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RESOURCE\tSTOCK")
	for _, line := range st.Stock {
		fmt.Fprintf(w, "%s\t%s/%s\n", line.ResourceID, formatAmount(line.Stock), formatAmount(line.Capacity))
	}
	w.Flush()
}

func formatSlotWithLock(f simulation.FieldView, slot, level int) string {
	if f.Slots[slot] == "" && level < f.SlotUnlockLevel[slot] {
		return fmt.Sprintf("locked (L%d)", f.SlotUnlockLevel[slot])
	}
	return formatSlot(f.Slots[slot])
}

// NewFieldCommand creates the field command
func NewFieldCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "field <field-id>",
		Short: "Show one field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *daemongrpc.DaemonClient) error {
				f, err := client.Field(ctx, args[0])
				if err != nil {
					return err
				}
				return render(cmd, f, func(out io.Writer) {
					fmt.Fprintf(out, "%s (%s)\n", f.Name, f.ResourceID)
					fmt.Fprintf(out, "  Depth:        %d\n", f.DepthIndex)
					fmt.Fprintf(out, "  Hardness:     %s\n", formatAmount(f.Hardness))
					fmt.Fprintf(out, "  Reservoir:    %s/%s\n", formatAmount(f.ReservoirLoad), formatAmount(f.Capacity))
					fmt.Fprintf(out, "  Slot A:       %s (unlocks at L%d)\n", formatSlot(f.Slots[0]), f.SlotUnlockLevel[0])
					fmt.Fprintf(out, "  Slot B:       %s (unlocks at L%d)\n", formatSlot(f.Slots[1]), f.SlotUnlockLevel[1])
					if f.RequiredRole != "" {
						fmt.Fprintf(out, "  Role:         %s\n", f.RequiredRole)
					}
					fmt.Fprintf(out, "  Targeted by:  %s\n", formatSlot(f.TargetedBy))
				})
			})
		},
	}
}

// NewTickCommand creates the tick command
func NewTickCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tick [count]",
		Short: "Advance the simulation immediately",
		Long: fmt.Sprintf(`Run count ticks right away, on top of the daemon's own schedule.
count defaults to 1 and is capped at %d.`, commands.MaxTicksPerCommand),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("count must be a positive integer")
				}
				count = n
			}

			return withClient(cmd, func(ctx context.Context, client *daemongrpc.DaemonClient) error {
				resp, err := client.Advance(ctx, count)
				if err != nil {
					return err
				}
				return render(cmd, resp, func(out io.Writer) {
					produced, evictions, arrivals := 0.0, 0, 0
					for _, r := range resp.Reports {
						produced += r.TotalProduced()
						evictions += len(r.Evictions)
						for _, tr := range r.Transitions {
							if tr.To == fleet.UnitStateReady {
								arrivals++
							}
						}
					}
					fmt.Fprintf(out, "✓ Advanced %d tick(s) to %d\n", len(resp.Reports), resp.CurrentTick)
					fmt.Fprintf(out, "  Produced:   %s\n", formatAmount(produced))
					fmt.Fprintf(out, "  Arrivals:   %d\n", arrivals)
					fmt.Fprintf(out, "  Evictions:  %d\n", evictions)
				})
			})
		},
	}
}

// NewLevelCommand creates the level command
func NewLevelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "level <level>",
		Short: "Set the progression level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("level must be an integer")
			}
			return withClient(cmd, func(ctx context.Context, client *daemongrpc.DaemonClient) error {
				resp, err := client.SetLevel(ctx, level)
				if err != nil {
					return err
				}
				return render(cmd, resp, func(out io.Writer) {
					fmt.Fprintf(out, "✓ Level set to %d\n", resp.Level)
				})
			})
		},
	}
}
