package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	daemongrpc "github.com/andrescamacho/mythic-mines/internal/adapters/grpc"
	"github.com/andrescamacho/mythic-mines/internal/application/logging"
	"github.com/andrescamacho/mythic-mines/internal/domain/shared"
	"github.com/andrescamacho/mythic-mines/pkg/utils"
)

const requestTimeout = 10 * time.Second

// withClient connects to the daemon, runs fn with a bounded context and closes the connection
func withClient(cmd *cobra.Command, fn func(ctx context.Context, client *daemongrpc.DaemonClient) error) error {
	client, err := daemongrpc.NewDaemonClient(resolveSocketPath())
	if err != nil {
		return fmt.Errorf("failed to connect to daemon: %w", err)
	}
	defer client.Close()

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, requestTimeout)
	defer cancel()

	ctx = logging.WithCorrelationID(ctx, utils.GenerateCorrelationID("cli-"+cmd.Name()))
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "correlation id: %s\n", logging.CorrelationIDFromContext(ctx))
	}
	return fn(ctx, client)
}

// render prints v as indented JSON when requested, otherwise calls table
func render(cmd *cobra.Command, v interface{}, table func(w io.Writer)) error {
	out := cmd.OutOrStdout()
	if resolveOutputFormat() == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	table(out)
	return nil
}

// formatError turns daemon errors into one readable line
func formatError(err error) string {
	var rejection *shared.RejectionError
	if errors.As(err, &rejection) {
		return fmt.Sprintf("✗ rejected (%s): %s", rejection.Code, rejection.Message)
	}
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.Unavailable:
			return "✗ daemon is not running (start it with mines-daemon)"
		case codes.ResourceExhausted:
			return "✗ daemon is busy, retry shortly"
		}
		return fmt.Sprintf("✗ %s", st.Message())
	}
	return fmt.Sprintf("✗ %v", err)
}

func formatSlot(workerID string) string {
	if workerID == "" {
		return "-"
	}
	return workerID
}

func formatAmount(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
