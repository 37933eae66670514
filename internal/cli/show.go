package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rowanvale/inkwell/internal/checkpoint"
	"github.com/rowanvale/inkwell/internal/project"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <checkpoint-id>",
		Short: "Show a checkpoint's metadata and category sizes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to checkpoint database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(opts *ShowOptions, id string, cmd *cobra.Command) error {
	backend, err := checkpoint.OpenSQLite(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer backend.Close()

	snap, err := checkpoint.NewStore(backend).Load(cmd.Context(), id)
	if err != nil {
		if checkpoint.IsNotFound(err) {
			return WrapExitError(ExitCommandError, "unknown checkpoint", err)
		}
		return WrapExitError(ExitFailure, "failed to load checkpoint", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "checkpoint %s\n", snap.ID)
	fmt.Fprintf(&buf, "created    %s\n", snap.CreatedAt.UTC().Format(timeLayout))
	if snap.Label != "" {
		fmt.Fprintf(&buf, "label      %s\n", snap.Label)
	}
	for _, line := range categoryCounts(snap.Categories) {
		fmt.Fprintln(&buf, line)
	}

	counts := make(map[project.Kind]int, len(snap.Categories))
	for kind, m := range snap.Categories {
		counts[kind] = len(m)
	}
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return f.SuccessText(buf.String(), map[string]any{
		"entry":      snap.Entry(),
		"categories": counts,
	})
}
