package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rowanvale/inkwell/internal/checkpoint"
	"github.com/rowanvale/inkwell/internal/manager"
)

// CheckpointOptions holds flags for the checkpoint command.
type CheckpointOptions struct {
	*RootOptions
	Database string
	Label    string
}

// NewCheckpointCommand creates the checkpoint command.
func NewCheckpointCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckpointOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "checkpoint <project.yaml>",
		Short: "Capture a checkpoint of a project file",
		Long: `Capture an immutable checkpoint of the project's current state.

The project file is validated, deep-copied and persisted to the checkpoint
database under a fresh id. The project file itself is not modified.

Example:
  inkwell checkpoint novel.yaml --db novel.db --label "before rewrite"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckpoint(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to checkpoint database (required)")
	cmd.Flags().StringVar(&opts.Label, "label", "", "label for the checkpoint listing")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runCheckpoint(opts *CheckpointOptions, projectPath string, cmd *cobra.Command) error {
	live, err := LoadProject(projectPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load project", err)
	}

	backend, err := checkpoint.OpenSQLite(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer backend.Close()

	mgr := manager.New(live, checkpoint.NewStore(backend))
	id, err := mgr.Checkpoint(cmd.Context(), opts.Label)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to create checkpoint", err)
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return f.SuccessText(fmt.Sprintf("created checkpoint %s\n", id), map[string]string{"id": id})
}
