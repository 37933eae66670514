package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rowanvale/inkwell/internal/checkpoint"
)

// DeleteOptions holds flags for the delete command.
type DeleteOptions struct {
	*RootOptions
	Database string
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete <checkpoint-id>",
		Short: "Delete a stored checkpoint",
		Long: `Delete a checkpoint from the database.

Deleting an id that does not exist is a no-op, not an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to checkpoint database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runDelete(opts *DeleteOptions, id string, cmd *cobra.Command) error {
	backend, err := checkpoint.OpenSQLite(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer backend.Close()

	if err := checkpoint.NewStore(backend).Delete(cmd.Context(), id); err != nil {
		return WrapExitError(ExitFailure, "failed to delete checkpoint", err)
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return f.SuccessText(fmt.Sprintf("deleted checkpoint %s\n", id), map[string]string{"id": id})
}
