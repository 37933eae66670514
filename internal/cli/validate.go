package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rowanvale/inkwell/internal/project"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <project.yaml>",
		Short: "Validate a project file without touching any checkpoint",
		Long: `Check a project file against the schema and the structural invariants
(scene membership, scene-context references). Reports the first violation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	p, err := LoadProject(path)
	if err != nil {
		return WrapExitError(ExitFailure, "validation failed", err)
	}

	total := 0
	for _, kind := range project.Kinds() {
		total += p.Len(kind)
	}
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return f.SuccessText(fmt.Sprintf("%s is valid (%d entities)\n", path, total),
		map[string]any{"path": path, "entities": total})
}
