package cli

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rowanvale/inkwell/internal/checkpoint"
	"github.com/rowanvale/inkwell/internal/manager"
	"github.com/rowanvale/inkwell/internal/project"
	"github.com/rowanvale/inkwell/internal/restore"
)

// RestoreOptions holds flags for the restore command.
type RestoreOptions struct {
	*RootOptions
	Database       string
	Only           []string
	Skip           []string
	RestoreDeleted bool
	DeleteMissing  bool
	NoBackup       bool
}

// NewRestoreCommand creates the restore command.
func NewRestoreCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RestoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "restore <checkpoint-id> <project.yaml>",
		Short: "Merge a checkpoint back into a project file",
		Long: `Merge a stored checkpoint into the project per the selected categories.

Entities present in both checkpoint and project are overwritten with the
checkpoint's values. --restore-deleted reinserts entities the project no
longer has; --delete-missing removes entities the checkpoint does not
contain. The merge is atomic: on any failure the project file is untouched.

Unless --no-backup is given, a safety checkpoint of the current state is
taken first.

Example:
  inkwell restore 0192f3a2 novel.yaml --db novel.db --only text,notes --delete-missing`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to checkpoint database (required)")
	cmd.Flags().StringSliceVar(&opts.Only, "only", nil, "restore only these categories")
	cmd.Flags().StringSliceVar(&opts.Skip, "skip", nil, "restore everything except these categories")
	cmd.Flags().BoolVar(&opts.RestoreDeleted, "restore-deleted", false, "reinsert entities deleted since the checkpoint")
	cmd.Flags().BoolVar(&opts.DeleteMissing, "delete-missing", false, "remove entities the checkpoint does not contain")
	cmd.Flags().BoolVar(&opts.NoBackup, "no-backup", false, "skip the automatic safety checkpoint")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runRestore(opts *RestoreOptions, id, projectPath string, cmd *cobra.Command) error {
	restoreOpts, err := buildRestoreOptions(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid restore options", err)
	}
	// Gate before doing any work: an option set that selects nothing is a
	// caller mistake, not a restore.
	if restoreOpts.IsNoOp() {
		return NewExitError(ExitCommandError, "restore options select no categories")
	}

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

	var backupID string
	var report *restore.Report
	if opts.NoBackup {
		report, err = mgr.Restore(cmd.Context(), id, restoreOpts)
	} else {
		backupID, report, err = mgr.RestoreWithBackup(cmd.Context(), id, restoreOpts)
	}
	if err != nil {
		if checkpoint.IsNotFound(err) {
			return WrapExitError(ExitCommandError, "unknown checkpoint", err)
		}
		return WrapExitError(ExitFailure, "restore failed", err)
	}

	if err := SaveProject(projectPath, mgr.Project()); err != nil {
		return WrapExitError(ExitFailure, "failed to write restored project", err)
	}

	var buf bytes.Buffer
	renderReport(&buf, report)
	if backupID != "" {
		fmt.Fprintf(&buf, "safety checkpoint %s\n", backupID)
	}
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return f.SuccessText(buf.String(), map[string]any{
		"report":            report,
		"safety_checkpoint": backupID,
	})
}

// buildRestoreOptions translates --only/--skip plus the behavior flags into
// an engine option set. --only and --skip are mutually exclusive.
func buildRestoreOptions(opts *RestoreOptions) (restore.Options, error) {
	if len(opts.Only) > 0 && len(opts.Skip) > 0 {
		return restore.Options{}, fmt.Errorf("--only and --skip are mutually exclusive")
	}

	out := restore.DefaultOptions()
	out.RestoreDeleted = opts.RestoreDeleted
	out.DeleteMissing = opts.DeleteMissing

	parse := func(names []string) (map[project.Kind]bool, error) {
		set := make(map[project.Kind]bool, len(names))
		for _, name := range names {
			kind := project.Kind(strings.TrimSpace(name))
			if !project.ValidKind(kind) {
				return nil, fmt.Errorf("unknown category %q", name)
			}
			set[kind] = true
		}
		return set, nil
	}

	switch {
	case len(opts.Only) > 0:
		selected, err := parse(opts.Only)
		if err != nil {
			return restore.Options{}, err
		}
		out.Include = selected
	case len(opts.Skip) > 0:
		skipped, err := parse(opts.Skip)
		if err != nil {
			return restore.Options{}, err
		}
		for kind := range skipped {
			out.Include[kind] = false
		}
	}
	return out, nil
}
