package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rowanvale/inkwell/internal/project"
	"github.com/rowanvale/inkwell/internal/restore"
	"github.com/rowanvale/inkwell/internal/snapshot"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation failure (restore failed, busy, corrupt snapshot)
	ExitCommandError = 2 // Command error (invalid paths, bad flags, unknown ids)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string `json:"status"`         // "ok" or "error"
	Data   any    `json:"data,omitempty"` // success payload
}

// Success outputs a successful result in the configured format. In text
// mode the data's string form is printed as-is.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// SuccessText outputs pre-rendered text, or the given data in JSON mode.
func (f *OutputFormatter) SuccessText(text string, data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	_, err := io.WriteString(f.Writer, text)
	return err
}

const timeLayout = "2006-01-02 15:04:05"

// renderListing formats checkpoint entries as a fixed-width table, newest
// first (the order the store returns).
func renderListing(w io.Writer, entries []snapshot.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no checkpoints")
		return
	}
	fmt.Fprintf(w, "%-36s  %-19s  %s\n", "ID", "CREATED", "LABEL")
	for _, e := range entries {
		fmt.Fprintf(w, "%-36s  %-19s  %s\n", e.ID, e.CreatedAt.UTC().Format(timeLayout), e.Label)
	}
}

// renderReport formats a restore change report. Categories appear in
// declaration order; categories the option set excluded are skipped.
func renderReport(w io.Writer, report *restore.Report) {
	fmt.Fprintf(w, "restored checkpoint %s\n", report.CheckpointID)
	for _, kind := range project.Kinds() {
		ch, ok := report.Categories[kind]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %-14s %d updated, %d added, %d removed\n", string(kind)+":", ch.Updated, ch.Added, ch.Removed)
	}
	for _, r := range report.Reattached {
		fmt.Fprintf(w, "  reattached scene %s -> %s\n", r.SceneID, r.ChapterID)
	}
	if report.DroppedSceneRefs > 0 {
		fmt.Fprintf(w, "  dropped scene references: %d\n", report.DroppedSceneRefs)
	}
	if report.PrunedContexts > 0 || report.PrunedContextRefs > 0 {
		fmt.Fprintf(w, "  pruned scene contexts: %d (references: %d)\n", report.PrunedContexts, report.PrunedContextRefs)
	}
	if report.Empty() {
		fmt.Fprintln(w, "  no changes")
	}
}

// categoryCounts summarizes entity counts per category for `show`, in
// declaration order.
func categoryCounts(snap map[project.Kind]map[string]project.Entity) []string {
	lines := make([]string, 0, len(snap))
	for _, kind := range project.Kinds() {
		lines = append(lines, fmt.Sprintf("  %-14s %d entities", string(kind)+":", len(snap[kind])))
	}
	return lines
}
