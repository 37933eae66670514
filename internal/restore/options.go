package restore

import "github.com/rowanvale/inkwell/internal/project"

// Options declares which categories a restore touches and how it treats
// entities present on only one side. A plain value type: callers build one
// from UI toggles and pass it by value, nothing is shared.
type Options struct {
	// Include selects the categories to merge. A nil map means every
	// category; an entry that is absent or false excludes its category.
	Include map[project.Kind]bool

	// RestoreDeleted reinserts entities that exist in the snapshot but not
	// in the live project, preserving their original ids so back-references
	// stay valid.
	RestoreDeleted bool

	// DeleteMissing removes live entities the snapshot does not contain.
	DeleteMissing bool
}

// DefaultOptions includes every category with both behavior toggles off.
func DefaultOptions() Options {
	include := make(map[project.Kind]bool)
	for _, k := range project.Kinds() {
		include[k] = true
	}
	return Options{Include: include}
}

// Included reports whether a category participates in the restore.
func (o Options) Included(kind project.Kind) bool {
	if o.Include == nil {
		return true
	}
	return o.Include[kind]
}

// IsNoOp reports whether the option set selects nothing at all. Callers
// should gate user-facing restore actions on !IsNoOp().
func (o Options) IsNoOp() bool {
	if o.Include == nil {
		return false
	}
	for _, k := range project.Kinds() {
		if o.Include[k] {
			return false
		}
	}
	return true
}
