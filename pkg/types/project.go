package types

import "time"

// Meta keys written by the storage engine itself. All other keys are owned by
// callers and pass through the engine unexamined.
const (
	// MetaKeyFolder caches the canonical per-project directory path.
	MetaKeyFolder = "folder_path"

	// MetaKeyReferenced marks a project whose content lives outside the
	// library root. Referenced projects are never copied in or deleted.
	MetaKeyReferenced = "is_referenced"

	// MetaKeyPlaceholder marks a project whose content file does not
	// exist on disk yet.
	MetaKeyPlaceholder = "is_placeholder"

	// MetaKeyImportedViaScan marks a project registered by ScanAndRegister
	// rather than an explicit Create call.
	MetaKeyImportedViaScan = "imported_via_scan"

	// MetaKeyFile records the content file found by the scanner inside a
	// project folder.
	MetaKeyFile = "file_path"
)

// Project is one named entry in a library, anchored to a single primary
// content file. The engine manages placement and registration of that file
// but never interprets its contents.
type Project struct {
	ID              int64     `json:"id"`               // Assigned by the record store on insert.
	Name            string    `json:"name"`             // Human-facing, unique across the library.
	ContentPath     string    `json:"content_path"`     // Absolute path; may point at a placeholder.
	ChosenCharacter string    `json:"chosen_character"` // Opaque to the engine; empty means unset.
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"` // Bumped by every mutation.
	Meta            Meta      `json:"meta"`       // Opaque caller-owned metadata.
}

// IsReferenced reports whether the project's content is external to the
// library and therefore exempt from copy and delete cascades.
func (p *Project) IsReferenced() bool {
	return p.Meta.Bool(MetaKeyReferenced)
}

// IsPlaceholder reports whether the project's content file is not expected
// to exist on disk yet.
func (p *Project) IsPlaceholder() bool {
	return p.Meta.Bool(MetaKeyPlaceholder)
}
