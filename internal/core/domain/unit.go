package domain

// Unit is the atomic indexable block: one PDF page or one whole flat document.
// Units are immutable once enrichment completes; re-indexing is a full rebuild.
type Unit struct {
	Text     string       `json:"text"`
	Metadata UnitMetadata `json:"metadata"`
}

// UnitMetadata carries full provenance back to (document, page) without
// consulting the original file. PageNumber is nil for non-paginated documents.
type UnitMetadata struct {
	FileName   string `json:"file_name"`
	FolderName string `json:"folder_name"`
	FolderPath string `json:"folder_path"`
	PageNumber *int   `json:"page_number"`
	Summary    string `json:"summary,omitempty"`
	Entities   string `json:"entities,omitempty"`
}

// RawUnit is extractor output before provenance and enrichment are attached.
type RawUnit struct {
	Text       string
	PageNumber *int
}

// SourceAttribution is the read-only projection of a retrieved unit's metadata
// returned alongside an answer. The field set is a contract with callers.
type SourceAttribution struct {
	FileName   string `json:"file_name"`
	FolderName string `json:"folder_name"`
	FolderPath string `json:"folder_path"`
	PageNumber *int   `json:"page_number"`
	Summary    string `json:"summary"`
	Entities   string `json:"entities"`
}

// Sentinels for attribution fields that were never populated.
const (
	UnknownField = "Unknown"
	MissingField = "N/A"
)

// Attribution projects unit metadata into a SourceAttribution, substituting
// sentinels for missing fields instead of failing.
func (u Unit) Attribution() SourceAttribution {
	attr := SourceAttribution{
		FileName:   u.Metadata.FileName,
		FolderName: u.Metadata.FolderName,
		FolderPath: u.Metadata.FolderPath,
		PageNumber: u.Metadata.PageNumber,
		Summary:    u.Metadata.Summary,
		Entities:   u.Metadata.Entities,
	}
	if attr.FileName == "" {
		attr.FileName = UnknownField
	}
	if attr.FolderName == "" {
		attr.FolderName = UnknownField
	}
	if attr.FolderPath == "" {
		attr.FolderPath = UnknownField
	}
	if attr.Summary == "" {
		attr.Summary = MissingField
	}
	if attr.Entities == "" {
		attr.Entities = MissingField
	}
	return attr
}
