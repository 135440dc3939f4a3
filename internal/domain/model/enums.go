package model

// ImportSource selects where imported bytes come from.
type ImportSource string

const (
	SourceURL     ImportSource = "url"     // Direct download from any URL.
	SourceAssetID ImportSource = "assetId" // Numeric id on the asset-delivery endpoint.
	SourceFile    ImportSource = "file"    // Inline base64 payload, decoded locally.
)

// Valid reports whether s is one of the supported import sources.
func (s ImportSource) Valid() bool {
	switch s {
	case SourceURL, SourceAssetID, SourceFile:
		return true
	default:
		return false
	}
}
