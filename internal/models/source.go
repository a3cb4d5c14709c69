package models

// SourceRecord is one raw item returned by the remote collection query.
// Properties carries the variably-shaped property map as returned by the
// source; the projector is responsible for defensive field access.
type SourceRecord struct {
	ID             string         `json:"id"`
	URL            string         `json:"url"`
	LastEditedTime string         `json:"last_edited_time"`
	Properties     map[string]any `json:"properties"`
}

// Block is one child content block of a source record. Blocks are stored
// as returned by the source without reshaping.
type Block map[string]any

// CollectionPage is one page of a paginated collection query.
type CollectionPage struct {
	Results    []SourceRecord `json:"results"`
	NextCursor string         `json:"next_cursor"`
	HasMore    bool           `json:"has_more"`
}

// BlockPage is one page of a paginated child-block listing.
type BlockPage struct {
	Results    []Block `json:"results"`
	NextCursor string  `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}
