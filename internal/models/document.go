package models

import "encoding/json"

// Document is the normalized, flattened projection of one source record.
// JSON keys match the snapshot wire format consumed downstream, so field
// casing is deliberately uneven.
type Document struct {
	ID                     string  `json:"id"`
	Title                  string  `json:"title"`
	Status                 string  `json:"Status"`
	Description            string  `json:"Description"`
	Featured               string  `json:"Featured"`
	Author                 string  `json:"Author"`
	AuthorDescription      string  `json:"Author_Description"`
	Collection             string  `json:"Collection"`
	Category               string  `json:"Category"`
	CollectionsDescription string  `json:"Collections_Description"`
	Position               float64 `json:"Position"`
	ItemCTALink            string  `json:"Item_CTA_Link"`
	ItemCTATitle           string  `json:"Item_CTA_Title"`
	ItemPrice              string  `json:"Item_Price"`
	ItemCTAText            string  `json:"Item_CTA_Text"`
	SEOTitle               string  `json:"SEO_Title"`
	SEOTags                string  `json:"SEO_Tags"`
	SEODescription         string  `json:"SEO_Description"`
	LastEditTime           string  `json:"lastEditTime"`
	ArticleImage           string  `json:"ArticleImage"`
	URL                    string  `json:"url"`
	AuthorImage            string  `json:"Author_Image"`
	CollectionsImage       string  `json:"Collections_Image"`
	Content                []Block `json:"content"`
}

// ToMap converts the document to a generic map for normalization and
// storage. Round-tripping through JSON keeps the wire keys.
func (d *Document) ToMap() (map[string]any, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
