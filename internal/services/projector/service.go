package projector

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/interfaces"
	"github.com/ternarybob/speculo/internal/models"
)

// Source property names for the fixed projection map.
const (
	propTitle             = "Article_or_Item_Title"
	propStatus            = "Status"
	propDescription       = "Article_or_Item_Description"
	propFeatured          = "Featured (max 5)"
	propAuthor            = "Agent_or_Author"
	propAuthorDescription = "Agent_or_Author_Description"
	propCategories        = "Categories"
	propCategoryDesc      = "Category_Description"
	propPosition          = "Position"
	propItemCTALink       = "Item_CTA_Link"
	propItemCTATitle      = "Item_CTA_Title"
	propItemPrice         = "Item_Price"
	propItemCTAText       = "Item_CTA_Text"
	propSEOTitle          = "SEO_Title"
	propSEOTags           = "SEO_Tags"
	propSEODescription    = "SEO_Description"
	propArticleImage      = "Article_or_Item_Image"
	propAuthorImage       = "Agent_or_Author_Image"
	propCategoryImage     = "Category_Image"
)

// Service maps raw source records into the projected document shape using
// defensive defaulting: a missing nested field yields an empty string,
// empty list, or zero, never an error.
type Service struct {
	rehoster interfaces.AssetRehoster
	fetcher  interfaces.TreeFetcher
	logger   arbor.ILogger
}

// NewService creates a record projector.
func NewService(rehoster interfaces.AssetRehoster, fetcher interfaces.TreeFetcher, logger arbor.ILogger) interfaces.RecordProjector {
	return &Service{
		rehoster: rehoster,
		fetcher:  fetcher,
		logger:   logger,
	}
}

// Project builds the projected document for one record. Image fields are
// rehosted only when the source field is present; absent fields
// short-circuit to "" without a network call. Block content resolution is
// the only hard failure path.
func (s *Service) Project(ctx context.Context, rec models.SourceRecord) (*models.Document, error) {
	props := rec.Properties

	doc := &models.Document{
		ID:                     rec.ID,
		Title:                  titleText(props, propTitle),
		Status:                 statusName(props, propStatus),
		Description:            richText(props, propDescription),
		Featured:               selectName(props, propFeatured),
		Author:                 selectName(props, propAuthor),
		AuthorDescription:      richText(props, propAuthorDescription),
		Collection:             multiSelectFirst(props, propCategories),
		Category:               multiSelectFirst(props, propCategories),
		CollectionsDescription: richText(props, propCategoryDesc),
		Position:               number(props, propPosition),
		ItemCTALink:            richText(props, propItemCTALink),
		ItemCTATitle:           richText(props, propItemCTATitle),
		ItemPrice:              richText(props, propItemPrice),
		ItemCTAText:            richText(props, propItemCTAText),
		SEOTitle:               richText(props, propSEOTitle),
		SEOTags:                multiSelectJoin(props, propSEOTags, ", "),
		SEODescription:         richText(props, propSEODescription),
		LastEditTime:           rec.LastEditedTime,
		URL:                    rec.URL,
	}

	if u := fileURL(props, propArticleImage); u != "" {
		doc.ArticleImage = s.rehoster.Rehost(ctx, u)
	}
	if u := fileURL(props, propAuthorImage); u != "" {
		doc.AuthorImage = s.rehoster.Rehost(ctx, u)
	}
	if u := fileURL(props, propCategoryImage); u != "" {
		doc.CollectionsImage = s.rehoster.Rehost(ctx, u)
	}

	blocks, err := s.fetcher.FetchAllBlocks(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content blocks for record %s: %w", rec.ID, err)
	}
	doc.Content = blocks

	return doc, nil
}

// Defensive property accessors. Every missing or differently-shaped field
// resolves to a zero value.

func field(props map[string]any, key string) map[string]any {
	if props == nil {
		return nil
	}
	m, _ := props[key].(map[string]any)
	return m
}

func plainText(items any) string {
	list, _ := items.([]any)
	if len(list) == 0 {
		return ""
	}
	first, _ := list[0].(map[string]any)
	text, _ := first["plain_text"].(string)
	return text
}

func titleText(props map[string]any, key string) string {
	return plainText(field(props, key)["title"])
}

func richText(props map[string]any, key string) string {
	return plainText(field(props, key)["rich_text"])
}

func statusName(props map[string]any, key string) string {
	status, _ := field(props, key)["status"].(map[string]any)
	name, _ := status["name"].(string)
	return name
}

func selectName(props map[string]any, key string) string {
	sel, _ := field(props, key)["select"].(map[string]any)
	name, _ := sel["name"].(string)
	return name
}

func multiSelectNames(props map[string]any, key string) []string {
	list, _ := field(props, key)["multi_select"].([]any)
	names := make([]string, 0, len(list))
	for _, item := range list {
		entry, _ := item.(map[string]any)
		if name, ok := entry["name"].(string); ok {
			names = append(names, name)
		}
	}
	return names
}

func multiSelectFirst(props map[string]any, key string) string {
	names := multiSelectNames(props, key)
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

func multiSelectJoin(props map[string]any, key, sep string) string {
	return strings.Join(multiSelectNames(props, key), sep)
}

func number(props map[string]any, key string) float64 {
	n, _ := field(props, key)["number"].(float64)
	return n
}

func fileURL(props map[string]any, key string) string {
	files, _ := field(props, key)["files"].([]any)
	if len(files) == 0 {
		return ""
	}
	first, _ := files[0].(map[string]any)
	file, _ := first["file"].(map[string]any)
	u, _ := file["url"].(string)
	return u
}
