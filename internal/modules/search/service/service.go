package service

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"anoa.com/ideaboard/internal/entity"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const ideasIndex = "ideas"

// IdeaIndex is the full-text index over ideas.
type IdeaIndex interface {
	IndexIdea(ctx context.Context, idea *entity.Idea) error
	DeleteIdea(ctx context.Context, id uuid.UUID) error
	SearchIdeas(ctx context.Context, query string, limit int) ([]uuid.UUID, error)
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
	logger    *zap.Logger
}

func NewMeiliSearchService(client meilisearch.ServiceManager, logger *zap.Logger) IdeaIndex {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger,
	}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	filterableAttrs := []string{"status", "category_id"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index(ideasIndex).UpdateFilterableAttributes(&filterableInterface); err != nil {
		s.logger.Warn("failed to update ideas filterable attributes", zap.Error(err))
	}

	sortableAttrs := []string{"submitted_date"}
	if _, err := s.client.Index(ideasIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		s.logger.Warn("failed to update ideas sortable attributes", zap.Error(err))
	}
}

type ideaDoc struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	CategoryID    string `json:"category_id"`
	CategoryName  string `json:"category_name"`
	Status        string `json:"status"`
	SubmittedBy   string `json:"submitted_by"`
	SubmittedDate int64  `json:"submitted_date"`
}

func (s *meiliSearchService) cleanContentForIndex(content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	cleanText := html.UnescapeString(s.sanitizer.Sanitize(content))
	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *meiliSearchService) toDoc(idea *entity.Idea) ideaDoc {
	return ideaDoc{
		ID:            idea.ID.String(),
		Title:         s.cleanContentForIndex(idea.Title),
		Description:   s.cleanContentForIndex(idea.Description),
		CategoryID:    idea.CategoryID.String(),
		CategoryName:  idea.Category.Name,
		Status:        string(idea.Status),
		SubmittedBy:   idea.SubmittedBy.Name,
		SubmittedDate: idea.SubmittedDate.Unix(),
	}
}

func (s *meiliSearchService) IndexIdea(ctx context.Context, idea *entity.Idea) error {
	task, err := s.client.Index(ideasIndex).AddDocuments([]ideaDoc{s.toDoc(idea)}, strPtr("id"))
	if err != nil {
		return fmt.Errorf("index idea %s: %w", idea.ID, err)
	}
	s.logger.Debug("indexed idea", zap.Stringer("idea_id", idea.ID), zap.Int64("task_uid", task.TaskUID))
	return nil
}

func (s *meiliSearchService) DeleteIdea(ctx context.Context, id uuid.UUID) error {
	if _, err := s.client.Index(ideasIndex).DeleteDocument(id.String()); err != nil {
		return fmt.Errorf("delete idea %s from index: %w", id, err)
	}
	return nil
}

type searchHits struct {
	Hits []struct {
		ID string `json:"id"`
	} `json:"hits"`
}

// SearchIdeas returns matching idea ids in relevance order.
func (s *meiliSearchService) SearchIdeas(ctx context.Context, query string, limit int) ([]uuid.UUID, error) {
	raw, err := s.client.Index(ideasIndex).SearchRaw(query, &meilisearch.SearchRequest{
		Limit:                int64(limit),
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		return nil, fmt.Errorf("search ideas: %w", err)
	}

	return parseHits(*raw)
}

func parseHits(raw []byte) ([]uuid.UUID, error) {
	var res searchHits
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(res.Hits))
	for _, h := range res.Hits {
		id, err := uuid.Parse(h.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func strPtr(s string) *string {
	return &s
}
