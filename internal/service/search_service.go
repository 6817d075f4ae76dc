package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"golazo.app/penaltyduel/internal/dto"
	"golazo.app/penaltyduel/internal/model"
	"golazo.app/penaltyduel/internal/repository"
)

const playersIndex = "players"

// SearchService finds opponents by username. Meilisearch-backed when a client
// is configured; otherwise it degrades to a SQL LIKE query.
type SearchService interface {
	IndexUser(user *model.User)
	RemoveUser(userID uuid.UUID)
	SearchPlayers(ctx context.Context, query string, limit int) ([]dto.PlayerSummary, error)
}

type playerDoc struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	AvatarID  int     `json:"avatar_id"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type searchService struct {
	client meilisearch.ServiceManager
	users  repository.UserRepository
}

func NewSearchService(client meilisearch.ServiceManager, users repository.UserRepository) SearchService {
	s := &searchService{client: client, users: users}
	if client != nil {
		s.initIndex()
	}
	return s
}

func (s *searchService) initIndex() {
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        playersIndex,
		PrimaryKey: "id",
	})
	if err != nil {
		log.Printf("failed to create meilisearch index %q: %v", playersIndex, err)
		return
	}

	searchable := []string{"username"}
	if _, err := s.client.Index(playersIndex).UpdateSearchableAttributes(&searchable); err != nil {
		log.Printf("failed to configure meilisearch index %q: %v", playersIndex, err)
	}
}

// IndexUser pushes a user document to the search index, best-effort.
func (s *searchService) IndexUser(user *model.User) {
	if s.client == nil {
		return
	}

	doc := playerDoc{
		ID:        user.ID.String(),
		Username:  user.Username,
		AvatarID:  user.AvatarID,
		AvatarURL: user.AvatarURL,
	}
	if _, err := s.client.Index(playersIndex).AddDocuments([]playerDoc{doc}, nil); err != nil {
		log.Printf("failed to index user %s: %v", user.Username, err)
	}
}

// RemoveUser drops a user from the search index (e.g. when blocked).
func (s *searchService) RemoveUser(userID uuid.UUID) {
	if s.client == nil {
		return
	}

	if _, err := s.client.Index(playersIndex).DeleteDocument(userID.String()); err != nil {
		log.Printf("failed to remove user %s from search index: %v", userID, err)
	}
}

func (s *searchService) SearchPlayers(ctx context.Context, query string, limit int) ([]dto.PlayerSummary, error) {
	if s.client == nil {
		return s.searchDatabase(ctx, query, limit)
	}

	res, err := s.client.Index(playersIndex).SearchWithContext(ctx, query, &meilisearch.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		log.Printf("meilisearch query failed, falling back to database: %v", err)
		return s.searchDatabase(ctx, query, limit)
	}

	raw, err := json.Marshal(res.Hits)
	if err != nil {
		return s.searchDatabase(ctx, query, limit)
	}
	var docs []playerDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return s.searchDatabase(ctx, query, limit)
	}

	summaries := make([]dto.PlayerSummary, 0, len(docs))
	for _, doc := range docs {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			continue
		}
		summaries = append(summaries, dto.PlayerSummary{
			ID:        id,
			Username:  doc.Username,
			AvatarID:  doc.AvatarID,
			AvatarURL: doc.AvatarURL,
		})
	}

	return summaries, nil
}

func (s *searchService) searchDatabase(ctx context.Context, query string, limit int) ([]dto.PlayerSummary, error) {
	users, err := s.users.SearchByUsername(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.PlayerSummary, 0, len(users))
	for _, user := range users {
		if user.IsBlocked {
			continue
		}
		summaries = append(summaries, dto.PlayerSummary{
			ID:        user.ID,
			Username:  user.Username,
			AvatarID:  user.AvatarID,
			AvatarURL: user.AvatarURL,
		})
	}

	return summaries, nil
}
