package redisrepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okkyra/panelist/internal/models"
	"github.com/okkyra/panelist/internal/utils"
)

// PanelRepo stores each session's panel as one JSON value with a TTL so
// abandoned sessions expire on their own.
type PanelRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPanelRepo(rdb *redis.Client, ttl time.Duration) *PanelRepo {
	return &PanelRepo{rdb: rdb, ttl: ttl}
}

func key(sessionID string) string { return "panel:" + sessionID }

func (r *PanelRepo) Replace(ctx context.Context, sessionID string, entries []models.PanelEntry) error {
	b, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, key(sessionID), b, r.ttl).Err()
}

func (r *PanelRepo) load(ctx context.Context, sessionID string) ([]models.PanelEntry, error) {
	s, err := r.rdb.Get(ctx, key(sessionID)).Result()
	if err == redis.Nil {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var entries []models.PanelEntry
	if err := json.Unmarshal([]byte(s), &entries); err != nil {
		// corrupt value: drop it and report the panel gone
		_ = r.rdb.Del(ctx, key(sessionID)).Err()
		return nil, utils.ErrNotFound
	}
	return entries, nil
}

func (r *PanelRepo) Get(ctx context.Context, sessionID string, personaID int) (*models.PanelEntry, error) {
	entries, err := r.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].Persona.ID == personaID {
			return &entries[i], nil
		}
	}
	return nil, utils.ErrNotFound
}

// AppendTurn is read-modify-write; the dispatcher serializes mutating
// requests per session, so no redis-side locking is needed.
func (r *PanelRepo) AppendTurn(ctx context.Context, sessionID string, personaID int, turn models.Turn) error {
	entries, err := r.load(ctx, sessionID)
	if err != nil {
		return err
	}

	found := false
	for i := range entries {
		if entries[i].Persona.ID == personaID {
			h := append(entries[i].History, turn)
			if len(h) > models.HistoryLimit {
				h = h[len(h)-models.HistoryLimit:]
			}
			entries[i].History = h
			found = true
			break
		}
	}
	if !found {
		return utils.ErrNotFound
	}

	b, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, key(sessionID), b, redis.KeepTTL).Err()
}

func (r *PanelRepo) ListAll(ctx context.Context, sessionID string) ([]models.PanelEntry, error) {
	return r.load(ctx, sessionID)
}
