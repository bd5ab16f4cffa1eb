package memory

import (
	"context"
	"sync"

	"github.com/okkyra/panelist/internal/models"
	"github.com/okkyra/panelist/internal/utils"
)

// PanelRepo is the default in-process store. Panels live exactly as long
// as the process; the redis implementation is used when durability across
// restarts (within the session TTL) matters.
type PanelRepo struct {
	mu     sync.RWMutex
	panels map[string][]models.PanelEntry
}

func NewPanelRepo() *PanelRepo {
	return &PanelRepo{panels: make(map[string][]models.PanelEntry)}
}

func (r *PanelRepo) Replace(_ context.Context, sessionID string, entries []models.PanelEntry) error {
	cp := make([]models.PanelEntry, len(entries))
	copy(cp, entries)

	r.mu.Lock()
	r.panels[sessionID] = cp
	r.mu.Unlock()
	return nil
}

func (r *PanelRepo) Get(_ context.Context, sessionID string, personaID int) (*models.PanelEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, ok := r.panels[sessionID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	for i := range entries {
		if entries[i].Persona.ID == personaID {
			out := entries[i]
			out.History = append([]models.Turn(nil), entries[i].History...)
			return &out, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (r *PanelRepo) AppendTurn(_ context.Context, sessionID string, personaID int, turn models.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, ok := r.panels[sessionID]
	if !ok {
		return utils.ErrNotFound
	}
	for i := range entries {
		if entries[i].Persona.ID == personaID {
			h := append(entries[i].History, turn)
			if len(h) > models.HistoryLimit {
				h = h[len(h)-models.HistoryLimit:]
			}
			entries[i].History = h
			return nil
		}
	}
	return utils.ErrNotFound
}

func (r *PanelRepo) ListAll(_ context.Context, sessionID string) ([]models.PanelEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, ok := r.panels[sessionID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	out := make([]models.PanelEntry, len(entries))
	copy(out, entries)
	return out, nil
}
