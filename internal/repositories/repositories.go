package repositories

import (
	"context"

	"github.com/okkyra/panelist/internal/models"
)

// PanelRepo holds one panel (persona batch + chat histories) per session.
// Replace atomically swaps the whole panel: persona ids issued before a
// Replace are invalid afterwards and surface utils.ErrNotFound.
//
// Concurrent sessions are isolated by key. Within one session the request
// dispatcher serializes mutating calls, so implementations may use
// read-modify-write for AppendTurn.
type PanelRepo interface {
	Replace(ctx context.Context, sessionID string, entries []models.PanelEntry) error
	Get(ctx context.Context, sessionID string, personaID int) (*models.PanelEntry, error)
	AppendTurn(ctx context.Context, sessionID string, personaID int, turn models.Turn) error
	ListAll(ctx context.Context, sessionID string) ([]models.PanelEntry, error)
}
