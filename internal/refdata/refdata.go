// Package refdata bundles the static reference dataset shipped with the
// service. It backs the session before the first successful fetch and fills
// per-asset gaps whenever the network payload is unavailable or incomplete.
package refdata

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/seethefuture888888-creator/kangbo/internal/domain/models"
)

//go:embed reference.json
var fs embed.FS

// Load parses the bundled dataset. The result is a fresh copy on every call
// so callers may not alias each other's payloads.
func Load() (*models.SignalPayload, error) {
	b, err := fs.ReadFile("reference.json")
	if err != nil {
		return nil, fmt.Errorf("read reference data: %w", err)
	}
	var p models.SignalPayload
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse reference data: %w", err)
	}
	return &p, nil
}

// MustLoad is Load for wiring paths where a broken bundle is unrecoverable.
func MustLoad() *models.SignalPayload {
	p, err := Load()
	if err != nil {
		panic(err)
	}
	return p
}
