package mcp

import (
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Index ingests and deletes documents.
	Index driving.IndexService

	// Query retrieves chunks for a query.
	Query driving.QueryService

	// Admin exposes corpus-wide listings and stats.
	Admin driving.AdminService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	if p.Index == nil {
		return ErrMissingIndexService
	}
	// Admin is optional; the tools it backs report an error when unset.
	return nil
}
