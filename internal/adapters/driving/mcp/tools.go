package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	defaultQueryLimit = 5
	maxQueryLimit     = 20
)

var errMissingAdminService = errors.New("mcp: admin service not configured")

// QueryInput is the input schema for the query tool.
type QueryInput struct {
	Query string `json:"query" jsonschema:"the text to find relevant chunks for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (1-20, default 5)"`
}

// QueryOutput is the output schema for the query tool.
type QueryOutput struct {
	Matches []MatchOutput `json:"matches"`
	Count   int           `json:"count"`
}

// MatchOutput represents a single query match.
type MatchOutput struct {
	SourceID   string  `json:"source_id"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}

// IndexDocumentInput is the input schema for the index_document tool.
type IndexDocumentInput struct {
	SourceID string `json:"source_id" jsonschema:"unique identifier for the document"`
	Content  string `json:"content" jsonschema:"the document text to index"`
}

// IndexDocumentOutput is the output schema for the index_document tool.
type IndexDocumentOutput struct {
	Changed    bool `json:"changed"`
	ChunkCount int  `json:"chunk_count"`
}

// DeleteSourceInput is the input schema for the delete_source tool.
type DeleteSourceInput struct {
	SourceID string `json:"source_id" jsonschema:"identifier of the document to delete"`
}

// DeleteSourceOutput is the output schema for the delete_source tool.
type DeleteSourceOutput struct {
	Deleted int `json:"deleted"`
}

// ListSourcesInput is the input schema for the list_sources tool.
type ListSourcesInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of sources to return (default all)"`
}

// ListSourcesOutput is the output schema for the list_sources tool.
type ListSourcesOutput struct {
	Sources []SourceOutput `json:"sources"`
	Count   int            `json:"count"`
}

// SourceOutput represents one indexed source.
type SourceOutput struct {
	SourceID   string `json:"source_id"`
	ChunkCount int    `json:"chunk_count"`
	IndexedAt  string `json:"indexed_at"`
}

// StatsInput is the input schema for the stats tool.
type StatsInput struct{}

// StatsOutput is the output schema for the stats tool.
type StatsOutput struct {
	DocumentCount int `json:"document_count"`
	ChunkCount    int `json:"chunk_count"`
	TotalTokens   int `json:"total_tokens"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query",
		Description: "Retrieve the chunks most relevant to a query",
	}, s.handleQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_document",
		Description: "Index a document into the local chunk store",
	}, s.handleIndexDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_source",
		Description: "Delete a document and all its chunks",
	}, s.handleDeleteSource)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_sources",
		Description: "List indexed sources, most recent first",
	}, s.handleListSources)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "stats",
		Description: "Aggregate counts over the whole chunk store",
	}, s.handleStats)
}

// handleQuery handles the query tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}

	matches, err := s.ports.Query.Query(ctx, input.Query, limit)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	output := QueryOutput{
		Matches: make([]MatchOutput, len(matches)),
		Count:   len(matches),
	}
	for i := range matches {
		output.Matches[i] = MatchOutput{
			SourceID:   matches[i].SourceID,
			ChunkIndex: matches[i].ChunkIndex,
			Text:       matches[i].Text,
			Score:      matches[i].Score,
		}
	}

	return nil, output, nil
}

// handleIndexDocument handles the index_document tool invocation.
func (s *Server) handleIndexDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IndexDocumentInput,
) (*mcp.CallToolResult, IndexDocumentOutput, error) {
	result, err := s.ports.Index.IndexDocument(ctx, input.SourceID, input.Content)
	if err != nil {
		return nil, IndexDocumentOutput{}, err
	}

	return nil, IndexDocumentOutput{
		Changed:    result.Changed,
		ChunkCount: result.ChunkCount,
	}, nil
}

// handleDeleteSource handles the delete_source tool invocation.
func (s *Server) handleDeleteSource(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteSourceInput,
) (*mcp.CallToolResult, DeleteSourceOutput, error) {
	deleted, err := s.ports.Index.DeleteSource(ctx, input.SourceID)
	if err != nil {
		return nil, DeleteSourceOutput{}, err
	}

	return nil, DeleteSourceOutput{Deleted: deleted}, nil
}

// handleListSources handles the list_sources tool invocation.
func (s *Server) handleListSources(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListSourcesInput,
) (*mcp.CallToolResult, ListSourcesOutput, error) {
	if s.ports.Admin == nil {
		return nil, ListSourcesOutput{}, errMissingAdminService
	}

	sources, err := s.ports.Admin.ListSources(ctx, input.Limit)
	if err != nil {
		return nil, ListSourcesOutput{}, err
	}

	output := ListSourcesOutput{
		Sources: make([]SourceOutput, len(sources)),
		Count:   len(sources),
	}
	for i := range sources {
		output.Sources[i] = SourceOutput{
			SourceID:   sources[i].SourceID,
			ChunkCount: sources[i].ChunkCount,
			IndexedAt:  sources[i].IndexedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	return nil, output, nil
}

// handleStats handles the stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	if s.ports.Admin == nil {
		return nil, StatsOutput{}, errMissingAdminService
	}

	stats, err := s.ports.Admin.Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}

	return nil, StatsOutput{
		DocumentCount: stats.DocumentCount,
		ChunkCount:    stats.ChunkCount,
		TotalTokens:   stats.TotalTokens,
	}, nil
}
