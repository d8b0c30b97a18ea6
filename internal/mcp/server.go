package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/joescharf/claudelog/internal/analyzer"
	"github.com/joescharf/claudelog/internal/models"
	"github.com/joescharf/claudelog/internal/patterns"
	"github.com/joescharf/claudelog/internal/store"
)

// Server exposes the session store and analyzer as read-only MCP tools.
type Server struct {
	store    store.Store
	analyzer *analyzer.Analyzer
}

// NewServer creates the MCP server wrapper.
func NewServer(s store.Store, a *analyzer.Analyzer) *Server {
	return &Server{store: s, analyzer: a}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("claudelog", "1.0.0", server.WithToolCapabilities(true))

	srv.AddTool(s.listSessionsTool())
	srv.AddTool(s.sessionSummaryTool())
	srv.AddTool(s.compareMethodologiesTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := s.MCPServer()
	stdioServer := server.NewStdioServer(srv)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// ---------------------------------------------------------------------------
// Tool definitions and handlers
// ---------------------------------------------------------------------------

type sessionOut struct {
	ID          string   `json:"id"`
	Timestamp   string   `json:"timestamp"`
	Project     string   `json:"project"`
	Methodology string   `json:"methodology"`
	Closed      bool     `json:"closed"`
	Duration    *float64 `json:"duration_seconds,omitempty"`
	Energy      *int     `json:"creative_energy,omitempty"`
}

func sessionToOut(r *models.SessionRecord) sessionOut {
	return sessionOut{
		ID:          r.ID,
		Timestamp:   r.Timestamp.Format(time.RFC3339),
		Project:     r.Project,
		Methodology: string(r.Methodology),
		Closed:      r.Closed(),
		Duration:    r.DurationSeconds,
		Energy:      r.CreativeEnergy,
	}
}

// claudelog_list_sessions
func (s *Server) listSessionsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("claudelog_list_sessions",
		mcp.WithDescription("List logged Claude sessions in insertion order. Returns a JSON array with id, timestamp, project, methodology, and close state."),
		mcp.WithString("methodology", mcp.Description("Filter by methodology: context-driven, command-based, unknown")),
	)
	return tool, s.handleListSessions
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := request.GetString("methodology", "")

	var out []sessionOut
	for _, r := range s.store.ListSessions() {
		if filter != "" && string(r.Methodology) != filter {
			continue
		}
		out = append(out, sessionToOut(r))
	}

	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal sessions: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// claudelog_session_summary
func (s *Server) sessionSummaryTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("claudelog_session_summary",
		mcp.WithDescription("Get one session's metadata plus transcript metrics and quality scores."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
	)
	return tool, s.handleSessionSummary
}

func (s *Server) handleSessionSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}

	rec, err := s.store.GetSession(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("session not found: %s", id)), nil
	}

	metrics, err := s.analyzer.AnalyzeFile(rec.LogFilePath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to analyze transcript: %v", err)), nil
	}
	quality := patterns.QualityFromMetrics(metrics)

	out := struct {
		Session sessionOut             `json:"session"`
		Metrics models.AnalysisMetrics `json:"metrics"`
		Quality patterns.Quality       `json:"quality"`
	}{sessionToOut(rec), metrics, quality}

	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal summary: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// claudelog_compare_methodologies
func (s *Server) compareMethodologiesTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("claudelog_compare_methodologies",
		mcp.WithDescription("Aggregate all closed sessions per methodology: counts, durations, energy averages, and transcript metrics. Unreadable transcripts are skipped, not fatal."),
	)
	return tool, s.handleCompareMethodologies
}

func (s *Server) handleCompareMethodologies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := s.analyzer.CompareMethodologies(s.store)

	type statsOut struct {
		Methodology        string                 `json:"methodology"`
		SessionCount       int                    `json:"session_count"`
		TotalDuration      float64                `json:"total_duration_seconds"`
		AverageDuration    float64                `json:"average_duration_seconds"`
		AverageEnergy      *float64               `json:"average_energy,omitempty"`
		EnergySamples      int                    `json:"energy_samples"`
		Metrics            models.AnalysisMetrics `json:"metrics"`
		SkippedTranscripts int                    `json:"skipped_transcripts"`
	}

	out := make([]statsOut, len(stats))
	for i, st := range stats {
		out[i] = statsOut{
			Methodology:        string(st.Methodology),
			SessionCount:       st.SessionCount,
			TotalDuration:      st.TotalDuration,
			AverageDuration:    st.AverageDuration,
			AverageEnergy:      st.AverageEnergy,
			EnergySamples:      len(st.EnergySamples),
			Metrics:            st.Metrics,
			SkippedTranscripts: st.SkippedTranscripts,
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal stats: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
