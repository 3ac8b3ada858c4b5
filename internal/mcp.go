package internal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the MCP server and application dependencies
type MCPServer struct {
	app       *App
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(app *App, version string) *MCPServer {
	mcpServer := server.NewMCPServer(
		"ytscribe",
		version,
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		app:       app,
		mcpServer: mcpServer,
	}
	s.registerTools()

	return s
}

func (s *MCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_video_metadata",
		mcp.WithDescription("Look up title, channel, publish date and duration of a YouTube video."),
		mcp.WithString("id",
			mcp.Description("YouTube video ID or URL"),
			mcp.Required(),
		),
	), s.handleGetMetadata)

	s.mcpServer.AddTool(mcp.NewTool("transcribe_video",
		mcp.WithDescription("Download the audio of a YouTube video and transcribe it with Whisper. "+
			"Existing audio and transcript files in the output directory are reused. "+
			"Local transcription of a long video can take many minutes."),
		mcp.WithString("id",
			mcp.Description("YouTube video ID or URL"),
			mcp.Required(),
		),
		mcp.WithString("language",
			mcp.Description("Spoken language name or ISO code, or \"auto\" (default: configured language or Hindi)"),
		),
	), s.handleTranscribe)
}

func (s *MCPServer) handleGetMetadata(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required and must be a string"), nil
	}
	videoID := NormalizeVideoID(id)

	metadata, err := s.app.LookupMetadata(ctx, videoID)
	if err != nil {
		s.app.runLog.Errorf("get_video_metadata %s: %v", videoID, err)
		return mcp.NewToolResultErrorFromErr("metadata error", err), nil
	}

	var buf strings.Builder
	fmt.Fprintf(&buf, "ID: %s\n", metadata.ID)
	fmt.Fprintf(&buf, "Title: %s\n", metadata.Title)
	fmt.Fprintf(&buf, "Channel: %s\n", metadata.Channel)
	if !metadata.PublishedAt.IsZero() {
		fmt.Fprintf(&buf, "Published: %s\n", metadata.PublishedAt.Format(time.DateOnly))
	}
	fmt.Fprintf(&buf, "Duration: %s\n", metadata.DurationString())

	return mcp.NewToolResultText(buf.String()), nil
}

func (s *MCPServer) handleTranscribe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required and must be a string"), nil
	}
	videoID := NormalizeVideoID(id)

	lang := DefaultLanguage
	if name := request.GetString("language", s.app.config.Language); name != "" {
		lang, err = ParseLanguage(name)
		if err != nil {
			return mcp.NewToolResultErrorFromErr("invalid language", err), nil
		}
	}

	s.app.runLog.Infof("transcribe_video %s (%s)", videoID, lang)
	transcript, err := s.app.TranscribeVideo(ctx, videoID, lang)
	if err != nil {
		s.app.runLog.Errorf("transcribe_video %s: %v", videoID, err)
		return mcp.NewToolResultErrorFromErr("transcription failed", err), nil
	}

	return mcp.NewToolResultText(transcript), nil
}

// Start starts the MCP server using the specified transport
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	if transport == "http" {
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httpServer.Start(fmt.Sprintf(":%d", port))
	}

	return server.ServeStdio(s.mcpServer)
}
