// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Mannaz tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/mannaz/internal/api"
	"github.com/starford/mannaz/internal/decor"
	"github.com/starford/mannaz/internal/host"
	"github.com/starford/mannaz/internal/index"
	"github.com/starford/mannaz/internal/people"
	"github.com/starford/mannaz/internal/settings"
	"github.com/starford/mannaz/internal/storage"
)

// Server wraps the MCP server with Mannaz tools.
type Server struct {
	mcp      *server.MCPServer
	store    storage.Provider
	db       *index.DB
	settings *settings.Store
	people   *people.Service
	scanner  *decor.Scanner
}

// New creates a new MCP server with all Mannaz tools registered.
func New(store storage.Provider, db *index.DB, settingsStore *settings.Store, logger *slog.Logger) *Server {
	adapter := host.New(db, store)
	s := &Server{
		store:    store,
		db:       db,
		settings: settingsStore,
		people:   people.NewService(db, adapter, settingsStore.Snapshot),
		scanner:  decor.NewScanner(adapter, settingsStore.Snapshot, logger),
	}

	s.mcp = server.NewMCPServer(
		"Mannaz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_people",
		mcp.WithDescription("List the notes under the people folder with their avatar URLs."),
	), s.listPeople)

	s.mcp.AddTool(mcp.NewTool("resolve_link",
		mcp.WithDescription("Resolve a wikilink target to a vault note path, the way link decoration does."),
		mcp.WithString("link", mcp.Required(), mcp.Description("Link text, e.g. Ada Lovelace or folder/note")),
		mcp.WithString("source", mcp.Description("Path of the note the link appears in (for relative links)")),
	), s.resolveLink)

	s.mcp.AddTool(mcp.NewTool("person_avatar",
		mcp.WithDescription("Return a person note's title and chosen avatar URL."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Person note path, e.g. Sets/People/Ada Lovelace.md")),
	), s.personAvatar)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of a Markdown note."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note (e.g. folder/note.md)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("decorate_html",
		mcp.WithDescription("Decorate internal links to person notes in an HTML fragment. "+
			"Returns the fragment with avatar classes, data attributes, and the "+
			"--data-link-avatar custom property applied."),
		mcp.WithString("html", mcp.Required(), mcp.Description("HTML fragment to decorate")),
		mcp.WithString("source", mcp.Description("Path of the note the fragment was rendered from")),
	), s.decorateHTML)

	s.mcp.AddTool(mcp.NewTool("get_person_contract",
		mcp.WithDescription("Returns the person note contract: how person notes declare avatars."),
	), s.getPersonContract)

	// Resources: the avatar stylesheet and the person note contract.
	s.mcp.AddResource(
		mcp.NewResource("mannaz://avatar-css", "Avatar Stylesheet",
			mcp.WithResourceDescription("CSS rules that render decorated person links."),
			mcp.WithMIMEType("text/css"),
		),
		s.readAvatarCSSResource,
	)
	s.mcp.AddResource(
		mcp.NewResource("mannaz://person-format", "Person Note Contract",
			mcp.WithResourceDescription("How person notes declare avatars."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readPersonFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listPeople(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.people.List()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) resolveLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	link, err := req.RequireString("link")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	source := ""
	if v, err := req.RequireString("source"); err == nil {
		source = v
	}
	path, err := s.db.ResolveLinkPath(link, source)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("no note matches: %s", link)), nil
	}
	return mcp.NewToolResultText(path), nil
}

func (s *Server) personAvatar(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	person, err := s.people.Get(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not a known person note: %s", path)), nil
	}
	out, _ := json.MarshalIndent(person, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) decorateHTML(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fragment, err := req.RequireString("html")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	source := ""
	if v, err := req.RequireString("source"); err == nil {
		source = v
	}
	out, _, err := s.scanner.DecorateFragment(fragment, source)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) getPersonContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(PersonNoteContract), nil
}

func (s *Server) readAvatarCSSResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "mannaz://avatar-css",
			MIMEType: "text/css",
			Text:     api.AvatarsCSS,
		},
	}, nil
}

func (s *Server) readPersonFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "mannaz://person-format",
			MIMEType: "text/markdown",
			Text:     PersonNoteContract,
		},
	}, nil
}
