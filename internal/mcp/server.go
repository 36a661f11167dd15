// Package mcp serves the Planify tools, resources and prompts over the
// Model Context Protocol, acting as one configured user.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	mcpgo "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/middleware"
	"github.com/felixgeelhaar/planify/adapter/cli"
	mcptools "github.com/felixgeelhaar/planify/adapter/mcp"
	"github.com/felixgeelhaar/planify/pkg/config"
)

// ServerName identifies the server to MCP clients.
const ServerName = "planify-mcp"

// NewServer builds an MCP server with every Planify tool, resource and
// prompt bound to cliApp.
func NewServer(cliApp *cli.App, version string) (*mcpgo.Server, error) {
	if cliApp == nil {
		return nil, errors.New("CLI app is required")
	}
	srv := mcpgo.NewServer(mcpgo.ServerInfo{
		Name:    ServerName,
		Version: version,
		Capabilities: mcpgo.Capabilities{
			Tools:     true,
			Resources: true,
			Prompts:   true,
		},
	})

	deps := mcptools.ToolDependencies{App: cliApp}
	for name, register := range map[string]func(*mcpgo.Server, mcptools.ToolDependencies) error{
		"tools":     mcptools.RegisterCLITools,
		"resources": mcptools.RegisterResources,
		"prompts":   mcptools.RegisterPrompts,
	} {
		if err := register(srv, deps); err != nil {
			return nil, fmt.Errorf("register %s: %w", name, err)
		}
	}
	return srv, nil
}

// Middleware is the request stack: bearer auth when a token is configured,
// then the library's logging and recovery defaults.
func Middleware(cfg *config.Config, logger *slog.Logger) []middleware.Middleware {
	log := mcpLogger{logger: logger}
	stack := middleware.DefaultStack(log)
	if cfg.MCPAuthToken == "" {
		logger.Warn("MCP auth token not set; requests will be unauthenticated")
		return stack
	}
	auth := middleware.BearerTokenAuthenticator(middleware.StaticTokens(map[string]*middleware.Identity{
		cfg.MCPAuthToken: {ID: "planify", Name: "planify"},
	}))
	return append([]middleware.Middleware{middleware.Auth(auth, middleware.WithAuthLogger(log))}, stack...)
}

// Serve listens on cfg.MCPAddr until ctx is cancelled.
func Serve(ctx context.Context, cfg *config.Config, cliApp *cli.App, version string, logger *slog.Logger) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	srv, err := NewServer(cliApp, version)
	if err != nil {
		return err
	}

	logger.Info("mcp server listening", "addr", cfg.MCPAddr, "version", version, "actor", cliApp.CurrentUserID)
	return mcpgo.ServeHTTPWithMiddleware(ctx, srv, cfg.MCPAddr, nil, mcpgo.WithMiddleware(Middleware(cfg, logger)...))
}

// mcpLogger adapts slog to the middleware's field-based logger.
type mcpLogger struct {
	logger *slog.Logger
}

func (l mcpLogger) Debug(msg string, fields ...middleware.Field) {
	l.logger.Debug(msg, fieldsToArgs(fields)...)
}

func (l mcpLogger) Info(msg string, fields ...middleware.Field) {
	l.logger.Info(msg, fieldsToArgs(fields)...)
}

func (l mcpLogger) Warn(msg string, fields ...middleware.Field) {
	l.logger.Warn(msg, fieldsToArgs(fields)...)
}

func (l mcpLogger) Error(msg string, fields ...middleware.Field) {
	l.logger.Error(msg, fieldsToArgs(fields)...)
}

func fieldsToArgs(fields []middleware.Field) []any {
	args := make([]any, 0, 2*len(fields))
	for _, f := range fields {
		args = append(args, f.Key, f.Value)
	}
	return args
}
