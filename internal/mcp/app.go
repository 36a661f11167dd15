package mcp

import (
	"github.com/felixgeelhaar/planify/adapter/cli"
	"github.com/felixgeelhaar/planify/internal/app"
	"github.com/google/uuid"
)

// NewCLIApp creates a CLI application instance backed by the provided
// container, acting on behalf of currentUser.
func NewCLIApp(container *app.Container, currentUser uuid.UUID) *cli.App {
	cliApp := cli.NewApp(container)
	cliApp.SetCurrentUserID(currentUser)
	return cliApp
}
