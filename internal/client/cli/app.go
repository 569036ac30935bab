// Package cli implements the phoneauth command-line client on top of cobra.
package cli

import (
	"bufio"

	"github.com/dmitrijs2005/phoneauth/internal/client/client"
	"github.com/dmitrijs2005/phoneauth/internal/client/config"
	"github.com/dmitrijs2005/phoneauth/internal/client/tokenstore"
	"github.com/spf13/cobra"
)

// TokenStore persists the current access token between invocations.
type TokenStore interface {
	Save(token string) error
	Load() (string, error)
	Clear() error
}

type App struct {
	config *config.Config
	api    client.Client
	tokens TokenStore
}

func NewApp(c *config.Config) *App {
	return &App{config: c}
}

// setup builds the API client and token store from the final configuration,
// unless they were supplied already.
func (a *App) setup() {
	if a.api == nil {
		a.api = client.NewHTTPClient(a.config.ServerURL, a.config.Timeout)
	}
	if a.tokens == nil {
		a.tokens = tokenstore.NewFileStore(a.config.TokenFile)
	}
}

// prompter reads answers from the command's input and writes prompts to its
// error stream so stdout only carries results.
type prompter struct {
	reader *bufio.Reader
	cmd    *cobra.Command
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{reader: bufio.NewReader(cmd.InOrStdin()), cmd: cmd}
}

func (p *prompter) text(prompt string) (string, error) {
	return GetSimpleText(p.reader, prompt, p.cmd.ErrOrStderr())
}

// password reads a password without echo. The request bodies carry it as a
// string, so it is converted right away.
func (p *prompter) password(prompt string) (string, error) {
	pw, err := GetPassword(p.reader, prompt, p.cmd.ErrOrStderr())
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
