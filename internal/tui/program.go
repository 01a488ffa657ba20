// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdiddy/thesis-search/internal/session"
)

// Run starts the full-screen search UI and blocks until the user quits or
// ctx is cancelled. The session is closed before Run returns.
func Run(ctx context.Context, searcher session.Searcher, opts session.Options, apiBase string) error {
	var p *tea.Program
	started := make(chan struct{})

	sess := session.New(ctx, searcher, opts, func(st session.State) {
		<-started
		p.Send(StateMsg{State: st})
	})
	defer sess.Close()

	p = tea.NewProgram(New(sess, apiBase), tea.WithAltScreen(), tea.WithContext(ctx))
	close(started)

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
