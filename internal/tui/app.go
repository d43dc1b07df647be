package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/jera/internal/logger"
	"github.com/existflow/jera/internal/model"
)

// dataMsg is sent when a collection changes
type dataMsg struct{}

// sessionMsg is sent when the session changes
type sessionMsg struct{}

// noteMsg carries a mutation outcome for the status bar
type noteMsg struct {
	text   string
	failed bool
}

type loadedMsg struct{ err error }

type loginMsg struct{ err error }

type logoutMsg struct{ err error }

// doneMsg ends a mutation; its outcome already arrived as a noteMsg.
type doneMsg struct{ err error }

// notifier feeds page notifications into the event loop.
type notifier struct {
	events chan tea.Msg
}

func (n notifier) Success(msg string) { post(n.events, noteMsg{text: msg}) }

func (n notifier) Failure(msg string) { post(n.events, noteMsg{text: msg, failed: true}) }

func msgName(msg tea.Msg) string { return fmt.Sprintf("%T", msg) }

// waitForEvent listens for store and notifier events
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return <-events
	}
}

// loadCmd fetches every collection.
func (m Model) loadCmd() tea.Cmd {
	data := m.deps.Data
	return func() tea.Msg {
		return loadedMsg{err: data.LoadAll(context.Background())}
	}
}

func (m Model) loginCmd(creds model.LoginCredentials) tea.Cmd {
	client, sess := m.deps.Client, m.deps.Session
	return func() tea.Msg {
		ctx := context.Background()
		result, err := client.Login(ctx, creds)
		if err != nil {
			return loginMsg{err: err}
		}
		return loginMsg{err: sess.Login(ctx, result.User, result.Token, true)}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	sess := m.deps.Session
	return func() tea.Msg {
		return logoutMsg{err: sess.Logout(context.Background())}
	}
}

// mutation runs fn off the event loop.
func mutation(name string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		err := fn(context.Background())
		if err != nil {
			logger.Debug("TUI mutation failed", logger.F("action", name), logger.F("error", err))
		}
		return doneMsg{err: err}
	}
}
