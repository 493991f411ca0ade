// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// unihub is a terminal client for the UniHub university catalog and its
// admissions assistant.
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/unihub/unihub-tui/internal/assistant"
	"github.com/unihub/unihub-tui/internal/cli"
	"github.com/unihub/unihub-tui/internal/config"
	"github.com/unihub/unihub-tui/internal/session"
	"github.com/unihub/unihub-tui/internal/ui/chat"
	"github.com/unihub/unihub-tui/internal/ui/styles"
)

func main() {
	cmd, args := cli.ParseArgs(os.Args[1:])

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "unihub: %v\n", err)
		os.Exit(1)
	}
	config.SetGlobal(cfg)
	setupLogging(cfg)

	var code int
	switch cmd {
	case cli.CmdTUI:
		code = runTUI(cfg)
	case cli.CmdAsk:
		code = cli.RunAsk(args)
	case cli.CmdChat:
		code = cli.RunChat(args)
	case cli.CmdUniversities:
		code = cli.RunUniversities(args)
	case cli.CmdMeta:
		code = cli.RunMeta(args)
	case cli.CmdStatus:
		code = cli.RunStatus(args)
	case cli.CmdVersion:
		code = cli.RunVersion(args)
	case cli.CmdHelp:
		code = cli.RunHelp()
	}
	os.Exit(code)
}

// setupLogging sends diagnostics to a file so the TUI screen stays clean.
func setupLogging(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	path, err := cfg.LogPath()
	if err == nil {
		if f, ferr := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); ferr == nil {
			logrus.SetOutput(f)
			return
		}
	}
	// no usable log file: keep diagnostics off the interactive screen
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(logrus.ErrorLevel)
}

// =============================================================================
// TUI BOOT
// =============================================================================

// appModel is the top-level Bubble Tea model. It owns the chat view and the
// config reload plumbing.
type appModel struct {
	chat chat.Model
}

func (a appModel) Init() tea.Cmd {
	return a.chat.Init()
}

func (a appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.chat, cmd = a.chat.Update(msg)
	return a, cmd
}

func (a appModel) View() string {
	return a.chat.View()
}

func runTUI(cfg *config.Config) int {
	client := assistant.NewClient(cfg.API.BaseURL).
		WithTimeout(time.Duration(cfg.API.TimeoutSecs) * time.Second).
		WithRateLimit(cfg.API.RatePerMinute)

	mgr := session.NewManager(cfg.Chat.WelcomeMessage, cfg.Chat.HistoryWindow)
	sess := mgr.Create()
	defer mgr.Remove(sess.ID)

	theme := styles.NewTheme(cfg.UI.Theme)
	app := appModel{chat: chat.New(theme, sess, client, cfg.UI.Markdown)}

	// config edits apply to the next session without restarting
	if watcher, err := config.NewWatcher(nil); err == nil {
		if watcher.Watch() == nil {
			defer watcher.Close()
		}
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "unihub: %v\n", err)
		return 1
	}
	return 0
}
