// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for unihub CLI.
//
// Handles "unihub chat", a line-based REPL over the same session engine the
// TUI uses. Useful over slow terminals and in scripts where the full-screen
// interface is unwanted.
//
// Interactive commands:
//   /help, /h      Show available commands
//   /history       Show the conversation so far
//   /new           Start a fresh session
//   /quit, /q      Exit chat
//   Ctrl+D         Exit chat
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/unihub/unihub-tui/internal/assistant"
	"github.com/unihub/unihub-tui/internal/config"
	"github.com/unihub/unihub-tui/internal/session"
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7AA2F7")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565F89"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F7768E"))
)

// chatREPL bundles line editing with history persistence.
type chatREPL struct {
	line        *liner.State
	historyFile string
}

func newChatREPL() *chatREPL {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	r := &chatREPL{line: line}
	if dir, err := config.Dir(); err == nil {
		r.historyFile = filepath.Join(dir, "chat_history")
		if f, err := os.Open(r.historyFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}
	return r
}

// close saves history and releases the terminal.
func (r *chatREPL) close() {
	if r.historyFile != "" {
		if f, err := os.Create(r.historyFile); err == nil {
			r.line.WriteHistory(f)
			f.Close()
		}
	}
	r.line.Close()
}

// RunChat executes the interactive line-based chat.
func RunChat(args *Args) int {
	cfg := config.Global()
	client := assistant.NewClient(cfg.API.BaseURL).
		WithTimeout(time.Duration(cfg.API.TimeoutSecs) * time.Second)
	mgr := session.NewManager(cfg.Chat.WelcomeMessage, cfg.Chat.HistoryWindow)
	sess := mgr.Create()

	repl := newChatREPL()
	defer repl.close()

	if !args.Quiet {
		fmt.Println(promptStyle.Render("UniHub") + infoStyle.Render(" — чат с ассистентом поступления"))
		fmt.Println(infoStyle.Render("Введите /help для списка команд, /quit для выхода."))
		fmt.Println()
		fmt.Println(sess.Messages()[0].Content)
		fmt.Println()
	}

	for {
		input, err := repl.line.Prompt("вы> ")
		if err == liner.ErrPromptAborted {
			continue
		}
		if err == io.EOF {
			fmt.Println()
			break
		}
		if err != nil {
			return fail("input error: %v", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		repl.line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if done := handleChatCommand(input, mgr, &sess); done {
				break
			}
			continue
		}

		reply := runTurn(sess, client, cfg.UI.Markdown, input)
		fmt.Println(reply)
		fmt.Println()
	}
	return 0
}

// runTurn pushes one message through the session state machine and returns
// the rendered reply the ledger recorded.
func runTurn(sess *session.Session, client *assistant.Client, markdown bool, input string) string {
	turn, err := sess.StartTurn(input)
	if err != nil {
		return warnStyle.Render(err.Error())
	}

	reply, err := client.SendMessage(context.Background(), turn.Content, turn.History)
	var recorded string
	if err != nil {
		sess.Fail(turn.ID, err)
		recorded = session.FallbackReply
	} else {
		sess.Resolve(turn.ID, reply)
		recorded = reply
	}
	return renderReply(recorded, markdown)
}

// handleChatCommand runs a /command. Returns true when the REPL should exit.
func handleChatCommand(input string, mgr *session.Manager, sess **session.Session) bool {
	switch strings.Fields(input)[0] {
	case "/quit", "/q", "/exit":
		return true
	case "/help", "/h":
		fmt.Println(infoStyle.Render("/history  показать беседу\n/new      новая сессия\n/quit     выход"))
	case "/history":
		for _, msg := range (*sess).Messages() {
			fmt.Printf("%s [%s]\n%s\n\n",
				promptStyle.Render(msg.Role.DisplayName()),
				infoStyle.Render(msg.Timestamp.Format("15:04")),
				msg.Content)
		}
	case "/new":
		mgr.Remove((*sess).ID)
		*sess = mgr.Create()
		fmt.Println(infoStyle.Render("Начата новая сессия."))
		fmt.Println((*sess).Messages()[0].Content)
	default:
		fmt.Println(warnStyle.Render("Неизвестная команда. /help для справки."))
	}
	fmt.Println()
	return false
}
