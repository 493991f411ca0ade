// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single question command handler for unihub CLI.
//
// Handles "unihub ask" which sends one question to the admissions assistant
// and prints the reply.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/unihub/unihub-tui/internal/assistant"
	"github.com/unihub/unihub-tui/internal/config"
)

// RunAsk executes a one-shot question.
func RunAsk(args *Args) int {
	question := strings.TrimSpace(args.Query)
	if question == "" {
		return fail("ask requires a question, e.g. unihub ask \"Куда поступать на физику?\"")
	}

	cfg := config.Global()
	client := assistant.NewClient(cfg.API.BaseURL).
		WithTimeout(time.Duration(cfg.API.TimeoutSecs) * time.Second)

	if !args.Quiet && !args.JSON {
		fmt.Fprintln(os.Stderr, "Думаю...")
	}

	reply, err := client.SendMessage(context.Background(), question, nil)
	if err != nil {
		if args.Verbose {
			return fail("request failed: %v", err)
		}
		return fail("ассистент недоступен, попробуйте позже")
	}

	if args.JSON {
		out, _ := json.Marshal(map[string]string{"question": question, "response": reply})
		fmt.Println(string(out))
		return 0
	}

	fmt.Println(renderReply(reply, cfg.UI.Markdown))
	return 0
}

// renderReply renders markdown when stdout is an interactive terminal;
// pipes get the raw text.
func renderReply(reply string, markdown bool) string {
	if !markdown || !term.IsTerminal(int(os.Stdout.Fd())) {
		return reply
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || width > 120 {
		width = 100
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return reply
	}
	out, err := renderer.Render(reply)
	if err != nil {
		return reply
	}
	return strings.TrimRight(out, "\n")
}
