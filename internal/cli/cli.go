// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for unihub.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdUniversities
	CmdMeta
	CmdStatus
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	NoCache bool

	// Command-specific
	Query      string
	Subcommand string

	// Raw args remaining after flag parsing
	Raw []string

	// Options holds command-specific named options (e.g., --country)
	Options map[string]string
}

const usageText = `unihub - университетский каталог и ассистент поступления

Usage:
  unihub                       Start TUI chat (default)
  unihub ask "вопрос"          Ask a single question
  unihub chat                  Interactive line-based chat
  unihub universities, uni     List universities
  unihub meta                  Show countries, programs and exams
  unihub status                Check backend availability
  unihub version               Show version
  unihub help                  Show this help

University flags:
  --country ID     Filter by country
  --program ID     Filter by program
  --exam ID        Filter by exam
  --min-score N    Filter by minimum exam score
  --search TEXT    Free-text search
  --page N         Page number
  --id ID          Show one university in detail

Global flags:
  --json           Machine-readable output
  --no-cache       Skip the offline catalog cache
  -q, --quiet      Minimal output
  -v, --verbose    Verbose output

Environment:
  UNIHUB_API_URL       Backend base URL
  UNIHUB_LOG_LEVEL     Diagnostic log level
`

// ParseArgs parses os.Args style arguments into a command plus options.
func ParseArgs(argv []string) (Command, *Args) {
	args := &Args{Options: make(map[string]string)}

	if len(argv) == 0 {
		return CmdTUI, args
	}

	var positional []string
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "-q" || arg == "--quiet":
			args.Quiet = true
		case arg == "-v" || arg == "--verbose":
			args.Verbose = true
		case arg == "--json":
			args.JSON = true
		case arg == "--no-cache":
			args.NoCache = true
		case strings.HasPrefix(arg, "--"):
			name := strings.TrimPrefix(arg, "--")
			if eq := strings.IndexByte(name, '='); eq >= 0 {
				args.Options[name[:eq]] = name[eq+1:]
			} else if i+1 < len(argv) && !strings.HasPrefix(argv[i+1], "-") {
				args.Options[name] = argv[i+1]
				i++
			} else {
				args.Options[name] = "true"
			}
		default:
			positional = append(positional, arg)
		}
	}
	args.Raw = positional

	if len(positional) == 0 {
		return CmdTUI, args
	}

	cmd := positional[0]
	rest := positional[1:]
	if len(rest) > 0 {
		args.Subcommand = rest[0]
	}

	switch cmd {
	case "ask":
		args.Query = strings.Join(rest, " ")
		return CmdAsk, args
	case "chat":
		return CmdChat, args
	case "universities", "uni":
		return CmdUniversities, args
	case "meta":
		return CmdMeta, args
	case "status", "s":
		return CmdStatus, args
	case "version", "-V", "--version":
		return CmdVersion, args
	case "help", "-h", "--help":
		return CmdHelp, args
	default:
		// an unknown first token is treated as an ask query
		args.Query = strings.Join(positional, " ")
		return CmdAsk, args
	}
}

// RunHelp prints usage.
func RunHelp() int {
	fmt.Print(usageText)
	return 0
}

// RunVersion prints version information.
func RunVersion(args *Args) int {
	if args.JSON {
		fmt.Printf("{\"version\":%q,\"commit\":%q,\"built\":%q}\n", Version, GitCommit, BuildDate)
		return 0
	}
	fmt.Printf("unihub %s (%s, built %s)\n", Version, GitCommit, BuildDate)
	return 0
}

// fail prints an error to stderr and returns the exit code.
func fail(format string, a ...interface{}) int {
	fmt.Fprintf(os.Stderr, "unihub: "+format+"\n", a...)
	return 1
}
