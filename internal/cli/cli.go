// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command table, global flags and help text.
package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Version information (overridden at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command identifies what the process was asked to do.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdLogin
	CmdLogout
	CmdSignup
	CmdForgotPassword
	CmdResetPassword
	CmdWhoami
	CmdRefresh
	CmdProfile
	CmdUpload
	CmdHistory
	CmdPlans
	CmdSubscribe
	CmdUsage
	CmdCatalog
	CmdKnowledge
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

// commandNames maps every accepted spelling to its command. The first name
// listed for a command in commandOrder is its canonical name.
var commandNames = map[string]Command{
	"tui":             CmdTUI,
	"ask":             CmdAsk,
	"a":               CmdAsk,
	"chat":            CmdChat,
	"c":               CmdChat,
	"login":           CmdLogin,
	"signin":          CmdLogin,
	"logout":          CmdLogout,
	"signout":         CmdLogout,
	"signup":          CmdSignup,
	"register":        CmdSignup,
	"forgot-password": CmdForgotPassword,
	"forgot":          CmdForgotPassword,
	"reset-password":  CmdResetPassword,
	"reset":           CmdResetPassword,
	"whoami":          CmdWhoami,
	"me":              CmdWhoami,
	"refresh":         CmdRefresh,
	"profile":         CmdProfile,
	"upload":          CmdUpload,
	"up":              CmdUpload,
	"history":         CmdHistory,
	"plans":           CmdPlans,
	"pricing":         CmdPlans,
	"subscribe":       CmdSubscribe,
	"usage":           CmdUsage,
	"catalog":         CmdCatalog,
	"knowledge":       CmdKnowledge,
	"kb":              CmdKnowledge,
	"status":          CmdStatus,
	"s":               CmdStatus,
	"config":          CmdConfig,
	"version":         CmdVersion,
	"help":            CmdHelp,
}

var commandOrder = []string{
	"tui", "ask", "chat", "login", "logout", "signup", "forgot-password",
	"reset-password", "whoami", "refresh", "profile", "upload", "history",
	"plans", "subscribe", "usage", "catalog", "knowledge", "status",
	"config", "version", "help",
}

// String returns the canonical command name.
func (c Command) String() string {
	if int(c) >= 0 && int(c) < len(commandOrder) {
		return commandOrder[c]
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// NeedsApp reports whether the command talks to the backend or the session.
// version and help run without building the application context.
func (c Command) NeedsApp() bool {
	return c != CmdVersion && c != CmdHelp
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	JSON       bool
	Quiet      bool
	Verbose    bool
	NoColor    bool
	ConfigPath string
	Origin     string

	// Raw holds the command's own arguments, global flags removed.
	Raw []string
}

// Flags parses the command's own arguments. bools names the flags that
// never take a value.
func (a Args) Flags(bools ...string) *ArgParser {
	return NewArgParser(a.Raw, bools...)
}

// Parse splits argv into a command and its arguments. No command means the
// terminal UI. Unknown commands are usage errors with a suggestion when one
// is close.
func Parse(argv []string) (Command, Args, error) {
	rest, args := parseGlobalFlags(argv)
	if len(rest) == 0 {
		return CmdTUI, args, nil
	}

	name := strings.ToLower(rest[0])
	args.Raw = rest[1:]

	switch name {
	case "-h", "--help":
		return CmdHelp, args, nil
	case "--version":
		return CmdVersion, args, nil
	}
	if cmd, ok := commandNames[name]; ok {
		return cmd, args, nil
	}

	err := &ValidationError{Field: "command", Value: rest[0], Reason: "unknown command"}
	if s := SuggestCommand(name); s != "" {
		err.Example = "moe " + s
	}
	return CmdHelp, args, err
}

// parseGlobalFlags extracts global flags wherever they appear and returns
// the remaining arguments in order.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var rest []string
	var args Args

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "--json":
			args.JSON = true
		case arg == "-q" || arg == "--quiet":
			args.Quiet = true
		case arg == "-v" || arg == "--verbose":
			args.Verbose = true
		case arg == "--no-color":
			args.NoColor = true
		case arg == "--config" && i+1 < len(argv):
			i++
			args.ConfigPath = argv[i]
		case strings.HasPrefix(arg, "--config="):
			args.ConfigPath = strings.TrimPrefix(arg, "--config=")
		case arg == "--origin" && i+1 < len(argv):
			i++
			args.Origin = argv[i]
		case strings.HasPrefix(arg, "--origin="):
			args.Origin = strings.TrimPrefix(arg, "--origin=")
		default:
			rest = append(rest, arg)
		}
	}
	return rest, args
}

// =============================================================================
// HELP AND VERSION
// =============================================================================

const usageText = `moe - millwork answers from your terminal

Moe answers questions about Mozaik cabinet software. Free accounts get a
few questions a day; paid plans raise the quota and unlock file uploads.

Usage:
  moe                          Start the terminal UI (default)
  moe ask "question"           Ask a single question
  moe chat                     Line-mode chat with history
  moe status, s                Session, plan and backend status

Account:
  moe login [--email E]        Sign in (password is prompted)
  moe logout                   Forget the stored session
  moe signup [--name N --email E]
                               Create an account
  moe forgot-password EMAIL    Send a password reset email
  moe reset-password TOKEN     Set a new password from a reset token
  moe whoami                   Show the signed-in account
  moe refresh                  Trade the session token for a fresh one
  moe profile [--name N] [--company C] [--email E]
                               Show or update the profile

Plans:
  moe plans [--yearly]         List plans and prices
  moe subscribe PLAN [--yearly] [--card]
                               Start checkout for a paid plan
  moe usage                    Queries used this period

Files (paid plans):
  moe upload FILE...           Upload files for analysis
  moe history                  Files uploaded earlier

Knowledge:
  moe catalog [--platform P]   Precomputed questions
  moe knowledge, kb            Knowledge base status

Client:
  moe config [list|get KEY|set KEY VALUE|path]
  moe version
  moe help

Global flags:
  --json                       Machine-readable output
  -q, --quiet                  Less output
  -v, --verbose                Debug logging
  --no-color                   Disable colors
  --config PATH                Use a specific config file
  --origin URL                 Backend origin (overrides config)

Environment:
  MOE_HOME                     Config directory (default ~/.moe)
  MOE_API_ORIGIN               Backend origin
  MOE_SESSION_BACKEND          file, sqlite or memory
  MOE_LOG_LEVEL                Log level
  NO_COLOR                     Disable colors
`

// PrintUsage writes the help text.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// VersionData is the payload of the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

func versionData() VersionData {
	return VersionData{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

// PrintVersion writes the version line.
func PrintVersion(w io.Writer) {
	v := versionData()
	fmt.Fprintf(w, "moe %s (commit %s, built %s, %s)\n", v.Version, v.GitCommit, v.BuildDate, v.GoVersion)
}
