// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// env.go - What a command runs with, and the dispatcher.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/abdulazeez2247/moe/internal/app"
)

// =============================================================================
// PROMPTER
// =============================================================================

// Prompter reads interactive input.
type Prompter interface {
	// Line reads one line of visible input.
	Line(prompt string) (string, error)

	// Password reads one line without echo when the input is a terminal.
	Password(prompt string) (string, error)
}

type streamPrompter struct {
	file   *os.File
	reader *bufio.Reader
	out    io.Writer
}

// NewPrompter reads from in and writes prompts to out. Passwords are read
// with echo off when in is a terminal.
func NewPrompter(in io.Reader, out io.Writer) Prompter {
	p := &streamPrompter{reader: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok {
		p.file = f
	}
	return p
}

func (p *streamPrompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *streamPrompter) Password(prompt string) (string, error) {
	if !isTerminalFile(p.file) {
		return p.Line(prompt)
	}
	fmt.Fprint(p.out, prompt)
	b, err := term.ReadPassword(int(p.file.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// =============================================================================
// ENV
// =============================================================================

// Env is everything a command needs. Human-readable output goes to Out, or
// to Err in JSON mode so stdout stays parseable.
type Env struct {
	App    *app.App
	Args   Args
	Out    io.Writer
	Err    io.Writer
	In     io.Reader
	Prompt Prompter

	// Interactive is true when stdin is a terminal. Line-mode chat and
	// markdown rendering depend on it.
	Interactive bool
}

// NewEnv binds a to the process's standard streams.
func NewEnv(a *app.App, args Args) *Env {
	if args.NoColor {
		ForceColorsEnabled(false)
	}
	return &Env{
		App:         a,
		Args:        args,
		Out:         os.Stdout,
		Err:         os.Stderr,
		In:          os.Stdin,
		Prompt:      NewPrompter(os.Stdin, os.Stderr),
		Interactive: IsTTY(),
	}
}

// human returns the writer for human-readable text.
func (e *Env) human() io.Writer {
	if e.Args.JSON {
		return e.Err
	}
	return e.Out
}

func (e *Env) printf(format string, args ...interface{}) {
	fmt.Fprintf(e.human(), format, args...)
}

func (e *Env) println(args ...interface{}) {
	fmt.Fprintln(e.human(), args...)
}

// info prints text unless --quiet was given.
func (e *Env) info(format string, args ...interface{}) {
	if e.Args.Quiet {
		return
	}
	e.printf(format, args...)
}

// field prints one aligned "label value" line.
func (e *Env) field(label string, value interface{}) {
	e.printf("%s %v\n", RenderLabel(label), value)
}

// emit prints data as a JSON envelope in JSON mode, or calls human.
func (e *Env) emit(command string, data interface{}, human func()) error {
	if e.Args.JSON {
		return NewJSONResponse(command, data).Write(e.Out)
	}
	human()
	return nil
}

// call derives a context bounded by the configured request timeout.
func (e *Env) call(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := e.App.Config.Timeout(); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// requireSession fails fast when no token is stored.
func (e *Env) requireSession() error {
	if !e.App.Session.IsAuthenticated() {
		return ErrNotSignedIn
	}
	return nil
}

// =============================================================================
// JSON OUTPUT
// =============================================================================

// JSONResponse is the envelope every command prints in --json mode.
type JSONResponse struct {
	Success   bool        `json:"success"`
	Command   string      `json:"command"`
	Data      interface{} `json:"data"`
	Error     *string     `json:"error"`
	Timestamp string      `json:"timestamp"`
}

// NewJSONResponse wraps a successful result.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Command:   command,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Write encodes the response to w, indented.
func (r *JSONResponse) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// =============================================================================
// DISPATCH
// =============================================================================

// Execute runs cmd. The terminal UI is started by the caller, not here.
func Execute(ctx context.Context, env *Env, cmd Command) error {
	switch cmd {
	case CmdAsk:
		return HandleAsk(ctx, env)
	case CmdChat:
		return HandleChat(ctx, env)
	case CmdLogin:
		return HandleLogin(ctx, env)
	case CmdLogout:
		return HandleLogout(ctx, env)
	case CmdSignup:
		return HandleSignup(ctx, env)
	case CmdForgotPassword:
		return HandleForgotPassword(ctx, env)
	case CmdResetPassword:
		return HandleResetPassword(ctx, env)
	case CmdWhoami:
		return HandleWhoami(ctx, env)
	case CmdRefresh:
		return HandleRefresh(ctx, env)
	case CmdProfile:
		return HandleProfile(ctx, env)
	case CmdUpload:
		return HandleUpload(ctx, env)
	case CmdHistory:
		return HandleHistory(ctx, env)
	case CmdPlans:
		return HandlePlans(ctx, env)
	case CmdSubscribe:
		return HandleSubscribe(ctx, env)
	case CmdUsage:
		return HandleUsage(ctx, env)
	case CmdCatalog:
		return HandleCatalog(ctx, env)
	case CmdKnowledge:
		return HandleKnowledge(ctx, env)
	case CmdStatus:
		return HandleStatus(ctx, env)
	case CmdConfig:
		return HandleConfig(ctx, env)
	case CmdVersion:
		return HandleVersion(env)
	case CmdHelp:
		PrintUsage(env.Out)
		return nil
	}
	return fmt.Errorf("command %s cannot run here", cmd)
}

// HandleVersion prints version information. It works without an app.
func HandleVersion(env *Env) error {
	if env.Args.JSON {
		return NewJSONResponse("version", versionData()).Write(env.Out)
	}
	PrintVersion(env.Out)
	return nil
}
