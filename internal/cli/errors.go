// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error types, display and exit codes for every command.
//
// Commands always return errors; Execute's caller displays them once and
// picks the exit code.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/abdulazeez2247/moe/internal/api"
	"github.com/abdulazeez2247/moe/internal/auth"
	"github.com/abdulazeez2247/moe/internal/billing"
	"github.com/abdulazeez2247/moe/internal/config"
	"github.com/abdulazeez2247/moe/internal/upload"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitUsageError    = 2
	ExitConfigError   = 3
	ExitAuthError     = 4
	ExitNetworkError  = 5
	ExitPlanError     = 6
	ExitNotFoundError = 7
	ExitTimeoutError  = 8
)

// ErrNotSignedIn is returned by commands that need a session when none is
// stored.
var ErrNotSignedIn = errors.New("not signed in; run 'moe login' first")

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError is a command failure with context.
type CommandError struct {
	Command string
	Action  string
	Reason  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError is bad user input on the command line.
type ValidationError struct {
	Field   string
	Value   string
	Reason  string
	Example string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// NotFoundError is a missing local resource, such as a file to upload.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// PlanError is a refusal because the current plan does not include the
// feature. Message is the upgrade prompt to show.
type PlanError struct {
	Message string
	Err     error
}

func (e *PlanError) Error() string {
	return e.Message
}

func (e *PlanError) Unwrap() error {
	return e.Err
}

// ErrMissingArgument reports a required argument that was not given.
func ErrMissingArgument(name, usage string) error {
	return &ValidationError{Field: name, Reason: "required argument missing", Example: usage}
}

// =============================================================================
// DISPLAY
// =============================================================================

// UserMessage returns the sentence to show for err. Server messages win over
// transport details.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var planErr *PlanError
	if errors.As(err, &planErr) {
		return planErr.Message
	}
	var flowErr *auth.Error
	if errors.As(err, &flowErr) {
		return flowErr.Message
	}
	var payErr *billing.Error
	if errors.As(err, &payErr) {
		return payErr.Message
	}
	if errors.Is(err, api.ErrUnauthorized) {
		return "Your session has ended. Run 'moe login' to sign in again."
	}
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	return err.Error()
}

// DisplayError writes err to w, as a JSON envelope in JSON mode.
func DisplayError(w io.Writer, err error, jsonMode bool) {
	if err == nil {
		return
	}
	if jsonMode {
		displayErrorJSON(w, err)
		return
	}
	fmt.Fprintf(w, "%s %s\n", RenderConditional(ErrorStyle, "[ERROR]"), UserMessage(err))
}

func displayErrorJSON(w io.Writer, err error) {
	out := map[string]interface{}{
		"success":    false,
		"error":      UserMessage(err),
		"exit_code":  GetExitCode(err),
		"error_type": "generic_error",
	}

	var cmdErr *CommandError
	var valErr *ValidationError
	var nfErr *NotFoundError
	var reqErr *api.RequestError
	switch {
	case errors.As(err, &valErr):
		out["error_type"] = "validation_error"
		out["field"] = valErr.Field
		if valErr.Example != "" {
			out["example"] = valErr.Example
		}
	case errors.As(err, &nfErr):
		out["error_type"] = "not_found_error"
		out["resource"] = nfErr.Resource
		out["id"] = nfErr.ID
	case errors.As(err, &reqErr):
		out["error_type"] = "request_error"
		out["status"] = reqErr.Status
		out["upgrade_required"] = reqErr.UpgradeRequired
	case errors.As(err, &cmdErr):
		out["error_type"] = "command_error"
		out["command"] = cmdErr.Command
		out["action"] = cmdErr.Action
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

// =============================================================================
// EXIT CODE MAPPING
// =============================================================================

// GetExitCode picks the exit code for err.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var valErr *ValidationError
	var formErr auth.ValidationErrors
	var nfErr *NotFoundError
	var cfgErr config.ValidateErrors
	var netErr net.Error

	switch {
	case errors.As(err, &valErr), errors.As(err, &formErr):
		return ExitUsageError
	case errors.As(err, &cfgErr):
		return ExitConfigError
	case errors.Is(err, ErrNotSignedIn), errors.Is(err, api.ErrUnauthorized):
		return ExitAuthError
	case errors.As(err, new(*PlanError)),
		errors.Is(err, api.ErrUpgradeRequired),
		errors.Is(err, upload.ErrUpgradeRequired):
		return ExitPlanError
	case errors.As(err, &nfErr):
		return ExitNotFoundError
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeoutError
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			return ExitTimeoutError
		}
		return ExitNetworkError
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host") {
		return ExitNetworkError
	}
	return ExitGeneralError
}
