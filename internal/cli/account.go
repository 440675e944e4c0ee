// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// account.go - Sign-in, sign-up, password reset and profile commands.
package cli

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/abdulazeez2247/moe/internal/api"
	"github.com/abdulazeez2247/moe/internal/auth"
)

// AccountData is the payload of login, signup, whoami and profile.
type AccountData struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Plan      string     `json:"plan,omitempty"`
	Company   string     `json:"company,omitempty"`
	ExpiresAt *time.Time `json:"session_expires_at,omitempty"`
}

func accountData(env *Env, u *api.User) AccountData {
	d := AccountData{ID: u.ID, Name: u.Name, Email: u.Email, Plan: u.Plan}
	if exp, ok := env.App.Session.Expiry(); ok {
		d.ExpiresAt = &exp
	}
	return d
}

// ask returns the flag value, or prompts for it.
func (e *Env) ask(f *ArgParser, flag, prompt string) (string, error) {
	if v := f.Flag(flag); v != "" {
		return v, nil
	}
	return e.Prompt.Line(prompt)
}

// =============================================================================
// LOGIN / LOGOUT / SIGNUP
// =============================================================================

// HandleLogin signs in. The password is always prompted so it never lands
// in shell history.
//
//	moe login --email you@shop.com
func HandleLogin(ctx context.Context, env *Env) error {
	f := env.Args.Flags()
	email := f.Flag("email", "e")
	if email == "" {
		email = f.Positional(0)
	}
	var err error
	if email == "" {
		if email, err = env.Prompt.Line("Email: "); err != nil {
			return err
		}
	}
	password, err := env.Prompt.Password("Password: ")
	if err != nil {
		return err
	}

	cctx, cancel := env.call(ctx)
	defer cancel()
	user, err := env.App.Login(cctx, auth.LoginForm{Email: email, Password: password})
	if err != nil {
		return err
	}
	return env.emit("login", accountData(env, user), func() {
		env.printf("%s Signed in as %s <%s>\n", RenderStatus("ok"), user.Name, user.Email)
	})
}

// HandleLogout forgets the stored session. Signing out twice is not an
// error.
func HandleLogout(_ context.Context, env *Env) error {
	was := env.App.Session.IsAuthenticated()
	if err := env.App.Logout(); err != nil {
		return err
	}
	return env.emit("logout", map[string]bool{"was_signed_in": was}, func() {
		if was {
			env.println("Signed out.")
		} else {
			env.println("Not signed in.")
		}
	})
}

// HandleSignup creates an account and signs in.
func HandleSignup(ctx context.Context, env *Env) error {
	f := env.Args.Flags()
	name, err := env.ask(f, "name", "Name: ")
	if err != nil {
		return err
	}
	email, err := env.ask(f, "email", "Email: ")
	if err != nil {
		return err
	}
	password, err := env.Prompt.Password("Password: ")
	if err != nil {
		return err
	}
	confirm, err := env.Prompt.Password("Confirm password: ")
	if err != nil {
		return err
	}

	cctx, cancel := env.call(ctx)
	defer cancel()
	user, err := env.App.Signup(cctx, auth.SignupForm{Name: name, Email: email, Password: password, Confirm: confirm})
	if err != nil {
		return err
	}
	return env.emit("signup", accountData(env, user), func() {
		env.printf("%s Account created. Signed in as %s <%s>\n", RenderStatus("ok"), user.Name, user.Email)
	})
}

// =============================================================================
// PASSWORD RESET
// =============================================================================

// HandleForgotPassword sends a reset email.
func HandleForgotPassword(ctx context.Context, env *Env) error {
	f := env.Args.Flags()
	email := f.Positional(0)
	var err error
	if email == "" {
		if email, err = env.ask(f, "email", "Email: "); err != nil {
			return err
		}
	}

	cctx, cancel := env.call(ctx)
	defer cancel()
	if err := env.App.Auth.ForgotPassword(cctx, auth.ForgotPasswordForm{Email: email}); err != nil {
		return err
	}
	return env.emit("forgot-password", map[string]string{"email": email}, func() {
		env.println("Check your email for a reset link, then run 'moe reset-password TOKEN'.")
	})
}

// HandleResetPassword sets a new password from a reset token.
func HandleResetPassword(ctx context.Context, env *Env) error {
	f := env.Args.Flags()
	token := f.Positional(0)
	var err error
	if token == "" {
		if token, err = env.ask(f, "token", "Reset token: "); err != nil {
			return err
		}
	}
	password, err := env.Prompt.Password("New password: ")
	if err != nil {
		return err
	}
	confirm, err := env.Prompt.Password("Confirm new password: ")
	if err != nil {
		return err
	}

	cctx, cancel := env.call(ctx)
	defer cancel()
	form := auth.ResetPasswordForm{Token: token, Password: password, Confirm: confirm}
	if err := env.App.Auth.ResetPassword(cctx, form); err != nil {
		return err
	}
	return env.emit("reset-password", map[string]bool{"updated": true}, func() {
		env.println("Password updated. Sign in with 'moe login'.")
	})
}

// =============================================================================
// SESSION INFO
// =============================================================================

// HandleWhoami shows the signed-in account.
func HandleWhoami(ctx context.Context, env *Env) error {
	if err := env.requireSession(); err != nil {
		return err
	}
	cctx, cancel := env.call(ctx)
	defer cancel()
	user, err := env.App.API.Me(cctx)
	if err != nil {
		return err
	}
	data := accountData(env, user)
	return env.emit("whoami", data, func() {
		env.field("Name", user.Name)
		env.field("Email", user.Email)
		if user.Plan != "" {
			env.field("Plan", user.Plan)
		}
		if data.ExpiresAt != nil {
			env.field("Session", "expires "+humanize.Time(*data.ExpiresAt))
		}
	})
}

// HandleRefresh trades the stored token for a fresh one.
func HandleRefresh(ctx context.Context, env *Env) error {
	if err := env.requireSession(); err != nil {
		return err
	}
	cctx, cancel := env.call(ctx)
	defer cancel()
	if err := env.App.Auth.Refresh(cctx); err != nil {
		return err
	}
	exp, ok := env.App.Session.Expiry()
	data := map[string]interface{}{"refreshed": true}
	if ok {
		data["session_expires_at"] = exp
	}
	return env.emit("refresh", data, func() {
		if ok {
			env.printf("Session refreshed; expires %s.\n", humanize.Time(exp))
			return
		}
		env.println("Session refreshed.")
	})
}

// HandleProfile shows the profile, or updates the fields given as flags.
//
//	moe profile --company "Walnut Row Cabinets"
func HandleProfile(ctx context.Context, env *Env) error {
	if err := env.requireSession(); err != nil {
		return err
	}
	f := env.Args.Flags()
	var upd api.ProfileUpdate
	changed := false
	for flag, dst := range map[string]**string{"name": &upd.Name, "email": &upd.Email, "company": &upd.Company} {
		if f.HasFlag(flag) {
			v := f.Flag(flag)
			*dst = &v
			changed = true
		}
	}

	cctx, cancel := env.call(ctx)
	defer cancel()
	var p *api.Profile
	var err error
	if changed {
		p, err = env.App.API.UpdateProfile(cctx, upd)
	} else {
		p, err = env.App.API.Profile(cctx)
	}
	if err != nil {
		return err
	}

	data := accountData(env, &p.User)
	data.Company = p.Company
	return env.emit("profile", data, func() {
		if changed {
			env.println(RenderStatus("ok") + " Profile updated.")
		}
		env.field("Name", p.Name)
		env.field("Email", p.Email)
		if p.Company != "" {
			env.field("Company", p.Company)
		}
		if !p.CreatedAt.IsZero() {
			env.field("Member since", p.CreatedAt.Format("January 2006"))
		}
	})
}
