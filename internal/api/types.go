// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"time"

	"github.com/tidwall/gjson"
)

// =============================================================================
// AUTH
// =============================================================================

// User is the account returned by login, signup and /auth/me.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Plan  string `json:"plan,omitempty"`
}

// UnmarshalJSON accepts both "id" and Mongo-style "_id".
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = gjson.GetBytes(data, "_id").String()
	}
	if p.Plan == "" {
		p.Plan = gjson.GetBytes(data, "subscription.plan").String()
	}
	*u = User(p)
	return nil
}

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by login and signup.
type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

// TokenResponse is returned by POST /auth/refresh-token.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// Ack is the acknowledgement returned by operations with no payload.
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// =============================================================================
// QUESTIONS
// =============================================================================

// AskRequest is the body of POST /ask. Version is always sent, as null when
// unset.
type AskRequest struct {
	Message  string  `json:"message"`
	Platform string  `json:"platform"`
	Version  *string `json:"version"`
}

// Source is one citation attached to an answer. The backend sends either
// plain strings or objects with a title or URL.
type Source string

// UnmarshalJSON flattens object citations to their most readable field.
func (s *Source) UnmarshalJSON(data []byte) error {
	r := gjson.ParseBytes(data)
	if r.Type == gjson.String {
		*s = Source(r.Str)
		return nil
	}
	for _, key := range []string{"title", "name", "source", "url"} {
		if v := r.Get(key); v.Exists() && v.String() != "" {
			*s = Source(v.String())
			return nil
		}
	}
	*s = Source(r.Raw)
	return nil
}

// Answer is the response to a question.
type Answer struct {
	Answer     string   `json:"answer"`
	ModelUsed  string   `json:"modelUsed"`
	Tokens     int      `json:"tokens"`
	AnswerID   string   `json:"answerId"`
	IsCacheHit bool     `json:"isCacheHit"`
	Sources    []Source `json:"sources"`
}

// SourceStrings returns the citations as plain strings.
func (a *Answer) SourceStrings() []string {
	out := make([]string, 0, len(a.Sources))
	for _, s := range a.Sources {
		if s != "" {
			out = append(out, string(s))
		}
	}
	return out
}

// VoteRequest is the body of POST /ask/:answerId/vote.
type VoteRequest struct {
	Vote string `json:"vote"`
}

// CatalogEntry is one precomputed question in the answer catalog.
type CatalogEntry struct {
	ID       string `json:"_id"`
	Question string `json:"question"`
	Platform string `json:"platform"`
	Version  string `json:"version,omitempty"`
	Category string `json:"category,omitempty"`
	Hits     int    `json:"hits,omitempty"`
}

// =============================================================================
// FILES
// =============================================================================

// UploadRecord describes a file the backend has accepted.
type UploadRecord struct {
	ID           string    `json:"_id"`
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mimeType"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

// KnowledgeStatus reports the state of the backend knowledge base.
type KnowledgeStatus struct {
	Status    string          `json:"status"`
	Documents int             `json:"documents"`
	Platforms []string        `json:"platforms,omitempty"`
	UpdatedAt string          `json:"updatedAt,omitempty"`
	Raw       json.RawMessage `json:"-"`
}

// =============================================================================
// PAYMENTS
// =============================================================================

// SubscriptionRequest is the body of POST /payments/create-subscription.
type SubscriptionRequest struct {
	Plan         string `json:"plan"`
	BillingCycle string `json:"billingCycle"`
}

// Checkout is the hosted checkout the backend created for a subscription.
type Checkout struct {
	SessionID      string          `json:"sessionId"`
	URL            string          `json:"url"`
	SubscriptionID string          `json:"subscriptionId,omitempty"`
	ClientSecret   string          `json:"clientSecret,omitempty"`
	Raw            json.RawMessage `json:"-"`
}

// PaymentConfirmation is the body of POST /payments/confirm-payment.
type PaymentConfirmation struct {
	SessionID string `json:"sessionId,omitempty"`
	Plan      string `json:"plan"`
}

// PaymentIntentRequest is the body of POST /payments/create-payment-intent.
type PaymentIntentRequest struct {
	Plan         string `json:"plan"`
	BillingCycle string `json:"billingCycle"`
	Amount       int    `json:"amount"`
	Currency     string `json:"currency"`
}

// PaymentIntent is the provider payment intent created by the backend.
type PaymentIntent struct {
	ID           string          `json:"id"`
	ClientSecret string          `json:"clientSecret"`
	Amount       int             `json:"amount"`
	Currency     string          `json:"currency"`
	Raw          json.RawMessage `json:"-"`
}

// PaymentIntentConfirmation is the body of POST
// /payments/confirm-payment-intent.
type PaymentIntentConfirmation struct {
	PaymentIntentID string `json:"paymentIntentId"`
	Plan            string `json:"plan"`
}

// PaymentResult is the outcome of a confirmation.
type PaymentResult struct {
	Success bool            `json:"success"`
	Plan    string          `json:"plan"`
	Message string          `json:"message,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

// =============================================================================
// USERS
// =============================================================================

// Profile is the account profile.
type Profile struct {
	User
	Company   string    `json:"company,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// UnmarshalJSON decodes the embedded User (which has its own decoder) and
// the profile-only fields.
func (p *Profile) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &p.User); err != nil {
		return err
	}
	var extra struct {
		Company   string    `json:"company"`
		CreatedAt time.Time `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &extra); err != nil {
		return err
	}
	p.Company = extra.Company
	p.CreatedAt = extra.CreatedAt
	return nil
}

// ProfileUpdate is a partial profile for PATCH /users/profile. Nil fields are
// left unchanged.
type ProfileUpdate struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Company *string `json:"company,omitempty"`
}

// Usage is the account's consumption in the current period.
type Usage struct {
	Plan        string    `json:"plan"`
	QueriesUsed int       `json:"queriesUsed"`
	QueryLimit  int       `json:"queryLimit"`
	Period      string    `json:"period"`
	UploadsUsed int       `json:"uploadsUsed"`
	ResetsAt    time.Time `json:"resetsAt,omitempty"`
}
