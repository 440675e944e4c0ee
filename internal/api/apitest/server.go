// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package apitest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultFreeQuota is the number of questions an account on the free plan
// may ask before the server answers with upgradeRequired.
const DefaultFreeQuota = 5

// ValidResetToken is the only reset token ResetPassword accepts.
const ValidResetToken = "valid-reset-token"

var secret = []byte("moe-apitest-secret")

// Request is one request the server received.
type Request struct {
	Method        string
	Path          string
	Authorization string
	Query         string
}

type account struct {
	id       string
	name     string
	email    string
	password string
	plan     string
	company  string
	used     int
}

type answer struct {
	id   string
	vote string
}

// Server is a fake MOE backend. Routes live under /api like the real one.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	accounts     map[string]*account
	anonUsed     int
	freeQuota    int
	answers      map[string]*answer
	uploads      map[string][]gin.H
	failUploads  map[string]failure
	requests     []Request
	unauthorized bool
	delay        map[string]time.Duration
}

type failure struct {
	status  int
	message string
}

// New starts a server and closes it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		accounts:    make(map[string]*account),
		freeQuota:   DefaultFreeQuota,
		answers:     make(map[string]*answer),
		uploads:     make(map[string][]gin.H),
		failUploads: make(map[string]failure),
		delay:       make(map[string]time.Duration),
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

// BaseURL returns the server origin plus "/api".
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// =============================================================================
// TEST CONTROLS
// =============================================================================

// AddUser registers an account on the free plan.
func (s *Server) AddUser(name, email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[strings.ToLower(email)] = &account{
		id:       uuid.NewString(),
		name:     name,
		email:    email,
		password: password,
		plan:     "free",
	}
}

// SetPlan changes an account's plan.
func (s *Server) SetPlan(email, plan string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[strings.ToLower(email)]; ok {
		a.plan = plan
	}
}

// Plan returns an account's plan.
func (s *Server) Plan(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[strings.ToLower(email)]; ok {
		return a.plan
	}
	return ""
}

// SetFreeQuota changes the free plan allowance.
func (s *Server) SetFreeQuota(n int) {
	s.mu.Lock()
	s.freeQuota = n
	s.mu.Unlock()
}

// SetUnauthorized makes every request fail with 401 while on.
func (s *Server) SetUnauthorized(on bool) {
	s.mu.Lock()
	s.unauthorized = on
	s.mu.Unlock()
}

// FailUpload makes uploads of filename fail with status and message.
func (s *Server) FailUpload(filename string, status int, message string) {
	s.mu.Lock()
	s.failUploads[filename] = failure{status: status, message: message}
	s.mu.Unlock()
}

// Delay holds requests to path for d before handling them.
func (s *Server) Delay(path string, d time.Duration) {
	s.mu.Lock()
	s.delay[path] = d
	s.mu.Unlock()
}

// Token issues an access token for email without logging in.
func (s *Server) Token(email string) string {
	return issueToken(email, time.Hour)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns how many requests hit path.
func (s *Server) Count(path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Path == path {
			n++
		}
	}
	return n
}

// CountPrefix returns how many requests hit a path starting with prefix.
func (s *Server) CountPrefix(prefix string) int {
	n := 0
	for _, r := range s.Requests() {
		if strings.HasPrefix(r.Path, prefix) {
			n++
		}
	}
	return n
}

// Vote returns the recorded vote for answerID.
func (s *Server) Vote(answerID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.answers[answerID]; ok {
		return a.vote
	}
	return ""
}

// =============================================================================
// ROUTER
// =============================================================================

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.record)

	g := r.Group("/api")
	g.POST("/auth/signup", s.signup)
	g.POST("/auth/login", s.login)
	g.POST("/auth/refresh-token", s.refresh)
	g.POST("/auth/forgot-password", s.forgotPassword)
	g.POST("/auth/reset-password/:token", s.resetPassword)
	g.GET("/auth/me", s.requireAuth, s.me)

	g.POST("/ask", s.optionalAuth, s.ask)
	g.POST("/ask/:answerId/vote", s.vote)
	g.GET("/ask/catalog", s.catalog)

	g.POST("/upload/upload", s.requireAuth, s.upload)
	g.GET("/upload/history", s.requireAuth, s.history)

	g.GET("/knowledge/status", s.knowledge)

	g.POST("/payments/create-subscription", s.requireAuth, s.createSubscription)
	g.POST("/payments/confirm-payment", s.requireAuth, s.confirmPayment)
	g.POST("/payments/create-payment-intent", s.requireAuth, s.createPaymentIntent)
	g.POST("/payments/confirm-payment-intent", s.requireAuth, s.confirmPayment)

	g.GET("/users/profile", s.requireAuth, s.profile)
	g.PATCH("/users/profile", s.requireAuth, s.updateProfile)
	g.GET("/users/usage", s.requireAuth, s.usage)
	return r
}

// record logs the request and applies the forced-401 switch and delays.
func (s *Server) record(c *gin.Context) {
	path := strings.TrimPrefix(c.Request.URL.Path, "/api")
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:        c.Request.Method,
		Path:          path,
		Authorization: c.GetHeader("Authorization"),
		Query:         c.Request.URL.RawQuery,
	})
	unauthorized := s.unauthorized
	delay := s.delay[path]
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if unauthorized {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token expired"})
		return
	}
	c.Next()
}

// =============================================================================
// AUTH
// =============================================================================

func issueToken(email string, ttl time.Duration) string {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   email,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		panic(fmt.Sprintf("apitest: sign token: %v", err))
	}
	return signed
}

func parseToken(raw string) (string, bool) {
	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", false
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}

const accountKey = "account"

func (s *Server) authenticate(c *gin.Context) (*account, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}
	email, ok := parseToken(strings.TrimPrefix(header, "Bearer "))
	if !ok {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[strings.ToLower(email)]
	return a, ok
}

func (s *Server) requireAuth(c *gin.Context) {
	a, ok := s.authenticate(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
		return
	}
	c.Set(accountKey, a)
	c.Next()
}

// optionalAuth rejects a bad token but lets anonymous requests through.
func (s *Server) optionalAuth(c *gin.Context) {
	if c.GetHeader("Authorization") == "" {
		c.Next()
		return
	}
	s.requireAuth(c)
}

func current(c *gin.Context) *account {
	if v, ok := c.Get(accountKey); ok {
		return v.(*account)
	}
	return nil
}

func publicUser(a *account) gin.H {
	return gin.H{"_id": a.id, "name": a.name, "email": a.email, "plan": a.plan}
}

func (s *Server) signup(c *gin.Context) {
	var in struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.Email == "" || in.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name, email and password are required"})
		return
	}
	s.mu.Lock()
	if _, exists := s.accounts[strings.ToLower(in.Email)]; exists {
		s.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"message": "User already exists"})
		return
	}
	a := &account{id: uuid.NewString(), name: in.Name, email: in.Email, password: in.Password, plan: "free"}
	s.accounts[strings.ToLower(in.Email)] = a
	s.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"accessToken": issueToken(a.email, time.Hour), "user": publicUser(a)})
}

func (s *Server) login(c *gin.Context) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}
	s.mu.Lock()
	a, ok := s.accounts[strings.ToLower(in.Email)]
	s.mu.Unlock()
	if !ok || a.password != in.Password {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email or password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": issueToken(a.email, time.Hour), "user": publicUser(a)})
}

func (s *Server) refresh(c *gin.Context) {
	var in struct {
		Token string `json:"token"`
	}
	_ = c.ShouldBindJSON(&in)
	email, ok := parseToken(in.Token)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": issueToken(email, 2*time.Hour)})
}

func (s *Server) forgotPassword(c *gin.Context) {
	var in struct {
		Email string `json:"email"`
	}
	_ = c.ShouldBindJSON(&in)
	s.mu.Lock()
	_, ok := s.accounts[strings.ToLower(in.Email)]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "No account with that email"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Reset email sent"})
}

func (s *Server) resetPassword(c *gin.Context) {
	if c.Param("token") != ValidResetToken {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Reset link is invalid or has expired"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated"})
}

func (s *Server) me(c *gin.Context) {
	a := current(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"user": publicUser(a)})
}

// =============================================================================
// QUESTIONS
// =============================================================================

func (s *Server) ask(c *gin.Context) {
	var in struct {
		Message  string  `json:"message"`
		Platform string  `json:"platform"`
		Version  *string `json:"version"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Message is required"})
		return
	}

	a := current(c)
	s.mu.Lock()
	plan, used := "free", &s.anonUsed
	if a != nil {
		plan, used = a.plan, &a.used
	}
	if plan == "free" && *used >= s.freeQuota {
		s.mu.Unlock()
		c.JSON(http.StatusTooManyRequests, gin.H{
			"message":         "Daily limit reached",
			"upgradeRequired": true,
		})
		return
	}
	*used++
	id := uuid.NewString()
	s.answers[id] = &answer{id: id}
	s.mu.Unlock()

	model := "gpt-4o"
	if plan == "free" {
		model = "gpt-4o-mini"
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"answer":     "Answer to: " + in.Message,
		"modelUsed":  model,
		"tokens":     42,
		"answerId":   id,
		"isCacheHit": strings.Contains(strings.ToLower(in.Message), "kerf"),
		"sources":    []any{"Mozaik Manual §3", gin.H{"title": "Kerf basics", "url": "https://example.com/kerf"}},
	}})
}

func (s *Server) vote(c *gin.Context) {
	var in struct {
		Vote string `json:"vote"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || (in.Vote != "up" && in.Vote != "down") {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Vote must be up or down"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.answers[c.Param("answerId")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Answer not found"})
		return
	}
	a.vote = in.Vote
	c.JSON(http.StatusOK, gin.H{"success": true})
}

var catalogEntries = []gin.H{
	{"_id": "c1", "question": "What is kerf?", "platform": "mozaik", "category": "cutting", "hits": 120},
	{"_id": "c2", "question": "How do I export a cut list?", "platform": "mozaik", "category": "export", "hits": 87},
	{"_id": "c3", "question": "How are edge bands applied?", "platform": "cabinetvision", "category": "materials", "hits": 12},
}

func (s *Server) catalog(c *gin.Context) {
	platform := c.Query("platform")
	out := make([]gin.H, 0, len(catalogEntries))
	for _, e := range catalogEntries {
		if platform == "" || e["platform"] == platform {
			out = append(out, e)
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// =============================================================================
// FILES
// =============================================================================

func (s *Server) upload(c *gin.Context) {
	a := current(c)
	s.mu.Lock()
	plan := a.plan
	s.mu.Unlock()
	if plan == "free" {
		c.JSON(http.StatusForbidden, gin.H{"message": "File uploads require a paid plan", "upgradeRequired": true})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
		return
	}
	s.mu.Lock()
	fail, failing := s.failUploads[fh.Filename]
	s.mu.Unlock()
	if failing {
		if fail.message == "" {
			c.Status(fail.status)
			return
		}
		c.JSON(fail.status, gin.H{"message": fail.message})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	defer f.Close()
	size, _ := io.Copy(io.Discard, f)

	rec := gin.H{
		"_id":          uuid.NewString(),
		"originalName": fh.Filename,
		"size":         size,
		"mimeType":     fh.Header.Get("Content-Type"),
		"status":       "processing",
		"createdAt":    time.Now().UTC().Format(time.RFC3339),
	}
	s.mu.Lock()
	s.uploads[a.email] = append(s.uploads[a.email], rec)
	s.mu.Unlock()
	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"file": rec}})
}

func (s *Server) history(c *gin.Context) {
	a := current(c)
	s.mu.Lock()
	out := append([]gin.H{}, s.uploads[a.email]...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"files": out}})
}

func (s *Server) knowledge(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"status":    "ready",
		"documents": 42,
		"platforms": []string{"mozaik"},
		"updatedAt": "2025-01-01T00:00:00Z",
	}})
}

// =============================================================================
// PAYMENTS
// =============================================================================

func (s *Server) createSubscription(c *gin.Context) {
	var in struct {
		Plan         string `json:"plan"`
		BillingCycle string `json:"billingCycle"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.Plan == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Plan is required"})
		return
	}
	if in.Plan == "free" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "The free plan needs no checkout"})
		return
	}
	id := "cs_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"sessionId": id,
		"url":       "https://checkout.example.com/pay/" + id,
		"plan":      in.Plan,
	}})
}

func (s *Server) confirmPayment(c *gin.Context) {
	var in struct {
		Plan string `json:"plan"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.Plan == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Plan is required"})
		return
	}
	a := current(c)
	s.mu.Lock()
	a.plan = in.Plan
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"success": true, "plan": in.Plan})
}

func (s *Server) createPaymentIntent(c *gin.Context) {
	var in struct {
		Amount   int    `json:"amount"`
		Currency string `json:"currency"`
	}
	_ = c.ShouldBindJSON(&in)
	c.JSON(http.StatusOK, gin.H{
		"id":           "pi_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		"clientSecret": "secret_" + uuid.NewString(),
		"amount":       in.Amount,
		"currency":     in.Currency,
	})
}

// =============================================================================
// USERS
// =============================================================================

func (s *Server) profile(c *gin.Context) {
	a := current(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	p := publicUser(a)
	p["company"] = a.company
	c.JSON(http.StatusOK, gin.H{"data": p})
}

func (s *Server) updateProfile(c *gin.Context) {
	var in struct {
		Name    *string `json:"name"`
		Email   *string `json:"email"`
		Company *string `json:"company"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid profile"})
		return
	}
	a := current(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	if in.Name != nil {
		a.name = *in.Name
	}
	if in.Company != nil {
		a.company = *in.Company
	}
	p := publicUser(a)
	p["company"] = a.company
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"user": p}})
}

func (s *Server) usage(c *gin.Context) {
	a := current(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	limit, period := s.freeQuota, "day"
	if a.plan != "free" {
		limit, period = 600, "month"
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"plan":        a.plan,
		"queriesUsed": a.used,
		"queryLimit":  limit,
		"period":      period,
		"uploadsUsed": len(s.uploads[a.email]),
	}})
}
