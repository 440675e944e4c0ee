// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abdulazeez2247/moe/internal/api"
	"github.com/abdulazeez2247/moe/internal/logging"
	"github.com/abdulazeez2247/moe/internal/model"
	"github.com/abdulazeez2247/moe/internal/plan"
	"github.com/abdulazeez2247/moe/internal/util"
)

// Messages shown by the upload view.
const (
	UpgradePrompt = "Upgrade to Pro for file parsing and diagnostics. Pro analyzes .cab, .cabx, .mzb, and .xml with a step-by-step fix plan."
	UploadFailed  = "File upload failed"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultMaxConcurrent = 4
	DefaultMaxFileBytes  = 25 << 20
)

// ErrUpgradeRequired is returned for any upload attempt on the free tier. It
// is raised before any file is read or request made.
var ErrUpgradeRequired = errors.New("file uploads require a paid plan")

// Gateway is the subset of the API client the upload view calls.
type Gateway interface {
	Upload(ctx context.Context, name string, content []byte) (*api.UploadRecord, error)
	History(ctx context.Context) ([]api.UploadRecord, error)
}

// PlanSource reports the user's current tier at the moment of the upload.
type PlanSource interface {
	Plan() plan.Tier
}

// PlanFunc adapts a function to PlanSource.
type PlanFunc func() plan.Tier

// Plan implements PlanSource.
func (f PlanFunc) Plan() plan.Tier { return f() }

// Options bounds a batch.
type Options struct {
	MaxConcurrent int
	MaxFileBytes  int64
}

// File is an in-memory file to upload.
type File struct {
	Name    string
	Content []byte
}

// Failure is one file of a batch that did not upload.
type Failure struct {
	Name    string
	Message string
	Err     error
}

// Batch is the settled outcome of one upload interaction.
type Batch struct {
	Generation uint64
	Added      []model.UploadedFile
	Failures   []Failure

	// Blocked is set when the plan gate refused the whole batch.
	Blocked bool
}

// Message returns the notice to show for the batch, or "" when every file
// uploaded.
func (b Batch) Message() string {
	switch {
	case b.Blocked:
		return UpgradePrompt
	case len(b.Failures) == 0:
		return ""
	case len(b.Failures) == 1:
		return b.Failures[0].Message
	default:
		return fmt.Sprintf("%s (and %d more)", b.Failures[0].Message, len(b.Failures)-1)
	}
}

// =============================================================================
// UPLOADER
// =============================================================================

// Uploader is the logic of one mounted upload view.
type Uploader struct {
	gw   Gateway
	plan PlanSource
	opts Options
	gen  uint64
	log  *zap.Logger

	mu    sync.RWMutex
	files []model.UploadedFile
}

// New creates the upload logic for a view mounted under generation gen.
func New(gw Gateway, plans PlanSource, opts Options, gen uint64, log *zap.Logger) *Uploader {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultMaxConcurrent
	}
	if opts.MaxFileBytes <= 0 {
		opts.MaxFileBytes = DefaultMaxFileBytes
	}
	return &Uploader{
		gw:   gw,
		plan: plans,
		opts: opts,
		gen:  gen,
		log:  logging.OrNop(log).Named("upload"),
	}
}

// Generation returns the generation this view was mounted under.
func (u *Uploader) Generation() uint64 {
	return u.gen
}

// Allowed reports whether the current plan may upload.
func (u *Uploader) Allowed() bool {
	return plan.CanUploadFiles(u.plan.Plan())
}

// Gate returns ErrUpgradeRequired on the free tier. Every entry point calls
// it first.
func (u *Uploader) Gate() error {
	if !u.Allowed() {
		return ErrUpgradeRequired
	}
	return nil
}

// UploadPaths reads and uploads files from disk. Unreadable or oversized
// files fail without a request; the rest upload concurrently.
func (u *Uploader) UploadPaths(ctx context.Context, paths []string) Batch {
	if err := u.Gate(); err != nil {
		u.log.Info("upload blocked by plan", zap.Int("files", len(paths)))
		return Batch{Generation: u.gen, Blocked: true}
	}

	files := make([]File, 0, len(paths))
	var failures []Failure
	for _, p := range paths {
		f, err := u.readFile(p)
		if err != nil {
			failures = append(failures, Failure{Name: filepath.Base(p), Message: err.Error(), Err: err})
			continue
		}
		files = append(files, f)
	}

	b := u.UploadFiles(ctx, files)
	b.Failures = append(failures, b.Failures...)
	return b
}

func (u *Uploader) readFile(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("cannot read %s", filepath.Base(path))
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", filepath.Base(path))
	}
	if info.Size() > u.opts.MaxFileBytes {
		return File{}, fmt.Errorf("%s is %s, over the %s limit",
			filepath.Base(path), util.HumanBytes(info.Size()), util.HumanBytes(u.opts.MaxFileBytes))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("cannot read %s", filepath.Base(path))
	}
	return File{Name: filepath.Base(path), Content: data}, nil
}

// UploadFiles uploads files concurrently, bounded by MaxConcurrent, and
// returns once every upload has settled. A failure never cancels or removes
// its siblings.
func (u *Uploader) UploadFiles(ctx context.Context, files []File) Batch {
	if err := u.Gate(); err != nil {
		u.log.Info("upload blocked by plan", zap.Int("files", len(files)))
		return Batch{Generation: u.gen, Blocked: true}
	}

	type outcome struct {
		file *model.UploadedFile
		fail *Failure
	}
	results := make([]outcome, len(files))

	var g errgroup.Group
	g.SetLimit(u.opts.MaxConcurrent)
	for i, f := range files {
		g.Go(func() error {
			rec, err := u.gw.Upload(ctx, f.Name, f.Content)
			if err != nil {
				u.log.Info("upload failed", zap.String("file", f.Name), zap.Error(err))
				results[i].fail = &Failure{Name: f.Name, Message: api.MessageOr(err, UploadFailed), Err: err}
				return nil
			}
			entry := toEntry(rec, f)
			results[i].file = &entry
			return nil
		})
	}
	_ = g.Wait()

	b := Batch{Generation: u.gen}
	for _, r := range results {
		if r.file != nil {
			b.Added = append(b.Added, *r.file)
		}
		if r.fail != nil {
			b.Failures = append(b.Failures, *r.fail)
		}
	}
	u.log.Info("upload batch settled", zap.Int("added", len(b.Added)), zap.Int("failed", len(b.Failures)))
	return b
}

func toEntry(rec *api.UploadRecord, f File) model.UploadedFile {
	name := rec.OriginalName
	if name == "" {
		name = f.Name
	}
	size := rec.Size
	if size == 0 {
		size = int64(len(f.Content))
	}
	uploaded := rec.CreatedAt
	if uploaded.IsZero() {
		uploaded = time.Now()
	}
	return model.UploadedFile{
		ID:         rec.ID,
		Name:       name,
		Size:       size,
		MimeType:   rec.MimeType,
		Status:     rec.Status,
		Analysis:   model.AnalysisPending,
		UploadedAt: uploaded,
	}
}

// Apply adds the batch's successes to the file list when the batch belongs
// to this view.
func (u *Uploader) Apply(b Batch) bool {
	if b.Generation != u.gen {
		u.log.Debug("dropping stale upload batch", zap.Uint64("generation", b.Generation))
		return false
	}
	if len(b.Added) == 0 {
		return false
	}
	u.mu.Lock()
	u.files = append(u.files, b.Added...)
	u.mu.Unlock()
	return true
}

// Files returns the displayed file list.
func (u *Uploader) Files() []model.UploadedFile {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make([]model.UploadedFile, len(u.files))
	copy(out, u.files)
	return out
}

// Remove drops a file from the list. The server copy is untouched.
func (u *Uploader) Remove(id string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	for i, f := range u.files {
		if f.ID == id {
			u.files = append(u.files[:i], u.files[i+1:]...)
			return true
		}
	}
	return false
}

// History lists previous uploads from the backend.
func (u *Uploader) History(ctx context.Context) ([]model.UploadedFile, error) {
	recs, err := u.gw.History(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.UploadedFile, 0, len(recs))
	for i := range recs {
		out = append(out, toEntry(&recs[i], File{}))
	}
	return out, nil
}
