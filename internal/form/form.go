// Package form implements the add-subscription workflow as an explicit state
// machine. A Form lives from the moment the modal opens until it is cancelled
// or successfully submitted.
package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/mtlprog/bison-admin/internal/config"
	"github.com/mtlprog/bison-admin/internal/model"
	"github.com/samber/lo"
)

// State is the lifecycle state of a form.
type State int

const (
	StateIdle State = iota
	StateOpen
	StateSubmitting
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	default:
		return "idle"
	}
}

// TargetStatus tracks validation of the target field.
type TargetStatus int

const (
	TargetNone        TargetStatus = iota // no platform selected
	TargetNotRequired                     // platform takes no target, default name resolved
	TargetUnchecked
	TargetPending
	TargetValid
	TargetRejected
)

// User-facing field messages.
const (
	MsgPlatformRequired = "please choose a platform"
	MsgTargetRequired   = "please enter an account"
	MsgTargetNotFound   = "account not found, please check"
	MsgServerError      = "server error, please retry later"
)

// Input placeholders.
const (
	PlaceholderChoosePlatform = "choose a platform first"
	PlaceholderTarget         = "see the documentation for how to find the account"
	PlaceholderNoTarget       = "this platform does not need an account"
	PlaceholderCategories     = "choose categories to subscribe"
	PlaceholderNoCategories   = "this platform has no categories"
)

var (
	ErrClosed          = errors.New("form is closed")
	ErrBusy            = errors.New("form is being submitted")
	ErrInvalid         = errors.New("form has invalid fields")
	ErrUnknownPlatform = errors.New("unknown platform")
	ErrNoPlatform      = errors.New("no platform selected")
	ErrTargetDisabled  = errors.New("platform does not take a target")
	ErrNoCategories    = errors.New("platform has no categories")
	ErrUnknownCategory = errors.New("unknown category")
	ErrTagsDisabled    = errors.New("platform does not support tags")
)

// Resolver looks up the display name of a target on a platform. An empty
// name means the target was not found.
type Resolver interface {
	TargetName(ctx context.Context, platform, target string) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, platform, target string) (string, error)

func (f ResolverFunc) TargetName(ctx context.Context, platform, target string) (string, error) {
	return f(ctx, platform, target)
}

// Submission is the assembled form value handed to a Submitter.
type Submission struct {
	Group      string
	Platform   string
	Target     string
	TargetName string
	Categories []int
	Tags       []string
}

// Submitter issues the create-subscription request.
type Submitter interface {
	Submit(ctx context.Context, s Submission) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, s Submission) error

func (f SubmitterFunc) Submit(ctx context.Context, s Submission) error {
	return f(ctx, s)
}

// Form is the add-subscription state machine. It is safe for concurrent use;
// backend lookups run without holding the lock and a lookup whose result
// arrives after a newer one was started is discarded.
type Form struct {
	mu       sync.Mutex
	conf     *model.GlobalConf
	resolver Resolver
	group    string

	state       State
	platformKey string
	platform    model.PlatformConfig
	platformErr string

	target       string
	targetName   string
	targetStatus TargetStatus
	targetErr    string
	generation   uint64

	categories []int
	tags       *TagSet
	tagValues  []string // last set emitted by tags
	formErr    string
}

// New opens a form for adding a subscription to group.
func New(conf *model.GlobalConf, resolver Resolver, group string) (*Form, error) {
	if conf == nil {
		return nil, errors.New("global configuration is required")
	}
	if resolver == nil {
		return nil, errors.New("target resolver is required")
	}
	f := &Form{
		conf:      conf,
		resolver:  resolver,
		group:     group,
		state:     StateOpen,
		tagValues: []string{},
	}
	f.tags = NewTagSet(nil, config.MaxTagLength, f.setTags)
	return f, nil
}

// setTags receives every change of the tag set. Caller holds f.mu.
func (f *Form) setTags(values []string) {
	f.tagValues = values
}

// State returns the current lifecycle state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) editable() error {
	switch f.state {
	case StateOpen:
		return nil
	case StateSubmitting:
		return ErrBusy
	default:
		return ErrClosed
	}
}

// beginLookup invalidates any in-flight lookup and returns the new generation.
// Caller holds f.mu.
func (f *Form) beginLookup() uint64 {
	f.generation++
	f.targetStatus = TargetPending
	return f.generation
}

// current reports whether a lookup started at gen is still the latest one.
// Caller holds f.mu.
func (f *Form) current(gen uint64) bool {
	return gen == f.generation && (f.state == StateOpen || f.state == StateSubmitting)
}

// applyLookup records a lookup result. Caller holds f.mu.
func (f *Form) applyLookup(name string, err error) {
	switch {
	case err != nil:
		slog.Warn("target lookup failed", "platform", f.platformKey, "error", err)
		f.targetStatus = TargetRejected
		f.targetErr = MsgServerError
	case !f.platform.HasTarget && name != "":
		f.targetName = name
		f.targetStatus = TargetNotRequired
		f.targetErr = ""
	case name == "":
		f.targetName = ""
		f.targetStatus = TargetRejected
		f.targetErr = MsgTargetNotFound
	default:
		f.targetName = name
		f.targetStatus = TargetValid
		f.targetErr = ""
	}
}

// lookup resolves the current target (or the platform default) and applies the
// result if no newer lookup superseded it. Caller holds f.mu; it is released
// during the backend call.
func (f *Form) lookup(ctx context.Context) {
	gen := f.beginLookup()
	platform := f.platformKey
	target := lo.Ternary(f.platform.HasTarget, f.target, config.DefaultTargetName)

	f.mu.Unlock()
	name, err := f.resolver.TargetName(ctx, platform, target)
	f.mu.Lock()

	if !f.current(gen) {
		slog.Debug("discarding stale target lookup", "platform", platform, "generation", gen)
		return
	}
	f.applyLookup(name, err)
}

// SelectPlatform switches the form to platform key. For platforms without a
// target the default display name is resolved before SelectPlatform returns.
func (f *Form) SelectPlatform(ctx context.Context, key string) (View, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editable(); err != nil {
		return f.view(), err
	}
	p, ok := f.conf.Platform(key)
	if !ok {
		f.platformErr = MsgPlatformRequired
		return f.view(), fmt.Errorf("%w: %s", ErrUnknownPlatform, key)
	}

	f.platformKey = key
	f.platform = p
	f.platformErr = ""
	f.target = ""
	f.targetName = ""
	f.targetErr = ""
	f.categories = nil
	f.tags.Reset()

	if p.HasTarget {
		f.generation++
		f.targetStatus = TargetUnchecked
		return f.view(), nil
	}

	f.lookup(ctx)
	return f.view(), nil
}

// EditTarget validates a new target value against the backend.
func (f *Form) EditTarget(ctx context.Context, value string) (View, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editable(); err != nil {
		return f.view(), err
	}
	if f.platformKey == "" {
		f.platformErr = MsgPlatformRequired
		return f.view(), ErrNoPlatform
	}
	if !f.platform.HasTarget {
		return f.view(), ErrTargetDisabled
	}

	f.target = strings.TrimSpace(value)
	if f.target == "" {
		f.generation++
		f.targetName = ""
		f.targetStatus = TargetRejected
		f.targetErr = MsgTargetRequired
		return f.view(), nil
	}

	f.lookup(ctx)
	return f.view(), nil
}

// SetCategories replaces the selected categories.
func (f *Form) SetCategories(ids []int) (View, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editable(); err != nil {
		return f.view(), err
	}
	if f.platformKey == "" {
		return f.view(), ErrNoPlatform
	}
	if !f.platform.HasCategories() {
		return f.view(), ErrNoCategories
	}
	for _, id := range ids {
		if _, ok := f.platform.Categories[id]; !ok {
			return f.view(), fmt.Errorf("%w: %d", ErrUnknownCategory, id)
		}
	}
	f.categories = lo.Uniq(ids)
	return f.view(), nil
}

// AddTag adds a tag to the tag filter.
func (f *Form) AddTag(tag string) (View, error) {
	return f.editTags(func(ts *TagSet) { ts.Add(tag) })
}

// RemoveTag removes a tag from the tag filter.
func (f *Form) RemoveTag(tag string) (View, error) {
	return f.editTags(func(ts *TagSet) { ts.Remove(tag) })
}

func (f *Form) editTags(edit func(*TagSet)) (View, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editable(); err != nil {
		return f.view(), err
	}
	if f.platformKey != "" && !f.platform.EnabledTag {
		return f.view(), ErrTagsDisabled
	}
	edit(f.tags)
	return f.view(), nil
}

// Submit validates the whole form, re-running target validation when the
// current value has not been accepted yet, and hands the result to s.
// On success the form ends in StateSubmitted and accepts no further input.
func (f *Form) Submit(ctx context.Context, s Submitter) (View, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editable(); err != nil {
		return f.view(), err
	}
	if f.platformKey == "" {
		f.platformErr = MsgPlatformRequired
		return f.view(), ErrInvalid
	}

	f.state = StateSubmitting
	f.formErr = ""

	if !f.targetAccepted() {
		if f.platform.HasTarget && f.target == "" {
			f.targetStatus = TargetRejected
			f.targetErr = MsgTargetRequired
		} else {
			f.lookup(ctx)
		}
	}
	if f.state != StateSubmitting {
		return f.view(), ErrClosed
	}
	if !f.targetAccepted() {
		f.state = StateOpen
		return f.view(), ErrInvalid
	}

	sub := f.submission()
	f.mu.Unlock()
	err := s.Submit(ctx, sub)
	f.mu.Lock()

	if f.state != StateSubmitting {
		return f.view(), ErrClosed
	}
	if err != nil {
		f.state = StateOpen
		f.formErr = MsgServerError
		return f.view(), fmt.Errorf("submit subscription: %w", err)
	}
	f.state = StateSubmitted
	return f.view(), nil
}

// Cancel closes the form and discards its state.
func (f *Form) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateIdle
	f.generation++
}

// Snapshot returns the current render state.
func (f *Form) Snapshot() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view()
}

// Group returns the group the form adds to.
func (f *Form) Group() string {
	return f.group
}

func (f *Form) targetAccepted() bool {
	switch f.targetStatus {
	case TargetValid:
		return true
	case TargetNotRequired:
		return f.targetName != ""
	default:
		return false
	}
}

func (f *Form) submission() Submission {
	return Submission{
		Group:      f.group,
		Platform:   f.platformKey,
		Target:     f.target,
		TargetName: f.targetName,
		Categories: slices.Clone(f.categories),
		Tags:       slices.Clone(f.tagValues),
	}
}
