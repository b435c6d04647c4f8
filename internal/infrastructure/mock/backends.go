// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/errors"
)

// ForwardCall is one recorded legacy proxy call
type ForwardCall struct {
	List  string
	Email string
}

// MockForwarder records legacy proxy calls and answers with a canned response
type MockForwarder struct {
	StatusCode int
	Body       map[string]any
	Err        error
	calls      []ForwardCall
	mu         sync.Mutex
}

// NewMockForwarder creates a forwarder answering 200 {"status":"subscribed"}
func NewMockForwarder() *MockForwarder {
	return &MockForwarder{
		StatusCode: http.StatusOK,
		Body:       map[string]any{"status": "subscribed"},
	}
}

// Forward records the call and returns the canned response
func (f *MockForwarder) Forward(ctx context.Context, list, email string) (*model.ProxiedResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, ForwardCall{List: list, Email: email})
	if f.Err != nil {
		return nil, f.Err
	}
	body := make(map[string]any, len(f.Body))
	for k, v := range f.Body {
		body[k] = v
	}
	return &model.ProxiedResponse{StatusCode: f.StatusCode, Body: body}, nil
}

// Calls returns the recorded proxy calls
func (f *MockForwarder) Calls() []ForwardCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ForwardCall(nil), f.calls...)
}

// MockMembershipReader serves member and plan profiles from memory
type MockMembershipReader struct {
	members   map[string]*model.Member
	plans     map[string]*model.Plan
	memberErr error
	planErr   error
	mu        sync.RWMutex
}

// NewMockMembershipReader creates an empty membership reader
func NewMockMembershipReader() *MockMembershipReader {
	return &MockMembershipReader{
		members: make(map[string]*model.Member),
		plans:   make(map[string]*model.Plan),
	}
}

// Member returns the member profile or a NotFound error
func (r *MockMembershipReader) Member(ctx context.Context, memberID string) (*model.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.memberErr != nil {
		return nil, r.memberErr
	}
	m, ok := r.members[memberID]
	if !ok {
		return nil, errors.NewNotFound("member not found: " + memberID)
	}
	member := *m
	return &member, nil
}

// Plan returns the plan or a NotFound error
func (r *MockMembershipReader) Plan(ctx context.Context, planID string) (*model.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.planErr != nil {
		return nil, r.planErr
	}
	p, ok := r.plans[planID]
	if !ok {
		return nil, errors.NewNotFound("plan not found: " + planID)
	}
	plan := *p
	return &plan, nil
}

// AddMember adds a member profile
func (r *MockMembershipReader) AddMember(member model.Member) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[member.ID] = &member
}

// AddPlan adds a plan
func (r *MockMembershipReader) AddPlan(plan model.Plan) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[plan.ID] = &plan
}

// SetMemberError makes every Member lookup fail
func (r *MockMembershipReader) SetMemberError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.memberErr = err
}

// SetPlanError makes every Plan lookup fail
func (r *MockMembershipReader) SetPlanError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.planErr = err
}

// MockEmailVerifier returns a fixed classification
type MockEmailVerifier struct {
	Validity *model.EmailValidity
	Err      error
	calls    int
	mu       sync.Mutex
}

// NewMockEmailVerifier creates a verifier classifying every address as valid
func NewMockEmailVerifier() *MockEmailVerifier {
	return &MockEmailVerifier{
		Validity: &model.EmailValidity{Status: "success", Classification: "valid"},
	}
}

// Verify returns the configured classification or error
func (v *MockEmailVerifier) Verify(ctx context.Context, email string) (*model.EmailValidity, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls++
	if v.Err != nil {
		return nil, v.Err
	}
	validity := *v.Validity
	return &validity, nil
}

// Calls returns how many verifications were requested
func (v *MockEmailVerifier) Calls() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.calls
}

// MockFlagBackend is an in-memory flag-style bulk email backend
type MockFlagBackend struct {
	contacts   map[string]model.BulkContact
	flags      map[string]map[string]bool
	attributes map[string]map[string]string
	columns    []string
	contactErr error
	flagErr    error
	mu         sync.RWMutex
}

// NewMockFlagBackend creates a backend exposing the given list columns
func NewMockFlagBackend(lists ...string) *MockFlagBackend {
	return &MockFlagBackend{
		contacts:   make(map[string]model.BulkContact),
		flags:      make(map[string]map[string]bool),
		attributes: make(map[string]map[string]string),
		columns:    lists,
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UpsertContact creates or replaces the contact row
func (b *MockFlagBackend) UpsertContact(ctx context.Context, contact model.BulkContact) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.contactErr != nil {
		return b.contactErr
	}
	b.contacts[emailKey(contact.Email)] = contact
	return nil
}

// SetListFlag sets the list flag and attributes for the email
func (b *MockFlagBackend) SetListFlag(ctx context.Context, flag model.ListFlag) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.flagErr != nil {
		return b.flagErr
	}
	key := emailKey(flag.Email)
	if b.flags[key] == nil {
		b.flags[key] = make(map[string]bool)
		b.attributes[key] = make(map[string]string)
	}
	b.flags[key][flag.List] = flag.Active
	for k, v := range flag.Attributes {
		b.attributes[key][k] = v
	}
	return nil
}

// Lists returns the configured list columns, sorted
func (b *MockFlagBackend) Lists(ctx context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := append([]string(nil), b.columns...)
	sort.Strings(out)
	return out, nil
}

// Contact returns the stored row for email
func (b *MockFlagBackend) Contact(email string) (model.BulkContact, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.contacts[emailKey(email)]
	return c, ok
}

// Flag returns the list flag for email, and whether it was ever set
func (b *MockFlagBackend) Flag(email, list string) (bool, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.flags[emailKey(email)][list]
	return v, ok
}

// Attribute returns one attribute value for email
func (b *MockFlagBackend) Attribute(email, name string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.attributes[emailKey(email)][name]
}

// SetContactError makes UpsertContact fail
func (b *MockFlagBackend) SetContactError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.contactErr = err
}

// SetFlagError makes SetListFlag fail
func (b *MockFlagBackend) SetFlagError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.flagErr = err
}

var (
	_ port.LegacyForwarder  = (*MockForwarder)(nil)
	_ port.MembershipReader = (*MockMembershipReader)(nil)
	_ port.EmailVerifier    = (*MockEmailVerifier)(nil)
	_ port.FlagBackend      = (*MockFlagBackend)(nil)
	_ port.ListCatalog      = (*MockFlagBackend)(nil)
)
