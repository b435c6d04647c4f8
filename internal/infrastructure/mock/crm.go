// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/port"
)

// CRM operation names used for error simulation
const (
	OpFindLists        = "FindListsByName"
	OpListLists        = "ListNewsletterLists"
	OpFindContacts     = "FindContactsByEmail"
	OpCreateContact    = "CreateContact"
	OpFindMemberships  = "FindMemberships"
	OpCreateMembership = "CreateMembership"
	OpUpdateMembership = "UpdateMembership"
)

// MockCRM is an in-memory port.CRMRecordStore
type MockCRM struct {
	lists       map[string]*model.NewsletterList
	contacts    map[string]*model.Contact
	memberships map[string]*model.SubscriptionMembership
	opErrs      map[string]error
	rejected    map[string]*model.WriteResult
	calls       []string
	seq         int
	mu          sync.RWMutex
}

// NewMockCRM creates a CRM store seeded with a few sample newsletter lists
func NewMockCRM() *MockCRM {
	m := &MockCRM{}
	m.ClearAll()
	for _, name := range []string{"Radiolab", "On The Media", "WNYC Daily Newsletter", "Politics Brunch"} {
		m.AddList(name)
	}
	return m
}

func (m *MockCRM) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s%012d", prefix, m.seq)
}

func (m *MockCRM) record(op string) error {
	m.calls = append(m.calls, op)
	return m.opErrs[op]
}

// FindListsByName returns lists with exactly this name
func (m *MockCRM) FindListsByName(ctx context.Context, name string) ([]model.NewsletterList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(OpFindLists); err != nil {
		return nil, err
	}

	var out []model.NewsletterList
	for _, l := range m.lists {
		if l.Name == name {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListNewsletterLists returns every list, ordered by ID
func (m *MockCRM) ListNewsletterLists(ctx context.Context) ([]model.NewsletterList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(OpListLists); err != nil {
		return nil, err
	}

	out := make([]model.NewsletterList, 0, len(m.lists))
	for _, l := range m.lists {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// FindContactsByEmail returns contacts matching email, case-insensitively
func (m *MockCRM) FindContactsByEmail(ctx context.Context, email string) ([]model.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(OpFindContacts); err != nil {
		return nil, err
	}

	var out []model.Contact
	for _, c := range m.contacts {
		if strings.EqualFold(c.Email, email) {
			out = append(out, *c)
		}
	}
	sortContacts(out)
	return out, nil
}

// CreateContact stores a new contact
func (m *MockCRM) CreateContact(ctx context.Context, contact *model.Contact) (*model.WriteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(OpCreateContact); err != nil {
		return nil, err
	}
	if res, ok := m.rejected[OpCreateContact]; ok {
		return res, nil
	}

	stored := *contact
	stored.ID = m.nextID("003")
	stored.LastModified = time.Now()
	m.contacts[stored.ID] = &stored
	return &model.WriteResult{ID: stored.ID, Success: true}, nil
}

// FindMemberships returns memberships linking contactID to listID
func (m *MockCRM) FindMemberships(ctx context.Context, contactID, listID string) ([]model.SubscriptionMembership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(OpFindMemberships); err != nil {
		return nil, err
	}

	var out []model.SubscriptionMembership
	for _, s := range m.memberships {
		if s.ContactID == contactID && s.ListID == listID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastModified.Equal(out[j].LastModified) {
			return out[i].LastModified.Before(out[j].LastModified)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// CreateMembership stores a new membership
func (m *MockCRM) CreateMembership(ctx context.Context, membership *model.SubscriptionMembership) (*model.WriteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(OpCreateMembership); err != nil {
		return nil, err
	}
	if res, ok := m.rejected[OpCreateMembership]; ok {
		return res, nil
	}

	stored := *membership
	stored.ID = m.nextID("a0B")
	stored.LastModified = time.Now()
	m.memberships[stored.ID] = &stored
	return &model.WriteResult{ID: stored.ID, Success: true}, nil
}

// UpdateMembership updates an existing membership
func (m *MockCRM) UpdateMembership(ctx context.Context, membership *model.SubscriptionMembership) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(OpUpdateMembership); err != nil {
		return err
	}

	existing, ok := m.memberships[membership.ID]
	if !ok {
		return fmt.Errorf("membership %s does not exist", membership.ID)
	}
	existing.Active = membership.Active
	existing.Source = membership.Source
	existing.OptInDate = membership.OptInDate
	existing.LastModified = time.Now()
	return nil
}

// AddList adds a newsletter list and returns its ID
func (m *MockCRM) AddList(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID("a0A")
	m.lists[id] = &model.NewsletterList{ID: id, Name: name}
	return id
}

// AddContact adds a contact as-is; an empty ID is generated
func (m *MockCRM) AddContact(contact model.Contact) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if contact.ID == "" {
		contact.ID = m.nextID("003")
	}
	m.contacts[contact.ID] = &contact
	return contact.ID
}

// AddMembership adds a membership as-is; an empty ID is generated
func (m *MockCRM) AddMembership(membership model.SubscriptionMembership) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if membership.ID == "" {
		membership.ID = m.nextID("a0B")
	}
	m.memberships[membership.ID] = &membership
	return membership.ID
}

// Contacts returns all stored contacts ordered by LastModified, then ID
func (m *MockCRM) Contacts() []model.Contact {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Contact, 0, len(m.contacts))
	for _, c := range m.contacts {
		out = append(out, *c)
	}
	sortContacts(out)
	return out
}

// Membership returns one membership by ID
func (m *MockCRM) Membership(id string) (model.SubscriptionMembership, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.memberships[id]
	if !ok {
		return model.SubscriptionMembership{}, false
	}
	return *s, true
}

// Memberships returns all stored memberships
func (m *MockCRM) Memberships() []model.SubscriptionMembership {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.SubscriptionMembership, 0, len(m.memberships))
	for _, s := range m.memberships {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetError makes the named operation fail with err
func (m *MockCRM) SetError(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opErrs[op] = err
}

// RejectWrite makes a create operation return result instead of storing anything
func (m *MockCRM) RejectWrite(op string, result *model.WriteResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected[op] = result
}

// Calls returns the operations invoked, in order
func (m *MockCRM) Calls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.calls...)
}

// ClearAll removes all records, simulated errors and recorded calls
func (m *MockCRM) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists = make(map[string]*model.NewsletterList)
	m.contacts = make(map[string]*model.Contact)
	m.memberships = make(map[string]*model.SubscriptionMembership)
	m.opErrs = make(map[string]error)
	m.rejected = make(map[string]*model.WriteResult)
	m.calls = nil
}

func sortContacts(contacts []model.Contact) {
	sort.Slice(contacts, func(i, j int) bool {
		if !contacts[i].LastModified.Equal(contacts[j].LastModified) {
			return contacts[i].LastModified.Before(contacts[j].LastModified)
		}
		return contacts[i].ID < contacts[j].ID
	})
}

var _ port.CRMRecordStore = (*MockCRM)(nil)
