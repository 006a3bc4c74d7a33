package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"eventrsvp/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var errDB = errors.New("connection refused")

// memStore is an in-memory database shared by the fake repositories.
// It enforces email uniqueness, the (user, event) key and the delete cascades.
type memStore struct {
	mu           sync.Mutex
	users        map[string]*domain.User
	events       map[string]*domain.Event
	participants map[[2]string]*domain.Participant // key: {eventID, userID}
	err          error
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[string]*domain.User),
		events:       make(map[string]*domain.Event),
		participants: make(map[[2]string]*domain.Participant),
	}
}

func (m *memStore) userRepo() *fakeUserRepo               { return &fakeUserRepo{m} }
func (m *memStore) eventRepo() *fakeEventRepo             { return &fakeEventRepo{m} }
func (m *memStore) participantRepo() *fakeParticipantRepo { return &fakeParticipantRepo{m} }

func (m *memStore) addUser(id, email string, role domain.Role, verified bool) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &domain.User{ID: id, Email: email, Name: id, PasswordHash: "hashed:pw", Role: role, IsVerified: verified}
	m.users[id] = u
	return u
}

func (m *memStore) addEvent(id, organizerID string) *domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := &domain.Event{ID: id, Title: "Event " + id, OrganizerID: organizerID}
	m.events[id] = e
	return e
}

func (m *memStore) participantCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.participants)
}

type fakeUserRepo struct{ m *memStore }

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.err != nil {
		return f.m.err
	}
	for _, existing := range f.m.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	cp := *u
	f.m.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.err != nil {
		return nil, f.m.err
	}
	for _, u := range f.m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.err != nil {
		return nil, f.m.err
	}
	u, ok := f.m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.err != nil {
		return nil, f.m.err
	}
	out := make([]*domain.User, 0, len(f.m.users))
	for _, u := range f.m.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	u, ok := f.m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.Email != nil {
		for _, other := range f.m.users {
			if other.ID != id && other.Email == *patch.Email {
				return nil, domain.ErrDuplicateEmail
			}
		}
		u.Email = *patch.Email
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) MarkVerified(ctx context.Context, id string) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	u, ok := f.m.users[id]
	if !ok || u.IsVerified {
		return domain.ErrAlreadyVerified
	}
	u.IsVerified = true
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(f.m.users, id)
	for eid, e := range f.m.events {
		if e.OrganizerID == id {
			f.m.deleteEventLocked(eid)
		}
	}
	for k := range f.m.participants {
		if k[1] == id {
			delete(f.m.participants, k)
		}
	}
	return nil
}

func (f *fakeUserRepo) ExistsByRole(ctx context.Context, role domain.Role) (bool, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.err != nil {
		return false, f.m.err
	}
	for _, u := range f.m.users {
		if u.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) deleteEventLocked(id string) {
	delete(m.events, id)
	for k := range m.participants {
		if k[0] == id {
			delete(m.participants, k)
		}
	}
}

type fakeEventRepo struct{ m *memStore }

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.err != nil {
		return f.m.err
	}
	if _, ok := f.m.users[e.OrganizerID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *e
	f.m.events[e.ID] = &cp
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.err != nil {
		return nil, f.m.err
	}
	e, ok := f.m.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.err != nil {
		return nil, f.m.err
	}
	out := make([]*domain.Event, 0, len(f.m.events))
	for _, e := range f.m.events {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	e, ok := f.m.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	if patch.Title != nil {
		e.Title = *patch.Title
	}
	if patch.Description != nil {
		e.Description = patch.Description
	}
	if patch.Date != nil {
		e.Date = *patch.Date
	}
	if patch.Location != nil {
		e.Location = patch.Location
	}
	e.UpdatedAt = time.Now()
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	f.m.deleteEventLocked(id)
	return nil
}

type fakeParticipantRepo struct{ m *memStore }

func (f *fakeParticipantRepo) Create(ctx context.Context, p *domain.Participant) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.err != nil {
		return f.m.err
	}
	key := [2]string{p.EventID, p.UserID}
	if _, ok := f.m.participants[key]; ok {
		return domain.ErrAlreadyParticipant
	}
	cp := *p
	f.m.participants[key] = &cp
	return nil
}

func (f *fakeParticipantRepo) Get(ctx context.Context, eventID, userID string) (*domain.Participant, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	p, ok := f.m.participants[[2]string{eventID, userID}]
	if !ok {
		return nil, domain.ErrParticipantNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeParticipantRepo) UpdateStatus(ctx context.Context, eventID, userID string, status domain.ParticipantStatus) (*domain.Participant, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	p, ok := f.m.participants[[2]string{eventID, userID}]
	if !ok {
		return nil, domain.ErrParticipantNotFound
	}
	p.Status = status
	cp := *p
	return &cp, nil
}

func (f *fakeParticipantRepo) Delete(ctx context.Context, eventID, userID string) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	key := [2]string{eventID, userID}
	if _, ok := f.m.participants[key]; !ok {
		return domain.ErrParticipantNotFound
	}
	delete(f.m.participants, key)
	return nil
}

func (f *fakeParticipantRepo) ListByEventIDs(ctx context.Context, eventIDs []string) (map[string][]*domain.Participant, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.err != nil {
		return nil, f.m.err
	}
	want := make(map[string]bool, len(eventIDs))
	for _, id := range eventIDs {
		want[id] = true
	}
	out := make(map[string][]*domain.Participant)
	for k, p := range f.m.participants {
		if !want[k[0]] {
			continue
		}
		cp := *p
		if u, ok := f.m.users[p.UserID]; ok {
			cp.User = &domain.ParticipantUser{ID: u.ID, Name: u.Name, Email: u.Email}
		}
		out[k[0]] = append(out[k[0]], &cp)
	}
	for _, ps := range out {
		sort.Slice(ps, func(i, j int) bool { return ps[i].UserID < ps[j].UserID })
	}
	return out, nil
}

func (f *fakeParticipantRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.UserParticipation, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	out := []*domain.UserParticipation{}
	for k, p := range f.m.participants {
		if k[1] != userID {
			continue
		}
		e := *f.m.events[k[0]]
		out = append(out, &domain.UserParticipation{EventID: k[0], Status: p.Status, Event: &e})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventID < out[j].EventID })
	return out, nil
}

// fakeHasher implements domain.PasswordHasher without bcrypt's cost.
type fakeHasher struct {
	err      error
	verifies int
}

func (f *fakeHasher) Hash(password string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "hashed:" + password, nil
}

func (f *fakeHasher) Verify(password, hash string) bool {
	f.verifies++
	return hash == "hashed:"+password
}

type fixedCode string

func (c fixedCode) Generate() string { return string(c) }

type fakeTokenIssuer struct{ err error }

func (f *fakeTokenIssuer) Issue(p domain.Principal) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + p.ID, nil
}

// fakeEmailService records sent emails. Safe for use from the dispatch goroutines.
type fakeEmailService struct {
	mu            sync.Mutex
	verifications []domain.VerificationEmailData
	confirmations []domain.ConfirmationEmailData
	err           error
}

func (f *fakeEmailService) SendVerification(ctx context.Context, data *domain.VerificationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifications = append(f.verifications, *data)
	return f.err
}

func (f *fakeEmailService) SendConfirmation(ctx context.Context, data *domain.ConfirmationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmations = append(f.confirmations, *data)
	return f.err
}

type publishedMessage struct {
	routingKey    string
	body          []byte
	correlationID string
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	err      error
}

func (f *fakePublisher) Publish(ctx context.Context, routingKey string, body []byte, correlationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, publishedMessage{routingKey, body, correlationID})
	return f.err
}

// fakeMailer and fakeRenderer back the EmailService tests.
type fakeMailer struct {
	to, subject, html, text string
	err                     error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, html, text string) error {
	f.to, f.subject, f.html, f.text = to, subject, html, text
	return f.err
}

type fakeRenderer struct {
	name string
	err  error
}

func (f *fakeRenderer) Render(name string, data any) (string, string, string, error) {
	f.name = name
	if f.err != nil {
		return "", "", "", f.err
	}
	return "subject:" + name, "<p>" + name + "</p>", name, nil
}
