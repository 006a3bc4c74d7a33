package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	return envelope
}

func decodeData(t *testing.T, envelope helpers.APIResponse, dest any) {
	t.Helper()
	require.Nil(t, envelope.Error, "success response must have error nil")
	dataBytes, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(dataBytes, dest))
}

type fakeAccountService struct {
	registerID  string
	registerErr error
	verifyErr   error
	loginToken  string
	loginUser   *domain.PublicUser
	loginErr    error
	seedAdmin   *domain.User
	seedCreated bool
	seedErr     error

	lastEmail    string
	lastName     string
	lastPassword string
	lastCode     string
}

func (f *fakeAccountService) Register(ctx context.Context, email, name, password string) (string, error) {
	f.lastEmail, f.lastName, f.lastPassword = email, name, password
	return f.registerID, f.registerErr
}

func (f *fakeAccountService) Verify(ctx context.Context, email, code string) error {
	f.lastEmail, f.lastCode = email, code
	return f.verifyErr
}

func (f *fakeAccountService) Login(ctx context.Context, email, password string) (string, *domain.PublicUser, error) {
	f.lastEmail, f.lastPassword = email, password
	return f.loginToken, f.loginUser, f.loginErr
}

func (f *fakeAccountService) Seed(ctx context.Context) (*domain.User, bool, error) {
	return f.seedAdmin, f.seedCreated, f.seedErr
}

type fakeUserService struct {
	listResult   []*domain.User
	listErr      error
	getResult    *domain.UserDetail
	getErr       error
	updateResult *domain.User
	updateErr    error
	deleteErr    error

	lastID     string
	lastUpdate domain.UserUpdate
}

func (f *fakeUserService) List(ctx context.Context) ([]*domain.User, error) {
	return f.listResult, f.listErr
}

func (f *fakeUserService) Get(ctx context.Context, id string) (*domain.UserDetail, error) {
	f.lastID = id
	return f.getResult, f.getErr
}

func (f *fakeUserService) Update(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error) {
	f.lastID, f.lastUpdate = id, update
	return f.updateResult, f.updateErr
}

func (f *fakeUserService) Delete(ctx context.Context, id string) error {
	f.lastID = id
	return f.deleteErr
}

type fakeEventService struct {
	listResult   []*domain.Event
	listErr      error
	getResult    *domain.Event
	getErr       error
	createErr    error
	updateResult *domain.Event
	updateErr    error
	deleteErr    error

	lastID     string
	lastActor  *domain.Principal
	lastCreate *domain.Event
	lastPatch  domain.EventPatch
}

func (f *fakeEventService) List(ctx context.Context) ([]*domain.Event, error) {
	return f.listResult, f.listErr
}

func (f *fakeEventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	f.lastID = id
	return f.getResult, f.getErr
}

func (f *fakeEventService) Create(ctx context.Context, actor *domain.Principal, event *domain.Event) error {
	f.lastActor, f.lastCreate = actor, event
	if f.createErr != nil {
		return f.createErr
	}
	event.ID = "ev-new"
	event.Participants = []*domain.Participant{}
	return nil
}

func (f *fakeEventService) Update(ctx context.Context, actor *domain.Principal, id string, patch domain.EventPatch) (*domain.Event, error) {
	f.lastActor, f.lastID, f.lastPatch = actor, id, patch
	return f.updateResult, f.updateErr
}

func (f *fakeEventService) Delete(ctx context.Context, actor *domain.Principal, id string) error {
	f.lastActor, f.lastID = actor, id
	return f.deleteErr
}

type fakeParticipantService struct {
	result    *domain.Participant
	err       error
	removeErr error

	lastEventID string
	lastUserID  string
	lastStatus  domain.ParticipantStatus
}

func (f *fakeParticipantService) Add(ctx context.Context, eventID, userID string, status domain.ParticipantStatus) (*domain.Participant, error) {
	f.lastEventID, f.lastUserID, f.lastStatus = eventID, userID, status
	return f.result, f.err
}

func (f *fakeParticipantService) UpdateStatus(ctx context.Context, eventID, userID string, status domain.ParticipantStatus) (*domain.Participant, error) {
	f.lastEventID, f.lastUserID, f.lastStatus = eventID, userID, status
	return f.result, f.err
}

func (f *fakeParticipantService) Remove(ctx context.Context, eventID, userID string) error {
	f.lastEventID, f.lastUserID = eventID, userID
	return f.removeErr
}
