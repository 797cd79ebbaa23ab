// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/sweetshop-go/internal/apiclient"
	"github.com/olegiv/sweetshop-go/internal/model"
)

type fakeAuthAPI struct {
	token       string
	user        *model.User
	loginErr    error
	meErr       error
	registerErr error

	loginCalls    int
	meCalls       int
	registerCalls int
	onLogin       func()
}

func (f *fakeAuthAPI) Login(_ context.Context, _ model.LoginCredentials) (*model.AuthResponse, error) {
	f.loginCalls++
	if f.onLogin != nil {
		f.onLogin()
	}
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &model.AuthResponse{AccessToken: f.token, TokenType: "bearer"}, nil
}

func (f *fakeAuthAPI) Register(_ context.Context, data model.RegisterData) (*model.User, error) {
	f.registerCalls++
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &model.User{ID: 2, Email: data.Email, FullName: data.FullName}, nil
}

func (f *fakeAuthAPI) CurrentUser(_ context.Context) (*model.User, error) {
	f.meCalls++
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.user, nil
}

var testUser = &model.User{ID: 1, Email: "test@example.com", FullName: "Test User"}

func creds() model.LoginCredentials {
	return model.LoginCredentials{Email: "test@example.com", Password: "password123"}
}

func TestNewStore_Loading(t *testing.T) {
	st := NewStore(NewMemoryStorage(), &fakeAuthAPI{}, nil).State()
	assert.True(t, st.Loading)
	assert.False(t, st.Authenticated)
	assert.Nil(t, st.User)
	assert.Empty(t, st.Token)
}

func TestStore_CheckAuth(t *testing.T) {
	userJSON, _ := json.Marshal(testUser)

	tests := []struct {
		name     string
		values   map[string]string
		wantAuth bool
	}{
		{"both keys valid", map[string]string{KeyToken: "test-token", KeyUser: string(userJSON)}, true},
		{"empty storage", nil, false},
		{"token only", map[string]string{KeyToken: "test-token"}, false},
		{"user only", map[string]string{KeyUser: string(userJSON)}, false},
		{"invalid user json", map[string]string{KeyToken: "test-token", KeyUser: "invalid-json"}, false},
		{"null user", map[string]string{KeyToken: "test-token", KeyUser: "null"}, false},
		{"empty token", map[string]string{KeyToken: "", KeyUser: string(userJSON)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			storage := NewMemoryStorage()
			for k, v := range tt.values {
				_ = storage.Set(ctx, k, v)
			}
			api := &fakeAuthAPI{}
			store := NewStore(storage, api, nil)

			store.CheckAuth(ctx)

			st := store.State()
			assert.Equal(t, tt.wantAuth, st.Authenticated)
			assert.False(t, st.Loading)
			if tt.wantAuth {
				assert.Equal(t, "test-token", st.Token)
				assert.Equal(t, testUser, st.User)
			} else {
				assert.Nil(t, st.User)
				assert.Empty(t, st.Token)
			}
			assert.Zero(t, api.loginCalls+api.meCalls, "checkAuth must not contact the backend")
		})
	}
}

func TestStore_CheckAuthTwice(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage(), &fakeAuthAPI{}, nil)

	store.CheckAuth(ctx)
	store.CheckAuth(ctx)

	assert.False(t, store.State().Loading)
}

func TestStore_LoginSuccess(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	store := NewStore(storage, &fakeAuthAPI{token: "tok-1", user: testUser}, nil)

	require.NoError(t, store.Login(ctx, creds()))

	st := store.State()
	assert.True(t, st.Authenticated)
	assert.Equal(t, "tok-1", st.Token)
	assert.Equal(t, testUser, st.User)

	token, ok, _ := storage.Get(ctx, KeyToken)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", token)

	raw, ok, _ := storage.Get(ctx, KeyUser)
	require.True(t, ok)
	var stored model.User
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, *testUser, stored)

	store.Logout(ctx)

	st = store.State()
	assert.False(t, st.Authenticated)
	assert.Nil(t, st.User)
	assert.Empty(t, st.Token)
	_, ok, _ = storage.Get(ctx, KeyToken)
	assert.False(t, ok)
	_, ok, _ = storage.Get(ctx, KeyUser)
	assert.False(t, ok)
}

func TestStore_LoginError(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	wantErr := errors.New("Invalid credentials")
	api := &fakeAuthAPI{loginErr: wantErr}
	store := NewStore(storage, api, nil)

	err := store.Login(ctx, creds())

	assert.ErrorIs(t, err, wantErr)
	assert.False(t, store.IsAuthenticated())
	assert.Nil(t, store.User())
	assert.Zero(t, api.meCalls)
	_, ok, _ := storage.Get(ctx, KeyToken)
	assert.False(t, ok)
}

func TestStore_LoginFailureClearsLeftoverKeys(t *testing.T) {
	userJSON, _ := json.Marshal(testUser)

	tests := []struct {
		name string
		api  *fakeAuthAPI
	}{
		{
			name: "login rejected",
			api:  &fakeAuthAPI{loginErr: &apiclient.Error{StatusCode: http.StatusUnauthorized}},
		},
		{
			name: "identity rejected",
			api:  &fakeAuthAPI{token: "tok-new", meErr: &apiclient.Error{StatusCode: http.StatusUnauthorized}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			storage := NewMemoryStorage()
			require.NoError(t, storage.Set(ctx, KeyToken, "tok-stale"))
			require.NoError(t, storage.Set(ctx, KeyUser, string(userJSON)))
			store := NewStore(storage, tt.api, nil)

			err := store.Login(ctx, creds())

			assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
			assert.False(t, store.IsAuthenticated())
			_, ok, _ := storage.Get(ctx, KeyToken)
			assert.False(t, ok)
			_, ok, _ = storage.Get(ctx, KeyUser)
			assert.False(t, ok)
		})
	}
}

func TestStore_LoginRollsBackTokenWhenIdentityFails(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	wantErr := errors.New("identity unavailable")
	store := NewStore(storage, &fakeAuthAPI{token: "tok-1", meErr: wantErr}, nil)

	err := store.Login(ctx, creds())

	assert.ErrorIs(t, err, wantErr)
	assert.False(t, store.IsAuthenticated())
	_, ok, _ := storage.Get(ctx, KeyToken)
	assert.False(t, ok, "token must be rolled back")
	_, ok, _ = storage.Get(ctx, KeyUser)
	assert.False(t, ok)
}

func TestStore_LoginDiscardsStaleResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	storage := NewMemoryStorage()
	api := &fakeAuthAPI{token: "tok-1", user: testUser, onLogin: cancel}
	store := NewStore(storage, api, nil)

	err := store.Login(ctx, creds())

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, store.IsAuthenticated())
	assert.Zero(t, api.meCalls)
	_, ok, _ := storage.Get(context.Background(), KeyToken)
	assert.False(t, ok)
}

func TestStore_Register(t *testing.T) {
	ctx := context.Background()
	api := &fakeAuthAPI{token: "tok-2", user: testUser}
	store := NewStore(NewMemoryStorage(), api, nil)

	err := store.Register(ctx, model.RegisterData{Email: "test@example.com", Password: "password123", FullName: "Test User"})

	require.NoError(t, err)
	assert.Equal(t, 1, api.registerCalls)
	assert.Equal(t, 1, api.loginCalls)
	assert.True(t, store.IsAuthenticated())
}

func TestStore_RegisterError(t *testing.T) {
	ctx := context.Background()
	wantErr := errors.New("Email already exists")
	api := &fakeAuthAPI{registerErr: wantErr}
	store := NewStore(NewMemoryStorage(), api, nil)

	err := store.Register(ctx, model.RegisterData{Email: "test@example.com", Password: "password123", FullName: "Test User"})

	assert.ErrorIs(t, err, wantErr)
	assert.Zero(t, api.loginCalls)
	assert.False(t, store.IsAuthenticated())
}

func TestStore_IsAdmin(t *testing.T) {
	ctx := context.Background()
	admin := &model.User{ID: 9, Email: "admin@example.com", IsAdmin: true}
	store := NewStore(NewMemoryStorage(), &fakeAuthAPI{token: "t", user: admin}, nil)

	assert.False(t, store.IsAdmin())
	require.NoError(t, store.Login(ctx, creds()))
	assert.True(t, store.IsAdmin())
}

// The identity call must carry the token written by the exchange.
func TestStore_LoginWithClient(t *testing.T) {
	var authHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case apiclient.APIPrefix + apiclient.PathLogin:
			_, _ = w.Write([]byte(`{"access_token":"jwt-123","token_type":"bearer"}`))
		case apiclient.APIPrefix + apiclient.PathCurrentUser:
			authHeader = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`{"id":1,"email":"test@example.com","full_name":"Test User","is_admin":false}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	storage := NewMemoryStorage()
	client := apiclient.New(srv.URL, apiclient.WithTokenSource(TokenSource(storage)))
	store := NewStore(storage, client, nil)

	require.NoError(t, store.Login(context.Background(), creds()))
	assert.Equal(t, "Bearer jwt-123", authHeader)
	assert.Equal(t, "Test User", store.User().FullName)
}
