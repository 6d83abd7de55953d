package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dungeonmaster/internal/services"
	"dungeonmaster/internal/session"
	"dungeonmaster/internal/storage"
	"dungeonmaster/pkg/game"
	"dungeonmaster/pkg/narrator"
)

// memStore is an in-memory SnapshotStore for resume tests.
type memStore struct {
	mu    sync.Mutex
	saves map[uuid.UUID]game.SaveFile
}

func newMemStore() *memStore {
	return &memStore{saves: make(map[uuid.UUID]game.SaveFile)}
}

func (s *memStore) Ping(ctx context.Context) error { return nil }

func (s *memStore) SaveSnapshot(ctx context.Context, id uuid.UUID, save game.SaveFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves[id] = save
	return nil
}

func (s *memStore) LoadSnapshot(ctx context.Context, id uuid.UUID) (*game.SaveFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if save, ok := s.saves[id]; ok {
		return &save, nil
	}
	return nil, nil
}

func (s *memStore) DeleteSnapshot(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.saves, id)
	return nil
}

func (s *memStore) Close() error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// newTestHandler wires a GameHandler to a registry running in demo
// mode with file saves under a temp dir.
func newTestHandler(t *testing.T) (*GameHandler, *session.Registry) {
	t.Helper()
	logger := testLogger()
	registry := session.NewRegistry(nil, storage.NewNoopStore(),
		storage.NewFileStore(t.TempDir(), logger), session.Config{
			MaxMemoryEntries: 50,
			StartingHP:       100,
		}, logger)
	return NewGameHandler(registry, logger), registry
}

func postJSON(t *testing.T, h http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func startTestGame(t *testing.T, h *GameHandler, playerName string) startGameResponse {
	t.Helper()
	w := postJSON(t, h, "/api/start-game", startGameRequest{PlayerName: playerName})
	require.Equal(t, http.StatusOK, w.Code)

	var resp startGameResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGameHandler_StartGame(t *testing.T) {
	h, _ := newTestHandler(t)

	resp := startTestGame(t, h, "gandalf")

	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, narrator.InitialScenario, resp.Story)
	assert.Len(t, resp.Choices, 3)
	assert.Equal(t, "Gandalf", resp.PlayerStats.Name)
	assert.Equal(t, 100, resp.PlayerStats.HP)
}

func TestGameHandler_StartGame_InvalidBody(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/start-game", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestGameHandler_MakeChoice(t *testing.T) {
	h, _ := newTestHandler(t)
	started := startTestGame(t, h, "")

	idx := 0
	w := postJSON(t, h, "/api/make-choice", makeChoiceRequest{
		SessionID:   started.SessionID,
		ChoiceIndex: &idx,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp makeChoiceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Story)
	assert.Len(t, resp.Choices, 3)
	assert.Equal(t, "I choose to: "+started.Choices[0], resp.PlayerAction)
}

func TestGameHandler_MakeChoice_LLMBacked(t *testing.T) {
	logger := testLogger()
	mock := services.NewMockLLM()
	registry := session.NewRegistry(mock, storage.NewNoopStore(),
		storage.NewFileStore(t.TempDir(), logger), session.Config{
			MaxMemoryEntries: 50,
			StartingHP:       100,
		}, logger)
	h := NewGameHandler(registry, logger)

	started := startTestGame(t, h, "")

	idx := 0
	w := postJSON(t, h, "/api/make-choice", makeChoiceRequest{
		SessionID:   started.SessionID,
		ChoiceIndex: &idx,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp makeChoiceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "The corridor stretches into darkness ahead of you.", resp.Story)
	assert.Equal(t, []string{
		"Press onward into the dark",
		"Light a torch",
		"Turn back toward your cell",
	}, resp.Choices)

	// The turn reached the model with the chosen action in the prompt.
	require.Len(t, mock.GenerateTextCalls, 1)
	assert.Contains(t, mock.GenerateTextCalls[0], "I choose to: "+started.Choices[0])
}

func TestGameHandler_MakeChoice_Errors(t *testing.T) {
	h, _ := newTestHandler(t)
	started := startTestGame(t, h, "")

	badIdx := 7
	tests := []struct {
		name string
		body makeChoiceRequest
	}{
		{
			name: "missing choice index",
			body: makeChoiceRequest{SessionID: started.SessionID},
		},
		{
			name: "out of range choice index",
			body: makeChoiceRequest{SessionID: started.SessionID, ChoiceIndex: &badIdx},
		},
		{
			name: "malformed session id",
			body: makeChoiceRequest{SessionID: "not-a-uuid", ChoiceIndex: &badIdx},
		},
		{
			name: "unknown session id",
			body: makeChoiceRequest{SessionID: "00000000-0000-0000-0000-000000000001", ChoiceIndex: &badIdx},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, h, "/api/make-choice", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
		})
	}
}

func TestGameHandler_GetStats(t *testing.T) {
	h, _ := newTestHandler(t)
	started := startTestGame(t, h, "frodo")

	w := postJSON(t, h, "/api/get-stats", sessionRequest{SessionID: started.SessionID})
	require.Equal(t, http.StatusOK, w.Code)

	var resp getStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Frodo", resp.PlayerStats.Name)
	assert.Equal(t, 1, resp.StoryCount)
}

func TestGameHandler_GetHistory(t *testing.T) {
	h, _ := newTestHandler(t)
	started := startTestGame(t, h, "")

	for i := 0; i < 3; i++ {
		idx := 0
		w := postJSON(t, h, "/api/make-choice", makeChoiceRequest{
			SessionID:   started.SessionID,
			ChoiceIndex: &idx,
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := postJSON(t, h, "/api/get-history", sessionRequest{
		SessionID: started.SessionID,
		Limit:     2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp getHistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 4, resp.TotalEntries)
	assert.Len(t, resp.History, 2)
}

func TestGameHandler_SaveGame(t *testing.T) {
	h, _ := newTestHandler(t)
	started := startTestGame(t, h, "")

	w := postJSON(t, h, "/api/save-game", sessionRequest{
		SessionID: started.SessionID,
		SaveName:  "my save!",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp saveGameResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotEmpty(t, resp.Filename)
	_, err := os.Stat(resp.Filename)
	assert.NoError(t, err)
}

func TestGameHandler_EndSession(t *testing.T) {
	h, registry := newTestHandler(t)
	started := startTestGame(t, h, "")

	w := postJSON(t, h, "/api/end-session", sessionRequest{SessionID: started.SessionID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, registry.Count())

	// Ending an unknown or malformed session still succeeds.
	for _, id := range []string{started.SessionID, "garbage"} {
		w := postJSON(t, h, "/api/end-session", sessionRequest{SessionID: id})
		assert.Equal(t, http.StatusOK, w.Code)

		var resp endSessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
	}
}

func TestGameHandler_Sessions(t *testing.T) {
	h, _ := newTestHandler(t)
	started := startTestGame(t, h, "")

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp sessionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.ActiveSessions)
	assert.Contains(t, resp.SessionIDs, started.SessionID)
}

func TestGameHandler_MethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/start-game", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/sessions", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestGameHandler_UnknownRoute(t *testing.T) {
	h, _ := newTestHandler(t)

	w := postJSON(t, h, "/api/does-not-exist", struct{}{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGameHandler_ResumeViaStartGame(t *testing.T) {
	logger := testLogger()
	snapshots := newMemStore()
	registry := session.NewRegistry(nil, snapshots,
		storage.NewFileStore(t.TempDir(), logger), session.Config{
			MaxMemoryEntries: 50,
			StartingHP:       100,
		}, logger)
	h := NewGameHandler(registry, logger)

	started := startTestGame(t, h, "bilbo")

	// A second registry over the same snapshot store stands in for a
	// restarted process.
	registry2 := session.NewRegistry(nil, snapshots,
		storage.NewFileStore(t.TempDir(), logger), session.Config{
			MaxMemoryEntries: 50,
			StartingHP:       100,
		}, logger)
	h2 := NewGameHandler(registry2, logger)

	w := postJSON(t, h2, "/api/start-game", startGameRequest{
		PlayerName: "ignored",
		SessionID:  started.SessionID,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp startGameResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, started.SessionID, resp.SessionID)
	assert.Equal(t, "Bilbo", resp.PlayerStats.Name)
	assert.Equal(t, "Game resumed successfully", resp.Message)
}
