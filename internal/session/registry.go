// Package session owns the lifecycle of live games: an in-memory
// registry of sessions, each holding its own game memory and narrative
// engine, with idle-timeout eviction driven by an external sweeper.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"dungeonmaster/internal/storage"
	"dungeonmaster/pkg/game"
	"dungeonmaster/pkg/narrator"
	"dungeonmaster/pkg/textfilter"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session IDs.
	ErrSessionNotFound = errors.New("invalid or expired session")

	// ErrNoGameInProgress is returned when a session has no story entries yet.
	ErrNoGameInProgress = errors.New("no game in progress")

	// ErrInvalidChoice is returned for an out-of-range choice index.
	ErrInvalidChoice = errors.New("invalid choice index")
)

// Session is one player's live game. The registry is the sole owner;
// mu serializes all access to the session's memory, including
// eviction, so a session is never swept while a request against it is
// in flight.
type Session struct {
	ID           uuid.UUID
	Memory       *game.Memory
	Engine       *narrator.Engine
	CreatedAt    time.Time
	LastActivity time.Time

	mu sync.Mutex
}

// Config carries the game settings the registry needs.
type Config struct {
	MaxMemoryEntries int
	StartingHP       int
	LLMTimeout       time.Duration
}

// TurnResult is the outcome of starting a game or making a choice.
type TurnResult struct {
	SessionID    uuid.UUID
	Story        string
	Choices      []string
	PlayerStats  game.PlayerStats
	PlayerAction string
}

// Registry maps session IDs to live sessions. It is safe for
// concurrent use: a RWMutex guards the map and each session carries
// its own lock, so requests against different sessions never block
// each other.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	llm       narrator.TextGenerator
	snapshots storage.SnapshotStore
	saves     *storage.FileStore
	cfg       Config
	logger    *slog.Logger
}

// NewRegistry creates a session registry. llm may be nil, which runs
// every session in demo mode.
func NewRegistry(llm narrator.TextGenerator, snapshots storage.SnapshotStore, saves *storage.FileStore, cfg Config, logger *slog.Logger) *Registry {
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 60 * time.Second
	}
	return &Registry{
		sessions:  make(map[uuid.UUID]*Session),
		llm:       llm,
		snapshots: snapshots,
		saves:     saves,
		cfg:       cfg,
		logger:    logger,
	}
}

// CreateSession starts a new game for the named player and seeds the
// opening story entry so choices can be made immediately.
func (r *Registry) CreateSession(ctx context.Context, playerName string) (*TurnResult, error) {
	memory := game.NewMemory(r.cfg.MaxMemoryEntries, r.cfg.StartingHP, nil)
	if playerName != "" {
		name := textfilter.TitleName(playerName)
		memory.ApplyStatsUpdate(game.StatsUpdate{Name: &name})
	}

	engine := narrator.NewEngine(r.llm, r.logger)
	story, choices := engine.StartNewAdventure()
	memory.AddStoryEntry("Game started", story, choices)

	now := time.Now()
	s := &Session{
		ID:           uuid.New(),
		Memory:       memory,
		Engine:       engine,
		CreatedAt:    now,
		LastActivity: now,
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	r.persistSnapshot(ctx, s)

	r.logger.Info("Session created", "session_id", s.ID, "player", memory.Stats.Name)

	return &TurnResult{
		SessionID:   s.ID,
		Story:       story,
		Choices:     choices,
		PlayerStats: memory.Stats.Clone(),
	}, nil
}

// ResumeSession restores a session from its persisted snapshot. If the
// session is already live it is returned as-is. Returns
// ErrSessionNotFound when neither the registry nor the snapshot store
// knows the ID.
func (r *Registry) ResumeSession(ctx context.Context, id uuid.UUID) (*TurnResult, error) {
	if s, ok := r.get(id); ok {
		s.mu.Lock()
		defer s.mu.Unlock()
		return lastTurn(s), nil
	}

	save, err := r.snapshots.LoadSnapshot(ctx, id)
	if err != nil {
		r.logger.Warn("Snapshot load failed", "session_id", id, "error", err)
		return nil, ErrSessionNotFound
	}
	if save == nil {
		return nil, ErrSessionNotFound
	}

	memory := game.NewMemory(r.cfg.MaxMemoryEntries, r.cfg.StartingHP, nil)
	memory.Restore(*save)

	now := time.Now()
	s := &Session{
		ID:           id,
		Memory:       memory,
		Engine:       narrator.NewEngine(r.llm, r.logger),
		CreatedAt:    now,
		LastActivity: now,
	}

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	r.logger.Info("Session resumed from snapshot", "session_id", id, "entries", len(memory.StoryHistory))

	s.mu.Lock()
	defer s.mu.Unlock()
	return lastTurn(s), nil
}

// lastTurn builds a TurnResult from the most recent story entry.
// Callers hold the session lock.
func lastTurn(s *Session) *TurnResult {
	res := &TurnResult{
		SessionID:   s.ID,
		PlayerStats: s.Memory.Stats.Clone(),
	}
	if n := len(s.Memory.StoryHistory); n > 0 {
		entry := s.Memory.StoryHistory[n-1]
		res.Story = entry.DMResponse
		res.Choices = entry.Choices
	}
	return res
}

// MakeChoice processes a zero-based choice index against the most
// recent story entry's choices, generates the next turn, and appends
// it to memory. An invalid index mutates nothing.
func (r *Registry) MakeChoice(ctx context.Context, id uuid.UUID, choiceIndex int) (*TurnResult, error) {
	s, ok := r.get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The sweeper may have evicted the session while we waited.
	if _, still := r.get(id); !still {
		return nil, ErrSessionNotFound
	}

	current := s.Memory.CurrentChoices()
	if current == nil {
		return nil, ErrNoGameInProgress
	}
	if choiceIndex < 0 || choiceIndex >= len(current) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChoice, choiceIndex)
	}

	s.LastActivity = time.Now()

	playerAction := s.Engine.ProcessPlayerChoice(choiceIndex+1, current)

	llmCtx, cancel := context.WithTimeout(ctx, r.cfg.LLMTimeout)
	defer cancel()
	story, choices := s.Engine.GenerateResponse(llmCtx, s.Memory.ContextForAI(), playerAction)

	s.Memory.AddStoryEntry(playerAction, story, choices)
	r.persistSnapshot(ctx, s)

	return &TurnResult{
		SessionID:    s.ID,
		Story:        story,
		Choices:      choices,
		PlayerStats:  s.Memory.Stats.Clone(),
		PlayerAction: playerAction,
	}, nil
}

// Stats returns the player's current stats and the story entry count.
func (r *Registry) Stats(id uuid.UUID) (game.PlayerStats, int, error) {
	s, ok := r.get(id)
	if !ok {
		return game.PlayerStats{}, 0, ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Memory.Stats.Clone(), len(s.Memory.StoryHistory), nil
}

// History returns up to limit of the most recent story entries plus
// the total count. limit < 1 defaults to 10.
func (r *Registry) History(id uuid.UUID, limit int) ([]game.StoryEntry, int, error) {
	s, ok := r.get(id)
	if !ok {
		return nil, 0, ErrSessionNotFound
	}

	if limit < 1 {
		limit = 10
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	total := len(s.Memory.StoryHistory)
	start := total - limit
	if start < 0 {
		start = 0
	}
	history := make([]game.StoryEntry, total-start)
	copy(history, s.Memory.StoryHistory[start:])
	return history, total, nil
}

// SaveGame writes the session's save file and returns the filename.
func (r *Registry) SaveGame(id uuid.UUID, saveName string) (string, error) {
	s, ok := r.get(id)
	if !ok {
		return "", ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return r.saves.Save(saveName, s.ID, s.Memory.Snapshot())
}

// EndSession auto-saves best-effort, then removes the session. An
// unknown id is a silent no-op.
func (r *Registry) EndSession(ctx context.Context, id uuid.UUID) {
	s, ok := r.get(id)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := r.saves.Save("auto_save", s.ID, s.Memory.Snapshot()); err != nil {
		r.logger.Warn("Auto-save failed on session end", "session_id", id, "error", err)
	}
	if err := r.snapshots.DeleteSnapshot(ctx, id); err != nil {
		r.logger.Warn("Snapshot delete failed", "session_id", id, "error", err)
	}

	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()

	r.logger.Info("Session ended", "session_id", id)
}

// SweepIdle removes every session whose idle time strictly exceeds
// maxIdle and returns the count removed. Each candidate's lock is
// taken before eviction, so in-flight requests finish first.
func (r *Registry) SweepIdle(maxIdle time.Duration) int {
	return r.sweepIdleAt(time.Now(), maxIdle)
}

func (r *Registry) sweepIdleAt(now time.Time, maxIdle time.Duration) int {
	r.mu.RLock()
	candidates := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		candidates = append(candidates, s)
	}
	r.mu.RUnlock()

	removed := 0
	for _, s := range candidates {
		s.mu.Lock()
		expired := now.Sub(s.LastActivity) > maxIdle
		if expired {
			r.mu.Lock()
			delete(r.sessions, s.ID)
			r.mu.Unlock()
			removed++
			r.logger.Info("Idle session evicted", "session_id", s.ID, "idle", now.Sub(s.LastActivity))
		}
		s.mu.Unlock()
	}
	return removed
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// IDs returns the IDs of all live sessions.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id.String())
	}
	return ids
}

func (r *Registry) get(id uuid.UUID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// persistSnapshot writes the session snapshot best-effort. Callers
// hold the session lock or exclusively own the session.
func (r *Registry) persistSnapshot(ctx context.Context, s *Session) {
	if err := r.snapshots.SaveSnapshot(ctx, s.ID, s.Memory.Snapshot()); err != nil {
		r.logger.Warn("Snapshot save failed", "session_id", s.ID, "error", err)
	}
}
