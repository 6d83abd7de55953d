package game

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// DefaultMaxEntries bounds the story history per session.
	DefaultMaxEntries = 50

	// DefaultStartingHP is the HP/MaxHP a fresh character starts with.
	DefaultStartingHP = 100

	// DefaultName is used when the player does not supply one.
	DefaultName = "Adventurer"

	// DefaultLocation is where every adventure begins.
	DefaultLocation = "Dungeon Cell"
)

// DefaultInventory is the starting kit for a fresh character.
var DefaultInventory = []string{"rusty sword", "leather armor", "5 gold coins"}

// Context bounds for the summary sent to the LLM. Only the most recent
// entries are included, each narrative truncated, to keep prompts
// small.
const (
	contextHistoryLimit = 5
	contextNarrativeCap = 200
)

// StoryEntry is one turn of the game: the player's action, the
// narrator's response, the three choices offered next, and a snapshot
// of the player's stats at that moment. Entries are immutable once
// appended.
type StoryEntry struct {
	Timestamp    time.Time   `json:"timestamp"`
	PlayerAction string      `json:"player_action"`
	DMResponse   string      `json:"dm_response"`
	Choices      []string    `json:"choices"`
	PlayerStats  PlayerStats `json:"player_stats"`
}

// Memory owns the per-session game state: player stats, the bounded
// story history, and the NPC/quest lists. It is not safe for
// concurrent use; callers serialize access per session.
type Memory struct {
	StoryHistory    []StoryEntry
	Stats           PlayerStats
	GameStartTime   time.Time
	NPCsMet         []string
	CompletedQuests []string

	maxEntries int
}

// NewMemory creates game memory with a fresh character. maxEntries
// bounds the story history; values < 1 fall back to DefaultMaxEntries.
func NewMemory(maxEntries int, startingHP int, startingInventory []string) *Memory {
	if maxEntries < 1 {
		maxEntries = DefaultMaxEntries
	}
	if startingHP < 1 {
		startingHP = DefaultStartingHP
	}
	if startingInventory == nil {
		startingInventory = DefaultInventory
	}
	inv := make([]string, len(startingInventory))
	copy(inv, startingInventory)

	return &Memory{
		StoryHistory: make([]StoryEntry, 0),
		Stats: PlayerStats{
			Name:       DefaultName,
			HP:         startingHP,
			MaxHP:      startingHP,
			Inventory:  inv,
			Location:   DefaultLocation,
			Level:      1,
			Experience: 0,
		},
		GameStartTime:   time.Now(),
		NPCsMet:         make([]string, 0),
		CompletedQuests: make([]string, 0),
		maxEntries:      maxEntries,
	}
}

// AddStoryEntry appends a turn with a fresh timestamp and a deep copy
// of the current stats, then trims the history to the most recent
// maxEntries.
func (m *Memory) AddStoryEntry(playerAction, dmResponse string, choices []string) {
	c := make([]string, len(choices))
	copy(c, choices)

	m.StoryHistory = append(m.StoryHistory, StoryEntry{
		Timestamp:    time.Now(),
		PlayerAction: playerAction,
		DMResponse:   dmResponse,
		Choices:      c,
		PlayerStats:  m.Stats.Clone(),
	})

	if len(m.StoryHistory) > m.maxEntries {
		m.StoryHistory = m.StoryHistory[len(m.StoryHistory)-m.maxEntries:]
	}
}

// CurrentChoices returns the choices from the most recent story entry,
// or nil when no turn has been recorded yet.
func (m *Memory) CurrentChoices() []string {
	if len(m.StoryHistory) == 0 {
		return nil
	}
	return m.StoryHistory[len(m.StoryHistory)-1].Choices
}

// ApplyStatsUpdate overwrites the stats named by the update.
func (m *Memory) ApplyStatsUpdate(u StatsUpdate) {
	u.Apply(&m.Stats)
}

// AddToInventory appends an item to the player's inventory.
func (m *Memory) AddToInventory(item string) {
	m.Stats.Inventory = append(m.Stats.Inventory, item)
}

// RemoveFromInventory removes the first occurrence of item. It reports
// whether the item was present; removing a missing item is a no-op.
func (m *Memory) RemoveFromInventory(item string) bool {
	for i, have := range m.Stats.Inventory {
		if have == item {
			m.Stats.Inventory = append(m.Stats.Inventory[:i], m.Stats.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

// ContextForAI builds the bounded summary passed to the LLM alongside
// the live prompt: current stats, the last few turns with truncated
// narration, and the NPC/quest lists when present.
func (m *Memory) ContextForAI() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Current Player Stats: %s (HP %d/%d, Level %d, XP %d) at %s, carrying: %s\n\n",
		m.Stats.Name, m.Stats.HP, m.Stats.MaxHP, m.Stats.Level, m.Stats.Experience,
		m.Stats.Location, strings.Join(m.Stats.Inventory, ", "))

	if len(m.StoryHistory) > 0 {
		b.WriteString("Recent Story History:\n")
		recent := m.StoryHistory
		if len(recent) > contextHistoryLimit {
			recent = recent[len(recent)-contextHistoryLimit:]
		}
		for i, entry := range recent {
			narration := truncateRunes(entry.DMResponse, contextNarrativeCap)
			fmt.Fprintf(&b, "%d. Player: %s\n   DM: %s\n\n", i+1, entry.PlayerAction, narration)
		}
	}

	if len(m.NPCsMet) > 0 {
		fmt.Fprintf(&b, "NPCs Met: %s\n", strings.Join(m.NPCsMet, ", "))
	}
	if len(m.CompletedQuests) > 0 {
		fmt.Fprintf(&b, "Completed Quests: %s\n", strings.Join(m.CompletedQuests, ", "))
	}

	return b.String()
}

// truncateRunes caps s at max runes, never splitting a multi-byte
// character, and marks the cut with an ellipsis.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
