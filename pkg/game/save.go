package game

import (
	"encoding/json"
	"time"
)

// SaveFile is the serialized snapshot of a session. The document is
// flat and versionless; loaders tolerate missing keys by defaulting to
// empty values.
type SaveFile struct {
	StoryHistory    []StoryEntry `json:"story_history"`
	PlayerStats     PlayerStats  `json:"player_stats"`
	GameStartTime   time.Time    `json:"game_start_time"`
	NPCsMet         []string     `json:"npcs_met"`
	CompletedQuests []string     `json:"completed_quests"`
}

// Snapshot captures the memory as a save document.
func (m *Memory) Snapshot() SaveFile {
	history := make([]StoryEntry, len(m.StoryHistory))
	copy(history, m.StoryHistory)

	npcs := make([]string, len(m.NPCsMet))
	copy(npcs, m.NPCsMet)

	quests := make([]string, len(m.CompletedQuests))
	copy(quests, m.CompletedQuests)

	return SaveFile{
		StoryHistory:    history,
		PlayerStats:     m.Stats.Clone(),
		GameStartTime:   m.GameStartTime,
		NPCsMet:         npcs,
		CompletedQuests: quests,
	}
}

// Restore replaces the memory's state from a save document. Absent
// fields leave empty values rather than erroring. The history bound is
// re-applied in case the document was written with a larger limit.
func (m *Memory) Restore(save SaveFile) {
	m.StoryHistory = save.StoryHistory
	if m.StoryHistory == nil {
		m.StoryHistory = make([]StoryEntry, 0)
	}
	if len(m.StoryHistory) > m.maxEntries {
		m.StoryHistory = m.StoryHistory[len(m.StoryHistory)-m.maxEntries:]
	}

	m.Stats = save.PlayerStats
	if m.Stats.Inventory == nil {
		m.Stats.Inventory = make([]string, 0)
	}

	m.NPCsMet = save.NPCsMet
	if m.NPCsMet == nil {
		m.NPCsMet = make([]string, 0)
	}

	m.CompletedQuests = save.CompletedQuests
	if m.CompletedQuests == nil {
		m.CompletedQuests = make([]string, 0)
	}

	if !save.GameStartTime.IsZero() {
		m.GameStartTime = save.GameStartTime
	}
}

// MarshalSave encodes a save document as indented UTF-8 JSON.
func MarshalSave(save SaveFile) ([]byte, error) {
	return json.MarshalIndent(save, "", "  ")
}

// UnmarshalSave decodes a save document.
func UnmarshalSave(data []byte) (SaveFile, error) {
	var save SaveFile
	if err := json.Unmarshal(data, &save); err != nil {
		return SaveFile{}, err
	}
	return save, nil
}
