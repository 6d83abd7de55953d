package game

import (
	"strings"
	"testing"
	"time"
)

func TestSaveRoundTrip(t *testing.T) {
	m := NewMemory(10, 100, []string{"torch"})
	m.AddStoryEntry("start", "intro text", []string{"A", "B", "C"})
	hp := 73
	m.ApplyStatsUpdate(StatsUpdate{HP: &hp})
	m.AddStoryEntry("fight", "a battle", []string{"D", "E", "F"})
	m.NPCsMet = append(m.NPCsMet, "Goblin King")
	m.CompletedQuests = append(m.CompletedQuests, "Escape the cell")

	data, err := MarshalSave(m.Snapshot())
	if err != nil {
		t.Fatalf("MarshalSave failed: %v", err)
	}

	save, err := UnmarshalSave(data)
	if err != nil {
		t.Fatalf("UnmarshalSave failed: %v", err)
	}

	restored := NewMemory(10, 100, nil)
	restored.Restore(save)

	if len(restored.StoryHistory) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(restored.StoryHistory))
	}
	if restored.StoryHistory[0].PlayerAction != "start" || restored.StoryHistory[1].PlayerAction != "fight" {
		t.Error("Entries out of order after round trip")
	}
	if restored.StoryHistory[1].Choices[2] != "F" {
		t.Errorf("Choices lost in round trip: %v", restored.StoryHistory[1].Choices)
	}
	if restored.Stats.HP != 73 {
		t.Errorf("Expected HP 73, got %d", restored.Stats.HP)
	}
	if len(restored.Stats.Inventory) != 1 || restored.Stats.Inventory[0] != "torch" {
		t.Errorf("Inventory lost in round trip: %v", restored.Stats.Inventory)
	}
	if len(restored.NPCsMet) != 1 || restored.NPCsMet[0] != "Goblin King" {
		t.Errorf("NPCs lost in round trip: %v", restored.NPCsMet)
	}
	if len(restored.CompletedQuests) != 1 || restored.CompletedQuests[0] != "Escape the cell" {
		t.Errorf("Quests lost in round trip: %v", restored.CompletedQuests)
	}
	if !restored.GameStartTime.Equal(m.GameStartTime) {
		t.Errorf("Start time lost in round trip: %v vs %v", restored.GameStartTime, m.GameStartTime)
	}
}

func TestUnmarshalSave_MissingKeys(t *testing.T) {
	// A versionless document with absent fields loads as empty values.
	save, err := UnmarshalSave([]byte(`{"player_stats":{"name":"Solo"}}`))
	if err != nil {
		t.Fatalf("UnmarshalSave failed: %v", err)
	}

	m := NewMemory(10, 100, nil)
	before := m.GameStartTime
	m.Restore(save)

	if m.Stats.Name != "Solo" {
		t.Errorf("Expected name Solo, got %q", m.Stats.Name)
	}
	if m.StoryHistory == nil || len(m.StoryHistory) != 0 {
		t.Errorf("Expected empty history, got %v", m.StoryHistory)
	}
	if m.NPCsMet == nil || m.CompletedQuests == nil {
		t.Error("Expected empty (non-nil) NPC and quest lists")
	}
	if m.Stats.Inventory == nil {
		t.Error("Expected empty (non-nil) inventory")
	}
	// Absent start time keeps the existing one.
	if !m.GameStartTime.Equal(before) {
		t.Error("Missing game_start_time should not clear the start time")
	}
}

func TestRestore_ReappliesHistoryBound(t *testing.T) {
	big := NewMemory(100, 100, nil)
	for i := 0; i < 20; i++ {
		big.AddStoryEntry("a", "b", []string{"A", "B", "C"})
	}

	small := NewMemory(5, 100, nil)
	small.Restore(big.Snapshot())

	if len(small.StoryHistory) != 5 {
		t.Errorf("Expected restored history trimmed to 5, got %d", len(small.StoryHistory))
	}
}

func TestSaveFile_TimestampFormat(t *testing.T) {
	m := NewMemory(10, 100, nil)
	m.GameStartTime = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	data, err := MarshalSave(m.Snapshot())
	if err != nil {
		t.Fatalf("MarshalSave failed: %v", err)
	}

	// game_start_time is serialized as an RFC 3339 string.
	if want := `"game_start_time": "2026-03-14T15:09:26Z"`; !strings.Contains(string(data), want) {
		t.Errorf("Expected %s in save document, got:\n%s", want, data)
	}
}
