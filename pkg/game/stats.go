package game

// PlayerStats holds the mutable character sheet for a single session.
// HP is not clamped to [0, MaxHP] and there is no death state; the
// narrator is free to describe wounds however it likes.
type PlayerStats struct {
	Name       string   `json:"name"`
	HP         int      `json:"hp"`
	MaxHP      int      `json:"max_hp"`
	Inventory  []string `json:"inventory"`
	Location   string   `json:"location"`
	Level      int      `json:"level"`
	Experience int      `json:"experience"`
}

// Clone returns a deep copy of the stats. Story entries snapshot stats
// by value, so later mutations must not reach back into history.
func (p PlayerStats) Clone() PlayerStats {
	out := p
	out.Inventory = make([]string, len(p.Inventory))
	copy(out.Inventory, p.Inventory)
	return out
}

// StatsUpdate is a partial update to PlayerStats. Only non-nil fields
// are applied. Unknown fields cannot be expressed, which replaces the
// silent-ignore behavior of a free-form key/value update.
type StatsUpdate struct {
	Name       *string  `json:"name,omitempty"`
	HP         *int     `json:"hp,omitempty"`
	MaxHP      *int     `json:"max_hp,omitempty"`
	Inventory  []string `json:"inventory,omitempty"`
	Location   *string  `json:"location,omitempty"`
	Level      *int     `json:"level,omitempty"`
	Experience *int     `json:"experience,omitempty"`
}

// Apply overwrites each stat for which the update carries a value.
func (u StatsUpdate) Apply(p *PlayerStats) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.HP != nil {
		p.HP = *u.HP
	}
	if u.MaxHP != nil {
		p.MaxHP = *u.MaxHP
	}
	if u.Inventory != nil {
		p.Inventory = make([]string, len(u.Inventory))
		copy(p.Inventory, u.Inventory)
	}
	if u.Location != nil {
		p.Location = *u.Location
	}
	if u.Level != nil {
		p.Level = *u.Level
	}
	if u.Experience != nil {
		p.Experience = *u.Experience
	}
}
