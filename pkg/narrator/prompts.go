package narrator

// SystemPrompt instructs the model to act as dungeon master and to end
// every reply with the cue phrase and three numbered choices that
// ParseResponse looks for.
const SystemPrompt = `You are an expert Dungeon Master for a fantasy RPG. Your role is to:
1. Create immersive, engaging storytelling
2. Respond to player actions with vivid descriptions
3. Present exactly 3 meaningful choices after each scenario
4. Keep track of the story context and player progress
5. Be creative but maintain story consistency

Always end your response with exactly 3 numbered choices for the player.
Format: "What do you choose?
1. [Choice 1]
2. [Choice 2]
3. [Choice 3]"

Consider the player's current stats and inventory when crafting scenarios.`

// InitialScenario opens every new adventure. It is a pure constant;
// no model call is made for the first turn.
const InitialScenario = `You awaken in a dimly lit dungeon cell. The musty air fills your lungs as you slowly regain consciousness. Ancient stone walls surround you, and a faint light flickers from a torch in the corridor beyond the iron bars. You notice your basic equipment is still with you - your trusty sword, leather armor, and a small pouch of coins.

As your eyes adjust to the darkness, you hear distant footsteps echoing through the dungeon halls. The cell door appears to be unlocked, swinging slightly ajar. Your adventure begins now...`

// InitialChoices are offered with the opening scenario.
var InitialChoices = []string{
	"Carefully push open the cell door and step into the corridor",
	"Search the cell thoroughly for any useful items or clues",
	"Call out to see if anyone responds to your voice",
}

// genericChoices pad the choice set when the model supplies fewer than
// three. They are consumed left to right.
var genericChoices = []string{
	"Examine your surroundings more carefully",
	"Check your inventory and equipment",
	"Wait and listen for any sounds",
}

// uncertainAction is returned for an out-of-range choice number.
const uncertainAction = "I look around uncertainly, unsure what to do next."
