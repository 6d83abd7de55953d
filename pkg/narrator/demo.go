package narrator

import "strings"

// Scripted scenes used when no model is configured or the model call
// fails. Keyword matching on the player's action picks the scene.
var demoScenes = map[string]struct {
	narrative string
	choices   []string
}{
	"start": {
		narrative: "You find yourself in a mysterious dungeon. The stone walls are damp with moisture, " +
			"and strange symbols glow faintly on the walls. A cool breeze suggests there might be " +
			"an exit nearby, but you can also hear the sound of dripping water echoing from deeper within.",
		choices: []string{
			"Follow the cool breeze toward a possible exit",
			"Investigate the glowing symbols on the wall",
			"Head deeper into the dungeon toward the sound of water",
		},
	},
	"north": {
		narrative: "You walk north and discover a grand chamber with three passageways. Ancient torches " +
			"flicker along the walls, casting dancing shadows. In the center of the room, you notice " +
			"a dusty old chest that might contain treasure.",
		choices: []string{
			"Open the mysterious chest",
			"Take the left passageway",
			"Examine the torch flames more closely",
		},
	},
	"attack": {
		narrative: "Your attack connects! The creature staggers back, wounded but still dangerous. " +
			"Your sword gleams with an unexpected magical light after striking the beast. " +
			"The creature's eyes glow red with fury as it prepares its counterattack.",
		choices: []string{
			"Press the attack while the creature is wounded",
			"Try to negotiate with the intelligent creature",
			"Retreat to a defensive position",
		},
	},
}

var (
	movementKeywords = []string{"north", "forward", "ahead"}
	combatKeywords   = []string{"attack", "fight", "hit", "strike"}
)

// DemoResponse returns a deterministic scripted turn for the given
// player action.
func DemoResponse(playerAction string) (string, []string) {
	action := strings.ToLower(playerAction)

	scene := demoScenes["start"]
	if containsAny(action, movementKeywords) {
		scene = demoScenes["north"]
	} else if containsAny(action, combatKeywords) {
		scene = demoScenes["attack"]
	}

	choices := make([]string, len(scene.choices))
	copy(choices, scene.choices)
	return scene.narrative, choices
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
