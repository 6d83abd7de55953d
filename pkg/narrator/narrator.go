// Package narrator turns player actions into story turns: it composes
// the prompt for the LLM, parses the reply into narrative plus exactly
// three choices, and falls back to scripted scenes when no model is
// available.
package narrator

import (
	"context"
	"fmt"
	"log/slog"

	"dungeonmaster/pkg/textfilter"
)

// TextGenerator produces raw model text for a composed prompt. It is
// implemented by the LLM services; a nil generator puts the engine in
// demo mode.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Engine generates narrative turns for one session.
type Engine struct {
	llm    TextGenerator
	logger *slog.Logger
}

// NewEngine creates a narrative engine. llm may be nil, in which case
// every turn comes from the scripted fallback.
func NewEngine(llm TextGenerator, logger *slog.Logger) *Engine {
	return &Engine{
		llm:    llm,
		logger: logger,
	}
}

// StartNewAdventure returns the fixed opening scene and its choices.
func (e *Engine) StartNewAdventure() (string, []string) {
	choices := make([]string, len(InitialChoices))
	copy(choices, InitialChoices)
	return InitialScenario, choices
}

// GenerateResponse produces the next turn for a player action.
// contextSummary is the bounded history/stats summary from game
// memory. Any model failure is absorbed into the demo fallback; the
// player never sees a hard error from this path.
func (e *Engine) GenerateResponse(ctx context.Context, contextSummary, playerAction string) (string, []string) {
	if e.llm == nil {
		return DemoResponse(playerAction)
	}

	prompt := fmt.Sprintf("%s\n\nContext:\n%s\n\nPlayer Action: %s\n\nPlease respond as the Dungeon Master and provide exactly 3 choices at the end.",
		SystemPrompt, contextSummary, playerAction)

	raw, err := e.llm.GenerateText(ctx, prompt)
	if err != nil {
		e.logger.Warn("LLM call failed, using scripted fallback",
			"error", err,
			"action", playerAction)
		return DemoResponse(playerAction)
	}

	narrative, choices := ParseResponse(textfilter.CleanNarrative(raw))
	return narrative, choices
}

// ProcessPlayerChoice converts a 1-based choice number into the
// canonical action string. Out-of-range numbers produce a fixed
// uncertainty action; this never fails.
func (e *Engine) ProcessPlayerChoice(choiceNumber int, choices []string) string {
	if choiceNumber >= 1 && choiceNumber <= len(choices) {
		return "I choose to: " + choices[choiceNumber-1]
	}
	return uncertainAction
}
