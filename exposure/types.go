// Package exposure implements the core of a graduated social-exposure
// training chat: extracting structured agent replies from model output,
// persisting treatment plans, mapping session days to exposure tiers,
// composing per-role system prompts, and keeping the conversation log.
package exposure

// Level is an exposure-intensity tier.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// levelOrder is the tier progression across a program. Scenario positions in a
// consolidated plan follow this order: 2 scenarios per tier, low first.
var levelOrder = []Level{LevelLow, LevelMedium, LevelHigh}

// labelJA maps a tier to the Japanese label used inside persona prompts.
var labelJA = map[Level]string{
	LevelLow:    "低",
	LevelMedium: "中",
	LevelHigh:   "高",
}

// Agent identifies which conversational role handled a turn.
type Agent string

const (
	// AgentTherapist is the scripted therapist persona that elicits fears
	// and authors the exposure plan.
	AgentTherapist Agent = "P"
	// AgentPeer role-plays the counterpart character of a scenario.
	AgentPeer Agent = "H"
)

func (a Agent) Valid() bool {
	return a == AgentTherapist || a == AgentPeer
}

// Scenario is one concrete exposure task authored by the therapist.
type Scenario struct {
	Title            string `json:"title"`
	InteractionRole  string `json:"interaction_role"`
	ExposureScenario string `json:"exposure_scenario"`
	UserTask         string `json:"user_task"`

	// Level tags the scenario's own tier. Optional: plans authored without
	// per-scenario tags fall back to positional tier selection.
	Level Level `json:"level,omitempty"`
}

// Plan is the consolidated treatment plan for one participant.
type Plan struct {
	// Level is advisory only. Selection reads per-scenario tags; this field
	// is round-tripped for compatibility with older plan files.
	Level Level `json:"level,omitempty"`

	// Scenarios in authoring order. Position encodes tier when scenarios
	// carry no Level tag: indices 0-1 low, 2-3 medium, 4-5 high.
	Scenarios []Scenario `json:"scenarios"`
}

// Reply is the structured record recovered from a raw model response.
type Reply struct {
	Text    string `json:"text"`
	Emotion string `json:"emotion"`
	Plan    *Plan  `json:"plan"`
}

// Message is one chat-completion message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
