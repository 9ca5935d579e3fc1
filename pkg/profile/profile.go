// Package profile maps persona and service-tier identifiers to the
// generation settings a streaming session is set up with. Lookups are pure
// functions of small inputs; the instruction text itself lives here so
// callers never carry prompt content around.
package profile

import (
	"fmt"

	"github.com/wisp-ai/wisp/pkg/live"
)

// Persona selects the system-instruction text for a session.
type Persona string

const (
	PersonaAssistant   Persona = "assistant"
	PersonaStoryteller Persona = "storyteller"
	PersonaNavigator   Persona = "navigator"
)

var personaInstructions = map[Persona]string{
	PersonaAssistant: "You are a concise, friendly voice assistant. " +
		"Answer briefly; the user is listening, not reading.",
	PersonaStoryteller: "You are a warm storyteller. Narrate vividly in " +
		"short spoken passages and pause naturally between scenes.",
	PersonaNavigator: "You are a hands-free guide. Give one step at a " +
		"time and wait for the user before continuing.",
}

// ParsePersona validates a persona identifier.
func ParsePersona(s string) (Persona, error) {
	p := Persona(s)
	if _, ok := personaInstructions[p]; !ok {
		return "", fmt.Errorf("profile: unknown persona %q", s)
	}
	return p, nil
}

// Instruction returns the system-instruction text for the persona.
// Unknown personas fall back to the assistant instruction.
func (p Persona) Instruction() string {
	if text, ok := personaInstructions[p]; ok {
		return text
	}
	return personaInstructions[PersonaAssistant]
}

// Tier is the user's service tier. It keys generation limits.
type Tier string

const (
	TierFree Tier = "free"
	TierPlus Tier = "plus"
	TierPro  Tier = "pro"
)

// ParseTier validates a tier identifier.
func ParseTier(s string) (Tier, error) {
	switch t := Tier(s); t {
	case TierFree, TierPlus, TierPro:
		return t, nil
	}
	return "", fmt.Errorf("profile: unknown tier %q", s)
}

// MaxOutputTokens returns the per-turn output budget for the tier.
// Unknown tiers get the free budget.
func (t Tier) MaxOutputTokens() int {
	switch t {
	case TierPlus:
		return 2048
	case TierPro:
		return 8192
	}
	return 512
}

// Temperature returns the sampling temperature for the tier.
func (t Tier) Temperature() float64 {
	return 0.8
}

// Context assembles the immutable session configuration for one
// connection.
func Context(model string, p Persona, t Tier) live.SessionContext {
	return live.SessionContext{
		Model:           model,
		Instruction:     p.Instruction(),
		Temperature:     t.Temperature(),
		MaxOutputTokens: t.MaxOutputTokens(),
	}
}
