package profile

import "testing"

func TestParsePersona(t *testing.T) {
	if _, err := ParsePersona("storyteller"); err != nil {
		t.Errorf("storyteller: %v", err)
	}
	if _, err := ParsePersona("pirate"); err == nil {
		t.Error("expected error for unknown persona")
	}
}

func TestParseTier(t *testing.T) {
	if _, err := ParseTier("pro"); err != nil {
		t.Errorf("pro: %v", err)
	}
	if _, err := ParseTier("ultra"); err == nil {
		t.Error("expected error for unknown tier")
	}
}

func TestContext(t *testing.T) {
	sctx := Context("models/wisp-live", PersonaNavigator, TierPlus)
	if sctx.Model != "models/wisp-live" {
		t.Errorf("model = %q", sctx.Model)
	}
	if sctx.Instruction != PersonaNavigator.Instruction() {
		t.Errorf("instruction = %q", sctx.Instruction)
	}
	if sctx.MaxOutputTokens != 2048 {
		t.Errorf("maxOutputTokens = %d", sctx.MaxOutputTokens)
	}
	if sctx.Temperature == 0 {
		t.Error("temperature not set")
	}
}

func TestUnknownFallbacks(t *testing.T) {
	if Persona("nope").Instruction() != PersonaAssistant.Instruction() {
		t.Error("unknown persona should fall back to assistant")
	}
	if Tier("nope").MaxOutputTokens() != TierFree.MaxOutputTokens() {
		t.Error("unknown tier should fall back to free budget")
	}
}
