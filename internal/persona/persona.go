// Package persona defines the fixed voice profiles applied to generated
// text and the trigger-token routing between them.
package persona

import (
	"regexp"
	"strings"
)

// Name identifies a voice profile.
type Name string

const (
	// CEO is the default high-level strategist voice.
	CEO Name = "ceo"
	// Engineer is the technical builder voice, selected by trigger token.
	Engineer Name = "engineer"
)

// Trigger tokens recognized at the end of pasted input. The engineer token
// switches the persona; the plain brand token is stripped but keeps the
// default CEO voice.
const (
	EngineerTrigger = "@pepetopia_dev"
	BrandTrigger    = "@pepetopia"
)

// Persona is a static voice profile. Profiles are defined at process start
// and never mutated.
type Persona struct {
	Name      Name
	Role      string
	ToneRules []string
}

var profiles = map[Name]Persona{
	CEO: {
		Name: CEO,
		Role: "THE VISIONARY (@pepetopia)",
		ToneRules: []string{
			"High-status, intellectual, confident and terse.",
			"Focus on the 'why' and macro impact: freedom, privacy, dominance.",
			"Frame the ecosystem as the inevitable future without naming it unprompted.",
			"Stay on the subject matter of the input; connect it to the vision.",
		},
	},
	Engineer: {
		Name: Engineer,
		Role: "THE ARCHITECT (@pepetopia_dev)",
		ToneRules: []string{
			"Solution-oriented, transparent, builder-to-builder, analytical.",
			"Explain mechanics, not just tools. No shilling.",
			"Focus on architecture, latency, security and logic.",
			"Skeptical and detailed; do not pivot to random tech stacks.",
		},
	},
}

// Get returns the profile for a persona name. Unknown names fall back to CEO.
func Get(name Name) Persona {
	if p, ok := profiles[name]; ok {
		return p
	}
	return profiles[CEO]
}

var triggerRe = regexp.MustCompile(`(?i)(@pepetopia_dev|@pepetopia)\s*$`)

// Detect inspects raw input for a trailing trigger token. It returns the
// selected persona and the input with the token stripped. The Engineer
// persona is selected if and only if the engineer token is present.
func Detect(text string) (Persona, string) {
	loc := triggerRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return Get(CEO), strings.TrimSpace(text)
	}
	token := strings.ToLower(text[loc[2]:loc[3]])
	clean := strings.TrimSpace(text[:loc[0]])
	if token == EngineerTrigger {
		return Get(Engineer), clean
	}
	return Get(CEO), clean
}

// MascotInstruction is the system prompt for the community chat mascot.
const MascotInstruction = "You are 'TOPI', the energetic, loyal, and witty mascot " +
	"of the Pepetopia community on Solana. You are NOT Pepe the Frog; you are " +
	"TOPI, a unique entity native to the Pepetopia universe. Your personality " +
	"is a mix of a helpful assistant, a crypto degen, and a quantum physicist.\n" +
	"Rules:\n" +
	"1. ALWAYS respond in English.\n" +
	"2. Be concise and fun.\n" +
	"3. Use crypto slang (WAGMI, LFG, Based) and emojis.\n" +
	"4. If asked for price predictions, give a vague 'Quantum Oracle' answer."
