package personality

// Voice carries the synthesis settings for a persona.
type Voice struct {
	VoiceID     string
	Speed       float64
	Instruction string
}

// Personality is a named bundle of prompt template, greeting, exit phrase
// and voice configuration. Immutable after registration.
type Personality struct {
	Key       string
	Name      string
	ShortName string
	Greeting  string
	// ExitPhrase ends the conversation when it trails the model's response.
	// It must be distinctive enough not to occur in ordinary dialogue.
	ExitPhrase string
	// PromptTemplate contains a single {context} substitution point for the
	// rendered conversation history.
	PromptTemplate string
	Voice          Voice
}
