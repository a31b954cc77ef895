package model

// EggAction selects the easter-egg finder behavior
type EggAction string

const (
	EggActionFind    EggAction = "find"    // Look up a specific easter egg
	EggActionExplain EggAction = "explain" // Explain an egg in simple terms
	EggActionWhatIf  EggAction = "whatif"  // Write a What If...? scenario
	EggActionListen  EggAction = "listen"  // Read an egg description aloud (TTS)
)

// EggRequest is the action-dispatched request body for the easter-egg endpoint
type EggRequest struct {
	Action  EggAction `json:"action"`
	Query   string    `json:"query,omitempty"`
	Context string    `json:"context,omitempty"`
}

// EggFindResult is the structured response for the "find" action
type EggFindResult struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Error       string `json:"error,omitempty"`
}

// EggTextResult is the response for "explain" and "whatif" actions
type EggTextResult struct {
	Text string `json:"text"`
}

// EggAudioResult carries base64-encoded audio for the "listen" action
type EggAudioResult struct {
	Audio string `json:"audio"`
}
