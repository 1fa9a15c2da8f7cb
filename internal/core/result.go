package core

// Code classifies how a turn concluded. Transports surface it alongside the
// response text.
type Code string

const (
	CodeOK             Code = "ok"
	CodeUnknownIntent  Code = "unknown_intent"
	CodeNoSkill        Code = "no_skill"
	CodeExecutionError Code = "execution_error"
)

// Result is the detailed outcome of one processed utterance. Process never
// raises to its caller; every failure mode collapses into a Result.
type Result struct {
	Response   string  `json:"response"`
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Code       Code    `json:"code"`
	// Degraded is set when the context store could not persist this turn's
	// mutations; the response itself is still valid.
	Degraded bool `json:"degraded,omitempty"`
}
