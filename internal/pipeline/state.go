// Package pipeline sequences a capture through transcription and then
// summarization, and owns the resulting state.
package pipeline

import "fmt"

// State is the pipeline's position for the current capture.
type State int

const (
	Idle State = iota
	Transcribing
	Summarizing
	Done
	FailedAtTranscription
	FailedAtSummarization
)

var stateNames = map[State]string{
	Idle:                  "idle",
	Transcribing:          "transcribing",
	Summarizing:           "summarizing",
	Done:                  "done",
	FailedAtTranscription: "failed-at-transcription",
	FailedAtSummarization: "failed-at-summarization",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no further transitions happen without a new capture.
func (s State) Terminal() bool {
	return s == Done || s == FailedAtTranscription || s == FailedAtSummarization
}

// Failed reports whether the run ended in a provider failure.
func (s State) Failed() bool {
	return s == FailedAtTranscription || s == FailedAtSummarization
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown pipeline state %q", text)
}
