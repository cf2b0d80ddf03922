package openai

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformedEvent = errors.New("malformed realtime event")

// Event is one server event from the realtime socket, decoded once at the boundary.
type Event interface {
	EventType() string
}

// AudioDelta carries a chunk of output audio in the negotiated output format.
type AudioDelta struct {
	Type       string
	ResponseID string
	ItemID     string
	Audio      []byte
}

// InputTranscriptCompleted is the transcript of one caller utterance.
type InputTranscriptCompleted struct {
	Type       string
	ItemID     string
	Transcript string
}

// OutputTranscriptDone is the transcript of one spoken AI turn.
type OutputTranscriptDone struct {
	Type       string
	ResponseID string
	ItemID     string
	Transcript string
}

// FunctionArgumentsDelta is one streamed fragment of a tool call's arguments.
type FunctionArgumentsDelta struct {
	Type   string
	CallID string
	Delta  string
}

// FunctionArgumentsDone closes the argument stream of a tool call.
type FunctionArgumentsDone struct {
	Type      string
	CallID    string
	Name      string
	Arguments string
}

// ErrorEvent is a protocol-level error reported by the AI endpoint.
type ErrorEvent struct {
	Type    string
	Code    string
	Message string
	Param   string
}

// SessionUpdated acknowledges a session.update.
type SessionUpdated struct {
	Type string
}

// Passthrough is any event the call does not react to. Raw is the original frame.
type Passthrough struct {
	Type string
	Raw  json.RawMessage
}

func (e AudioDelta) EventType() string               { return e.Type }
func (e InputTranscriptCompleted) EventType() string { return e.Type }
func (e OutputTranscriptDone) EventType() string     { return e.Type }
func (e FunctionArgumentsDelta) EventType() string   { return e.Type }
func (e FunctionArgumentsDone) EventType() string    { return e.Type }
func (e ErrorEvent) EventType() string               { return e.Type }
func (e SessionUpdated) EventType() string           { return e.Type }
func (e Passthrough) EventType() string              { return e.Type }

type wireEvent struct {
	Type         string `json:"type"`
	ResponseID   string `json:"response_id"`
	ItemID       string `json:"item_id"`
	CallID       string `json:"call_id"`
	Name         string `json:"name"`
	Delta        string `json:"delta"`
	Arguments    string `json:"arguments"`
	Transcript   string `json:"transcript"`
	ErrorPayload *struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
		Param   string `json:"param"`
	} `json:"error"`
}

// DecodeEvent maps one raw frame to its typed event. Both GA and beta names are accepted.
func DecodeEvent(raw []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if w.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedEvent)
	}

	switch w.Type {
	case "response.output_audio.delta", "response.audio.delta":
		audio, err := base64.StdEncoding.DecodeString(w.Delta)
		if err != nil {
			return nil, fmt.Errorf("%w: audio delta: %v", ErrMalformedEvent, err)
		}
		return AudioDelta{Type: w.Type, ResponseID: w.ResponseID, ItemID: w.ItemID, Audio: audio}, nil

	case "conversation.item.input_audio_transcription.completed":
		return InputTranscriptCompleted{Type: w.Type, ItemID: w.ItemID, Transcript: w.Transcript}, nil

	case "response.output_audio_transcript.done", "response.audio_transcript.done":
		return OutputTranscriptDone{Type: w.Type, ResponseID: w.ResponseID, ItemID: w.ItemID, Transcript: w.Transcript}, nil

	case "response.function_call_arguments.delta":
		return FunctionArgumentsDelta{Type: w.Type, CallID: w.CallID, Delta: w.Delta}, nil

	case "response.function_call_arguments.done":
		return FunctionArgumentsDone{Type: w.Type, CallID: w.CallID, Name: w.Name, Arguments: w.Arguments}, nil

	case "error":
		e := ErrorEvent{Type: w.Type}
		if w.ErrorPayload != nil {
			e.Code = w.ErrorPayload.Code
			e.Message = w.ErrorPayload.Message
			e.Param = w.ErrorPayload.Param
		}
		return e, nil

	case "session.updated":
		return SessionUpdated{Type: w.Type}, nil

	default:
		return Passthrough{Type: w.Type, Raw: append(json.RawMessage(nil), raw...)}, nil
	}
}
