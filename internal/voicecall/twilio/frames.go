package twilio

import (
	"encoding/json"
	"errors"
	"fmt"

	"callbridge/internal/voice/audio"
)

var ErrMalformedFrame = errors.New("malformed media stream frame")

// Frame is one decoded message from the Twilio media stream.
type Frame interface {
	FrameEvent() string
}

type MediaFormat struct {
	Encoding   string `json:"encoding"`
	SampleRate int    `json:"sampleRate"`
	Channels   int    `json:"channels"`
}

type StartFrame struct {
	StreamSid        string
	CallSid          string
	AccountSid       string
	Tracks           []string
	MediaFormat      MediaFormat
	CustomParameters map[string]string
}

type MediaFrame struct {
	Track     string
	Timestamp string
	Payload   []byte
}

type StopFrame struct {
	StreamSid string
	CallSid   string
}

type MarkFrame struct {
	Name string
}

type DTMFFrame struct {
	Digit string
}

// ConnectedFrame is the first message on the socket, before start.
type ConnectedFrame struct {
	Protocol string
}

func (StartFrame) FrameEvent() string     { return "start" }
func (MediaFrame) FrameEvent() string     { return "media" }
func (StopFrame) FrameEvent() string      { return "stop" }
func (MarkFrame) FrameEvent() string      { return "mark" }
func (DTMFFrame) FrameEvent() string      { return "dtmf" }
func (ConnectedFrame) FrameEvent() string { return "connected" }

type wireFrame struct {
	Event     string `json:"event"`
	StreamSid string `json:"streamSid"`
	Protocol  string `json:"protocol"`
	Start     *struct {
		StreamSid        string            `json:"streamSid"`
		CallSid          string            `json:"callSid"`
		AccountSid       string            `json:"accountSid"`
		Tracks           []string          `json:"tracks"`
		MediaFormat      MediaFormat       `json:"mediaFormat"`
		CustomParameters map[string]string `json:"customParameters"`
	} `json:"start"`
	Media *struct {
		Track     string `json:"track"`
		Timestamp string `json:"timestamp"`
		Payload   string `json:"payload"`
	} `json:"media"`
	Stop *struct {
		CallSid string `json:"callSid"`
	} `json:"stop"`
	Mark *struct {
		Name string `json:"name"`
	} `json:"mark"`
	DTMF *struct {
		Digit string `json:"digit"`
	} `json:"dtmf"`
}

// DecodeFrame turns one socket message into a typed frame. Unknown events
// return (nil, nil).
func DecodeFrame(raw []byte) (Frame, error) {
	var w wireFrame
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	switch w.Event {
	case "connected":
		return ConnectedFrame{Protocol: w.Protocol}, nil
	case "start":
		if w.Start == nil {
			return nil, fmt.Errorf("%w: start without body", ErrMalformedFrame)
		}
		sid := w.Start.StreamSid
		if sid == "" {
			sid = w.StreamSid
		}
		return StartFrame{
			StreamSid:        sid,
			CallSid:          w.Start.CallSid,
			AccountSid:       w.Start.AccountSid,
			Tracks:           w.Start.Tracks,
			MediaFormat:      w.Start.MediaFormat,
			CustomParameters: w.Start.CustomParameters,
		}, nil
	case "media":
		if w.Media == nil {
			return nil, fmt.Errorf("%w: media without body", ErrMalformedFrame)
		}
		payload, err := audio.Base64ToBytes(w.Media.Payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
		}
		return MediaFrame{Track: w.Media.Track, Timestamp: w.Media.Timestamp, Payload: payload}, nil
	case "stop":
		f := StopFrame{StreamSid: w.StreamSid}
		if w.Stop != nil {
			f.CallSid = w.Stop.CallSid
		}
		return f, nil
	case "mark":
		f := MarkFrame{}
		if w.Mark != nil {
			f.Name = w.Mark.Name
		}
		return f, nil
	case "dtmf":
		f := DTMFFrame{}
		if w.DTMF != nil {
			f.Digit = w.DTMF.Digit
		}
		return f, nil
	case "":
		return nil, fmt.Errorf("%w: missing event", ErrMalformedFrame)
	default:
		return nil, nil
	}
}

type outboundMedia struct {
	Event     string `json:"event"`
	StreamSid string `json:"streamSid"`
	Media     struct {
		Payload string `json:"payload"`
	} `json:"media"`
}

type outboundMark struct {
	Event     string `json:"event"`
	StreamSid string `json:"streamSid"`
	Mark      struct {
		Name string `json:"name"`
	} `json:"mark"`
}

type outboundClear struct {
	Event     string `json:"event"`
	StreamSid string `json:"streamSid"`
}
