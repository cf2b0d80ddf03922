// Package audio converts between the telephony leg's G.711 framing and the
// AI session's audio encodings.
package audio

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// Format is an audio encoding negotiated with the AI session.
type Format string

const (
	FormatPCMU  Format = "audio/pcmu" // G.711 mu-law, 8 kHz
	FormatPCMA  Format = "audio/pcma" // G.711 a-law, 8 kHz
	FormatPCM16 Format = "audio/pcm"  // linear 16-bit little-endian, 24 kHz
)

const (
	// TelephonySampleRate is the G.711 sample rate used by the media leg.
	TelephonySampleRate = 8000
	// PCM16SampleRate is the sample rate of linear PCM emitted by the AI session.
	PCM16SampleRate = 24000
	// FrameSize is one 20 ms G.711 frame at 8 kHz, 1 byte per sample.
	FrameSize = 160
)

var ErrUnsupportedFormat = errors.New("unsupported audio format")

// ParseFormat validates a configured format string.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatPCMU, FormatPCMA, FormatPCM16:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ToAI converts an inbound 8 kHz mu-law telephony payload to the format
// negotiated with the AI session.
func ToAI(mulaw []byte, to Format) ([]byte, error) {
	switch to {
	case FormatPCMU:
		return mulaw, nil
	case FormatPCMA:
		out := make([]byte, len(mulaw))
		for i, b := range mulaw {
			out[i] = linearToAlaw(mulawToLinear(b))
		}
		return out, nil
	case FormatPCM16:
		return Upsample(MuLawToPCM16(mulaw), PCM16SampleRate/TelephonySampleRate), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, to)
	}
}

// ToTelephony converts AI output audio in the given format to 8 kHz mu-law.
func ToTelephony(payload []byte, from Format) ([]byte, error) {
	switch from {
	case FormatPCMU:
		return payload, nil
	case FormatPCMA:
		out := make([]byte, len(payload))
		for i, b := range payload {
			out[i] = linearToMulaw(alawToLinear(b))
		}
		return out, nil
	case FormatPCM16:
		return PCM16ToMuLaw(Decimate(payload, PCM16SampleRate/TelephonySampleRate)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, from)
	}
}

// PCM16ToMuLaw encodes little-endian 16-bit samples with the G.711 mu-law.
// A dangling odd byte is ignored.
func PCM16ToMuLaw(pcm []byte) []byte {
	mulaw := make([]byte, len(pcm)/2)
	for i := 0; i+1 < len(pcm); i += 2 {
		sample := int16(uint16(pcm[i]) | uint16(pcm[i+1])<<8)
		mulaw[i/2] = linearToMulaw(sample)
	}
	return mulaw
}

// MuLawToPCM16 decodes mu-law bytes into little-endian 16-bit samples.
func MuLawToPCM16(mulaw []byte) []byte {
	pcm := make([]byte, len(mulaw)*2)
	for i, b := range mulaw {
		sample := mulawToLinear(b)
		pcm[i*2] = byte(sample)
		pcm[i*2+1] = byte(uint16(sample) >> 8)
	}
	return pcm
}

// Decimate keeps one 16-bit sample out of every factor. Nearest-neighbour only;
// there is no anti-alias filter, intelligibility over 8 kHz telephony is enough.
func Decimate(pcm []byte, factor int) []byte {
	if factor <= 1 {
		return pcm
	}
	samples := len(pcm) / 2
	out := make([]byte, 0, (samples/factor+1)*2)
	for i := 0; i+1 < len(pcm); i += 2 * factor {
		out = append(out, pcm[i], pcm[i+1])
	}
	return out
}

// Upsample repeats every 16-bit sample factor times. The inverse of Decimate.
func Upsample(pcm []byte, factor int) []byte {
	if factor <= 1 {
		return pcm
	}
	out := make([]byte, 0, len(pcm)/2*2*factor)
	for i := 0; i+1 < len(pcm); i += 2 {
		for range factor {
			out = append(out, pcm[i], pcm[i+1])
		}
	}
	return out
}

// Frames slices buf into frames of size bytes. The trailing partial frame is kept.
func Frames(buf []byte, size int) [][]byte {
	if size <= 0 || len(buf) == 0 {
		return nil
	}
	frames := make([][]byte, 0, (len(buf)+size-1)/size)
	for start := 0; start < len(buf); start += size {
		end := start + size
		if end > len(buf) {
			end = len(buf)
		}
		frames = append(frames, buf[start:end])
	}
	return frames
}

func Base64ToBytes(base64String string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(base64String)
}

func BytesToBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func mulawToLinear(mulawByte byte) int16 {
	const bias = 0x84

	mulawByte = ^mulawByte
	sign := mulawByte & 0x80
	exponent := (mulawByte >> 4) & 0x07
	mantissa := mulawByte & 0x0F

	sample := (int32(mantissa)<<3 + bias) << exponent
	sample -= bias

	if sign != 0 {
		return int16(-sample)
	}
	return int16(sample)
}

func linearToMulaw(sample int16) byte {
	const bias = 0x84
	const clip = 32635

	s := int32(sample)
	sign := byte(0)
	if s < 0 {
		sign = 0x80
		s = -s
	}
	if s > clip {
		s = clip
	}
	s += bias

	exponent := byte(7)
	for mask := int32(0x4000); exponent > 0 && s&mask == 0; mask >>= 1 {
		exponent--
	}
	mantissa := byte((s >> (exponent + 3)) & 0x0F)

	return ^(sign | exponent<<4 | mantissa)
}

func alawToLinear(alawByte byte) int16 {
	a := alawByte ^ 0x55
	sign := a & 0x80
	exponent := (a >> 4) & 0x07
	mantissa := int32(a & 0x0F)

	var sample int32
	if exponent == 0 {
		sample = mantissa<<4 + 8
	} else {
		sample = (mantissa<<4 + 0x108) << (exponent - 1)
	}
	if sign == 0 {
		return int16(-sample)
	}
	return int16(sample)
}

func linearToAlaw(sample int16) byte {
	const clip = 32635

	s := int32(sample)
	sign := byte(0x80)
	if s < 0 {
		sign = 0
		s = -s
	}
	if s > clip {
		s = clip
	}

	var out byte
	if s < 256 {
		out = byte(s >> 4)
	} else {
		exponent := byte(1)
		for v := s >> 8; v > 1; v >>= 1 {
			exponent++
		}
		mantissa := byte((s >> (exponent + 3)) & 0x0F)
		out = exponent<<4 | mantissa
	}
	return (sign | out) ^ 0x55
}
