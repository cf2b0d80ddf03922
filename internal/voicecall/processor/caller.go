package processor

import (
	"regexp"
	"strings"

	"callbridge/internal/clients/openai"
)

// identityHeaders are searched in order for the caller's number.
var identityHeaders = []string{"From", "P-Asserted-Identity", "Remote-Party-ID"}

const guestCallSidHeader = "X-Twilio-CallSid"

var phoneDigits = regexp.MustCompile(`(?:^|\D)(\d{8,15})(?:\D|$)`)

// CallerPhone pulls an E.164-looking number out of the free-text SIP identity
// headers. When no 8-15 digit run is found it returns the first identity value
// as-is and ok=false.
func CallerPhone(headers []openai.SIPHeader) (phone string, ok bool) {
	var raw string
	for _, name := range identityHeaders {
		value := headerValue(headers, name)
		if value == "" {
			continue
		}
		if raw == "" {
			raw = value
		}
		if phone, ok := NormalisePhone(value); ok {
			return phone, true
		}
	}
	return raw, false
}

// NormalisePhone applies the same rule to a single value.
func NormalisePhone(value string) (string, bool) {
	if m := phoneDigits.FindStringSubmatch(value); m != nil {
		return "+" + m[1], true
	}
	return value, false
}

func headerValue(headers []openai.SIPHeader, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return strings.TrimSpace(h.Value)
		}
	}
	return ""
}
