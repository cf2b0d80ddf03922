package twilio

import (
	"fmt"
	"strconv"

	"github.com/twilio/twilio-go/twiml"
)

// Participant labels that tell human and AI conference legs apart.
const (
	LabelHumanAgent = "human agent"
	LabelAIAgent    = "ai agent"
	LabelGuest      = "guest"
)

// StreamTwiML connects the call to our media WebSocket, passing the caller number as a parameter.
func StreamTwiML(streamURL, callerNumber string) (string, error) {
	stream := twiml.VoiceStream{
		Name: "callbridge",
		Url:  streamURL,
		InnerElements: []twiml.Element{
			twiml.VoiceParameter{Name: "callerNumber", Value: callerNumber},
		},
	}
	connect := twiml.VoiceConnect{InnerElements: []twiml.Element{stream}}
	return twiml.Voice([]twiml.Element{connect})
}

// StaffPromptTwiML reads the hand-off summary to staff and waits for one keypress.
// If nothing is pressed the leg says goodbye and hangs up.
func StaffPromptTwiML(summary, language, actionURL string, timeoutSeconds int) (string, error) {
	gather := twiml.VoiceGather{
		Action:    actionURL,
		Method:    "POST",
		NumDigits: "1",
		Timeout:   strconv.Itoa(timeoutSeconds),
		InnerElements: []twiml.Element{
			twiml.VoiceSay{Message: summary, Language: language},
			twiml.VoiceSay{Message: staffPrompt(language), Language: language},
		},
	}
	return twiml.Voice([]twiml.Element{
		gather,
		twiml.VoiceSay{Message: staffGoodbye(language), Language: language},
		twiml.VoiceHangup{},
	})
}

// ConferenceTwiML places the call into the named conference with a participant label.
func ConferenceTwiML(name, label, statusCallbackURL string, endOnExit bool) (string, error) {
	attrs := map[string]string{
		"participantLabel":       label,
		"startConferenceOnEnter": "true",
		"endConferenceOnExit":    strconv.FormatBool(endOnExit),
		"beep":                   "false",
	}
	if statusCallbackURL != "" {
		attrs["statusCallback"] = statusCallbackURL
		attrs["statusCallbackEvent"] = "join leave end"
		attrs["statusCallbackMethod"] = "POST"
	}
	conference := twiml.VoiceConference{Name: name, OptionalAttributes: attrs}
	dial := twiml.VoiceDial{InnerElements: []twiml.Element{conference}}
	return twiml.Voice([]twiml.Element{dial})
}

// SayTwiML speaks one message and hangs up.
func SayTwiML(message, language string) (string, error) {
	return twiml.Voice([]twiml.Element{
		twiml.VoiceSay{Message: message, Language: language},
		twiml.VoiceHangup{},
	})
}

func staffPrompt(language string) string {
	switch language {
	case "es", "es-ES":
		return "Pulse cualquier tecla para atender a este cliente."
	case "fr", "fr-FR":
		return "Appuyez sur une touche pour prendre cet appel."
	default:
		return "Press any key to take this call."
	}
}

func staffGoodbye(language string) string {
	switch language {
	case "es", "es-ES":
		return "No se ha recibido respuesta. Adiós."
	case "fr", "fr-FR":
		return "Aucune réponse reçue. Au revoir."
	default:
		return "No response received. Goodbye."
	}
}

// SummaryForStaff is the sentence read to staff before the keypress prompt.
func SummaryForStaff(guestPhone, summary string) string {
	if guestPhone == "" {
		return fmt.Sprintf("A guest needs help: %s.", summary)
	}
	return fmt.Sprintf("A guest at %s needs help: %s.", guestPhone, summary)
}
