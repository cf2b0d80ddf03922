package tools

import (
	"fmt"
	"strings"
)

type messageKey int

const (
	msgMissing messageKey = iota
	msgInvalid
	msgInvalidFormat
	msgOutsideHours
	msgGuestRange
	msgPastDate
	msgNegative
	msgEmpty
	msgServiceUnavailable
	msgRejected
	msgTransferStarted
	msgTransferUnavailable
	msgTransferFailed
	msgLanguageSwitched
	msgLanguageUnsupported
	msgUnknownTool
)

var catalogue = map[string]map[messageKey]string{
	"en": {
		msgMissing:             "Missing information: %s.",
		msgInvalid:             "Please check: %s.",
		msgInvalidFormat:       "%s has an invalid format",
		msgOutsideHours:        "%s is outside opening hours (%s)",
		msgGuestRange:          "%s must be between %d and %d",
		msgPastDate:            "%s is in the past",
		msgNegative:            "%s cannot be negative",
		msgEmpty:               "%s cannot be empty",
		msgServiceUnavailable:  "The booking system cannot be reached right now. Apologise and offer to take a message.",
		msgRejected:            "The request could not be completed: %s",
		msgTransferStarted:     "A member of staff is being called now. Ask the guest to stay on the line.",
		msgTransferUnavailable: "Nobody from the staff can be reached right now. Keep helping the guest yourself.",
		msgTransferFailed:      "The staff hand-off did not connect (%s). Tell the guest and keep helping them yourself.",
		msgLanguageSwitched:    "Language switched to %s.",
		msgLanguageUnsupported: "Language %s is not supported. Supported languages: %s.",
		msgUnknownTool:         "Unknown tool %s.",
	},
	"es": {
		msgMissing:             "Faltan datos: %s.",
		msgInvalid:             "Revise: %s.",
		msgInvalidFormat:       "%s tiene un formato no válido",
		msgOutsideHours:        "%s está fuera del horario (%s)",
		msgGuestRange:          "%s debe estar entre %d y %d",
		msgPastDate:            "%s ya ha pasado",
		msgNegative:            "%s no puede ser negativo",
		msgEmpty:               "%s no puede estar vacío",
		msgServiceUnavailable:  "El sistema de reservas no está disponible ahora mismo. Discúlpate y ofrece tomar nota.",
		msgRejected:            "No se pudo completar la solicitud: %s",
		msgTransferStarted:     "Estamos llamando a un miembro del personal. Pide al cliente que no cuelgue.",
		msgTransferUnavailable: "No hay personal disponible ahora mismo. Sigue ayudando al cliente.",
		msgTransferFailed:      "La transferencia al personal no se completó (%s). Infórmalo al cliente y sigue ayudándole.",
		msgLanguageSwitched:    "Idioma cambiado a %s.",
		msgLanguageUnsupported: "El idioma %s no está disponible. Idiomas disponibles: %s.",
		msgUnknownTool:         "Herramienta desconocida %s.",
	},
	"fr": {
		msgMissing:             "Informations manquantes : %s.",
		msgInvalid:             "Veuillez vérifier : %s.",
		msgInvalidFormat:       "%s a un format invalide",
		msgOutsideHours:        "%s est en dehors des horaires d'ouverture (%s)",
		msgGuestRange:          "%s doit être entre %d et %d",
		msgPastDate:            "%s est déjà passé",
		msgNegative:            "%s ne peut pas être négatif",
		msgEmpty:               "%s ne peut pas être vide",
		msgServiceUnavailable:  "Le système de réservation est injoignable pour le moment. Excusez-vous et proposez de prendre un message.",
		msgRejected:            "La demande n'a pas pu aboutir : %s",
		msgTransferStarted:     "Un membre du personnel est en cours d'appel. Demandez au client de rester en ligne.",
		msgTransferUnavailable: "Aucun membre du personnel n'est joignable. Continuez à aider le client.",
		msgTransferFailed:      "Le transfert vers le personnel a échoué (%s). Prévenez le client et continuez à l'aider.",
		msgLanguageSwitched:    "Langue changée en %s.",
		msgLanguageUnsupported: "La langue %s n'est pas prise en charge. Langues disponibles : %s.",
		msgUnknownTool:         "Outil inconnu %s.",
	},
}

// baseLanguage reduces "es-ES" or "ES" to "es".
func baseLanguage(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if i := strings.IndexAny(language, "-_"); i > 0 {
		language = language[:i]
	}
	return language
}

func message(language string, key messageKey, args ...interface{}) string {
	texts, ok := catalogue[baseLanguage(language)]
	if !ok {
		texts = catalogue["en"]
	}
	format, ok := texts[key]
	if !ok {
		format = catalogue["en"][key]
	}
	return fmt.Sprintf(format, args...)
}

// TransferFailedMessage is injected into the AI session when a hand-off ends in Failed.
func TransferFailedMessage(language, reason string) string {
	return message(language, msgTransferFailed, reason)
}
