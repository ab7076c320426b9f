package runtime

import (
	"sort"
	"strings"
)

// Messages holds the fixed user-facing texts of the engine.
// Entries ending in "Prefix" or holding a %s verb are composed with other text.
type Messages struct {
	InvalidCode         string
	FlowUnavailable     string
	InternalError       string
	StoreUnavailable    string
	GenericFailure      string
	EmptyAnswer         string
	InvalidChoicePrefix string
	InvalidFormat       string // %s is the expected format
	Confirmation        string // %s is the chosen option
	Outro               string
	AlreadyParticipated string
}

// Locale bundles messages with the keywords that start a flow.
type Locale struct {
	Name string
	// StartKeywords restart the flow from its first question.
	StartKeywords []string
	// CommandKeyword prefixes a campaign code: "<keyword> <code>".
	CommandKeyword string
	Messages       Messages
}

var locales = map[string]Locale{
	"en": {
		Name:           "en",
		StartKeywords:  []string{"participate", "start", "sign"},
		CommandKeyword: "start",
		Messages: Messages{
			InvalidCode:         "Invalid campaign code.",
			FlowUnavailable:     "This campaign is not available right now.",
			InternalError:       "Internal error: current question not found.",
			StoreUnavailable:    "We could not save your answer. Please try again in a moment.",
			GenericFailure:      "Something went wrong while processing your message.",
			EmptyAnswer:         "Please send an answer.",
			InvalidChoicePrefix: "❌ Invalid answer. Choose one of the options below:",
			InvalidFormat:       "❌ Invalid format. Expected: %s",
			Confirmation:        "✔️ You chose: %s",
			Outro:               "Thank you for taking part!",
			AlreadyParticipated: "You have already taken part in this campaign. Thank you!",
		},
	},
	"pt-BR": {
		Name:           "pt-BR",
		StartKeywords:  []string{"participar", "começar", "assinar"},
		CommandKeyword: "começar",
		Messages: Messages{
			InvalidCode:         "Código de campanha inválido.",
			FlowUnavailable:     "Erro ao carregar campanha.",
			InternalError:       "Erro interno: pergunta atual não encontrada.",
			StoreUnavailable:    "Não foi possível salvar sua resposta. Tente novamente em instantes.",
			GenericFailure:      "Ocorreu um erro ao processar sua mensagem.",
			EmptyAnswer:         "Por favor, envie uma resposta.",
			InvalidChoicePrefix: "❌ Resposta inválida. Escolha uma das opções abaixo:",
			InvalidFormat:       "❌ Formato inválido. Esperado: %s",
			Confirmation:        "✔️ Você escolheu: %s",
			Outro:               "Obrigado por participar da pesquisa!",
			AlreadyParticipated: "Você já participou desta campanha. Obrigado!",
		},
	},
}

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en"

// LookupLocale returns a built-in locale by name (case-insensitive).
func LookupLocale(name string) (Locale, bool) {
	for key, l := range locales {
		if strings.EqualFold(key, name) {
			return l, true
		}
	}
	return Locale{}, false
}

// LocaleNames lists the built-in locales, sorted.
func LocaleNames() []string {
	names := make([]string, 0, len(locales))
	for name := range locales {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsStartKeyword reports whether text is one of the locale's start keywords.
func (l Locale) IsStartKeyword(text string) bool {
	text = strings.TrimSpace(text)
	for _, kw := range l.StartKeywords {
		if strings.EqualFold(kw, text) {
			return true
		}
	}
	return false
}

// ParseStartCommand extracts the campaign code from "<command keyword> <code>".
// The code is returned upper-cased.
func (l Locale) ParseStartCommand(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) != 2 || l.CommandKeyword == "" {
		return "", false
	}
	if !strings.EqualFold(fields[0], l.CommandKeyword) {
		return "", false
	}
	return strings.ToUpper(fields[1]), true
}
