package gateway

import (
	"fmt"
	"strings"
)

const (
	transcribeInstruction = "Transcribe this audio accurately. Return only the transcript text, keeping the speaker's original language."

	negotiationInstruction = "You are an experienced B2B trade negotiation coach for OUROZ, a Moroccan wholesale marketplace connecting buyers with artisans and manufacturers. " +
		"Read the conversation and the user's draft reply. Give concise, practical advice: assess the draft's tone and leverage, flag risky commitments on price, MOQ, lead time or payment terms, and propose an improved reply."

	documentInstruction = "You are a trade compliance analyst. Extract the key facts from this document: document type, issuing party, parties involved, reference numbers, dates, product descriptions, quantities, HS codes and certifications. " +
		"Then list any missing, expired or inconsistent information that would block export or customs clearance."

	visualInstruction = "You are a product quality inspector for a B2B marketplace. Describe the product in this image, estimate materials, finish and craftsmanship, " +
		"list visible defects, and state whether it looks suitable for a wholesale catalogue listing."

	imageEditInstruction = "Edit the supplied product image as instructed. Keep the product itself recognisable."
)

var languageNames = map[string]string{
	"en": "English",
	"fr": "French",
	"ar": "Arabic",
}

// replyLanguageHint asks the model to answer in the caller's locale.
func replyLanguageHint(locale string) string {
	base, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(locale)), "-")
	name, ok := languageNames[base]
	if !ok {
		return ""
	}
	return fmt.Sprintf("Reply in %s.", name)
}

func withLanguageHint(instruction, locale string) string {
	if hint := replyLanguageHint(locale); hint != "" {
		return instruction + "\n\n" + hint
	}
	return instruction
}

func negotiationPrompt(history, draft string) string {
	var b strings.Builder
	b.WriteString("Conversation so far:\n")
	if h := strings.TrimSpace(history); h != "" {
		b.WriteString(h)
	} else {
		b.WriteString("(no previous messages)")
	}
	b.WriteString("\n\nMy draft reply:\n")
	if d := strings.TrimSpace(draft); d != "" {
		b.WriteString(d)
	} else {
		b.WriteString("(no draft yet, suggest an opening message)")
	}
	return b.String()
}

func editPrompt(instruction string) string {
	return imageEditInstruction + "\n\n" + strings.TrimSpace(instruction)
}
