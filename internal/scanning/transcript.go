package scanning

import (
	"strings"
)

// noTextMarker is what the vision models are told to answer for blank images
const noTextMarker = "NO_TEXT"

// transcribePrompt is the shared prompt used by all LLM engines for reading receipts
const transcribePrompt = `You are reading a photograph of a receipt or invoice. Transcribe every piece of printed text you can see, from top to bottom, one receipt line per output line.

Important:
- Copy the text exactly as printed, including numbers, currency symbols, dates and punctuation
- Do not summarize, translate, correct or reorder anything
- Do not add commentary, headings or explanations
- Do not use markdown code blocks
- If the image contains no readable text, reply with exactly NO_TEXT`

// cleanTranscript strips the wrapping an LLM sometimes adds around a transcription
func cleanTranscript(text string) string {
	text = strings.TrimSpace(text)

	// Remove markdown code blocks if present
	if strings.HasPrefix(text, "```") {
		if nl := strings.IndexByte(text, '\n'); nl != -1 {
			text = text[nl+1:]
		} else {
			text = strings.TrimPrefix(text, "```")
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	if strings.EqualFold(text, noTextMarker) {
		return ""
	}
	return text
}

// NormalizeText turns raw engine output into the single string the
// pipeline works on: LF line endings, no trailing spaces, no blank lines.
func NormalizeText(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	lines := strings.Split(raw, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\f\v")
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
