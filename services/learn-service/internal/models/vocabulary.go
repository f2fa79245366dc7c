package models

import (
	"bytes"
	"encoding/json"
)

// VocabularyForm tells which shape a lesson vocabulary payload had
type VocabularyForm int

const (
	// VocabularyUnknown is any payload that is not a recognised shape, including NULL
	VocabularyUnknown VocabularyForm = iota
	// VocabularyList is a JSON array of {"word": ...} entries
	VocabularyList
	// VocabularyWrapped is a JSON object with a "words" array of {"word": ...} entries
	VocabularyWrapped
)

// String returns a readable name of the form
func (f VocabularyForm) String() string {
	switch f {
	case VocabularyList:
		return "list"
	case VocabularyWrapped:
		return "wrapped"
	default:
		return "unknown"
	}
}

// Vocabulary is a lesson vocabulary payload resolved once when it is read
type Vocabulary struct {
	Form  VocabularyForm
	Words []string
}

type vocabularyEntry struct {
	Word any `json:"word"`
}

// ParseVocabulary resolves a raw vocabulary payload.
// Entries whose "word" is missing or not a string are skipped.
func ParseVocabulary(raw []byte) Vocabulary {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Vocabulary{Form: VocabularyUnknown}
	}

	switch raw[0] {
	case '[':
		var entries []json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			return Vocabulary{Form: VocabularyUnknown}
		}
		return Vocabulary{Form: VocabularyList, Words: entryWords(entries)}
	case '{':
		var wrapper struct {
			Words json.RawMessage `json:"words"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return Vocabulary{Form: VocabularyUnknown}
		}
		var entries []json.RawMessage
		if err := json.Unmarshal(wrapper.Words, &entries); err != nil || entries == nil {
			return Vocabulary{Form: VocabularyUnknown}
		}
		return Vocabulary{Form: VocabularyWrapped, Words: entryWords(entries)}
	default:
		return Vocabulary{Form: VocabularyUnknown}
	}
}

// entryWords extracts the string "word" field of each entry
func entryWords(entries []json.RawMessage) []string {
	words := make([]string, 0, len(entries))
	for _, raw := range entries {
		var entry vocabularyEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		if word, ok := entry.Word.(string); ok {
			words = append(words, word)
		}
	}
	return words
}
