package translate

import (
	"context"
	"log"
	"strings"
	"unicode/utf8"
)

// Translator converts text into the target language (a language name or
// BCP 47 tag such as "es").
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// Noop returns text unchanged. Used when no translation backend is configured.
type Noop struct{}

func (Noop) Translate(_ context.Context, text, _ string) (string, error) { return text, nil }

// OrOriginal translates text and falls back to the source text on any failure.
// Empty text is returned as is without calling the translator.
func OrOriginal(ctx context.Context, tr Translator, text, target string) string {
	if tr == nil || strings.TrimSpace(text) == "" || target == "" {
		return text
	}
	out, err := tr.Translate(ctx, text, target)
	if err != nil {
		log.Printf("[WARN] translation to %s failed, keeping original: %v", target, err)
		return text
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return text
	}
	return out
}

// Brief shortens text to at most limit characters. When the text is longer,
// it is cut at the last sentence boundary (". ") inside the limit and ends
// with a period.
func Brief(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	cut := string([]rune(text)[:limit])
	if i := strings.LastIndex(cut, ". "); i >= 0 {
		cut = cut[:i]
	}
	cut = strings.TrimRight(cut, " .")
	return cut + "."
}
