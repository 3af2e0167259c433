package translation

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ContainsHan reports whether text has a character in the CJK Unified Ideographs block.
func ContainsHan(text string) bool {
	for _, r := range text {
		if r >= 0x4E00 && r <= 0x9FFF {
			return true
		}
	}
	return false
}

// ForGroup translates a group message.
//
// Text containing Chinese script is translated into every selected language
// concurrently; the results keep selection order. Any other text is translated
// once into reverseTarget.
func ForGroup(ctx context.Context, tr Translator, text string, selection []string, reverseTarget string) []string {
	if !ContainsHan(text) {
		return []string{tr.Translate(ctx, text, reverseTarget)}
	}

	results := make([]string, len(selection))
	var g errgroup.Group
	for i, lang := range selection {
		g.Go(func() error {
			results[i] = tr.Translate(ctx, text, lang)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
