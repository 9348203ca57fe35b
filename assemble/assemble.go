// Package assemble reshapes per-unit token sequences into the output shapes
// of a batch call. Every strategy preserves input order.
package assemble

import (
	"fmt"

	"postag/model"
)

// Assemble builds the output for mode. texts and rs must have the same
// length; texts are the keys of the keyed shapes.
func Assemble(mode model.Mode, texts []string, rs model.ResultSet) (model.Output, error) {
	if len(texts) != len(rs) {
		return model.Output{}, fmt.Errorf("assemble: %d texts but %d results", len(texts), len(rs))
	}
	out := model.Output{Mode: mode}
	switch mode {
	case model.ModeJoin:
		out.Join = Join(texts, rs)
	case model.ModeSimple:
		out.Tagged = Tagged(texts, rs)
	case model.ModeFull:
		out.Documents = Documents(texts, rs)
	case model.ModeTabular:
		out.Table = Tabular(rs)
	default:
		return model.Output{}, fmt.Errorf("assemble: unknown mode %q", mode)
	}
	return out, nil
}

// Join renders each unit as a flat list of "surface/pos" strings.
func Join(texts []string, rs model.ResultSet) []model.JoinEntry {
	out := make([]model.JoinEntry, len(rs))
	for i, toks := range rs {
		joined := make([]string, len(toks))
		for j, t := range toks {
			joined[j] = t.Joined()
		}
		out[i] = model.JoinEntry{Text: texts[i], Tokens: joined}
	}
	return out
}

// Tagged renders each unit as surfaces labelled with their part of speech.
func Tagged(texts []string, rs model.ResultSet) []model.TaggedEntry {
	out := make([]model.TaggedEntry, len(rs))
	for i, toks := range rs {
		tagged := make([]model.TaggedSurface, len(toks))
		for j, t := range toks {
			tagged[j] = model.TaggedSurface{Surface: t.Surface, POS: t.POS}
		}
		out[i] = model.TaggedEntry{Text: texts[i], Tokens: tagged}
	}
	return out
}

// Documents keeps every extracted field, keyed by text.
func Documents(texts []string, rs model.ResultSet) []model.DocumentEntry {
	out := make([]model.DocumentEntry, len(rs))
	for i, toks := range rs {
		out[i] = model.DocumentEntry{Text: texts[i], Tokens: append([]model.Token{}, toks...)}
	}
	return out
}
