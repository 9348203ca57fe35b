package tokenize

import (
	"strings"

	"postag/model"
)

// Token represents a token / morpheme produced by the tokenizer.
type Token = model.Token

// Feature field positions. Unknown words in the IPA dictionary carry fewer
// fields than known ones, so extra is often absent.
const (
	posField     = 0
	subtypeField = 1
	extraField   = 7
)

// Extract normalizes one unit's raw nodes into tokens. Begin/end markers are
// skipped. Missing feature fields become model.Placeholder instead of being
// read out of range.
func Extract(nodes []model.RawNode, mode model.ExtractMode) []Token {
	return AppendExtract(make([]Token, 0, len(nodes)), nodes, mode)
}

// AppendExtract is Extract appending to dst.
func AppendExtract(dst []Token, nodes []model.RawNode, mode model.ExtractMode) []Token {
	for _, n := range nodes {
		if n.Status != model.Ordinary {
			continue
		}
		features := strings.Split(n.Feature, ",")
		t := Token{
			Surface: n.Surface,
			POS:     field(features, posField),
		}
		if mode == model.ExtractFull {
			t.Subtype = field(features, subtypeField)
			t.Extra = field(features, extraField)
		}
		dst = append(dst, t)
	}
	return dst
}

// field returns features[i], or the placeholder when the analyzer did not
// emit that many fields. An empty feature string splits into one empty
// field, which is kept as is.
func field(features []string, i int) string {
	if i < len(features) {
		return features[i]
	}
	return model.Placeholder
}
