package assemble

import "postag/model"

// IsBoundary reports whether a token surface ends a sentence. Only an exact
// ASCII or full-width period counts.
func IsBoundary(surface string) bool {
	return surface == "." || surface == "。"
}

// Tabular flattens every unit into long-format rows. doc_id counts units
// from 1. sentence_id and token_id restart at 1 for each unit, and token_id
// restarts after every boundary token.
func Tabular(rs model.ResultSet) *model.Table {
	n := 0
	for _, toks := range rs {
		n += len(toks)
	}
	table := &model.Table{
		Columns: append([]string(nil), model.TabularColumns...),
		Rows:    make([]model.TabularRow, 0, n),
	}
	for doc, toks := range rs {
		sentence, token := 1, 1
		for _, t := range toks {
			table.Rows = append(table.Rows, model.TabularRow{
				DocID:      doc + 1,
				SentenceID: sentence,
				TokenID:    token,
				Token:      t.Surface,
				POS:        t.POS,
				Subtype:    t.Subtype,
				Analytic:   t.Extra,
			})
			token++
			if IsBoundary(t.Surface) {
				sentence++
				token = 1
			}
		}
	}
	return table
}
