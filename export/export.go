// Package export writes batch outputs as JSON, CSV/TSV or SQLite.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"postag/model"
)

// Write encodes out to w in format: json, csv or tsv. SQLite goes through
// OpenSQLite since it needs a file rather than a stream.
func Write(w io.Writer, format string, out model.Output) error {
	switch format {
	case "json":
		return JSON(w, out)
	case "csv":
		return Delimited(w, ',', out)
	case "tsv":
		return Delimited(w, '\t', out)
	default:
		return fmt.Errorf("export: unsupported stream format %q", format)
	}
}

// JSON writes out as indented JSON. Keyed shapes become ordered arrays of
// {"text", "tokens"} objects, so duplicate texts keep their own entries.
func JSON(w io.Writer, out model.Output) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Header returns the column names Delimited writes for mode.
func Header(mode model.Mode) []string {
	switch mode {
	case model.ModeJoin:
		return []string{"doc_id", "text", "token_id", "token"}
	case model.ModeSimple:
		return []string{"doc_id", "text", "token_id", "token", "pos"}
	case model.ModeFull:
		return []string{"doc_id", "text", "token_id", "token", "pos", "subtype", "analytic"}
	default:
		return append([]string(nil), model.TabularColumns...)
	}
}

// Delimited writes one row per token with a header line.
func Delimited(w io.Writer, comma rune, out model.Output) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	if err := cw.Write(Header(out.Mode)); err != nil {
		return err
	}

	itoa := strconv.Itoa
	switch out.Mode {
	case model.ModeJoin:
		for i, e := range out.Join {
			for j, t := range e.Tokens {
				if err := cw.Write([]string{itoa(i + 1), e.Text, itoa(j + 1), t}); err != nil {
					return err
				}
			}
		}
	case model.ModeSimple:
		for i, e := range out.Tagged {
			for j, t := range e.Tokens {
				if err := cw.Write([]string{itoa(i + 1), e.Text, itoa(j + 1), t.Surface, t.POS}); err != nil {
					return err
				}
			}
		}
	case model.ModeFull:
		for i, e := range out.Documents {
			for j, t := range e.Tokens {
				if err := cw.Write([]string{itoa(i + 1), e.Text, itoa(j + 1), t.Surface, t.POS, t.Subtype, t.Extra}); err != nil {
					return err
				}
			}
		}
	case model.ModeTabular:
		if out.Table != nil {
			for _, r := range out.Table.Rows {
				rec := []string{itoa(r.DocID), itoa(r.SentenceID), itoa(r.TokenID), r.Token, r.POS, r.Subtype, r.Analytic}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
	default:
		return fmt.Errorf("export: unknown mode %q", out.Mode)
	}
	cw.Flush()
	return cw.Error()
}
