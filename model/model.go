package model

import "fmt"

// Placeholder stands in for any feature field the analyzer did not emit.
const Placeholder = "*"

// NodeStatus marks whether a raw node is a real morpheme or a lattice boundary.
type NodeStatus int

const (
	Ordinary NodeStatus = iota
	BeginOfSentence
	EndOfSentence
)

// RawNode is one morpheme as emitted by the analyzer, before normalization.
type RawNode struct {
	Surface string
	Feature string
	Status  NodeStatus
}

// Token represents one tagged morpheme.
type Token struct {
	Surface string `json:"surface"`
	POS     string `json:"pos"`
	Subtype string `json:"subtype"`
	Extra   string `json:"extra"`
}

// Joined renders the token as "surface/pos".
func (t Token) Joined() string {
	return t.Surface + "/" + t.POS
}

// ExtractMode selects which feature fields survive extraction.
type ExtractMode int

const (
	ExtractJoin ExtractMode = iota
	ExtractSimple
	ExtractFull
)

func (m ExtractMode) String() string {
	switch m {
	case ExtractJoin:
		return "join"
	case ExtractSimple:
		return "simple"
	case ExtractFull:
		return "full"
	default:
		return fmt.Sprintf("ExtractMode(%d)", int(m))
	}
}

// Mode is the output shape requested from a batch call.
type Mode string

const (
	ModeJoin    Mode = "join"
	ModeSimple  Mode = "simple"
	ModeFull    Mode = "full"
	ModeTabular Mode = "tabular"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeJoin, ModeSimple, ModeFull, ModeTabular:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want join, simple, full or tabular)", s)
	}
}

// Extraction returns the field selection a mode needs.
func (m Mode) Extraction() ExtractMode {
	switch m {
	case ModeJoin:
		return ExtractJoin
	case ModeSimple:
		return ExtractSimple
	default:
		return ExtractFull
	}
}

// ResultSet holds one token sequence per input unit, indexed by input position.
type ResultSet [][]Token

// TaggedSurface is a surface string labelled with its part of speech.
type TaggedSurface struct {
	Surface string `json:"surface"`
	POS     string `json:"pos"`
}

// JoinEntry is the join-mode result for one input text.
type JoinEntry struct {
	Text   string   `json:"text"`
	Tokens []string `json:"tokens"`
}

// TaggedEntry is the simple-mode result for one input text.
type TaggedEntry struct {
	Text   string          `json:"text"`
	Tokens []TaggedSurface `json:"tokens"`
}

// DocumentEntry is the full-mode result for one input text.
type DocumentEntry struct {
	Text   string  `json:"text"`
	Tokens []Token `json:"tokens"`
}

// TabularRow is one token in long format.
type TabularRow struct {
	DocID      int    `json:"doc_id"`
	SentenceID int    `json:"sentence_id"`
	TokenID    int    `json:"token_id"`
	Token      string `json:"token"`
	POS        string `json:"pos"`
	Subtype    string `json:"subtype"`
	Analytic   string `json:"analytic"`
}

// TabularColumns is the fixed column order of a Table.
var TabularColumns = []string{"doc_id", "sentence_id", "token_id", "token", "pos", "subtype", "analytic"}

// Table is the tabular output shape.
type Table struct {
	Columns []string     `json:"columns"`
	Rows    []TabularRow `json:"rows"`
}

// Output carries exactly one populated shape, selected by Mode.
type Output struct {
	Mode      Mode            `json:"mode"`
	Join      []JoinEntry     `json:"join,omitempty"`
	Tagged    []TaggedEntry   `json:"tagged,omitempty"`
	Documents []DocumentEntry `json:"documents,omitempty"`
	Table     *Table          `json:"table,omitempty"`
}

// Len reports the number of entries (keyed modes) or rows (tabular).
func (o Output) Len() int {
	switch o.Mode {
	case ModeJoin:
		return len(o.Join)
	case ModeSimple:
		return len(o.Tagged)
	case ModeFull:
		return len(o.Documents)
	case ModeTabular:
		if o.Table == nil {
			return 0
		}
		return len(o.Table.Rows)
	}
	return 0
}
