package highlight

import (
	"errors"
	"testing"
)

func TestLexerSourceUnknownGrammar(t *testing.T) {
	src := NewLexerSource()

	_, err := src.Captures("text", "no-such-grammar-xyz")
	if !errors.Is(err, ErrNoGrammar) {
		t.Errorf("expected ErrNoGrammar, got %v", err)
	}
}

func TestLexerSourceGo(t *testing.T) {
	src := NewLexerSource()

	captures, err := src.Captures("if x { return }", "go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(captures) == 0 {
		t.Fatal("expected captures for go source")
	}

	var sawIf bool
	for _, c := range captures {
		if c.Text == "if" && c.Group == "keyword" {
			sawIf = true
			if c.Row != 0 || c.StartCol != 0 || c.EndCol != 2 {
				t.Errorf("expected if at row 0 range [0,2), got row %d range [%d,%d)",
					c.Row, c.StartCol, c.EndCol)
			}
		}
	}
	if !sawIf {
		t.Error("expected a keyword capture for 'if'")
	}
}

func TestLexerSourceRowsAndColumns(t *testing.T) {
	src := NewLexerSource()

	captures, err := src.Captures("// note\nx = 1", "go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sawComment, sawNumber bool
	for _, c := range captures {
		if c.Group == "comment" {
			sawComment = true
			if c.Row != 0 {
				t.Errorf("expected comment on row 0, got %d", c.Row)
			}
		}
		if c.Group == "number" && c.Text == "1" {
			sawNumber = true
			if c.Row != 1 {
				t.Errorf("expected number on row 1, got %d", c.Row)
			}
			if c.StartCol != 4 || c.EndCol != 5 {
				t.Errorf("expected number at range [4,5), got [%d,%d)", c.StartCol, c.EndCol)
			}
		}
	}
	if !sawComment {
		t.Error("expected a comment capture on the first row")
	}
	if !sawNumber {
		t.Error("expected a number capture on the second row")
	}
}
