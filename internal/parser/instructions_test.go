package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/CaptShanks/cratestack/internal/crane"
)

func TestParseInstructions(t *testing.T) {
	input := "move 13 from 8 to 7\n\n  move 0 from 1 to 2  \nmove 2 from 9 to 1"
	moves, err := ParseInstructions(input)
	if err != nil {
		t.Fatalf("Failed to parse instructions: %v", err)
	}

	want := []crane.Move{
		{Count: 13, From: 7, To: 6, Line: 1},
		{Count: 0, From: 0, To: 1, Line: 3},
		{Count: 2, From: 8, To: 0, Line: 4},
	}
	if len(moves) != len(want) {
		t.Fatalf("Expected %d moves, got %d", len(want), len(moves))
	}
	for i := range want {
		if moves[i] != want[i] {
			t.Errorf("Move %d: expected %+v, got %+v", i, want[i], moves[i])
		}
	}
}

func TestParseInstructionsErrors(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantMsg string
	}{
		{"non-numeric count", "move x from 1 to 2", `couldn't parse "x" as an integer`},
		{"non-numeric source", "move 1 from one to 2", `couldn't parse "one" as an integer`},
		{"too few tokens", "move 1 from 2", "expected \"move <count> from <source> to <destination>\""},
		{"too many tokens", "move 1 from 2 to 3 4", "expected \"move <count>"},
		{"wrong keyword", "take 1 from 2 to 3", `expected "move", found "take"`},
		{"wrong second keyword", "move 1 off 2 to 3", `expected "from", found "off"`},
		{"negative count", "move -1 from 2 to 3", "crate count -1 is negative"},
		{"zero label", "move 1 from 0 to 3", "stack label 0 must be 1 or greater"},
		{"self move", "move 1 from 2 to 2", "source and destination stacks must differ (both 2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "move 1 from 1 to 2\n" + tt.line
			_, err := ParseInstructions(input)
			if !errors.Is(err, ErrInstruction) {
				t.Fatalf("Expected ErrInstruction, got %v", err)
			}
			var lineErr *LineError
			if !errors.As(err, &lineErr) {
				t.Fatalf("Expected *LineError, got %T", err)
			}
			if lineErr.Line != 2 {
				t.Errorf("Expected line 2, got %d", lineErr.Line)
			}
			if lineErr.Text != tt.line {
				t.Errorf("Expected offending text %q, got %q", tt.line, lineErr.Text)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Expected message to contain %q, got: %v", tt.wantMsg, err)
			}
		})
	}
}

func TestParseRejectsSelfMoveInInput(t *testing.T) {
	input := "[A] [B]\n 1   2\n\nmove 1 from 1 to 2\nmove 1 from 2 to 2\n"
	_, err := Parse(input, 9)
	var lineErr *LineError
	if !errors.As(err, &lineErr) {
		t.Fatalf("Expected *LineError, got %v", err)
	}
	if lineErr.Kind != ErrInstruction || lineErr.Line != 5 {
		t.Errorf("Expected instruction error on line 5, got %v", err)
	}
}
