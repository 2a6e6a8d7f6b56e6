package layout

import (
	"reflect"
	"strings"
	"testing"

	"github.com/gambitproject/draw-tree/pkg/efg"
)

func linesFor(t *testing.T, input ...string) []string {
	t.Helper()
	records, players := efg.Parse(input)
	return New(records, players).Lines()
}

func TestLinesSimplePlayerTree(t *testing.T) {
	got := linesFor(t,
		`EFG 2 R "G" { "Alice" "Bob" }`,
		`p "" 1 1 "" { "L" "R" } 0`,
		`t "" 1 "" { 1, 2 }`,
		`t "" 2 "" { 3, 4 }`,
	)
	want := []string{
		"player 1 name Alice",
		"player 2 name Bob",
		"level 0 node 1 player 1",
		"level 2 node 1 xshift -3.58 from 0,1 move L payoffs 1 2",
		"level 2 node 2 xshift 3.58 from 0,1 move R payoffs 3 4",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestLinesChanceRootFractions(t *testing.T) {
	got := linesFor(t,
		`EFG 2 R "G" { "Alice" "Bob" }`,
		`c "" 1 "" { "H" 1/2 "T" 1/2 } 0`,
		`t "" 1 "" { 1, -1 }`,
		`t "" 2 "" { -1, 1 }`,
	)
	joined := strings.Join(got, "\n")
	if !strings.Contains(joined, "level 0 node 1 player 0 ") {
		t.Errorf("missing chance root line:\n%s", joined)
	}
	if !strings.Contains(joined, `move H~(\frac{1}{2})`) {
		t.Errorf("probability should be fraction markup, not a decimal:\n%s", joined)
	}
	if strings.Contains(joined, "(0.5)") {
		t.Errorf("probability rendered as decimal:\n%s", joined)
	}
}

func TestLinesDeterministic(t *testing.T) {
	input := []string{
		`EFG 2 R "G" { "Alice" "Bob" }`,
		`c "" 1 "" { "a" "b" "c" "d" } 0`,
		`p "" 1 1 "" { "l" "r" } 0`,
		`t "" 1 "" { 1, 0 }`,
		`t "" 2 "" { 0, 1 }`,
		`p "" 1 1 "" { "l" "r" } 0`,
		`t "" 3 "" { 2, 0 }`,
		`t "" 4 "" { 0, 2 }`,
		`p "" 1 2 "" { "l" "r" } 0`,
		`t "" 5 "" { 3, 0 }`,
		`t "" 6 "" { 0, 3 }`,
		`p "" 1 2 "" { "l" "r" } 0`,
		`t "" 7 "" { 4, 0 }`,
		`t "" 8 "" { 0, 4 }`,
	}
	records, players := efg.Parse(input)
	first := New(records, players).Lines()
	records2, players2 := efg.Parse(input)
	second := New(records2, players2).Lines()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two runs differ:\n%s\n---\n%s",
			strings.Join(first, "\n"), strings.Join(second, "\n"))
	}
}

func TestLinesISetCollisionSeparated(t *testing.T) {
	// two two-member information sets of player 1 both land on level 2;
	// the lower-keyed set keeps the level, the other moves between its
	// parents and children
	got := linesFor(t,
		`EFG 2 R "G" { "Alice" "Bob" }`,
		`c "" 1 "" { "a" "b" "c" "d" } 0`,
		`p "" 1 1 "" { "l" "r" } 0`,
		`t "" 1 "" { 1, 0 }`,
		`t "" 2 "" { 0, 1 }`,
		`p "" 1 1 "" { "l" "r" } 0`,
		`t "" 3 "" { 2, 0 }`,
		`t "" 4 "" { 0, 2 }`,
		`p "" 1 2 "" { "l" "r" } 0`,
		`t "" 5 "" { 3, 0 }`,
		`t "" 6 "" { 0, 3 }`,
		`p "" 1 2 "" { "l" "r" } 0`,
		`t "" 7 "" { 4, 0 }`,
		`t "" 8 "" { 0, 4 }`,
	)
	joined := strings.Join(got, "\n")
	if !strings.Contains(joined, "iset 2,2 2,1 player 1") {
		t.Errorf("first group should keep level 2:\n%s", joined)
	}
	if !strings.Contains(joined, "iset 3,4 3,3 player 1") {
		t.Errorf("second group should move to level 3:\n%s", joined)
	}
	// members of multi-member sets carry no player field on their lines
	for _, line := range got {
		if strings.HasPrefix(line, "level 2 node") || strings.HasPrefix(line, "level 3 node") {
			if strings.Contains(line, "player") {
				t.Errorf("info-set member line should not name a player: %q", line)
			}
		}
	}
}

func TestLinesMissingChildBecomesEmptyTerminal(t *testing.T) {
	// the second move of the root has no record; an empty terminal is
	// synthesized for it
	got := linesFor(t,
		`EFG 1 R "G" { "Alice" }`,
		`p "" 1 1 "" { "L" "R" } 0`,
		`t "" 1 "" { 1 }`,
	)
	joined := strings.Join(got, "\n")
	if !strings.Contains(joined, "move R payoffs") {
		t.Errorf("missing synthesized terminal for move R:\n%s", joined)
	}
	for _, line := range got {
		if strings.Contains(line, "move R payoffs") && !strings.HasSuffix(line, "payoffs ") {
			t.Errorf("synthesized terminal should have empty payoffs: %q", line)
		}
	}
}

func TestFormatShift(t *testing.T) {
	tests := []struct {
		x      float64
		chosen bool
		want   string
	}{
		{-3.58, true, "-3.58"},
		{4.18, true, "4.18"},
		{2.205, true, "2.205"},
		{0.45, true, "0.45"},
		{-0.5967, false, "-0.60"},
		{1.19333, false, "1.19"},
		{2.0, false, "2"},
	}
	for _, tt := range tests {
		if got := formatShift(tt.x, tt.chosen); got != tt.want {
			t.Errorf("formatShift(%v, %v) = %q, want %q", tt.x, tt.chosen, got, tt.want)
		}
	}
}
