// Package ef parses the line-oriented extensive-form tree description
// language and emits the TikZ picture drawing it.
//
// The language has three directives. "player" declares a player number
// with an optional display name, "level" places a node at a vertical
// level with optional shift, parent edge, move label, arrows and
// payoffs, and "iset" outlines an information set around previously
// declared nodes. All parsing state lives on a Parser instance, so
// independent conversions never observe each other.
package ef

import (
	"os"
	"strings"

	"github.com/gambitproject/draw-tree/pkg/geometry"
	"github.com/gambitproject/draw-tree/pkg/tikz"
)

// MaxPlayer is the highest personal player number; player 0 is chance.
const MaxPlayer = 4

// playerTeXName maps player numbers to the TeX macro names holding
// their display labels.
var playerTeXName = [MaxPlayer + 1]string{
	"playerzero", "playerone", "playertwo", "playerthree", "playerfour",
}

// defaultPlayerName holds the display names used until a player is
// renamed. Player 0 is the chance player.
var defaultPlayerName = [MaxPlayer + 1]string{
	"\\small chance", "1", "2", "3", "4",
}

// NodeID identifies a node by its formatted level and its name. The
// level is stored as its formatted string so that "from" references
// and declarations agree on identity regardless of how the number was
// written (e.g. "1", "1.0" and "1.000" are the same level).
type NodeID struct {
	Level string
	Name  string
}

// MakeNodeID builds the identifier for a node at the given level.
func MakeNodeID(level float64, name string) NodeID {
	return NodeID{Level: tikz.Num(level), Name: name}
}

// String renders the identifier in the "level,name" form used by the
// input language.
func (id NodeID) String() string {
	return id.Level + "," + id.Name
}

// Node is a declared tree node.
type Node struct {
	Pos     geometry.Point
	Player  int // -1 when no player was given
	XShift  float64
	Move    string
	From    NodeID
	HasFrom bool
	Inner   bool // drawn as a glyph (no payoffs, or the root)
}

// ReadLines reads a description file, returning its non-blank lines
// with surrounding whitespace stripped.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out, nil
}
