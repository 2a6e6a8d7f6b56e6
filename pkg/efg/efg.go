// Package efg reads the generic game-tree text format (Gambit-style
// .efg files): a header naming the players followed by preorder node
// records tagged c (chance), p (player) or t (terminal).
package efg

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gambitproject/draw-tree/pkg/ef"
)

// Record is one parsed node record in preorder.
type Record struct {
	Kind    string   // "c", "p" or "t"
	Player  int      // owning player for "p" records, -1 otherwise
	ISet    int      // information-set id for "p" records, -1 otherwise
	Moves   []string // move labels, for "c" and "p"
	Probs   []string // probabilities as written ("1/2", "0.3"), for "c"
	Payoffs []int    // payoffs in player order, for "t"
	Raw     string   // the source line
}

var (
	headerBraceRe = regexp.MustCompile(`(?s)\{\s*(.*?)\s*\}`)
	quotedRe      = regexp.MustCompile(`"([^"]+)"`)
	braceRe       = regexp.MustCompile(`\{([^}]*)\}`)
	moveRe        = regexp.MustCompile(`"([^"\\]*)"`)
	numberRe      = regexp.MustCompile(`[0-9]+/[0-9]+|[0-9]*\.?[0-9]+`)
	payoffRe      = regexp.MustCompile(`-?\d+`)
)

// Parse extracts the player names and node records from the input
// lines. Comment lines starting with % or # are skipped; records with
// unknown tags are dropped.
func Parse(lines []string) ([]*Record, []string) {
	var playerNames []string
	header := strings.Join(lines[:min(5, len(lines))], "\n")
	if m := headerBraceRe.FindStringSubmatch(header); m != nil {
		for _, q := range quotedRe.FindAllStringSubmatch(m[1], -1) {
			playerNames = append(playerNames, q[1])
		}
	}

	var records []*Record
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "%") || strings.HasPrefix(line, "#") {
			continue
		}
		tokens := strings.Fields(line)
		kind := tokens[0]
		if kind != "c" && kind != "p" && kind != "t" {
			continue
		}
		r := &Record{Kind: kind, Player: -1, ISet: -1, Raw: line}
		brace := braceRe.FindStringSubmatch(line)
		switch kind {
		case "c", "p":
			if brace != nil {
				for _, m := range moveRe.FindAllStringSubmatch(brace[1], -1) {
					r.Moves = append(r.Moves, m[1])
				}
				r.Probs = numberRe.FindAllString(brace[1], -1)
			}
			if kind == "p" {
				// first integer token after the tag is the player,
				// the second the information-set id
				var nums []int
				for _, t := range tokens[1:] {
					if n, err := strconv.Atoi(t); err == nil && isDigits(t) {
						nums = append(nums, n)
					}
				}
				if len(nums) >= 1 {
					r.Player = nums[0]
				}
				if len(nums) >= 2 {
					r.ISet = nums[1]
				}
			}
		case "t":
			if brace != nil {
				for _, m := range payoffRe.FindAllString(brace[1], -1) {
					n, err := strconv.Atoi(m)
					if err != nil {
						continue
					}
					r.Payoffs = append(r.Payoffs, n)
				}
			}
		}
		records = append(records, r)
	}
	return records, playerNames
}

// ParseFile reads and parses an .efg file.
func ParseFile(path string) ([]*Record, []string, error) {
	lines, err := ef.ReadLines(path)
	if err != nil {
		return nil, nil, err
	}
	records, players := Parse(lines)
	return records, players, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
