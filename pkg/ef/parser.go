package ef

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gambitproject/draw-tree/pkg/geometry"
	"github.com/gambitproject/draw-tree/pkg/tikz"
)

// payUp is the fraction of \paydown by which the first payoff row is
// shifted up.
const payUp = 0.1

// Config holds the per-conversion drawing options.
type Config struct {
	Scale    float64 // picture scale, valid in [0.01, 100]
	Grid     bool    // show the green helper grid
	Radius   float64 // information-set outline radius in cm
	SingleX  float64 // singleton outline x elongation
	SingleY  float64 // singleton outline y elongation
	Comments bool    // echo input lines as comments
}

// DefaultConfig returns the standard drawing options.
func DefaultConfig() Config {
	return Config{
		Scale:    1,
		Radius:   tikz.DefaultRadius,
		SingleX:  tikz.DefaultSingleX,
		SingleY:  tikz.DefaultSingleY,
		Comments: true,
	}
}

// Parser converts description lines into a TikZ picture. All state is
// local to the instance; create a fresh Parser per conversion.
type Parser struct {
	cfg Config

	nodes   map[NodeID]*Node
	order   []NodeID // insertion order, for deterministic glyph output
	xshifts map[string]float64

	playerName    [MaxPlayer + 1]string
	playerDefined [MaxPlayer + 1]bool

	// head holds the picture preamble and information-set outlines,
	// body everything else; the final output is head followed by body.
	head []string
	body []string
}

// New creates a Parser with the given options.
func New(cfg Config) *Parser {
	p := &Parser{
		cfg:     cfg,
		nodes:   make(map[NodeID]*Node),
		xshifts: make(map[string]float64),
	}
	p.playerName = defaultPlayerName
	return p
}

// Run converts the input lines into the complete tikzpicture text.
func (p *Parser) Run(lines []string) string {
	p.head = append(p.head, "\\begin{tikzpicture}[scale="+strconv.FormatFloat(p.cfg.Scale, 'g', -1, 64))
	p.head = append(p.head, "  , StealthFill/.tip={Stealth[line width=.7pt,inset=0pt,length=13pt,angle'=30]}]")
	gridPrefix := ""
	if !p.cfg.Grid {
		gridPrefix = "% "
	}
	p.head = append(p.head, gridPrefix+"\\draw [help lines, color=green] (-5,0) grid (5,-6);")

	for _, line := range lines {
		p.comment(line)
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		switch words[0] {
		case "player":
			p.parsePlayer(words)
		case "level":
			p.level(words)
		case "iset":
			p.iset(words)
		}
	}

	p.drawNodes()
	p.body = append(p.body, "\\end{tikzpicture}")

	all := make([]string, 0, len(p.head)+len(p.body))
	all = append(all, p.head...)
	all = append(all, p.body...)
	return strings.Join(all, "\n")
}

func (p *Parser) out(s string)     { p.body = append(p.body, s) }
func (p *Parser) outHead(s string) { p.head = append(p.head, s) }

func (p *Parser) comment(s string) {
	if p.cfg.Comments {
		p.out("%% " + s)
	}
}

func (p *Parser) errorf(format string, args ...any) {
	p.out("% ----- Error: " + fmt.Sprintf(format, args...))
}

func (p *Parser) errorHead(format string, args ...any) {
	p.outHead("% ----- Error: " + fmt.Sprintf(format, args...))
}

// definePlayer emits the TeX definition for a player's label the first
// time the player is used or after a renaming.
func (p *Parser) definePlayer(n int) {
	if !p.playerDefined[n] {
		p.out("\\def\\" + playerTeXName[n] + "{" + p.playerName[n] + "}")
		p.playerDefined[n] = true
	}
}

// parsePlayer handles "player <n> [name <label>]", both as a standalone
// directive and inside level or iset lines. It returns the parsed player
// number (-1 on failure) and how many words were consumed.
func (p *Parser) parsePlayer(words []string) (int, int) {
	player := -1
	advance := len(words)
	if len(words) < 2 {
		p.errorf("need player number after 'player'")
		return player, advance
	}
	x, err := strconv.Atoi(words[1])
	if err != nil {
		p.errorf("need player number after 'player'")
		return player, advance
	}
	if x < 0 || x > MaxPlayer {
		p.errorf("need player number in 0..%d after 'player'", MaxPlayer)
		return player, 2
	}
	player = x
	advance = 2
	if len(words) > 2 && words[2] == "name" {
		if len(words) == 3 {
			p.errorf("player name needed after 'name'")
			return player, len(words)
		}
		p.playerName[player] = words[3]
		p.playerDefined[player] = false
		advance = 4
	}
	p.definePlayer(player)
	return player, advance
}

// splitNumText splits a leading number off a string: "2.3abc" gives
// (2.3, "abc"), ".1b" gives (0.1, "b"). Without a numeric prefix the
// coefficient defaults to 1.
func splitNumText(s string) (float64, string) {
	noDotYet := true
	num := ""
	rest := ""
	for i, c := range s {
		if noDotYet && c == '.' {
			noDotYet = false
			num += "."
		} else if c >= '0' && c <= '9' {
			num += string(c)
		} else {
			rest = s[i:]
			break
		}
	}
	if num != "" && num != "." {
		f, _ := strconv.ParseFloat(num, 64)
		return f, rest
	}
	return 1, rest
}

// parseXShift handles "xshift <arg>". The argument is an optional minus
// sign followed by either a plain number, a name with optional
// coefficient ("2a"), or an assignment ("a=1.5", "2a=1.5") that also
// records the name for later use. It returns the resulting shift, the
// coefficient used as positioning factor for move labels, and the
// number of words consumed.
func (p *Parser) parseXShift(words []string) (float64, float64, int) {
	xs := 0.0
	if len(words) < 2 {
		p.errorf("need specification after 'xshift'")
		return xs, 1, len(words)
	}
	s := words[1]
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	parts := strings.SplitN(s, "=", 2)
	var num, coeff float64
	if len(parts) > 1 {
		val, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			p.errorf("assigment '%s' must be a number", parts[1])
			return xs, 1, len(words)
		}
		var name string
		coeff, name = splitNumText(parts[0])
		if _, ok := p.xshifts[name]; ok {
			p.comment(fmt.Sprintf("Warning: xshift '%s' re-defined to %s",
				name, strconv.FormatFloat(val, 'g', -1, 64)))
		}
		p.xshifts[name] = val
		num = val * coeff
	} else {
		var name string
		coeff, name = splitNumText(parts[0])
		if name != "" {
			val, ok := p.xshifts[name]
			if !ok {
				p.errorf("xshift '%s' undefined", name)
				return xs, 1, len(words)
			}
			num = coeff * val
		} else {
			num = coeff
			coeff = 1 // bare number, factor unused
		}
	}
	var factor float64
	if geometry.NearlyZero(num) {
		xs = 0
		if geometry.NearlyZero(coeff) {
			factor = 1
		} else {
			factor = coeff
		}
	} else {
		factor = coeff
		if neg {
			xs = -num
		} else {
			xs = num
		}
	}
	return xs, factor, 2
}

// parseFrom handles "from <level>,<id>", resolving the parent node.
func (p *Parser) parseFrom(words []string) (NodeID, bool, int) {
	if len(words) < 2 {
		p.errorf("need node name after 'from'")
		return NodeID{}, false, len(words)
	}
	id := p.cleanNodeID(words[1])
	if _, ok := p.nodes[id]; !ok {
		p.errorf("node %s after 'from' is not defined", id)
		return NodeID{}, false, len(words)
	}
	return id, true, 2
}

// parseMove handles "move[:l|r[:<pos>]] <label>". The optional colon
// parts pin the label side and its position along the edge.
func (p *Parser) parseMove(words []string) (string, string, float64, int) {
	mov := ""
	movpos := ""
	convex := -1.0
	parts := strings.Split(words[0], ":")
	if len(parts) > 1 {
		movpos = strings.ToLower(string((parts[1] + " ")[0]))
	}
	if len(parts) > 2 {
		num, err := strconv.ParseFloat(parts[2], 64)
		if err != nil || num < 0 || num > 1 {
			p.errorf("Move position in [0,1] required")
		} else {
			convex = num
		}
	}
	if len(words) < 2 {
		p.errorf("need move name after 'move'")
		return mov, movpos, convex, len(words)
	}
	return words[1], movpos, convex, 2
}

// parseArrow handles "arrow[:<color>] <pos>".
func (p *Parser) parseArrow(words []string) (float64, string, int) {
	color := ""
	parts := strings.Split(words[0], ":")
	if len(parts) > 1 {
		color = parts[1]
	}
	pos := 0.5
	if len(words) < 2 {
		p.errorf("Arrow position in [0,1] required, using 0.5")
		return pos, color, 2
	}
	num, err := strconv.ParseFloat(words[1], 64)
	if err != nil || num < 0 || num > 1 {
		p.errorf("Arrow position in [0,1] required, using 0.5")
	} else {
		pos = num
	}
	return pos, color, 2
}

// parsePayoffs renders the trailing payoff list as stacked node labels.
// Negative payoffs get a phantom minus appended so the digits align
// with non-negative entries above and below.
func (p *Parser) parsePayoffs(words []string) []string {
	maxp := len(words)
	if len(words) > MaxPlayer+1 {
		p.errorf("too many payoffs, discard %s", strings.Join(words[MaxPlayer+1:], " "))
		maxp = MaxPlayer + 1
	}
	var list []string
	for i := 1; i < maxp; i++ {
		t := "   node[below,yshift=" + tikz.Num(payUp-float64(i-1)) + "\\paydown] {$" + words[i]
		if strings.HasPrefix(words[i], "-") {
			t += "{\\phantom-}"
		}
		t += "$\\strut}"
		list = append(list, t)
	}
	return list
}

// cleanNodeID normalizes a "level,name" reference, substituting safe
// defaults for malformed parts.
func (p *Parser) cleanNodeID(s string) NodeID {
	parts := strings.Split(s, ",")
	name := ""
	if len(parts) < 2 {
		p.errorf("missing comma in '%s', using empty node id", s)
	} else {
		name = parts[1]
	}
	lev, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		p.errorf("Level must be a number, using 0")
		lev = 0
	}
	return MakeNodeID(lev, name)
}

// level handles a "level" directive: it registers the node and emits
// the edge to its parent, the player and move labels, arrows and
// payoffs.
func (p *Parser) level(words []string) {
	if len(words) < 2 {
		p.errorf("Level must be a number")
		return
	}
	lev, err := strconv.ParseFloat(words[1], 64)
	if err != nil {
		p.errorf("Level must be a number")
		return
	}
	if len(words) < 3 || words[2] != "node" {
		p.errorf("Expected 'node' keyword")
		return
	}
	if len(words) < 4 {
		p.errorf("Expected node name")
		return
	}
	id := MakeNodeID(lev, words[3])

	player := -1
	xs := 0.0
	factor := 1.0 // positions the move label along the edge
	var from NodeID
	hasFrom := false
	mov := ""
	movpos := ""
	convex := -1.0
	var pay []string
	var arrowPos []float64
	var arrowColor []string

	count := 4
	for count < len(words) {
		w := words[count]
		switch {
		case w == "player":
			var adv int
			player, adv = p.parsePlayer(words[count:])
			count += adv
		case w == "xshift":
			var adv int
			xs, factor, adv = p.parseXShift(words[count:])
			count += adv
		case w == "from":
			var adv int
			from, hasFrom, adv = p.parseFrom(words[count:])
			count += adv
		case strings.HasPrefix(w, "move"):
			var adv int
			mov, movpos, convex, adv = p.parseMove(words[count:])
			count += adv
		case strings.HasPrefix(w, "arrow"):
			pos, color, adv := p.parseArrow(words[count:])
			arrowPos = append(arrowPos, pos)
			arrowColor = append(arrowColor, color)
			count += adv
		case w == "payoffs":
			pay = p.parsePayoffs(words[count:])
			count = len(words)
		default:
			p.errorf("unknown keyword %s", w)
			count++
		}
	}

	var xx, xfrom, yfrom float64
	parent, existsFrom := p.nodes[from]
	existsFrom = existsFrom && hasFrom
	if existsFrom {
		xfrom = parent.Pos.X
		yfrom = parent.Pos.Y
		xx = xfrom + xs
	} else {
		xx = xs
	}
	yy := -lev

	n := &Node{
		Pos:     geometry.Point{X: xx, Y: yy},
		Player:  player,
		XShift:  xs,
		Move:    mov,
		From:    from,
		HasFrom: hasFrom,
		// the root is always drawn; other nodes only without payoffs
		Inner: len(pay) == 0 || lev == 0,
	}
	if _, ok := p.nodes[id]; !ok {
		p.order = append(p.order, id)
	}
	p.nodes[id] = n

	s := "\\draw [line width=\\treethickn] " + tikz.Coord(xx, yy)
	if player >= 0 && p.playerName[player] != "" {
		// player label right of the node, left when shifted leftward
		if existsFrom && xs < 0 {
			s += " node[left,xshift=-"
		} else {
			s += " node[right,xshift="
		}
		s += "\\spx,yshift=\\spy] {\\" + playerTeXName[player] + "\\strut}"
	}
	p.out(s)
	p.body = append(p.body, pay...)

	if !existsFrom {
		p.out("   ;")
		return
	}
	p.out("   -- " + tikz.Coord(xfrom, yfrom) + ";")

	// move label along the edge
	if convex < 0 {
		convex = 0.5 / factor
	}
	xmove := xx*convex + xfrom*(1-convex)
	ymove := yy*convex + yfrom*(1-convex)
	s = "\\draw " + tikz.Coord(xmove, ymove)
	var side string
	switch {
	case movpos == "r":
		side = "right,xshift=0.0cm"
	case movpos == "l":
		side = "left,xshift=0.0cm"
	case xs > 0:
		side = "right"
	default:
		side = "left"
	}
	s += " node[" + side + ",yshift="
	if strings.Contains(mov, "frac") {
		s += "\\yfracup"
	} else {
		s += "\\yup"
	}
	s += "] {$" + mov + "$\\strut};"
	p.out(s)

	for i, pos := range arrowPos {
		xtip := xfrom*(1-pos) + xx*pos
		ytip := yfrom*(1-pos) + yy*pos
		xback := xfrom*(1.01-pos) + xx*(pos-0.01)
		yback := yfrom*(1.01-pos) + yy*(pos-0.01)
		color := arrowColor[i]
		if color != "" {
			color = "[fill=" + color + "]"
		}
		p.out("\\draw [-{StealthFill" + color + "}]" +
			tikz.Coord(xback, yback) + " -- " + tikz.Coord(xtip, ytip) + ";")
	}
}

// iset handles an "iset" directive: it draws the outline around the
// listed nodes and places the owning player's label.
func (p *Parser) iset(words []string) {
	var nodeList []geometry.Point
	player := -1
	where := 0 // token index where "player" appeared
	count := 1
	for count < len(words) {
		if words[count] == "player" {
			var adv int
			player, adv = p.parsePlayer(words[count:])
			where = count
			count += adv
			continue
		}
		id := p.cleanNodeID(words[count])
		if n, ok := p.nodes[id]; ok {
			nodeList = append(nodeList, n.Pos)
		} else {
			p.errorHead("%s :", strings.Join(words, " "))
			p.errorHead("Node '%s' in iset not defined", id)
		}
		count++
	}
	if len(nodeList) == 0 {
		p.errorHead("%s :", strings.Join(words, " "))
		p.errorHead("No valid nodes in iset")
		return
	}
	outline := tikz.Outline{
		Radius:  p.cfg.Radius / p.cfg.Scale,
		SingleX: p.cfg.SingleX,
		SingleY: p.cfg.SingleY,
	}
	p.outHead(outline.Draw(nodeList))

	if player < 0 || p.playerName[player] == "" {
		return
	}
	if len(nodeList) == 1 {
		n := nodeList[0]
		p.out("\\draw " + tikz.Coord(n.X, n.Y) +
			" node[right,xshift=\\spx,yshift=\\spy] {\\" + playerTeXName[player] + "} ;")
		return
	}
	// place the label at the midpoint of the pair of members preceding
	// the "player" token
	if where > len(nodeList) {
		where = len(nodeList)/2 + 1
	}
	if where < 2 {
		where = 2
	}
	n1 := nodeList[where-2]
	n2 := nodeList[where-1]
	p.out("\\draw " + tikz.Coord((n1.X+n2.X)/2, (n1.Y+n2.Y)/2) +
		" node[xshift=0.0cm] {\\" + playerTeXName[player] + "} ;")
}

// drawNodes emits the glyphs for all inner nodes in declaration order:
// a filled square for chance, a filled disk for personal players.
func (p *Parser) drawNodes() {
	for _, id := range p.order {
		n := p.nodes[id]
		if !n.Inner {
			continue
		}
		out := "\\node[inner sep=0pt,minimum size="
		if n.Player == 0 {
			out += "\\sqwidth,draw,fill=\\chancecolor,shape=rectangle] at "
		} else {
			out += "\\ndiam, draw, fill, shape=circle] at "
		}
		out += tikz.CoordPoint(n.Pos) + " {};"
		p.out(out)
	}
}
