// Package render assembles the generated picture into LaTeX documents
// and compiles them to PDF or PNG with external tools.
package render

import "strings"

// macros are the dimension and color definitions the picture code
// relies on. Kept inline so generated files compile without a support
// style file.
var macros = []string{
	"\\newcommand\\chancecolor{red}",
	"\\newdimen\\ndiam",
	"\\ndiam1.5mm",
	"\\newdimen\\sqwidth",
	"\\sqwidth1.6mm",
	"\\newdimen\\spx",
	"\\spx.7mm",
	"\\newdimen\\spy",
	"\\spy.5mm",
	"\\newdimen\\yup",
	"\\yup0.5mm",
	"\\newdimen\\yfracup",
	"\\yfracup1mm",
	"\\newdimen\\paydown",
	"\\paydown2.5ex",
	"\\newdimen\\treethickn",
	"\\treethickn1pt",
}

// WithMacros prefixes a tikzpicture with the library imports, style
// settings and macro definitions it needs, yielding a self-contained
// TikZ fragment. source names the input file in a comment.
func WithMacros(picture, source string) string {
	var b strings.Builder
	b.WriteString(`% TikZ code with built-in styling for game trees
% TikZ libraries required for game trees
\usetikzlibrary{shapes}
\usetikzlibrary{arrows.meta}

% Style settings for game tree formatting
\tikzset{
    every node/.append style={font=\rmfamily},
    every text node part/.append style={align=center},
    node distance=1.5mm,
    thick
}

% Built-in macro definitions for game tree drawing
`)
	for _, m := range macros {
		b.WriteString(m)
		b.WriteString("\n")
	}
	b.WriteString("\n% Game tree content from " + source + "\n")
	b.WriteString(picture)
	return b.String()
}

// Document wraps a TikZ fragment into a standalone LaTeX article.
func Document(tikz string) string {
	return `\documentclass[a4paper,12pt]{article}
\usepackage{newpxtext,newpxmath}
\linespread{1.10}        % Palatino needs more leading (space between lines)
\usepackage{graphicx}
\usepackage{tikz}
\usetikzlibrary{shapes}
\usetikzlibrary{arrows.meta}
\oddsidemargin=.46cm
\textwidth=15cm
\textheight=24cm
\topmargin=-1.3cm
\parindent 0pt
\parskip1ex
\pagestyle{empty}

\begin{document}

\hrule

` + tikz + `

\hrule

\end{document}
`
}
