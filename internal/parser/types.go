package parser

// Unit is one scanned source file, keyed by its qualified (dotted) name.
// Units are immutable after the scan that created them.
type Unit struct {
	Name       string // qualified dotted name, e.g. "pkg.core"
	Path       string // absolute file path
	Imports    []ImportDecl
	IsPackage  bool // true for __init__.py
	LineCount  int
	ParseError string // non-empty when the file could not be parsed
}

// ImportDecl is a single raw import statement as extracted from source.
// Level counts the leading dots of a relative import; 0 means absolute.
type ImportDecl struct {
	Module     string   // dotted module path; may be empty for "from . import x"
	Names      []string // imported names
	Line       int
	IsFrom     bool
	IsRelative bool
	Level      int
}
