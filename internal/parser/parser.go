package parser

import (
	"bytes"
	"fmt"
	"path/filepath"
)

// Parser turns Python source into a Unit with its raw import declarations.
// A file that fails to parse still yields a Unit carrying the failure reason,
// so a broken file never aborts a scan.
type Parser struct {
	loader *GrammarLoader
}

func NewParser(loader *GrammarLoader) *Parser {
	return &Parser{loader: loader}
}

// ParseUnit extracts import declarations from content. The returned Unit is
// always non-nil; ParseError is set when extraction failed.
func (p *Parser) ParseUnit(name, path string, content []byte) *Unit {
	unit := &Unit{
		Name:      name,
		Path:      path,
		IsPackage: filepath.Base(path) == "__init__.py",
		LineCount: lineCount(content),
	}

	grammar := p.loader.Language("python")
	if grammar == nil {
		unit.ParseError = "grammar not loaded: python"
		return unit
	}

	decls, err := extractImports(grammar, content)
	if err != nil {
		unit.ParseError = fmt.Sprintf("syntax error: %v", err)
		return unit
	}
	unit.Imports = decls

	return unit
}

func lineCount(content []byte) int {
	if len(content) == 0 {
		return 1
	}
	return bytes.Count(content, []byte("\n")) + 1
}
