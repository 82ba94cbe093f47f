package parser

import (
	"errors"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// extractImports walks a parsed Python syntax tree and collects every
// import statement. A tree containing syntax errors is rejected wholesale,
// mirroring how a real front end refuses a file it cannot understand.
func extractImports(grammar *sitter.Language, source []byte) ([]ImportDecl, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, errors.New("parse failed")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, errors.New("invalid syntax")
	}

	var decls []ImportDecl
	walk(root, source, &decls)
	return decls, nil
}

func walk(node *sitter.Node, source []byte, decls *[]ImportDecl) {
	switch node.Kind() {
	case "import_statement":
		extractImport(node, source, decls)
	case "import_from_statement":
		extractFromImport(node, source, decls)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walk(node.Child(i), source, decls)
	}
}

// extractImport handles "import a.b, c as d": one declaration per target.
func extractImport(node *sitter.Node, source []byte, decls *[]ImportDecl) {
	line := int(node.StartPosition().Row) + 1

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)

		switch child.Kind() {
		case "dotted_name", "identifier":
			module := text(child, source)
			*decls = append(*decls, ImportDecl{
				Module: module,
				Names:  []string{module},
				Line:   line,
			})
		case "aliased_import":
			var module, alias string
			for j := uint(0); j < child.ChildCount(); j++ {
				sub := child.Child(j)
				if sub.Kind() == "dotted_name" || sub.Kind() == "identifier" {
					if module == "" {
						module = text(sub, source)
					} else {
						alias = text(sub, source)
					}
				}
			}
			name := alias
			if name == "" {
				name = module
			}
			*decls = append(*decls, ImportDecl{
				Module: module,
				Names:  []string{name},
				Line:   line,
			})
		}
	}
}

// extractFromImport handles "from x import a, b" and relative forms like
// "from ..pkg import c". The relative level is the count of leading dots.
func extractFromImport(node *sitter.Node, source []byte, decls *[]ImportDecl) {
	var module string
	var names []string
	level := 0

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)

		switch child.Kind() {
		case "relative_import":
			relText := text(child, source)
			trimmed := strings.TrimLeft(relText, ".")
			level = len(relText) - len(trimmed)
			module = trimmed
		case "dotted_name", "identifier":
			if module == "" && level == 0 && len(names) == 0 && !afterImportKeyword(node, i, source) {
				module = text(child, source)
			} else {
				names = append(names, text(child, source))
			}
		case "import_list", "aliased_import":
			collectNames(child, source, &names)
		case "wildcard_import":
			names = append(names, "*")
		}
	}

	*decls = append(*decls, ImportDecl{
		Module:     module,
		Names:      names,
		Line:       int(node.StartPosition().Row) + 1,
		IsFrom:     true,
		IsRelative: level > 0,
		Level:      level,
	})
}

// afterImportKeyword reports whether child index i sits to the right of the
// "import" keyword, i.e. it is an imported name rather than the module path.
func afterImportKeyword(node *sitter.Node, i uint, source []byte) bool {
	for j := uint(0); j < i; j++ {
		if node.Child(j).Kind() == "import" {
			return true
		}
	}
	return false
}

func collectNames(node *sitter.Node, source []byte, names *[]string) {
	kind := node.Kind()
	if kind == "identifier" || kind == "dotted_name" {
		*names = append(*names, text(node, source))
		return
	}
	if kind == "aliased_import" {
		// "from x import y as z" binds z, but the declaration targets y.
		for i := uint(0); i < node.ChildCount(); i++ {
			sub := node.Child(i)
			if sub.Kind() == "dotted_name" || sub.Kind() == "identifier" {
				*names = append(*names, text(sub, source))
				return
			}
		}
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		collectNames(node.Child(i), source, names)
	}
}

func text(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
