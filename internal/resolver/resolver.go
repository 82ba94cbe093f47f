package resolver

import (
	"strings"

	"depmap/internal/parser"
)

// Resolve maps a raw import declaration inside owner to the qualified name of
// a unit in the scanned project. The second return is false for anything that
// is not a local unit: standard library, third party, or simply unknown.
// Unresolved imports are the normal case, not an error.
func Resolve(decl parser.ImportDecl, owner string, unitNames, topLevels map[string]bool) (string, bool) {
	if decl.IsRelative {
		return resolveRelative(decl, owner, unitNames)
	}
	return resolveAbsolute(decl, unitNames, topLevels)
}

func resolveRelative(decl parser.ImportDecl, owner string, unitNames map[string]bool) (string, bool) {
	parts := strings.Split(owner, ".")

	// Climb one package per level; a level deeper than the owner's path
	// leaves an empty base.
	var base []string
	if decl.Level <= len(parts) {
		base = parts[:len(parts)-decl.Level]
	}

	var candidate string
	switch {
	case decl.Module != "" && len(base) > 0:
		candidate = strings.Join(base, ".") + "." + decl.Module
	case decl.Module != "":
		candidate = decl.Module
	default:
		candidate = strings.Join(base, ".")
	}

	if unitNames[candidate] {
		return candidate, true
	}

	// "from . import name" may target the package itself rather than a
	// submodule; fall back to the candidate's parent.
	parent := candidate
	if i := strings.LastIndexByte(candidate, '.'); i >= 0 {
		parent = candidate[:i]
	}
	if unitNames[parent] {
		return parent, true
	}

	return "", false
}

func resolveAbsolute(decl parser.ImportDecl, unitNames, topLevels map[string]bool) (string, bool) {
	module := decl.Module
	if module == "" {
		return "", false
	}

	if IsStdlib(module) {
		return "", false
	}

	if unitNames[module] {
		return module, true
	}

	parts := strings.Split(module, ".")
	top := parts[0]
	if !topLevels[top] {
		// Third party.
		return "", false
	}

	// Longest known prefix wins: "a.b.c" may resolve to unit "a.b".
	for i := len(parts); i > 0; i-- {
		candidate := strings.Join(parts[:i], ".")
		if unitNames[candidate] {
			return candidate, true
		}
	}
	if unitNames[top] {
		return top, true
	}

	return "", false
}
