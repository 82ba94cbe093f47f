package resolver

import (
	"sort"
	"strings"

	"depmap/internal/parser"
)

// Classified buckets a unit's raw import declarations by origin.
type Classified struct {
	Stdlib     []string
	Local      []string
	ThirdParty []string
	Relative   []string
}

// Classify sorts every declaration of a unit into stdlib, local, third-party
// or relative buckets. Each bucket is deduplicated and sorted.
func Classify(decls []parser.ImportDecl, topLevels map[string]bool) Classified {
	buckets := map[string]map[string]bool{
		"stdlib": {}, "local": {}, "third_party": {}, "relative": {},
	}

	for _, decl := range decls {
		switch {
		case decl.IsRelative:
			module := decl.Module
			if module == "" {
				module = "."
			}
			buckets["relative"][module] = true
		case IsStdlib(decl.Module):
			buckets["stdlib"][decl.Module] = true
		case topLevels[firstSegment(decl.Module)]:
			buckets["local"][decl.Module] = true
		default:
			buckets["third_party"][decl.Module] = true
		}
	}

	return Classified{
		Stdlib:     sortedKeys(buckets["stdlib"]),
		Local:      sortedKeys(buckets["local"]),
		ThirdParty: sortedKeys(buckets["third_party"]),
		Relative:   sortedKeys(buckets["relative"]),
	}
}

func firstSegment(module string) string {
	if i := strings.IndexByte(module, '.'); i >= 0 {
		return module[:i]
	}
	return module
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
