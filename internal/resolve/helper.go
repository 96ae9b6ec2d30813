package resolve

import "sable/internal/ast"

// similarFunctions finds declared function names close to name, used for
// "did you mean" suggestions.
func (r *Resolver) similarFunctions(name string, scope *ast.Contract) []string {
	var similar []string

	if scope != nil {
		for _, base := range scope.Linearized {
			for _, fn := range base.Functions {
				if levenshteinDistance(name, fn.Name) <= 2 && len(fn.Name) > 1 {
					similar = append(similar, fn.Name)
				}
			}
		}
	}
	for funcName := range r.freeFuncs {
		if levenshteinDistance(name, funcName) <= 2 && len(funcName) > 1 {
			similar = append(similar, funcName)
		}
	}

	return similar
}

// Simple Levenshtein distance for finding similar names
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	if len(a) > len(b) {
		a, b = b, a
	}

	previous := make([]int, len(a)+1)
	for i := range previous {
		previous[i] = i
	}

	for i := 0; i < len(b); i++ {
		current := make([]int, len(a)+1)
		current[0] = i + 1

		for j := 0; j < len(a); j++ {
			cost := 0
			if a[j] != b[i] {
				cost = 1
			}
			current[j+1] = min3(
				current[j]+1,     // insertion
				previous[j+1]+1,  // deletion
				previous[j]+cost, // substitution
			)
		}
		previous = current
	}

	return previous[len(a)]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
