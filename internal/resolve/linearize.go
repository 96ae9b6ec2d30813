package resolve

import (
	"sable/internal/ast"
	"sable/internal/errors"
)

// linearize computes the contract's linearized base order using C3
// linearization over the reversed direct-base list, so a later base in the
// "is" clause is considered more derived. The result starts with the
// contract itself and ends with the most-base contract. Libraries linearize
// to themselves.
func (r *Resolver) linearize(c *ast.Contract) {
	if c.Linearized != nil {
		return
	}
	memo := make(map[*ast.Contract][]*ast.Contract)
	visiting := make(map[*ast.Contract]bool)
	if order := r.c3(c, memo, visiting); order != nil {
		c.Linearized = order
	} else {
		r.addError(errors.LinearizationFailure(c.Name, c.Pos))
		// fall back to just the contract itself so later passes can keep
		// collecting diagnostics
		c.Linearized = []*ast.Contract{c}
	}
}

func (r *Resolver) c3(c *ast.Contract, memo map[*ast.Contract][]*ast.Contract, visiting map[*ast.Contract]bool) []*ast.Contract {
	if c.IsLibrary() || len(c.Bases) == 0 {
		return []*ast.Contract{c}
	}
	if order, done := memo[c]; done {
		return order
	}
	if visiting[c] {
		return nil // inheritance cycle
	}
	visiting[c] = true
	defer delete(visiting, c)

	// Merge input: the linearizations of each direct base, most derived
	// first, followed by the reversed direct-base list itself.
	var sequences [][]*ast.Contract
	for i := len(c.Bases) - 1; i >= 0; i-- {
		baseOrder := r.c3(c.Bases[i], memo, visiting)
		if baseOrder == nil {
			return nil
		}
		sequences = append(sequences, baseOrder)
	}
	directs := make([]*ast.Contract, 0, len(c.Bases))
	for i := len(c.Bases) - 1; i >= 0; i-- {
		directs = append(directs, c.Bases[i])
	}
	sequences = append(sequences, directs)

	merged := c3Merge(sequences)
	if merged == nil {
		return nil
	}
	order := append([]*ast.Contract{c}, merged...)
	memo[c] = order
	return order
}

// c3Merge repeatedly picks a head that appears in no sequence's tail.
// Returns nil when no such head exists, meaning the hierarchy cannot be
// linearized consistently.
func c3Merge(sequences [][]*ast.Contract) []*ast.Contract {
	var merged []*ast.Contract
	for {
		remaining := false
		for _, seq := range sequences {
			if len(seq) > 0 {
				remaining = true
				break
			}
		}
		if !remaining {
			return merged
		}

		var candidate *ast.Contract
		for _, seq := range sequences {
			if len(seq) == 0 {
				continue
			}
			head := seq[0]
			if inAnyTail(head, sequences) {
				continue
			}
			candidate = head
			break
		}
		if candidate == nil {
			return nil
		}

		merged = append(merged, candidate)
		for i, seq := range sequences {
			if len(seq) > 0 && seq[0] == candidate {
				sequences[i] = seq[1:]
			}
		}
	}
}

func inAnyTail(c *ast.Contract, sequences [][]*ast.Contract) bool {
	for _, seq := range sequences {
		for i := 1; i < len(seq); i++ {
			if seq[i] == c {
				return true
			}
		}
	}
	return false
}
