// Package year2015day1 is a worked example of the "independent parts" shape
// from aoc-solver/examples/independent_parts.rs: the parsed input is
// immutable and each part reads it without needing the other's result.
//
// Part 1 sums the input's integers; part 2 takes their product.
package year2015day1

import (
	"strconv"
	"strings"

	"github.com/joeycumines/aocrunner/internal/registry"
	"github.com/joeycumines/aocrunner/internal/solver"
	"github.com/joeycumines/aocrunner/internal/solvers"
)

func init() {
	solvers.Register(func(b *registry.Builder) {
		b.MustRegister(solver.Plugin{
			Info: solver.Info{
				Year:  2015,
				Day:   1,
				Parts: 2,
				Tags:  map[string]struct{}{"example": {}, "independent": {}},
			},
			Factory: newInstance,
		})
	})
}

type instance struct{ values []int64 }

func newInstance(input string) (solver.Instance, error) {
	lines := strings.Split(strings.TrimSpace(input), "\n")
	values := make([]int64, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return nil, &solver.ParseError{Message: "expected integer, got: " + line}
		}
		values = append(values, v)
	}
	return &instance{values: values}, nil
}

func (in *instance) Solve(part uint8) (string, error) {
	switch part {
	case 1:
		var sum int64
		for _, v := range in.values {
			sum += v
		}
		return strconv.FormatInt(sum, 10), nil
	case 2:
		product := int64(1)
		for _, v := range in.values {
			product *= v
		}
		return strconv.FormatInt(product, 10), nil
	default:
		return "", &solver.SolveError{Part: part, Message: "not implemented", Cause: &solver.ErrPartNotImplemented{Part: part}}
	}
}
