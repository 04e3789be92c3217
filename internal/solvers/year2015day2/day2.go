// Package year2015day2 is a worked example of the "dependent parts" shape
// from aoc-solver/examples/dependent_parts.rs, in the form it actually takes
// in aoc-solutions/src/my_solutions/year_2025/day_1.rs: both parts derive
// their answer from the same fold over the input, computed once and shared.
//
// Go has no OnceCell/get_or_insert_with, but it needs none - a plain nilable
// pointer field on the instance, checked before recomputing, does the same
// job without any interior-mutability ceremony.
//
// The puzzle: each input line rotates a dial (0-99, starting at 50) left
// ("L<n>") or right ("R<n>"). Part 1 counts how many rotations land the
// dial exactly on zero; part 2 counts every time the dial passes through or
// lands on zero, including multiple wraps in one rotation.
package year2015day2

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
				Day:   2,
				Parts: 2,
				Tags:  map[string]struct{}{"example": {}, "dependent": {}},
			},
			Factory: newInstance,
		})
	})
}

// rotation is a single parsed line: a signed count of dial positions, left
// rotations already negated.
type rotation int16

// commonResult is the data part 1 and part 2 both need; computed once and
// shared, mirroring the teacher's CommonResult/solve_once_for_both.
type commonResult struct {
	zeroCounts     uint16
	passZeroCounts uint16
}

type instance struct {
	rotations []rotation
	common    *commonResult
}

func newInstance(input string) (solver.Instance, error) {
	lines := strings.Split(strings.TrimSpace(input), "\n")
	rotations := make([]rotation, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var negative bool
		switch line[0] {
		case 'L':
			negative = true
		case 'R':
			negative = false
		default:
			return nil, &solver.ParseError{Message: "line " + strconv.Itoa(i+1) + ": first character must be 'L' or 'R'"}
		}
		v, err := strconv.ParseInt(line[1:], 10, 16)
		if err != nil || v < 0 {
			return nil, &solver.ParseError{Message: "line " + strconv.Itoa(i+1) + ": rotate value must be a non-negative integer"}
		}
		if negative {
			v = -v
		}
		rotations = append(rotations, rotation(v))
	}
	return &instance{rotations: rotations}, nil
}

func (in *instance) Solve(part uint8) (string, error) {
	switch part {
	case 1:
		return strconv.FormatUint(uint64(in.solveOnceForBoth().zeroCounts), 10), nil
	case 2:
		return strconv.FormatUint(uint64(in.solveOnceForBoth().passZeroCounts), 10), nil
	default:
		return "", &solver.SolveError{Part: part, Message: "not implemented", Cause: &solver.ErrPartNotImplemented{Part: part}}
	}
}

func (in *instance) solveOnceForBoth() *commonResult {
	if in.common != nil {
		return in.common
	}

	dial := int32(50)
	var zeroCounts, passZeroCounts uint16
	for _, r := range in.rotations {
		old := dial
		dial += int32(r)
		if dial <= 0 && old != 0 {
			passZeroCounts++
		}
		if dial < 0 {
			passZeroCounts += uint16(-dial / 100)
		} else {
			passZeroCounts += uint16(dial / 100)
		}
		dial %= 100
		if dial < 0 {
			dial += 100
		}
		if dial == 0 {
			zeroCounts++
		}
	}

	in.common = &commonResult{zeroCounts: zeroCounts, passZeroCounts: passZeroCounts}
	return in.common
}
