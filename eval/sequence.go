package eval

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/stlref/stlref"
)

// Reference implementations for the sequence-algorithm topic. Each operates
// on copies of the example inputs; examples are never mutated.

func init() {
	register("min_element", minElement)
	register("max_element", maxElement)
	register("minmax_element", minmaxElement)
	register("sort", sortAscending)
	register("sort_desc", sortDescending)
	register("unique", uniqueConsecutive)
	register("partition_stable", partitionStable)
	register("transform_square", transformSquare)
	register("merge", mergeRanges)
	register("inplace_merge", inplaceMerge)
	register("binary_search", binarySearch)
	register("lower_bound", lowerBound)
	register("upper_bound", upperBound)
	register("equal_range", equalRange)
	register("remove_if_even", removeIfEven)
	register("rotate", rotateLeft)
	register("nth_element", nthElement)
	register("reverse", reverseValues)
	register("accumulate", accumulate)
	register("adjacent_difference", adjacentDifference)
	register("next_permutation", nextPermutation)
	register("set_union", setUnion)
	register("set_intersection", setIntersection)
	register("set_difference", setDifference)
	register("includes", includes)
	register("all_of_even", allOfEven)
	register("any_of_even", anyOfEven)
	register("none_of_even", noneOfEven)
	register("count", countValue)
	register("count_if_even", countIfEven)
	register("find", findValue)
	register("find_if_odd", findIfOdd)
	register("mismatch", mismatch)
}

// formatInts prints values the way the worked examples document them:
// space-separated, no brackets.
func formatInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

func formatBool(b bool) string {
	return strconv.FormatBool(b)
}

func isEven(n int) bool { return n%2 == 0 }

// requireSorted rejects examples that violate an operation's sorted-input
// precondition, so an authoring mistake fails verification instead of
// documenting garbage.
func requireSorted(name string, vs []int) error {
	if !slices.IsSorted(vs) {
		return fmt.Errorf("%s requires sorted input, got %v", name, vs)
	}
	return nil
}

func minElement(ex stlref.Example) (string, error) {
	if len(ex.Values) == 0 {
		return "", fmt.Errorf("min_element on empty range")
	}
	return strconv.Itoa(slices.Min(ex.Values)), nil
}

func maxElement(ex stlref.Example) (string, error) {
	if len(ex.Values) == 0 {
		return "", fmt.Errorf("max_element on empty range")
	}
	return strconv.Itoa(slices.Max(ex.Values)), nil
}

func minmaxElement(ex stlref.Example) (string, error) {
	if len(ex.Values) == 0 {
		return "", fmt.Errorf("minmax_element on empty range")
	}
	return fmt.Sprintf("%d %d", slices.Min(ex.Values), slices.Max(ex.Values)), nil
}

func sortAscending(ex stlref.Example) (string, error) {
	vs := slices.Clone(ex.Values)
	slices.Sort(vs)
	return formatInts(vs), nil
}

func sortDescending(ex stlref.Example) (string, error) {
	vs := slices.Clone(ex.Values)
	slices.SortFunc(vs, func(a, b int) int { return cmp.Compare(b, a) })
	return formatInts(vs), nil
}

func uniqueConsecutive(ex stlref.Example) (string, error) {
	return formatInts(slices.Compact(slices.Clone(ex.Values))), nil
}

// partitionStable moves even values before odd ones, preserving relative
// order within each group, so the output is fully determined by the input.
func partitionStable(ex stlref.Example) (string, error) {
	out := make([]int, 0, len(ex.Values))
	for _, v := range ex.Values {
		if isEven(v) {
			out = append(out, v)
		}
	}
	for _, v := range ex.Values {
		if !isEven(v) {
			out = append(out, v)
		}
	}
	return formatInts(out), nil
}

func transformSquare(ex stlref.Example) (string, error) {
	out := make([]int, len(ex.Values))
	for i, v := range ex.Values {
		out[i] = v * v
	}
	return formatInts(out), nil
}

func mergeRanges(ex stlref.Example) (string, error) {
	if err := requireSorted("merge", ex.Values); err != nil {
		return "", err
	}
	if err := requireSorted("merge", ex.Other); err != nil {
		return "", err
	}
	out := make([]int, 0, len(ex.Values)+len(ex.Other))
	i, j := 0, 0
	for i < len(ex.Values) && j < len(ex.Other) {
		if ex.Other[j] < ex.Values[i] {
			out = append(out, ex.Other[j])
			j++
		} else {
			out = append(out, ex.Values[i])
			i++
		}
	}
	out = append(out, ex.Values[i:]...)
	out = append(out, ex.Other[j:]...)
	return formatInts(out), nil
}

// inplaceMerge merges the two consecutive sorted runs Values[:Arg] and
// Values[Arg:] into one sorted sequence.
func inplaceMerge(ex stlref.Example) (string, error) {
	mid := ex.Arg
	if mid < 0 || mid > len(ex.Values) {
		return "", fmt.Errorf("inplace_merge midpoint %d out of range [0,%d]", mid, len(ex.Values))
	}
	left, right := ex.Values[:mid], ex.Values[mid:]
	if err := requireSorted("inplace_merge", left); err != nil {
		return "", err
	}
	if err := requireSorted("inplace_merge", right); err != nil {
		return "", err
	}
	return mergeRanges(stlref.Example{Values: left, Other: right})
}

func binarySearch(ex stlref.Example) (string, error) {
	if err := requireSorted("binary_search", ex.Values); err != nil {
		return "", err
	}
	_, found := slices.BinarySearch(ex.Values, ex.Arg)
	return formatBool(found), nil
}

// lowerBound prints the index of the first element not less than Arg.
func lowerBound(ex stlref.Example) (string, error) {
	if err := requireSorted("lower_bound", ex.Values); err != nil {
		return "", err
	}
	i, _ := slices.BinarySearch(ex.Values, ex.Arg)
	return strconv.Itoa(i), nil
}

// upperBound prints the index of the first element greater than Arg.
func upperBound(ex stlref.Example) (string, error) {
	if err := requireSorted("upper_bound", ex.Values); err != nil {
		return "", err
	}
	i, _ := slices.BinarySearch(ex.Values, ex.Arg+1)
	for i < len(ex.Values) && ex.Values[i] == ex.Arg {
		i++
	}
	return strconv.Itoa(i), nil
}

// equalRange prints every element equal to Arg, i.e. the subrange
// [lower_bound, upper_bound).
func equalRange(ex stlref.Example) (string, error) {
	if err := requireSorted("equal_range", ex.Values); err != nil {
		return "", err
	}
	var out []int
	for _, v := range ex.Values {
		if v == ex.Arg {
			out = append(out, v)
		}
	}
	return formatInts(out), nil
}

func removeIfEven(ex stlref.Example) (string, error) {
	var out []int
	for _, v := range ex.Values {
		if !isEven(v) {
			out = append(out, v)
		}
	}
	return formatInts(out), nil
}

// rotateLeft rotates the sequence left by Arg positions.
func rotateLeft(ex stlref.Example) (string, error) {
	n := len(ex.Values)
	if n == 0 {
		return "", nil
	}
	k := ex.Arg % n
	if k < 0 {
		k += n
	}
	out := append(slices.Clone(ex.Values[k:]), ex.Values[:k]...)
	return formatInts(out), nil
}

// nthElement prints the value that would land at index Arg if the sequence
// were sorted (the Arg-th smallest, counting from zero). Only the selected
// value is documented; the surrounding partial order is unspecified.
func nthElement(ex stlref.Example) (string, error) {
	if ex.Arg < 0 || ex.Arg >= len(ex.Values) {
		return "", fmt.Errorf("nth_element index %d out of range [0,%d)", ex.Arg, len(ex.Values))
	}
	vs := slices.Clone(ex.Values)
	slices.Sort(vs)
	return strconv.Itoa(vs[ex.Arg]), nil
}

func reverseValues(ex stlref.Example) (string, error) {
	vs := slices.Clone(ex.Values)
	slices.Reverse(vs)
	return formatInts(vs), nil
}

func accumulate(ex stlref.Example) (string, error) {
	sum := 0
	for _, v := range ex.Values {
		sum += v
	}
	return strconv.Itoa(sum), nil
}

// adjacentDifference prints the first element followed by the difference of
// each element and its predecessor.
func adjacentDifference(ex stlref.Example) (string, error) {
	if len(ex.Values) == 0 {
		return "", nil
	}
	out := make([]int, len(ex.Values))
	out[0] = ex.Values[0]
	for i := 1; i < len(ex.Values); i++ {
		out[i] = ex.Values[i] - ex.Values[i-1]
	}
	return formatInts(out), nil
}

// nextPermutation prints the lexicographically next permutation of the
// sequence, wrapping to the smallest permutation after the largest.
func nextPermutation(ex stlref.Example) (string, error) {
	vs := slices.Clone(ex.Values)
	// Find the longest non-increasing suffix.
	i := len(vs) - 2
	for i >= 0 && vs[i] >= vs[i+1] {
		i--
	}
	if i < 0 {
		slices.Reverse(vs)
		return formatInts(vs), nil
	}
	// Swap the pivot with the rightmost element that exceeds it.
	j := len(vs) - 1
	for vs[j] <= vs[i] {
		j--
	}
	vs[i], vs[j] = vs[j], vs[i]
	slices.Reverse(vs[i+1:])
	return formatInts(vs), nil
}

func setUnion(ex stlref.Example) (string, error) {
	if err := requireSorted("set_union", ex.Values); err != nil {
		return "", err
	}
	if err := requireSorted("set_union", ex.Other); err != nil {
		return "", err
	}
	var out []int
	i, j := 0, 0
	for i < len(ex.Values) && j < len(ex.Other) {
		switch {
		case ex.Values[i] < ex.Other[j]:
			out = append(out, ex.Values[i])
			i++
		case ex.Other[j] < ex.Values[i]:
			out = append(out, ex.Other[j])
			j++
		default:
			out = append(out, ex.Values[i])
			i++
			j++
		}
	}
	out = append(out, ex.Values[i:]...)
	out = append(out, ex.Other[j:]...)
	return formatInts(out), nil
}

func setIntersection(ex stlref.Example) (string, error) {
	if err := requireSorted("set_intersection", ex.Values); err != nil {
		return "", err
	}
	if err := requireSorted("set_intersection", ex.Other); err != nil {
		return "", err
	}
	var out []int
	i, j := 0, 0
	for i < len(ex.Values) && j < len(ex.Other) {
		switch {
		case ex.Values[i] < ex.Other[j]:
			i++
		case ex.Other[j] < ex.Values[i]:
			j++
		default:
			out = append(out, ex.Values[i])
			i++
			j++
		}
	}
	return formatInts(out), nil
}

func setDifference(ex stlref.Example) (string, error) {
	if err := requireSorted("set_difference", ex.Values); err != nil {
		return "", err
	}
	if err := requireSorted("set_difference", ex.Other); err != nil {
		return "", err
	}
	var out []int
	i, j := 0, 0
	for i < len(ex.Values) {
		if j >= len(ex.Other) || ex.Values[i] < ex.Other[j] {
			out = append(out, ex.Values[i])
			i++
		} else if ex.Other[j] < ex.Values[i] {
			j++
		} else {
			i++
			j++
		}
	}
	return formatInts(out), nil
}

// includes reports whether the sorted range Values contains every element
// of the sorted range Other.
func includes(ex stlref.Example) (string, error) {
	if err := requireSorted("includes", ex.Values); err != nil {
		return "", err
	}
	if err := requireSorted("includes", ex.Other); err != nil {
		return "", err
	}
	i := 0
	for _, want := range ex.Other {
		for i < len(ex.Values) && ex.Values[i] < want {
			i++
		}
		if i >= len(ex.Values) || ex.Values[i] != want {
			return formatBool(false), nil
		}
	}
	return formatBool(true), nil
}

func allOfEven(ex stlref.Example) (string, error) {
	for _, v := range ex.Values {
		if !isEven(v) {
			return formatBool(false), nil
		}
	}
	return formatBool(true), nil
}

func anyOfEven(ex stlref.Example) (string, error) {
	return formatBool(slices.ContainsFunc(ex.Values, isEven)), nil
}

func noneOfEven(ex stlref.Example) (string, error) {
	return formatBool(!slices.ContainsFunc(ex.Values, isEven)), nil
}

func countValue(ex stlref.Example) (string, error) {
	n := 0
	for _, v := range ex.Values {
		if v == ex.Arg {
			n++
		}
	}
	return strconv.Itoa(n), nil
}

func countIfEven(ex stlref.Example) (string, error) {
	n := 0
	for _, v := range ex.Values {
		if isEven(v) {
			n++
		}
	}
	return strconv.Itoa(n), nil
}

// findValue prints the index of the first element equal to Arg, or -1.
func findValue(ex stlref.Example) (string, error) {
	return strconv.Itoa(slices.Index(ex.Values, ex.Arg)), nil
}

// findIfOdd prints the first odd value, or "none".
func findIfOdd(ex stlref.Example) (string, error) {
	for _, v := range ex.Values {
		if !isEven(v) {
			return strconv.Itoa(v), nil
		}
	}
	return "none", nil
}

// mismatch prints the index of the first position where Values and Other
// differ, or -1 when the shorter range is a prefix of the longer.
func mismatch(ex stlref.Example) (string, error) {
	n := min(len(ex.Values), len(ex.Other))
	for i := 0; i < n; i++ {
		if ex.Values[i] != ex.Other[i] {
			return strconv.Itoa(i), nil
		}
	}
	return "-1", nil
}
