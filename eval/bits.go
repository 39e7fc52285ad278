package eval

import (
	"fmt"
	"math/bits"
	"strconv"

	"github.com/stlref/stlref"
)

// Reference implementations for the fixed-size bit-vector topic.
//
// A bit pattern is written most significant bit first ("00101010"), and bit
// positions index from the least-significant (rightmost) bit, matching how
// the documented operations number their bits. Results are truncated to the
// pattern's width.

func init() {
	register("bits_from_value", bitsFromValue)
	register("bits_to_unsigned", bitsToUnsigned)
	register("bits_set_all", bitsSetAll)
	register("bits_reset_all", bitsResetAll)
	register("bits_flip_all", bitsFlipAll)
	register("bits_set", bitsSet)
	register("bits_reset", bitsReset)
	register("bits_flip", bitsFlip)
	register("bits_test", bitsTest)
	register("bits_count", bitsCount)
	register("bits_any", bitsAny)
	register("bits_none", bitsNone)
	register("bits_all", bitsAll)
	register("bits_size", bitsSize)
	register("bits_and", bitsAnd)
	register("bits_or", bitsOr)
	register("bits_xor", bitsXor)
	register("bits_not", bitsNot)
	register("bits_shl", bitsShl)
	register("bits_shr", bitsShr)
	register("bits_add", bitsAdd)
	register("bits_palindrome", bitsPalindrome)
}

// parseBits decodes a bit pattern into its value and width.
func parseBits(s string) (uint64, int, error) {
	if s == "" {
		return 0, 0, fmt.Errorf("empty bit pattern")
	}
	if len(s) > 64 {
		return 0, 0, fmt.Errorf("bit pattern wider than 64 bits")
	}
	v, err := strconv.ParseUint(s, 2, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bit pattern %q: %w", s, err)
	}
	return v, len(s), nil
}

// widthMask returns a mask of the low width bits.
func widthMask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << width) - 1
}

// formatBits prints value as a zero-padded pattern of the given width.
func formatBits(v uint64, width int) string {
	return fmt.Sprintf("%0*b", width, v&widthMask(width))
}

// checkPos rejects bit positions outside the pattern.
func checkPos(pos, width int) error {
	if pos < 0 || pos >= width {
		return fmt.Errorf("bit position %d out of range [0,%d)", pos, width)
	}
	return nil
}

// bitsFromValue prints the Width-wide binary representation of Arg.
func bitsFromValue(ex stlref.Example) (string, error) {
	if ex.Width <= 0 || ex.Width > 64 {
		return "", fmt.Errorf("width %d out of range [1,64]", ex.Width)
	}
	if ex.Arg < 0 {
		return "", fmt.Errorf("negative value %d", ex.Arg)
	}
	return formatBits(uint64(ex.Arg), ex.Width), nil
}

func bitsToUnsigned(ex stlref.Example) (string, error) {
	v, _, err := parseBits(ex.Bits)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(v, 10), nil
}

func bitsSetAll(ex stlref.Example) (string, error) {
	_, w, err := parseBits(ex.Bits)
	if err != nil {
		return "", err
	}
	return formatBits(widthMask(w), w), nil
}

func bitsResetAll(ex stlref.Example) (string, error) {
	_, w, err := parseBits(ex.Bits)
	if err != nil {
		return "", err
	}
	return formatBits(0, w), nil
}

func bitsFlipAll(ex stlref.Example) (string, error) {
	v, w, err := parseBits(ex.Bits)
	if err != nil {
		return "", err
	}
	return formatBits(^v, w), nil
}

func bitsSet(ex stlref.Example) (string, error) {
	v, w, err := parseBits(ex.Bits)
	if err != nil {
		return "", err
	}
	if err := checkPos(ex.Arg, w); err != nil {
		return "", err
	}
	return formatBits(v|(1<<ex.Arg), w), nil
}

func bitsReset(ex stlref.Example) (string, error) {
	v, w, err := parseBits(ex.Bits)
	if err != nil {
		return "", err
	}
	if err := checkPos(ex.Arg, w); err != nil {
		return "", err
	}
	return formatBits(v&^(1<<ex.Arg), w), nil
}

func bitsFlip(ex stlref.Example) (string, error) {
	v, w, err := parseBits(ex.Bits)
	if err != nil {
		return "", err
	}
	if err := checkPos(ex.Arg, w); err != nil {
		return "", err
	}
	return formatBits(v^(1<<ex.Arg), w), nil
}

func bitsTest(ex stlref.Example) (string, error) {
	v, w, err := parseBits(ex.Bits)
	if err != nil {
		return "", err
	}
	if err := checkPos(ex.Arg, w); err != nil {
		return "", err
	}
	return formatBool(v&(1<<ex.Arg) != 0), nil
}

func bitsCount(ex stlref.Example) (string, error) {
	v, _, err := parseBits(ex.Bits)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(bits.OnesCount64(v)), nil
}

func bitsAny(ex stlref.Example) (string, error) {
	v, _, err := parseBits(ex.Bits)
	if err != nil {
		return "", err
	}
	return formatBool(v != 0), nil
}

func bitsNone(ex stlref.Example) (string, error) {
	v, _, err := parseBits(ex.Bits)
	if err != nil {
		return "", err
	}
	return formatBool(v == 0), nil
}

func bitsAll(ex stlref.Example) (string, error) {
	v, w, err := parseBits(ex.Bits)
	if err != nil {
		return "", err
	}
	return formatBool(v == widthMask(w)), nil
}

func bitsSize(ex stlref.Example) (string, error) {
	_, w, err := parseBits(ex.Bits)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(w), nil
}

// parseBitsPair decodes two equal-width operands.
func parseBitsPair(ex stlref.Example) (a, b uint64, w int, err error) {
	a, w, err = parseBits(ex.Bits)
	if err != nil {
		return 0, 0, 0, err
	}
	b, wb, err := parseBits(ex.OtherBits)
	if err != nil {
		return 0, 0, 0, err
	}
	if wb != w {
		return 0, 0, 0, fmt.Errorf("operand widths differ: %d vs %d", w, wb)
	}
	return a, b, w, nil
}

func bitsAnd(ex stlref.Example) (string, error) {
	a, b, w, err := parseBitsPair(ex)
	if err != nil {
		return "", err
	}
	return formatBits(a&b, w), nil
}

func bitsOr(ex stlref.Example) (string, error) {
	a, b, w, err := parseBitsPair(ex)
	if err != nil {
		return "", err
	}
	return formatBits(a|b, w), nil
}

func bitsXor(ex stlref.Example) (string, error) {
	a, b, w, err := parseBitsPair(ex)
	if err != nil {
		return "", err
	}
	return formatBits(a^b, w), nil
}

func bitsNot(ex stlref.Example) (string, error) {
	v, w, err := parseBits(ex.Bits)
	if err != nil {
		return "", err
	}
	return formatBits(^v, w), nil
}

func bitsShl(ex stlref.Example) (string, error) {
	v, w, err := parseBits(ex.Bits)
	if err != nil {
		return "", err
	}
	if ex.Arg < 0 || ex.Arg > w {
		return "", fmt.Errorf("shift %d out of range [0,%d]", ex.Arg, w)
	}
	return formatBits(v<<ex.Arg, w), nil
}

func bitsShr(ex stlref.Example) (string, error) {
	v, w, err := parseBits(ex.Bits)
	if err != nil {
		return "", err
	}
	if ex.Arg < 0 || ex.Arg > w {
		return "", fmt.Errorf("shift %d out of range [0,%d]", ex.Arg, w)
	}
	return formatBits(v>>ex.Arg, w), nil
}

// bitsAdd prints the binary sum of the two operands, truncated to their
// width: a carry out of the top bit is discarded.
func bitsAdd(ex stlref.Example) (string, error) {
	a, b, w, err := parseBitsPair(ex)
	if err != nil {
		return "", err
	}
	return formatBits(a+b, w), nil
}

// bitsPalindrome reports whether the pattern reads the same from either end.
func bitsPalindrome(ex stlref.Example) (string, error) {
	if _, _, err := parseBits(ex.Bits); err != nil {
		return "", err
	}
	s := ex.Bits
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		if s[i] != s[j] {
			return formatBool(false), nil
		}
	}
	return formatBool(true), nil
}
