package intent

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	integerRe       = regexp.MustCompile(`\b(\d+)\b`)
	rangeRe         = regexp.MustCompile(`\b(\d+)\s*(?:to|-)\s*(\d+)\b`)
	ordinalSuffixRe = regexp.MustCompile(`\b(\d+)(?:st|nd|rd|th)\b`)
	addManyTailRe   = regexp.MustCompile(`(?i)\badd\s+\d+\s+todos?\b(.+)$`)
)

// ordinalWords is checked in order; "second last" is handled before
// this table is consulted.
var ordinalWords = []struct {
	re    *regexp.Regexp
	value int
}{
	{regexp.MustCompile(`\bfirst\b`), 1},
	{regexp.MustCompile(`\bsecond\b`), 2},
	{regexp.MustCompile(`\bthird\b`), 3},
	{regexp.MustCompile(`\bfourth\b`), 4},
	{regexp.MustCompile(`\bfifth\b`), 5},
}

// ExtractAllIntegers returns every standalone decimal integer in text,
// in order of appearance.
func ExtractAllIntegers(text string) []int {
	var out []int
	for _, m := range integerRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

// ExtractRangesAndLists collects todo numbers from phrasing like
// "1 to 4", "1-4", "3, 5, and 7", or "delete 2". Ranges are inclusive
// and order-insensitive ("3-1" covers 1..3). The result is the
// deduplicated union, sorted ascending.
func ExtractRangesAndLists(text string) []int {
	t := strings.ToLower(text)
	set := map[int]bool{}

	for _, m := range rangeRe.FindAllStringSubmatch(t, -1) {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		if start > end {
			start, end = end, start
		}
		for n := start; n <= end; n++ {
			set[n] = true
		}
	}

	for _, n := range ExtractAllIntegers(t) {
		set[n] = true
	}

	out := make([]int, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// ExtractOrdinal recognizes relative references like "last",
// "second last", "2nd", or "third". Negative values count from the
// end; the boolean reports whether anything matched.
func ExtractOrdinal(text string) (int, bool) {
	t := strings.TrimSpace(strings.ToLower(text))

	if strings.Contains(t, "second last") || strings.Contains(t, "2nd last") || strings.Contains(t, "second-last") {
		return -2, true
	}
	if strings.Contains(t, "last") || strings.Contains(t, "latest") {
		return -1, true
	}

	if m := ordinalSuffixRe.FindStringSubmatch(t); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return n, true
		}
	}

	for _, w := range ordinalWords {
		if w.re.MatchString(t) {
			return w.value, true
		}
	}
	return 0, false
}

// ResolveOrdinal maps an ordinal reference onto a local number given
// the live todo count. Negative ordinals resolve from the end
// (-1 is the newest todo). Out-of-range references report false.
func ResolveOrdinal(todoCount, ordinal int) (int, bool) {
	if todoCount <= 0 {
		return 0, false
	}
	if ordinal < 0 {
		idx := todoCount + ordinal
		if idx >= 0 && idx < todoCount {
			return idx + 1, true
		}
		return 0, false
	}
	if ordinal >= 1 && ordinal <= todoCount {
		return ordinal, true
	}
	return 0, false
}

// SplitMultiItemList splits "Add 3 todos: buy milk, buy eggs, buy
// bread" into its items. The clause after a colon wins; otherwise the
// tail of an "add N todos" phrase is split. Items are trimmed of
// surrounding quotes and whitespace.
func SplitMultiItemList(text string) []string {
	if idx := strings.Index(text, ":"); idx >= 0 {
		return splitItems(text[idx+1:])
	}
	if m := addManyTailRe.FindStringSubmatch(text); m != nil {
		return splitItems(m[1])
	}
	return nil
}

func splitItems(clause string) []string {
	var out []string
	for _, p := range strings.Split(clause, ",") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, strings.Trim(p, " '\"\n\t"))
	}
	return out
}

// HumanizeNumberList renders a set of numbers the way a person would
// say it: "3", "3 and 5", or "1, 3, and 5".
func HumanizeNumberList(nums []int) string {
	set := map[int]bool{}
	for _, n := range nums {
		set[n] = true
	}
	uniq := make([]int, 0, len(set))
	for n := range set {
		uniq = append(uniq, n)
	}
	sort.Ints(uniq)

	switch len(uniq) {
	case 0:
		return ""
	case 1:
		return strconv.Itoa(uniq[0])
	case 2:
		return fmt.Sprintf("%d and %d", uniq[0], uniq[1])
	}

	parts := make([]string, 0, len(uniq)-1)
	for _, n := range uniq[:len(uniq)-1] {
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, ", ") + fmt.Sprintf(", and %d", uniq[len(uniq)-1])
}
