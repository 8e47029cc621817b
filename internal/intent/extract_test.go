package intent_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/todochat/todochat/internal/intent"
)

func TestExtractAllIntegers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []int
	}{
		{"none", "show my todos", nil},
		{"single", "delete todo 3", []int{3}},
		{"multiple in order", "mark 3 and 1 and 7", []int{3, 1, 7}},
		{"embedded digits skipped", "todo3x is not a token", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := intent.ExtractAllIntegers(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractAllIntegers(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestExtractRangesAndLists(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []int
	}{
		{"dash range", "todos 1-3", []int{1, 2, 3}},
		{"reversed range still inclusive", "todos 3-1", []int{1, 2, 3}},
		{"to range", "delete 2 to 4", []int{2, 3, 4}},
		{"list with and", "mark 3, 5, and 7", []int{3, 5, 7}},
		{"range plus extra number", "delete 1-2 and 5", []int{1, 2, 5}},
		{"duplicates collapse", "todo 2 and 2", []int{2}},
		{"empty", "delete everything", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := intent.ExtractRangesAndLists(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractRangesAndLists(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestExtractOrdinal(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    int
		wantOK  bool
	}{
		{"second last", "delete the second last todo", -2, true},
		{"2nd last", "delete the 2nd last one", -2, true},
		{"second-last", "show second-last", -2, true},
		{"last", "delete the last todo", -1, true},
		{"latest", "show my latest todo", -1, true},
		{"numeric suffix", "toggle the 3rd one", 3, true},
		{"word ordinal", "delete the fourth todo", 4, true},
		{"second alone", "toggle the second one", 2, true},
		{"nothing", "delete my groceries", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := intent.ExtractOrdinal(tt.text)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ExtractOrdinal(%q) = (%d, %v), want (%d, %v)", tt.text, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResolveOrdinal(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		ordinal int
		want    int
		wantOK  bool
	}{
		{"last of three", 3, -1, 3, true},
		{"last of one", 1, -1, 1, true},
		{"last of none", 0, -1, 0, false},
		{"second last of three", 3, -2, 2, true},
		{"second last of one", 1, -2, 0, false},
		{"positive in range", 3, 2, 2, true},
		{"positive out of range", 3, 4, 0, false},
		{"zero ordinal", 3, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := intent.ResolveOrdinal(tt.count, tt.ordinal)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ResolveOrdinal(%d, %d) = (%d, %v), want (%d, %v)",
					tt.count, tt.ordinal, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// Spec-level property: for every count N, "last" resolves to N when any
// todos exist and to nothing when the list is empty.
func TestResolveOrdinal_LastAlwaysNewest(t *testing.T) {
	for n := 0; n <= 20; n++ {
		got, ok := intent.ResolveOrdinal(n, -1)
		if n == 0 {
			if ok {
				t.Fatalf("ResolveOrdinal(0, -1) = (%d, true), want no match", got)
			}
			continue
		}
		if !ok || got != n {
			t.Fatalf("ResolveOrdinal(%d, -1) = (%d, %v), want (%d, true)", n, got, ok, n)
		}
	}
}

func TestSplitMultiItemList(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "colon list",
			text: "Add 3 todos: buy milk, buy eggs, buy bread",
			want: []string{"buy milk", "buy eggs", "buy bread"},
		},
		{
			name: "add n todos without colon",
			text: "add 2 todos buy milk, buy eggs",
			want: []string{"buy milk", "buy eggs"},
		},
		{
			name: "quoted items trimmed",
			text: `Add todos: "buy milk", 'buy eggs'`,
			want: []string{"buy milk", "buy eggs"},
		},
		{
			name: "empty items dropped",
			text: "add todos: buy milk,, ,buy eggs",
			want: []string{"buy milk", "buy eggs"},
		},
		{
			name: "no list",
			text: "add buy milk",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := intent.SplitMultiItemList(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SplitMultiItemList(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestHumanizeNumberList(t *testing.T) {
	tests := []struct {
		name string
		nums []int
		want string
	}{
		{"empty", nil, ""},
		{"single", []int{3}, "3"},
		{"pair", []int{3, 5}, "3 and 5"},
		{"triple oxford", []int{1, 3, 5}, "1, 3, and 5"},
		{"unsorted deduped", []int{5, 3, 5, 1}, "1, 3, and 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := intent.HumanizeNumberList(tt.nums); got != tt.want {
				t.Errorf("HumanizeNumberList(%v) = %q, want %q", tt.nums, got, tt.want)
			}
		})
	}
}
