package chunker

import (
	"reflect"
	"strings"
	"testing"
)

func TestChunk_Basic(t *testing.T) {
	got := Chunk("a b c d e", 2)
	want := []string{"a b", "c d", "e"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chunk(\"a b c d e\", 2) = %v, want %v", got, want)
	}
}

func TestChunk_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t  \n"} {
		if got := Chunk(input, 10); got != nil {
			t.Errorf("Chunk(%q, 10) = %v, want nil", input, got)
		}
	}
}

func TestChunk_Deterministic(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog again and again"
	first := Chunk(text, 3)
	second := Chunk(text, 3)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two calls disagree: %v vs %v", first, second)
	}
}

func TestChunk_SizeBound(t *testing.T) {
	words := make([]string, 1203)
	for i := range words {
		words[i] = "w" + strings.Repeat("x", i%5)
	}
	text := strings.Join(words, " ")

	chunks := Chunk(text, 500)
	for i, c := range chunks {
		n := len(strings.Fields(c))
		if i < len(chunks)-1 && n != 500 {
			t.Errorf("chunk %d has %d words, want exactly 500", i, n)
		}
		if i == len(chunks)-1 && (n < 1 || n > 500) {
			t.Errorf("final chunk has %d words, want 1..500", n)
		}
	}
}

func TestChunk_Dedup(t *testing.T) {
	// Four identical windows of two words each.
	got := Chunk("hi ho hi ho hi ho hi ho", 2)
	want := []string{"hi ho"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chunk dedup = %v, want %v", got, want)
	}

	seen := make(map[string]struct{})
	for _, c := range Chunk("a b a b c d c d e f", 2) {
		if _, dup := seen[c]; dup {
			t.Errorf("duplicate chunk %q in output", c)
		}
		seen[c] = struct{}{}
	}
}

func TestChunk_NormalizesWhitespace(t *testing.T) {
	got := Chunk("  a\t\tb \n c  ", 2)
	want := []string{"a b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chunk = %v, want %v", got, want)
	}
}

func TestChunk_OrderingRoundTrip(t *testing.T) {
	text := "one two three four five six seven eight nine ten eleven twelve thirteen"
	chunks := Chunk(text, 4)

	// Joining chunks in index order reproduces the normalized transcript.
	rejoined := strings.Join(chunks, " ")
	normalized := strings.Join(strings.Fields(text), " ")
	if rejoined != normalized {
		t.Errorf("rejoined = %q, want %q", rejoined, normalized)
	}
}

func TestChunk_NonPositiveSizeUsesDefault(t *testing.T) {
	got := Chunk("a b c", 0)
	want := []string{"a b c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chunk with size 0 = %v, want %v", got, want)
	}
}
