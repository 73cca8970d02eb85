package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		// Dash/colon suffix has the highest priority.
		{"Model Z 128GB - 3", 3, true},
		{"reno 11f 128 — 5", 5, true},
		{"note 13: 4", 4, true},
		// x-suffix.
		{"iphone 15 pro 1тб x2", 2, true},
		{"redmi 12 ×2", 2, true},
		// шт-suffix.
		{"redmi 12 256 3 шт", 3, true},
		{"redmi 12 256 3шт.", 3, true},
		// Bare trailing number is the last resort, even when it looks
		// like a capacity.
		{"samsung a15 5", 5, true},
		{"galaxy a15 128", 128, true},
		// A glued capacity suffix keeps its number out of reach.
		{"samsung galaxy 256гб", 0, false},
		{"ipad 1tb", 0, false},
		{"просто текст", 0, false},
		{"", 0, false},
	}

	for _, c := range cases {
		got, ok := Quantity(c.in)
		assert.Equal(t, c.ok, ok, "input %q", c.in)
		if c.ok {
			assert.Equal(t, c.want, got, "input %q", c.in)
		}
	}
}

func TestMemory(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"Model Z 128GB - 3", 128, true},
		{"poco x6 256гб", 256, true},
		{"redmi 12 512", 512, true},
		// ram/rom pair contributes its second number.
		{"samsung a15 8/128 - 2", 128, true},
		// Terabyte token family normalizes to 1024.
		{"iphone 15 pro 1тб x2", 1024, true},
		{"ipad 1 tb", 1024, true},
		{"ipad 1tb", 1024, true},
		// Numbers outside the valid set are not capacities.
		{"reno 11f - 3", 0, false},
		{"redmi 12", 0, false},
		{"", 0, false},
	}

	for _, c := range cases {
		got, ok := Memory(c.in)
		assert.Equal(t, c.ok, ok, "input %q", c.in)
		if c.ok {
			assert.Equal(t, c.want, got, "input %q", c.in)
		}
	}
}

func TestModelFragment(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		// Markers, capacity, quantity and punctuation all stripped.
		{"Продал Reno 11 F 128GB - 3", "reno 11f"},
		{"Model Z 128GB - 3", "model z"},
		{"samsung a15 8/128 - 2", "samsung a15"},
		{"iphone 15 pro 1тб x2", "iphone 15 pro"},
		// Prices in tenge are dropped before anything else.
		{"airpods pro 250 000тг - 1", "airpods pro"},
		// Increment markers are stripped the same way as sale markers.
		{"приход: reno 11f 128 — 5", "reno 11f"},
		// Split model suffix is re-glued.
		{"redmi note 13 g 256 x1", "redmi note 13g"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, ModelFragment(c.in), "input %q", c.in)
	}
}

func TestRoundTripExtraction(t *testing.T) {
	line := "Model Z 128GB - 3"

	qty, ok := Quantity(line)
	require.True(t, ok)
	assert.Equal(t, 3, qty)

	mem, ok := Memory(line)
	require.True(t, ok)
	assert.Equal(t, 128, mem)

	fragment := ModelFragment(line)
	assert.NotContains(t, fragment, "3")
	assert.NotContains(t, fragment, "128")
}

func TestLooksLikeSaleLine(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		// A quantity plus a sale keyword.
		{"Продал reno 11f x2", true},
		// A quantity plus a memory token.
		{"Model Z 128GB - 3", true},
		// "шт" counts as a keyword.
		{"reno 11f 128 3 шт", true},
		// A sale keyword without a quantity does not qualify.
		{"Продал reno 11f", false},
		{"продал камеру клиенту", false},
		// Neither does a quantity without memory or keyword.
		{"reno 11f - 3", false},
		{"привет как дела", false},
		{"", false},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, LooksLikeSaleLine(c.in), "input %q", c.in)
	}
}

func TestParseSaleLine(t *testing.T) {
	item, ok := ParseSaleLine("Продал Reno 11 F 128GB - 3", 2)
	require.True(t, ok)
	assert.Equal(t, "reno 11f", item.Fragment)
	assert.Equal(t, 3, item.Qty)
	assert.Equal(t, 128, item.MemoryGB)
	assert.True(t, item.HasMemory)
}

func TestParseSaleLineBareTrailingNumber(t *testing.T) {
	// A bare trailing number reads as a count even when it is part of the
	// model name. Known trade-off of the last-resort rule.
	item, ok := ParseSaleLine("продал iphone 15", 2)
	require.True(t, ok)
	assert.Equal(t, 15, item.Qty)
}

func TestParseSaleLineRejects(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"empty", "   "},
		{"ignore marker", "доля продал reno 128 - 1"},
		{"no sale shape", "привет как дела"},
		{"sale keyword without quantity", "продал камеру клиенту"},
		{"fragment too short", "продал x 128 - 1"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, ok := ParseSaleLine(c.in, 2)
			assert.False(t, ok)
		})
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("продал reno 11f 128 - 1\n\nredmi 12 256 x2")
	assert.Equal(t, []string{"продал reno 11f 128 - 1", "redmi 12 256 x2"}, got)

	// Semicolons split long list lines.
	got = SplitLines("продал reno 11f 128 - 1; redmi 12 256 - 2")
	assert.Equal(t, []string{"продал reno 11f 128 - 1", "redmi 12 256 - 2"}, got)

	// Short lines keep their semicolon.
	got = SplitLines("a;b")
	assert.Equal(t, []string{"a;b"}, got)
}

func TestSnapshotLines(t *testing.T) {
	got := SnapshotLines("Сток:\nreno 11f 128 - 5\n\nredmi 12 256 - 2")
	assert.Equal(t, []string{"reno 11f 128 - 5", "redmi 12 256 - 2"}, got)

	assert.Nil(t, SnapshotLines("Сток: reno 5"))
	assert.Nil(t, SnapshotLines(""))
}
