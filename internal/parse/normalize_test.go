package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  ПрОдАл   Reno  ", "продал reno"},
		{"Ёлка ёж", "елка еж"},
		{"reno ×2", "reno x2"},
		{"reno х2", "reno x2"}, // cyrillic х
		{"a\tb\nc", "a b c"},
		{"", ""},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, Normalize(c.in), "input %q", c.in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Продал Reno 11F 128GB — 3", "Сток:\nredmi 12 ×2", "ёё хх"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}
