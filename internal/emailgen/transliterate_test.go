package emailgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransliterate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Smith", "Smith"},
		{"Müller", "Muller"},
		{"François", "Francois"},
		{"Straße", "Strasse"},
		{"Ångström", "Aangstrom"},
		{"Søren", "Soren"},
		{"Łukasz", "Lukasz"},
		{"Nuñez", "Nunez"},
		{"Dvořák", "Dvorak"},
		{"Ærø", "Aero"},
		{"O'Brien-Smith", "OBrienSmith"},
		{"Jean Luc", "JeanLuc"},
		{"José 2nd", "Jose2nd"},
		{"李", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Transliterate(tt.in))
		})
	}
}

func TestTransliterate_Idempotent(t *testing.T) {
	inputs := []string{"Müller", "Åsa Ørsted", "Čapek", "Þórr", "plain", "", "ß-ẞ"}
	for _, in := range inputs {
		once := Transliterate(in)
		assert.Equal(t, once, Transliterate(once), "input %q", in)
	}
}
