package models

import "testing"

func TestParseGender(t *testing.T) {
	cases := []struct {
		input string
		want  Gender
		ok    bool
	}{
		{"male", GenderMale, true},
		{"Male", GenderMale, true},
		{"MALE", GenderMale, true},
		{" female ", GenderFemale, true},
		{"Female", GenderFemale, true},
		{"other", "", false},
		{"", "", false},
		{"m", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseGender(tc.input)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseGender(%q) = (%q, %v), want (%q, %v)", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}
