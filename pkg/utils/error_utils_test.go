package utils

import "testing"

func TestIsValidEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"jo@x.com", true},
		{"JO@X.COM", true},
		{"first.last+tag@sub.domain.org", true},
		{"not-an-email", false},
		{"@x.com", false},
		{"jo@", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsValidEmail(tc.email); got != tc.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tc.email, got, tc.want)
		}
	}
}

func TestIsValidPhone(t *testing.T) {
	cases := []struct {
		phone string
		want  bool
	}{
		{"+1234567", true},
		{"1234567", true},
		{"+1 (555) 010-0100", true},
		{"123", false},
		{"abc1234567", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsValidPhone(tc.phone); got != tc.want {
			t.Errorf("IsValidPhone(%q) = %v, want %v", tc.phone, got, tc.want)
		}
	}
}

func TestIsValidAge(t *testing.T) {
	cases := []struct {
		age  string
		want bool
	}{
		{"1", true},
		{"100", true},
		{"42", true},
		{"0", false},
		{"101", false},
		{"-5", false},
		{"old", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsValidAge(tc.age); got != tc.want {
			t.Errorf("IsValidAge(%q) = %v, want %v", tc.age, got, tc.want)
		}
	}
}
