package handlers

import "testing"

func TestCommandArgument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "Single word argument", text: "/show_city Moscow", want: "Moscow"},
		{name: "Multi word argument", text: "/show_city New York", want: "New York"},
		{name: "Bot mention before argument", text: "/show_city@citymapbot Moscow", want: "Moscow"},
		{name: "Trailing whitespace trimmed", text: "/remember_city Moscow  ", want: "Moscow"},
		{name: "Bare command", text: "/show_city", want: ""},
		{name: "Command with only spaces", text: "/show_city   ", want: ""},
		{name: "Empty text", text: "", want: ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := commandArgument(tc.text); got != tc.want {
				t.Errorf("commandArgument(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}
