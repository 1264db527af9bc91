package transcription

import (
	"testing"
)

func TestCleaner_Clean(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "empty", text: "", want: ""},
		{name: "plain", text: "hello world", want: "hello world"},
		{name: "markup", text: "<|zh|>你好<|EMO_UNKNOWN|>", want: "你好"},
		{name: "markup only", text: "<|zh|><|NEUTRAL|>", want: ""},
		{name: "whitespace runs", text: "a  b\t\nc", want: "a b c"},
		{name: "trim", text: "  你好  ", want: "你好"},
		{name: "markup leaves space", text: "你 <|EMO|> 好", want: "你 好"},
		{name: "unclosed markup kept", text: "<|zh 你好", want: "<|zh 你好"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCleaner()
			if got := c.Clean(tt.text); got != tt.want {
				t.Errorf("Clean() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleaner_Clean_Idempotent(t *testing.T) {
	tests := []string{
		"",
		"hello world",
		"<|zh|>你好<|EMO|>",
		"  a \t b \n c  ",
		"第一句。第二句！",
	}
	c := NewCleaner()
	for _, text := range tests {
		once := c.Clean(text)
		if twice := c.Clean(once); twice != once {
			t.Errorf("Clean(Clean(%q)) = %q, want %q", text, twice, once)
		}
	}
}

func TestIsMarkup(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"<|zh|>", true},
		{"<|EMO_UNKNOWN|>", true},
		{"你", false},
		{"<|zh", false},
		{"zh|>", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsMarkup(tt.word); got != tt.want {
			t.Errorf("IsMarkup(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}
