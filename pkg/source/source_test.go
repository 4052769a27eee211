package source

import "testing"

func TestNewSourceFileKeepsBytes(t *testing.T) {
	for _, content := range []string{
		"let s = \"cafe\u0301\"",
		"let s = \"caf\u00e9\"",
		"let s = \"\ufeff\u2028\x0b\"\r\n",
	} {
		if sf := NewEvalSource(content); sf.Content != content {
			t.Errorf("content rewritten: got %q, want %q", sf.Content, content)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"src/greeter.ts", "src/greeter.js"},
		{"hello", "hello.js"},
	}
	for _, tt := range tests {
		sf := FromFile(tt.path, "")
		if got := sf.OutputPath(); got != tt.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLine(t *testing.T) {
	sf := NewEvalSource("a\r\nb\nc")
	if got := sf.Line(1); got != "a" {
		t.Errorf("Line(1) = %q", got)
	}
	if got := sf.Line(3); got != "c" {
		t.Errorf("Line(3) = %q", got)
	}
	if got := sf.Line(4); got != "" {
		t.Errorf("Line(4) = %q", got)
	}
	if sf.IsFile() {
		t.Errorf("eval source must not report IsFile")
	}
}
