package tokenizer

import "testing"

func tokens(ts ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ts))
	for _, t := range ts {
		m[t] = struct{}{}
	}
	return m
}

func sameSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func TestSimpleTokenize(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    map[string]struct{}
	}{
		{"plain words", "hello world", tokens("hello", "world")},
		{"case folded", "Hello WORLD", tokens("hello", "world")},
		{"punctuation split", "foo, bar! baz?", tokens("foo", "bar", "baz")},
		{"duplicates collapse", "go go go", tokens("go")},
		{"digits and underscore kept", "x_1 y2", tokens("x_1", "y2")},
		{"newlines and tabs", "a\nb\tc", tokens("a", "b", "c")},
		{"empty", "", tokens()},
		{"only separators", "  ,;.  ", tokens()},
	}

	tok := Simple{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tok.Tokenize(tt.content)
			if !sameSet(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestSimpleNormalize(t *testing.T) {
	tok := Simple{}
	if got := tok.Normalize("  HeLLo "); got != "hello" {
		t.Errorf("Normalize = %q, want %q", got, "hello")
	}
}

func TestTokensAreNormalizeFixedPoints(t *testing.T) {
	tok := Simple{}
	for tk := range tok.Tokenize("Mixed CASE Content with_underscores and 42 numbers") {
		if tok.Normalize(tk) != tk {
			t.Errorf("token %q is not a fixed point of Normalize", tk)
		}
	}
}
