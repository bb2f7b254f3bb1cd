package styles

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "single rule",
			in:   "body{color:red;margin:0}",
			want: "body {\n  color:red;\n  margin:0\n}\n",
		},
		{
			name: "collapses whitespace",
			in:   "a ,\n\n b   { color :  blue ; }",
			want: "a , b {\n  color : blue;\n}\n",
		},
		{
			name: "nested media query",
			in:   "@media (max-width:600px){.nav{display:none;}}",
			want: "@media (max-width:600px) {\n  .nav {\n    display:none;\n  }\n}\n",
		},
		{
			name: "semicolon inside url is not a separator",
			in:   "a{background:url(data:image/png;base64,iVBOR);color:red}",
			want: "a {\n  background:url(data:image/png;base64,iVBOR);\n  color:red\n}\n",
		},
		{
			name: "string values preserved verbatim",
			in:   `a{content:"x;  {y}"}`,
			want: "a {\n  content:\"x;  {y}\"\n}\n",
		},
		{
			name: "escaped quote inside string",
			in:   `a{content:"x\"y";color:red}`,
			want: "a {\n  content:\"x\\\"y\";\n  color:red\n}\n",
		},
		{
			name: "escaped backslash before closing quote",
			in:   `a{content:"x\\";color:red}`,
			want: "a {\n  content:\"x\\\\\";\n  color:red\n}\n",
		},
		{
			name: "comments preserved",
			in:   "/* header */h1{font-size:2em}",
			want: "/* header */h1 {\n  font-size:2em\n}\n",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "whitespace only",
			in:   "  \n\t ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.in)
			if got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormat_Idempotent(t *testing.T) {
	inputs := []string{
		"body{color:red;margin:0}",
		"@media screen{a{x:y}b{p:q;r:s}}",
		"a{background:url(data:image/png;base64,AAAA;x);content:\"{;}\"}",
		`a{content:"x\\";color:red}`,
		"/* multi\n   line\n   comment */ a { b:c }",
		".x{}.y{z:1}",
		"@import url(\"theme.css\");a{b:c}",
	}
	for _, in := range inputs {
		once := Format(in)
		twice := Format(once)
		if once != twice {
			t.Errorf("Format not idempotent for %q:\n first: %q\nsecond: %q", in, once, twice)
		}
	}
}
