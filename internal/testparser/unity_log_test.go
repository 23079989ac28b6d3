package testparser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestUnityLogParser(t *testing.T) {
	t.Parallel()
	parser := &UnityLogParser{}

	tests := []struct {
		name     string
		log      string
		expected []Diagnostic
	}{
		{
			name:     "empty log",
			log:      "",
			expected: nil,
		},
		{
			name: "clean compile",
			log: `Initialize engine version: 2022.3.10f1
[ScriptCompilation] Requested script compilation because: Assembly Definition File(s) changed
Exiting batchmode successfully now!
`,
			expected: nil,
		},
		{
			name: "located errors and warnings",
			log: `Refreshing native plugins compatible for Editor in 0.00 ms
Assets/Scripts/Player.cs(12,34): error CS0103: The name 'foo' does not exist in the current context
Assets/Scripts/Enemy.cs(40,13): warning CS0168: The variable 'e' is declared but never used
`,
			expected: []Diagnostic{
				{Severity: SeverityError, File: "Assets/Scripts/Player.cs", Line: 12, Column: 34, Code: "CS0103", Message: "The name 'foo' does not exist in the current context"},
				{Severity: SeverityWarning, File: "Assets/Scripts/Enemy.cs", Line: 40, Column: 13, Code: "CS0168", Message: "The variable 'e' is declared but never used"},
			},
		},
		{
			name: "duplicates collapsed and redundant marker dropped",
			log: `Assets/A.cs(1,1): error CS1002: ; expected
Assets/A.cs(1,1): error CS1002: ; expected
Scripts have compiler errors.
`,
			expected: []Diagnostic{
				{Severity: SeverityError, File: "Assets/A.cs", Line: 1, Column: 1, Code: "CS1002", Message: "; expected"},
			},
		},
		{
			name: "bare compiler error",
			log:  "error CS2001: Source file 'Assets/Missing.cs' could not be found\n",
			expected: []Diagnostic{
				{Severity: SeverityError, Code: "CS2001", Message: "Source file 'Assets/Missing.cs' could not be found"},
			},
		},
		{
			name: "marker kept when no compiler errors",
			log:  "Scripts have compiler errors.\n",
			expected: []Diagnostic{
				{Severity: SeverityError, Message: "Scripts have compiler errors."},
			},
		},
		{
			name: "license failure",
			log:  "No valid Unity Editor license found. Please activate your license.\r\n",
			expected: []Diagnostic{
				{Severity: SeverityError, Message: "No valid Unity Editor license found. Please activate your license."},
			},
		},
		{
			name: "no trailing newline and indentation",
			log:  "   Assets/B.cs(3,7): error CS0246: The type or namespace name 'Foo' could not be found",
			expected: []Diagnostic{
				{Severity: SeverityError, File: "Assets/B.cs", Line: 3, Column: 7, Code: "CS0246", Message: "The type or namespace name 'Foo' could not be found"},
			},
		},
		{
			name:     "unknown lines ignored",
			log:      "error: something unrelated\nwarning: nope\nCS0103 mentioned in passing\n",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parser.ParseLog(strings.NewReader(tt.log))
			if err != nil {
				t.Fatalf("ParseLog() error = %v", err)
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("ParseLog() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnityLogParser_VeryLongLine(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("x", 1<<20)
	log := long + "\nAssets/C.cs(1,2): error CS0001: after long line\n"

	got, err := (&UnityLogParser{}).ParseLog(strings.NewReader(log))
	if err != nil {
		t.Fatalf("ParseLog() error = %v", err)
	}
	if len(got) != 1 || got[0].Code != "CS0001" {
		t.Errorf("ParseLog() = %+v, want one CS0001 diagnostic", got)
	}
}
