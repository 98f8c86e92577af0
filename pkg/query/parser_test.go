package query

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseParcelStatement(t *testing.T) {
	script, err := Parse("FrontalLobe = CentralSulcus | SylvianFissure\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := &Script{Stmts: []Stmt{{
		Line:   1,
		Target: "FrontalLobe",
		Value: BarExpr{
			Line:  1,
			Left:  NameExpr{Line: 1, Name: "CentralSulcus"},
			Right: NameExpr{Line: 1, Name: "SylvianFissure"},
		},
	}}}
	if diff := cmp.Diff(want, script); diff != "" {
		t.Errorf("script mismatch (-want +got):\n%s", diff)
	}
}

func TestParseListSpansLines(t *testing.T) {
	src := `_Curves = [
    CentralSulcus,
    SylvianFissure
]
`
	script, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := &Script{Stmts: []Stmt{{
		Line:   1,
		Target: "_Curves",
		Value: ListExpr{Line: 1, Elems: []Expr{
			NameExpr{Line: 2, Name: "CentralSulcus"},
			NameExpr{Line: 3, Name: "SylvianFissure"},
		}},
	}}}
	if diff := cmp.Diff(want, script); diff != "" {
		t.Errorf("script mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStringAssignment(t *testing.T) {
	script, err := Parse(`_DistanceWeightingFunction = "(sulc - sulcMin) / (sulcMax - sulcMin)"`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	str, ok := script.Stmts[0].Value.(StringExpr)
	if !ok {
		t.Fatalf("value is %T, want StringExpr", script.Stmts[0].Value)
	}
	if str.Value != "(sulc - sulcMin) / (sulcMax - sulcMin)" {
		t.Errorf("string value = %q", str.Value)
	}
}

func TestParseCommentsAndSeparators(t *testing.T) {
	src := "# header comment\nA = B; C = D # trailing\n\nE = F"
	script, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(script.Stmts) != 3 {
		t.Fatalf("got %d statements, want 3", len(script.Stmts))
	}
	if script.Stmts[2].Line != 4 {
		t.Errorf("third statement line = %d, want 4", script.Stmts[2].Line)
	}
}

// Calls and unary operators parse; rejecting them is the evaluator's job,
// which needs the position to report.
func TestParseCallAndUnary(t *testing.T) {
	script, err := Parse("A = f(B, C)\nD = -E\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	call, ok := script.Stmts[0].Value.(CallExpr)
	if !ok || call.Fn != "f" || len(call.Args) != 2 {
		t.Errorf("first value = %#v, want call f with 2 args", script.Stmts[0].Value)
	}
	un, ok := script.Stmts[1].Value.(UnaryExpr)
	if !ok || un.Op != "-" {
		t.Errorf("second value = %#v, want unary minus", script.Stmts[1].Value)
	}
}

func TestParseErrorsCarryLineNumbers(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"chained assignment", "A = B\nC = D = E\n", 2},
		{"missing value", "A = B\nC =\n", 2},
		{"missing assign", "A B\n", 1},
		{"unexpected character", "A = B\nC = $\n", 2},
		{"unterminated string", "A = \"open\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			if err == nil {
				t.Fatal("expected a parse error")
			}
			var ee EvalError
			if !errors.As(err, &ee) {
				t.Fatalf("error is %T, want EvalError", err)
			}
			if ee.Kind != KindParse {
				t.Errorf("kind = %v, want KindParse", ee.Kind)
			}
			if ee.Line != tt.line {
				t.Errorf("line = %d, want %d (%v)", ee.Line, tt.line, ee)
			}
		})
	}
}

func TestParseEmptySource(t *testing.T) {
	script, err := Parse("\n\n# only comments\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(script.Stmts) != 0 {
		t.Errorf("got %d statements, want 0", len(script.Stmts))
	}
}
