package delimvm

import (
	"testing"
)

func TestCompileAlternation_firstMatchWins(t *testing.T) {
	p, err := CompileAlternation([][]byte{
		[]byte("<<"),
		[]byte("<<<"),
		[]byte("<!"),
	})
	if err != nil {
		t.Fatalf("CompileAlternation: %v", err)
	}

	idx, n, ok := MatchAlternation(p, []byte("<<<rest"))
	if !ok {
		t.Fatalf("expected a match")
	}
	if idx != 0 {
		t.Errorf("expected alternative 0 (ordered choice, first match wins), got %d", idx)
	}
	if n != 2 {
		t.Errorf("expected matched length 2, got %d", n)
	}
}

func TestCompileAlternation_laterAlternative(t *testing.T) {
	p, err := CompileAlternation([][]byte{
		[]byte("-<"),
		[]byte("<!"),
	})
	if err != nil {
		t.Fatalf("CompileAlternation: %v", err)
	}

	idx, n, ok := MatchAlternation(p, []byte("<!X"))
	if !ok || idx != 1 || n != 2 {
		t.Errorf("got idx=%d n=%d ok=%v, want idx=1 n=2 ok=true", idx, n, ok)
	}
}

func TestCompileAlternation_noMatch(t *testing.T) {
	p, err := CompileAlternation([][]byte{
		[]byte("-<"),
		[]byte("<!"),
	})
	if err != nil {
		t.Fatalf("CompileAlternation: %v", err)
	}

	_, _, ok := MatchAlternation(p, []byte("XYZ"))
	if ok {
		t.Errorf("expected no match")
	}
}

func TestCompileAlternation_shortWindow(t *testing.T) {
	p, err := CompileAlternation([][]byte{
		[]byte("-<"),
	})
	if err != nil {
		t.Fatalf("CompileAlternation: %v", err)
	}

	_, _, ok := MatchAlternation(p, []byte("-"))
	if ok {
		t.Errorf("expected no match on truncated window")
	}
}

func TestCompileAlternation_empty(t *testing.T) {
	if _, err := CompileAlternation(nil); err != ErrNoAlternatives {
		t.Errorf("expected ErrNoAlternatives, got %v", err)
	}
}

func TestCompileAlternation_emptyLiteral(t *testing.T) {
	_, err := CompileAlternation([][]byte{[]byte("-<"), {}})
	if err != ErrEmptyLiteral {
		t.Errorf("expected ErrEmptyLiteral, got %v", err)
	}
}
