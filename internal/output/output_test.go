package output

import (
	"testing"
)

func TestDetectJSON(t *testing.T) {
	if got := Detect(true, false, false); got != FormatJSON {
		t.Errorf("Detect(json=true) = %d, want FormatJSON", got)
	}
}

func TestDetectTable(t *testing.T) {
	if got := Detect(false, true, false); got != FormatTable {
		t.Errorf("Detect(table=true) = %d, want FormatTable", got)
	}
}

func TestDetectCompact(t *testing.T) {
	if got := Detect(false, false, true); got != FormatCompact {
		t.Errorf("Detect(compact=true) = %d, want FormatCompact", got)
	}
}

func TestDetectEnvCompact(t *testing.T) {
	t.Setenv("SPECCHECK_OUTPUT", "compact")

	if got := Detect(false, false, false); got != FormatCompact {
		t.Errorf("Detect with SPECCHECK_OUTPUT=compact = %d, want FormatCompact", got)
	}
}

func TestDetectEnvJSON(t *testing.T) {
	t.Setenv("SPECCHECK_OUTPUT", "json")

	if got := Detect(false, false, false); got != FormatJSON {
		t.Errorf("Detect with SPECCHECK_OUTPUT=json = %d, want FormatJSON", got)
	}
}

func TestDetectEnvTable(t *testing.T) {
	t.Setenv("SPECCHECK_OUTPUT", "table")

	if got := Detect(false, false, false); got != FormatTable {
		t.Errorf("Detect with SPECCHECK_OUTPUT=table = %d, want FormatTable", got)
	}
}

func TestDetectFlagOverridesEnv(t *testing.T) {
	t.Setenv("SPECCHECK_OUTPUT", "table")

	if got := Detect(true, false, false); got != FormatJSON {
		t.Errorf("Detect(json=true) with SPECCHECK_OUTPUT=table = %d, want FormatJSON (flag wins)", got)
	}
}

func TestDetectTTYIsTable(t *testing.T) {
	t.Setenv("SPECCHECK_OUTPUT", "")
	orig := isTerminalFn
	isTerminalFn = func() bool { return true }
	t.Cleanup(func() { isTerminalFn = orig })

	if got := Detect(false, false, false); got != FormatTable {
		t.Errorf("Detect(tty) = %d, want FormatTable", got)
	}
}

func TestDetectPipedIsJSON(t *testing.T) {
	t.Setenv("SPECCHECK_OUTPUT", "")
	orig := isTerminalFn
	isTerminalFn = func() bool { return false }
	t.Cleanup(func() { isTerminalFn = orig })

	if got := Detect(false, false, false); got != FormatJSON {
		t.Errorf("Detect(piped) = %d, want FormatJSON", got)
	}
}
