package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const recordsJSON = `[
	{"agent":"A","campaign":"X","audience":"CTO","weekEnd":"2024-01-07","totalInvited":"100","totalAccepted":"20","totalMessaged":"20","replies":"2"},
	{"agent":"A","campaign":"X","audience":"CTO","weekEnd":"2024-01-14","totalInvited":"100","totalAccepted":"30","totalMessaged":"30","replies":"3"},
	{"agent":"A","campaign":"X","audience":"CTO","weekEnd":"2024-01-21","totalInvited":"100","totalAccepted":"40","totalMessaged":"40","replies":"4"}
]`

func writeRecords(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.json")
	if err := os.WriteFile(path, []byte(recordsJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute %v: %v", args, err)
	}
	return out.String()
}

func TestReportCommand(t *testing.T) {
	out := run(t, "report", "-f", writeRecords(t), "--periods", "1")
	for _, want := range []string{"Acceptance: 30.00%", "Tier: Above Benchmark", "2024-01-28", "Positive acceptance trend"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "2024-01-28") {
			continue
		}
		if !strings.Contains(line, " - ") {
			t.Fatalf("forecast bounds not dash separated: %q", line)
		}
		for _, r := range line {
			if r > 127 {
				t.Fatalf("forecast line is not plain ASCII: %q", line)
			}
		}
	}
}

func TestExportCommand(t *testing.T) {
	out := run(t, "export", "-f", writeRecords(t), "--dimension", "agent")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[1], "A,3,300,90,90,9") {
		t.Fatalf("unexpected csv:\n%s", out)
	}
}
