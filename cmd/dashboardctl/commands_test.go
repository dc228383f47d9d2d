package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DASHBOARD_FETCH_LATENCY", "0s")
	t.Setenv("DASHBOARD_BASE_RETRY_DELAY", "0s")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestSnapshotCommand(t *testing.T) {
	out, err := runCLI(t, "snapshot", "--role", "system_admin")
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}

	var snap struct {
		Role       string `json:"role"`
		Statistics []any  `json:"statistics"`
		Actions    []any  `json:"actions"`
	}
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if snap.Role != "system_admin" {
		t.Errorf("role = %q", snap.Role)
	}
	if len(snap.Statistics) == 0 {
		t.Errorf("expected statistics in snapshot")
	}
	if len(snap.Actions) != 8 {
		t.Errorf("expected 8 quick actions, got %d", len(snap.Actions))
	}
}

func TestSnapshotCommand_RoleRequired(t *testing.T) {
	_, err := runCLI(t, "snapshot")
	if err == nil || !strings.Contains(err.Error(), "role") {
		t.Fatalf("expected missing role error, got %v", err)
	}
}

func TestWatchCommand(t *testing.T) {
	out, err := runCLI(t, "watch", "--role", "student", "--for", "200ms", "--interval", "50ms")
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}

	var lines []stateLine
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var l stateLine
		if err := json.Unmarshal(sc.Bytes(), &l); err != nil {
			t.Fatalf("invalid json line %q: %v", sc.Text(), err)
		}
		lines = append(lines, l)
	}

	if len(lines) < 2 {
		t.Fatalf("expected at least loading and ready states, got %d", len(lines))
	}
	if !lines[0].Loading || lines[0].Status != "loading" {
		t.Errorf("first state should be loading: %+v", lines[0])
	}
	ready := 0
	for _, l := range lines {
		if l.Status == "ready" {
			ready++
			if l.Role != "student" || l.Statistics == 0 {
				t.Errorf("unexpected ready state: %+v", l)
			}
		}
	}
	if ready < 2 {
		t.Errorf("expected the initial load plus at least one scheduled refresh, got %d ready states", ready)
	}
}
