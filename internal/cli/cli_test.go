package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func TestListValueSplitsAndRepeats(t *testing.T) {
	var got []string
	fs := NewFlagSet("x")
	fs.Var(ListValue{Dst: &got}, "path", "")
	sep := string(filepath.ListSeparator)
	if err := fs.Parse([]string{"--path", "a" + sep + "b", "--path", "c" + sep + sep}); err != nil {
		t.Fatal(err)
	}
	if strings.Join(got, ",") != "a,b,c" {
		t.Fatalf("got %v", got)
	}
}

func TestChoiceValue(t *testing.T) {
	v := "prompt"
	fs := NewFlagSet("x")
	fs.Var(ChoiceValue{Dst: &v, Choices: []string{"prompt", "skip"}}, "mode", "")
	if err := fs.Parse([]string{"--mode", "skip"}); err != nil || v != "skip" {
		t.Fatalf("v=%q err=%v", v, err)
	}
	fs = NewFlagSet("x")
	fs.SetOutput(new(strings.Builder))
	fs.Var(ChoiceValue{Dst: &v, Choices: []string{"prompt", "skip"}}, "mode", "")
	if err := fs.Parse([]string{"--mode", "later"}); err == nil {
		t.Fatal("expected error for unknown choice")
	}
}

func TestIsConfig(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Configf("missing --%s", "x"))
	if !IsConfig(err) {
		t.Fatal("wrapped ConfigError not detected")
	}
	if IsConfig(errors.New("plain")) {
		t.Fatal("plain error detected as ConfigError")
	}
	if err.Error() != "wrapped: missing --x" {
		t.Fatalf("message %q", err.Error())
	}
}

func TestNewFlagSetIsSilent(t *testing.T) {
	fs := NewFlagSet("x")
	if fs.Output() != io.Discard {
		t.Fatal("flag output should be discarded")
	}
	if err := fs.Parse([]string{"--nope"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}
