package command

import (
	"context"
	"strings"
	"testing"
)

func TestExecRunnerMissingBinary(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), "definitely-not-a-real-binary-7f3a", "arg")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !strings.Contains(err.Error(), "definitely-not-a-real-binary-7f3a arg failed") {
		t.Errorf("error should name the command, got: %v", err)
	}
}

func TestFuncAdapter(t *testing.T) {
	var gotName string
	var gotArgs []string

	r := Func(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		return []byte("ok"), nil
	})

	out, err := r.Run(context.Background(), "ldconsole", "list2")
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if string(out) != "ok" {
		t.Errorf("expected output 'ok', got %q", out)
	}
	if gotName != "ldconsole" || len(gotArgs) != 1 || gotArgs[0] != "list2" {
		t.Errorf("unexpected invocation: %s %v", gotName, gotArgs)
	}
}
