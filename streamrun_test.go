package streamrun

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/sa6mwa/streamrun/adapters/chunkcapture"
	"github.com/sa6mwa/streamrun/adapters/consolesink"
	"github.com/sa6mwa/streamrun/adapters/mockrunner"
)

func waitOrFail(t *testing.T, child *Child) Result {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res := child.WaitWithContext(ctx)
	if errors.Is(res.Error, context.DeadlineExceeded) {
		t.Fatalf("child %s did not finish in time", child.Path)
	}
	return res
}

func TestRunEchoPrintsLabelledStdout(t *testing.T) {
	var stdout, stderr bytes.Buffer
	child, err := RunSink(context.Background(), consolesink.New(&stdout, &stderr), "echo", "hello")
	if err != nil {
		t.Fatalf("RunSink returned error: %v", err)
	}
	res := waitOrFail(t, child)
	if res.Error != nil || res.ExitCode != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if got, want := stdout.String(), "stdout: hello\n"; got != want {
		t.Fatalf("stdout mismatch: got %q want %q", got, want)
	}
	if stderr.Len() != 0 {
		t.Fatalf("unexpected stderr output: %q", stderr.String())
	}
}

func TestRunNonZeroExitWithStderr(t *testing.T) {
	var stdout, stderr bytes.Buffer
	child, err := RunSink(context.Background(), consolesink.New(&stdout, &stderr),
		"/bin/sh", "-c", "printf err1 >&2; exit 1")
	if err != nil {
		t.Fatalf("RunSink returned error: %v", err)
	}
	res := waitOrFail(t, child)
	if res.ExitCode != 1 {
		t.Fatalf("unexpected exit code: %d", res.ExitCode)
	}
	if res.Error != nil {
		t.Fatalf("non-zero exit must not be an error, got %v", res.Error)
	}
	if !strings.Contains(stderr.String(), "stderr: err1") {
		t.Fatalf("stderr missing labelled chunk: %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Fatalf("unexpected stdout output: %q", stdout.String())
	}
}

func TestRunMissingExecutableIsReportedNotFatal(t *testing.T) {
	var logs bytes.Buffer
	ctx := WithLogger(context.Background(), slog.New(slog.NewTextHandler(&logs, nil)))
	rec := chunkcapture.New()

	child, err := RunSink(ctx, rec, "/nonexistent/streamrun/python3", "main.py")
	if err == nil {
		t.Fatalf("expected spawn error")
	}
	if child != nil {
		t.Fatalf("expected nil child on spawn failure")
	}
	if !errors.Is(err, ErrSpawn) {
		t.Fatalf("error does not match ErrSpawn: %v", err)
	}
	var spawnErr *SpawnError
	if !errors.As(err, &spawnErr) {
		t.Fatalf("expected *SpawnError, got %T", err)
	}
	if spawnErr.Kind != SpawnNotFound {
		t.Fatalf("unexpected spawn kind: %v", spawnErr.Kind)
	}
	if spawnErr.Path != "/nonexistent/streamrun/python3" {
		t.Fatalf("unexpected spawn path: %q", spawnErr.Path)
	}
	if !strings.Contains(logs.String(), "unable to start child") {
		t.Fatalf("spawn failure was not logged: %q", logs.String())
	}
	if len(rec.Chunks()) != 0 {
		t.Fatalf("unexpected output from failed spawn")
	}
}

func TestRunMissingExecutableOnPath(t *testing.T) {
	_, err := RunSink(context.Background(), chunkcapture.New(), "streamrun-no-such-binary-on-path")
	var spawnErr *SpawnError
	if !errors.As(err, &spawnErr) || spawnErr.Kind != SpawnNotFound {
		t.Fatalf("expected not-found spawn error, got %v", err)
	}
}

func TestRunWithoutArguments(t *testing.T) {
	child, err := RunSink(context.Background(), chunkcapture.New(), "true")
	if err != nil {
		t.Fatalf("RunSink returned error: %v", err)
	}
	if len(child.Args) != 0 {
		t.Fatalf("expected no args, got %v", child.Args)
	}
	if res := waitOrFail(t, child); res.ExitCode != 0 || res.Error != nil {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestRunChunksConcatenateInOrder(t *testing.T) {
	var stdout bytes.Buffer
	rec := chunkcapture.New()
	sink := Tee(consolesink.New(&stdout, nil), rec)

	script := "for i in 1 2 3 4 5; do printf \"chunk$i;\"; sleep 0.05; done"
	child, err := RunSink(context.Background(), sink, "/bin/sh", "-c", script)
	if err != nil {
		t.Fatalf("RunSink returned error: %v", err)
	}
	waitOrFail(t, child)

	if got, want := string(rec.Stdout()), "chunk1;chunk2;chunk3;chunk4;chunk5;"; got != want {
		t.Fatalf("concatenated stdout mismatch: got %q want %q", got, want)
	}
	arrivals := rec.Count(Stdout)
	if arrivals == 0 {
		t.Fatalf("no stdout chunks recorded")
	}
	if n := strings.Count(stdout.String(), "stdout: "); n != arrivals {
		t.Fatalf("labels = %d, arrivals = %d", n, arrivals)
	}
	if got := strings.ReplaceAll(stdout.String(), "stdout: ", ""); got != string(rec.Stdout()) {
		t.Fatalf("console content differs from raw chunks: %q", got)
	}
}

func TestRunStreamsAreIndependent(t *testing.T) {
	rec := chunkcapture.New()
	child, err := RunSink(context.Background(), rec, "/bin/sh", "-c", "echo out1; echo err1 >&2; echo out2; echo err2 >&2")
	if err != nil {
		t.Fatalf("RunSink returned error: %v", err)
	}
	waitOrFail(t, child)
	if got := string(rec.Stdout()); got != "out1\nout2\n" {
		t.Fatalf("unexpected stdout: %q", got)
	}
	if got := string(rec.Stderr()); got != "err1\nerr2\n" {
		t.Fatalf("unexpected stderr: %q", got)
	}
}

func TestRunSnapshotsArguments(t *testing.T) {
	args := []string{"-c", "echo $0", "original"}
	rec := chunkcapture.New()
	child, err := RunSink(context.Background(), rec, "/bin/sh", args...)
	if err != nil {
		t.Fatalf("RunSink returned error: %v", err)
	}
	args[2] = "mutated"
	waitOrFail(t, child)
	if child.Args[2] != "original" {
		t.Fatalf("child args changed after spawn: %v", child.Args)
	}
	if got := string(rec.Stdout()); got != "original\n" {
		t.Fatalf("unexpected stdout: %q", got)
	}
}

func TestRunReturnsBeforeChildExits(t *testing.T) {
	start := time.Now()
	child, err := RunSink(context.Background(), chunkcapture.New(), "/bin/sh", "-c", "sleep 1")
	if err != nil {
		t.Fatalf("RunSink returned error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("Run blocked for %s", elapsed)
	}
	select {
	case res := <-child.Done:
		t.Fatalf("child finished too early: %+v", res)
	default:
	}
	if child.PID <= 0 || child.ID == "" {
		t.Fatalf("child handle incomplete: %+v", child)
	}
	res := waitOrFail(t, child)
	if res.ExitCode != 0 {
		t.Fatalf("unexpected exit code %d", res.ExitCode)
	}
	// Wait is repeatable.
	if again := child.Wait(); again.ExitCode != res.ExitCode {
		t.Fatalf("second Wait differs: %+v", again)
	}
}

func TestWaitWithContextStopsWaitingOnly(t *testing.T) {
	child, err := RunSink(context.Background(), chunkcapture.New(), "/bin/sh", "-c", "sleep 0.3")
	if err != nil {
		t.Fatalf("RunSink returned error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if res := child.WaitWithContext(ctx); !errors.Is(res.Error, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %+v", res)
	}
	res := waitOrFail(t, child)
	if res.ExitCode != 0 || res.Error != nil {
		t.Fatalf("child did not keep running: %+v", res)
	}
}

func TestDoneDeliversResult(t *testing.T) {
	child, err := RunSink(context.Background(), chunkcapture.New(), "/bin/sh", "-c", "exit 4")
	if err != nil {
		t.Fatalf("RunSink returned error: %v", err)
	}
	select {
	case res := <-child.Done:
		if res.ExitCode != 4 {
			t.Fatalf("unexpected exit code %d", res.ExitCode)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Done not delivered")
	}
}

func TestRunWithMockRunner(t *testing.T) {
	mock := mockrunner.New(mockrunner.Exit("hello\n", "warn\n", nil))
	var stdout, stderr bytes.Buffer
	child, err := RunWith(context.Background(), mock, consolesink.New(&stdout, &stderr), "./env/bin/python3", "main.py", "bikeshare")
	if err != nil {
		t.Fatalf("RunWith returned error: %v", err)
	}
	res := waitOrFail(t, child)
	if res.ExitCode != 0 || res.Error != nil {
		t.Fatalf("unexpected result: %+v", res)
	}
	if stdout.String() != "stdout: hello\n" || stderr.String() != "stderr: warn\n" {
		t.Fatalf("unexpected output: stdout=%q stderr=%q", stdout.String(), stderr.String())
	}
	if mock.Calls != 1 || mock.Waits != 1 {
		t.Fatalf("Calls = %d, Waits = %d", mock.Calls, mock.Waits)
	}
	want := []string{"./env/bin/python3", "main.py", "bikeshare"}
	if got := mock.Args[0]; strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("unexpected argv: %v", got)
	}
}

func TestRunWithMockStartFailure(t *testing.T) {
	startErr := errors.New("boom")
	mock := mockrunner.New(mockrunner.FailStart(startErr))
	child, err := RunWith(context.Background(), mock, chunkcapture.New(), "/opt/tool")
	if child != nil {
		t.Fatalf("expected nil child")
	}
	if !errors.Is(err, ErrSpawn) || !errors.Is(err, startErr) {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.Waits != 0 {
		t.Fatalf("Wait called after failed start")
	}
}

func TestRunWithNilDependencies(t *testing.T) {
	if _, err := RunWith(context.Background(), nil, chunkcapture.New(), "true"); !errors.Is(err, ERR_NIL_RUNNER) {
		t.Fatalf("expected ERR_NIL_RUNNER, got %v", err)
	}
	if _, err := RunWith(context.Background(), mockrunner.New(), nil, "true"); !errors.Is(err, ERR_NIL_SINK) {
		t.Fatalf("expected ERR_NIL_SINK, got %v", err)
	}
}

func TestNilChildWait(t *testing.T) {
	var c *Child
	if res := c.Wait(); res != (Result{}) {
		t.Fatalf("expected zero result, got %+v", res)
	}
}

func TestTeeSkipsNilSinks(t *testing.T) {
	a, b := chunkcapture.New(), chunkcapture.New()
	sink := Tee(a, nil, b)
	sink.Chunk(Stderr, []byte("x"))
	if string(a.Stderr()) != "x" || string(b.Stderr()) != "x" {
		t.Fatalf("tee did not fan out")
	}
}
