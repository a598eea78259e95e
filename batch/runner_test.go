package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"ctapress/models"
)

// fakeCommand implements command.Command without touching ffmpeg.
type fakeCommand struct {
	input  string
	output string
	fail   bool
	delay  time.Duration
	runs   *atomic.Int32
}

func (f *fakeCommand) BuildArgs() []string { return []string{"-i", f.input, f.output} }

func (f *fakeCommand) Run(ctx context.Context) error {
	if f.runs != nil {
		f.runs.Add(1)
	}
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.fail {
		return errors.New("engineered failure")
	}
	return nil
}

func (f *fakeCommand) DryRun() (string, error) { return "ffmpeg (fake)", nil }
func (f *fakeCommand) GetInputPath() string    { return f.input }
func (f *fakeCommand) GetOutputPath() string   { return f.output }

// streamingCommand additionally implements command.ProgressCommand and
// emits one progress update per Run.
type streamingCommand struct {
	fakeCommand
	callback models.ProgressCallback
}

func (s *streamingCommand) SetProgressCallback(callback models.ProgressCallback) {
	s.callback = callback
}

func (s *streamingCommand) Run(ctx context.Context) error {
	if s.callback != nil {
		p := models.NewEncodingProgress(60)
		p.CalculateProgress(30)
		s.callback(p)
	}
	return s.fakeCommand.Run(ctx)
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func makeItems(n int, failing int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			ID:        fmt.Sprintf("job-%d", i),
			MainVideo: fmt.Sprintf("/in/video_%d.mp4", i),
			Output:    fmt.Sprintf("/out/video_%d.mp4", i),
			Command: &fakeCommand{
				input:  fmt.Sprintf("/in/video_%d.mp4", i),
				output: fmt.Sprintf("/out/video_%d.mp4", i),
				fail:   i == failing,
			},
		}
	}
	return items
}

func TestRun_AllSucceed(t *testing.T) {
	runner := NewRunner(1, testLogger())
	results := runner.Run(context.Background(), makeItems(3, -1))

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	for i, result := range results {
		if result == nil || !result.Success {
			t.Errorf("Expected result %d to succeed, got %+v", i, result)
		}
	}
}

func TestRun_PartialFailure(t *testing.T) {
	// Job 2 of 5 is engineered to fail; the batch must still produce
	// 4 successes and exactly one recorded failure.
	runner := NewRunner(1, testLogger())
	results := runner.Run(context.Background(), makeItems(5, 2))

	succeeded, failed := Summarize(results)
	if succeeded != 4 {
		t.Errorf("Expected 4 successes, got %d", succeeded)
	}
	if failed != 1 {
		t.Errorf("Expected 1 failure, got %d", failed)
	}

	if results[2].Success {
		t.Error("Expected job 2 to be the recorded failure")
	}
	if results[2].Error == nil {
		t.Error("Expected the failed result to carry its reason")
	}
}

func TestRun_PlanningFailureIsRecorded(t *testing.T) {
	items := makeItems(2, -1)
	items = append(items, Item{
		ID:        "job-skip",
		MainVideo: "/in/odd.mp4",
		Err:       errors.New("no CTA clip for \"Sign Up\" (English) with aspect ratio 17:9"),
	})

	runner := NewRunner(1, testLogger())
	results := runner.Run(context.Background(), items)

	succeeded, failed := Summarize(results)
	if succeeded != 2 || failed != 1 {
		t.Fatalf("Expected 2 successes and 1 failure, got %d/%d", succeeded, failed)
	}
	if results[2].Error == nil || results[2].JobID != "job-skip" {
		t.Errorf("Expected skip reason to be recorded, got %+v", results[2])
	}
}

func TestRun_ResultsKeepItemOrder(t *testing.T) {
	runner := NewRunner(4, testLogger())
	results := runner.Run(context.Background(), makeItems(8, -1))

	for i, result := range results {
		wantID := fmt.Sprintf("job-%d", i)
		if result.JobID != wantID {
			t.Errorf("Result %d has job ID %s, want %s", i, result.JobID, wantID)
		}
	}
}

func TestRun_ProgressCallback(t *testing.T) {
	runner := NewRunner(1, testLogger())

	var calls atomic.Int32
	var lastCompleted atomic.Int32
	runner.SetProgressCallback(func(completed, total int, result *models.JobResult) {
		calls.Add(1)
		lastCompleted.Store(int32(completed))
		if total != 3 {
			t.Errorf("Expected total 3, got %d", total)
		}
	})

	runner.Run(context.Background(), makeItems(3, -1))

	if calls.Load() != 3 {
		t.Errorf("Expected 3 progress calls, got %d", calls.Load())
	}
	if lastCompleted.Load() != 3 {
		t.Errorf("Expected final completed count 3, got %d", lastCompleted.Load())
	}
}

func TestRun_JobProgressForwarded(t *testing.T) {
	runner := NewRunner(1, testLogger())

	item := Item{
		ID:        "job-0",
		MainVideo: "/in/promo.mp4",
		Output:    "/out/promo.mp4",
		Command:   &streamingCommand{fakeCommand: fakeCommand{input: "/in/promo.mp4", output: "/out/promo.mp4"}},
	}

	var gotVideo string
	var gotPercent float64
	runner.SetJobProgressCallback(func(item Item, progress *models.EncodingProgress) {
		gotVideo = item.MainVideo
		gotPercent = progress.Progress
	})

	results := runner.Run(context.Background(), []Item{item})

	if len(results) != 1 || !results[0].Success {
		t.Fatalf("Expected one successful result, got %v", results)
	}
	if gotVideo != "/in/promo.mp4" {
		t.Errorf("Expected progress for /in/promo.mp4, got %q", gotVideo)
	}
	if gotPercent != 50 {
		t.Errorf("Expected 50%% progress forwarded, got %v", gotPercent)
	}
}

func TestRun_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	items := makeItems(4, -1)
	for i := range items {
		items[i].Command = &fakeCommand{
			input:  items[i].MainVideo,
			output: items[i].Output,
			delay:  200 * time.Millisecond,
		}
	}

	runner := NewRunner(1, testLogger())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	results := runner.Run(ctx, items)

	if len(results) != 4 {
		t.Fatalf("Expected a result for every item, got %d", len(results))
	}
	_, failed := Summarize(results)
	if failed == 0 {
		t.Error("Expected cancelled jobs to be recorded as failures")
	}
}

func TestRun_GPUJobsSerialized(t *testing.T) {
	var active atomic.Int32
	var maxActive atomic.Int32

	items := make([]Item, 4)
	for i := range items {
		items[i] = Item{
			ID:        fmt.Sprintf("gpu-%d", i),
			MainVideo: fmt.Sprintf("/in/%d.mp4", i),
			Output:    fmt.Sprintf("/out/%d.mp4", i),
			UseGPU:    true,
			Command: &trackingCommand{
				active:    &active,
				maxActive: &maxActive,
			},
		}
	}

	runner := NewRunner(4, testLogger())
	runner.Run(context.Background(), items)

	if maxActive.Load() > 1 {
		t.Errorf("Expected at most 1 concurrent GPU job, observed %d", maxActive.Load())
	}
}

// trackingCommand records how many invocations overlap.
type trackingCommand struct {
	active    *atomic.Int32
	maxActive *atomic.Int32
}

func (tc *trackingCommand) BuildArgs() []string { return nil }

func (tc *trackingCommand) Run(ctx context.Context) error {
	n := tc.active.Add(1)
	defer tc.active.Add(-1)
	for {
		prev := tc.maxActive.Load()
		if n <= prev || tc.maxActive.CompareAndSwap(prev, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	return nil
}

func (tc *trackingCommand) DryRun() (string, error) { return "", nil }
func (tc *trackingCommand) GetInputPath() string    { return "" }
func (tc *trackingCommand) GetOutputPath() string   { return "" }

func TestSummarize_NilEntries(t *testing.T) {
	ok, _ := models.NewJobResultSuccess("1", "/in.mp4", "/out.mp4")
	succeeded, failed := Summarize([]*models.JobResult{ok, nil})
	if succeeded != 1 || failed != 0 {
		t.Errorf("Expected 1/0, got %d/%d", succeeded, failed)
	}
}
