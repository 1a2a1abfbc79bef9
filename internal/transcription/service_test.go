package transcription

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/meetscribe/internal/apperror"
	"github.com/nguyentantai21042004/meetscribe/internal/audio"
	"github.com/nguyentantai21042004/meetscribe/internal/logger"
	"github.com/nguyentantai21042004/meetscribe/internal/record"
	"github.com/nguyentantai21042004/meetscribe/internal/telemetry"
)

type fakeNormalizer struct {
	buf *audio.Buffer
	err error
}

func (f fakeNormalizer) Normalize(_ context.Context, _, dst string) error {
	if f.err != nil {
		return f.err
	}
	return f.buf.WriteWAV(dst)
}

// fakeEncoder reports a fixed output size for every attempt.
type fakeEncoder struct {
	size int64
}

func (f fakeEncoder) Encode(_ context.Context, _, dst, _ string, _ audio.Settings) (int64, error) {
	return f.size, os.WriteFile(dst, []byte("compressed"), 0644)
}

// fakeSTT answers "part N" for segment N. Lower indexes answer last so
// completion order is the reverse of segment order.
type fakeSTT struct {
	mu      sync.Mutex
	calls   []string
	failOn  int
	delay   time.Duration
	onCall  func(path string)
	maxSeen int
}

func (f *fakeSTT) Name() string { return "fake" }

func (f *fakeSTT) Transcribe(ctx context.Context, path string) (string, error) {
	var index int
	if _, err := fmt.Sscanf(filepath.Base(path), "segment_%03d", &index); err != nil {
		return "", err
	}

	f.mu.Lock()
	f.calls = append(f.calls, filepath.Base(path))
	f.maxSeen = max(f.maxSeen, index)
	f.mu.Unlock()

	if f.onCall != nil {
		f.onCall(path)
	}
	if f.failOn == index {
		return "", errors.New("upstream unavailable")
	}

	select {
	case <-time.After(time.Duration(10-index) * f.delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return fmt.Sprintf("  part %d ", index), nil
}

// tone returns 10s of loud mono audio at 1kHz: 20044 bytes as WAV.
func tone() *audio.Buffer {
	samples := make([]int, 10000)
	for i := range samples {
		samples[i] = 8000
	}
	return &audio.Buffer{SampleRate: 1000, Channels: 1, BitDepth: 16, Samples: samples}
}

type fixture struct {
	svc     Service
	stt     *fakeSTT
	store   *record.FileStore
	tempDir string
}

func newFixture(t *testing.T, encodedSize int64, concurrency int) *fixture {
	t.Helper()

	root := t.TempDir()
	store, err := record.NewFileStore(filepath.Join(root, "transcription.txt"))
	if err != nil {
		t.Fatal(err)
	}

	f := &fixture{
		stt:     &fakeSTT{failOn: -1, delay: time.Millisecond},
		store:   store,
		tempDir: filepath.Join(root, "temp"),
	}
	f.svc = New(Options{
		TempDir:       f.tempDir,
		ArchiveDir:    filepath.Join(root, "archived"),
		Codec:         "mp3",
		ByteBudget:    8000,
		MaxAttempts:   2,
		Policy:        audio.PolicyUniform,
		MaxConcurrent: concurrency,
		CallTimeout:   time.Second,
	}, Deps{
		Normalizer:  fakeNormalizer{buf: tone()},
		Encoder:     fakeEncoder{size: encodedSize},
		Transcriber: f.stt,
		Store:       store,
		Recorder:    telemetry.NewRecorder(),
		Logger:      logger.New("error", "text", io.Discard),
	})
	return f
}

func (f *fixture) assertTempEmpty(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(f.tempDir)
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp dir still holds %d entries", len(entries))
	}
}

func upload(name string) Upload {
	return Upload{Filename: name, ContentType: "audio/mpeg", Body: strings.NewReader("raw audio")}
}

func TestTranscribeCompressedSingleSegment(t *testing.T) {
	f := newFixture(t, 4000, 1)

	got, err := f.svc.Transcribe(context.Background(), upload("standup.mp3"))
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got != "part 0" {
		t.Errorf("Transcribe() = %q, want %q", got, "part 0")
	}
	if len(f.stt.calls) != 1 || f.stt.calls[0] != "segment_000.mp3" {
		t.Errorf("stt calls = %v", f.stt.calls)
	}

	rec, err := f.store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if rec.Filename != "standup.mp3" || rec.Body != "part 0" {
		t.Errorf("record = %+v", rec)
	}
	f.assertTempEmpty(t)
}

func TestTranscribeSegmentedOrderInvariant(t *testing.T) {
	f := newFixture(t, 1<<30, 3)

	got, err := f.svc.Transcribe(context.Background(), upload("allhands.m4a"))
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if want := "part 0 part 1 part 2"; got != want {
		t.Errorf("Transcribe() = %q, want %q", got, want)
	}
	if len(f.stt.calls) != 3 {
		t.Errorf("stt called %d times, want 3", len(f.stt.calls))
	}
	f.assertTempEmpty(t)
}

func TestTranscribeDeletesSegmentAfterCall(t *testing.T) {
	f := newFixture(t, 1<<30, 1)
	f.stt.onCall = func(path string) {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("segment %s missing during call: %v", path, err)
		}
		var index int
		fmt.Sscanf(filepath.Base(path), "segment_%03d", &index)
		if index == 0 {
			return
		}
		prev := filepath.Join(filepath.Dir(path), fmt.Sprintf("segment_%03d.wav", index-1))
		if _, err := os.Stat(prev); !os.IsNotExist(err) {
			t.Errorf("previous segment %s still on disk", prev)
		}
	}

	if _, err := f.svc.Transcribe(context.Background(), upload("a.wav")); err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
}

func TestTranscribeFailureIsAllOrNothing(t *testing.T) {
	f := newFixture(t, 1<<30, 1)
	f.stt.failOn = 1

	if err := f.store.Save(record.Record{Filename: "old.mp3", Body: "previous"}); err != nil {
		t.Fatal(err)
	}

	got, err := f.svc.Transcribe(context.Background(), upload("new.mp3"))
	if !apperror.IsKind(err, apperror.TranscriptionCallFailure) {
		t.Fatalf("Transcribe() error = %v, want TranscriptionCallFailure", err)
	}
	if got != "" {
		t.Errorf("Transcribe() = %q, want no partial transcript", got)
	}
	if appErr, _ := apperror.As(err); appErr.Metadata["segment"] != "1" {
		t.Errorf("segment metadata = %q, want 1", appErr.Metadata["segment"])
	}
	if f.stt.maxSeen > 1 {
		t.Errorf("segment %d dispatched after failure", f.stt.maxSeen)
	}

	rec, _ := f.store.Load()
	if rec.Filename != "old.mp3" || rec.Body != "previous" {
		t.Errorf("record overwritten on failure: %+v", rec)
	}
	f.assertTempEmpty(t)
}

func TestTranscribeRejectsNonAudio(t *testing.T) {
	f := newFixture(t, 4000, 1)

	_, err := f.svc.Transcribe(context.Background(), Upload{
		Filename:    "notes.pdf",
		ContentType: "application/pdf",
		Body:        strings.NewReader("%PDF"),
	})
	appErr, ok := apperror.As(err)
	if !ok || appErr.Kind != apperror.InvalidInputType {
		t.Fatalf("Transcribe() error = %v, want InvalidInputType", err)
	}
	if appErr.HTTPStatus() != 400 {
		t.Errorf("HTTPStatus() = %d, want 400", appErr.HTTPStatus())
	}
	if len(f.stt.calls) != 0 {
		t.Error("stt called for rejected upload")
	}
	f.assertTempEmpty(t)
}

func TestTranscribeNormalizeFailure(t *testing.T) {
	f := newFixture(t, 4000, 1)
	f.svc.(*implService).normalizer = fakeNormalizer{err: errors.New("ffmpeg: invalid data")}

	_, err := f.svc.Transcribe(context.Background(), upload("broken.mp3"))
	if !apperror.IsKind(err, apperror.Internal) {
		t.Errorf("Transcribe() error = %v, want Internal", err)
	}
	f.assertTempEmpty(t)
}

func TestHandleInboxFileArchives(t *testing.T) {
	f := newFixture(t, 4000, 1)
	impl := f.svc.(*implService)

	inbox := t.TempDir()
	src := filepath.Join(inbox, "interview.wav")
	if err := os.WriteFile(src, []byte("raw"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := f.svc.HandleInboxFile(context.Background(), src); err != nil {
		t.Fatalf("HandleInboxFile() error = %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source file still in inbox")
	}
	if _, err := os.Stat(filepath.Join(impl.opts.ArchiveDir, "interview.wav")); err != nil {
		t.Errorf("archived file missing: %v", err)
	}

	rec, _ := f.store.Load()
	if rec.Filename != "interview.wav" {
		t.Errorf("record filename = %q", rec.Filename)
	}
}

func TestAssembleOrderInvariant(t *testing.T) {
	want := "alpha beta gamma delta"
	texts := []string{"alpha", " beta", "gamma\n", "delta"}

	orders := [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {2, 0, 3, 1}}
	for _, order := range orders {
		results := make(map[int]string)
		for _, i := range order {
			results[i] = texts[i]
		}
		if got := Assemble(results); got != want {
			t.Errorf("Assemble(order %v) = %q, want %q", order, got, want)
		}
	}
}

func TestNewJobIsolation(t *testing.T) {
	root := t.TempDir()
	a, err := newJob(root, "a.mp3")
	if err != nil {
		t.Fatal(err)
	}
	b, err := newJob(root, "a.mp3")
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID || a.Dir == b.Dir {
		t.Errorf("jobs share identity: %s %s", a.Dir, b.Dir)
	}
	if !strings.HasPrefix(filepath.Base(a.Dir), "job-"+a.ID+"-") {
		t.Errorf("job dir %s does not carry the job id", a.Dir)
	}
}
