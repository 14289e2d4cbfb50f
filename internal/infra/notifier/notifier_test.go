package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"newsreel/internal/domain/entity"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testJob() *entity.Job {
	j := entity.NewJob("job-1", "morning-news", "balanced")
	j.Status = entity.JobStatusCompleted
	j.ProcessedSegments = 5
	j.TotalSegments = 5
	j.OutputPath = "/renders/job-1.mp4"
	return j
}

func TestSlack_NotifyRun(t *testing.T) {
	var got slackPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSlack(srv.URL, testLogger())
	if err := s.NotifyRun(context.Background(), testJob()); err != nil {
		t.Fatalf("NotifyRun() error = %v", err)
	}
	if !strings.Contains(got.Text, "morning-news") {
		t.Errorf("payload text = %q, want job name included", got.Text)
	}
	if !strings.Contains(got.Text, "5/5 segments") {
		t.Errorf("payload text = %q, want segment counts included", got.Text)
	}
}

func TestSlack_NotifyRun_ClientErrorNoRetry(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	s := NewSlack(srv.URL, testLogger())
	err := s.NotifyRun(context.Background(), testJob())
	if err == nil {
		t.Fatal("NotifyRun() error = nil, want client error")
	}
	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		t.Fatalf("error = %v, want *ClientError", err)
	}
	if calls != 1 {
		t.Errorf("webhook called %d times, want 1 (4xx must not retry)", calls)
	}
}

func TestSlack_NotifyRun_ServerErrorRetries(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSlack(srv.URL, testLogger())
	if err := s.NotifyRun(context.Background(), testJob()); err != nil {
		t.Fatalf("NotifyRun() error = %v, want recovery on retry", err)
	}
	if calls != 2 {
		t.Errorf("webhook called %d times, want 2", calls)
	}
}

func TestDiscord_NotifyRun_EmbedColor(t *testing.T) {
	var got discordPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := NewDiscord(srv.URL, testLogger())

	j := testJob()
	j.Status = entity.JobStatusFailed
	if err := d.NotifyRun(context.Background(), j); err != nil {
		t.Fatalf("NotifyRun() error = %v", err)
	}
	if len(got.Embeds) != 1 {
		t.Fatalf("embeds = %d, want 1", len(got.Embeds))
	}
	if got.Embeds[0].Color != discordRed {
		t.Errorf("embed color = %#x, want %#x for failed run", got.Embeds[0].Color, discordRed)
	}
}

type failingChannel struct{ calls int }

func (f *failingChannel) Name() string { return "failing" }
func (f *failingChannel) NotifyRun(context.Context, *entity.Job) error {
	f.calls++
	return errors.New("webhook down")
}

type okChannel struct{ calls int }

func (o *okChannel) Name() string { return "ok" }
func (o *okChannel) NotifyRun(context.Context, *entity.Job) error {
	o.calls++
	return nil
}

func TestMulti_ContinuesPastFailures(t *testing.T) {
	bad := &failingChannel{}
	good := &okChannel{}
	m := NewMulti(testLogger(), bad, good)

	if err := m.NotifyRun(context.Background(), testJob()); err != nil {
		t.Fatalf("NotifyRun() error = %v, want nil (best effort)", err)
	}
	if bad.calls != 1 || good.calls != 1 {
		t.Errorf("calls = (%d, %d), want both channels attempted", bad.calls, good.calls)
	}
}

func TestMulti_Enabled(t *testing.T) {
	if NewMulti(testLogger()).Enabled() {
		t.Error("Enabled() = true with no channels")
	}
	if !NewMulti(testLogger(), &okChannel{}).Enabled() {
		t.Error("Enabled() = false with one channel")
	}
}
