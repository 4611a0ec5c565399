package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bimarsk/jadwalbot/internal/models"
	"github.com/bimarsk/jadwalbot/internal/repository"
	"github.com/bimarsk/jadwalbot/internal/schedule"
)

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []string
	to    []string
	fail  error
	calls int
}

func (f *fakeNotifier) SendText(_ context.Context, recipient, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail != nil {
		return f.fail
	}
	f.to = append(f.to, recipient)
	f.sent = append(f.sent, body)
	return nil
}

func TestFormatDigest(t *testing.T) {
	digest := formatDigest([]*models.Schedule{
		{Time: "10:15", Activity: "rapat tim"},
		{Time: "10:30", Activity: "olahraga"},
	})

	want := "⚠️ *JADWAL MENDATANG :*\n\n1. rapat tim - 10:15\n2. olahraga - 10:30\n"
	if digest != want {
		t.Errorf("formatDigest = %q, want %q", digest, want)
	}
}

// seedDueSoon adds an activity due in ten minutes. Skips near midnight,
// where "due soon" would land on the next calendar day.
func seedDueSoon(t *testing.T, store *schedule.Store) string {
	t.Helper()
	now := time.Now()
	due := now.Add(10 * time.Minute)
	if due.Day() != now.Day() {
		t.Skip("due-soon window crosses midnight")
	}
	timeStr := due.Format("15:04")
	if _, err := store.Add(context.Background(), timeStr, 0, "", "rapat tim"); err != nil {
		t.Fatalf("seed add failed: %v", err)
	}
	return timeStr
}

func TestCheckSendsDigest(t *testing.T) {
	store := schedule.NewStore(repository.NewMemoryScheduleRepository())
	timeStr := seedDueSoon(t, store)

	notifier := &fakeNotifier{}
	scanner := New(notifier, store, "62812345", 30*time.Minute, 35*time.Minute)
	scanner.check(context.Background())

	if len(notifier.sent) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(notifier.sent))
	}
	if notifier.to[0] != "62812345" {
		t.Errorf("recipient = %q, want %q", notifier.to[0], "62812345")
	}
	want := fmt.Sprintf("⚠️ *JADWAL MENDATANG :*\n\n1. rapat tim - %s\n", timeStr)
	if notifier.sent[0] != want {
		t.Errorf("digest = %q, want %q", notifier.sent[0], want)
	}
}

func TestCheckWithNothingUpcomingSendsNothing(t *testing.T) {
	store := schedule.NewStore(repository.NewMemoryScheduleRepository())
	notifier := &fakeNotifier{}

	scanner := New(notifier, store, "62812345", 30*time.Minute, 35*time.Minute)
	scanner.check(context.Background())

	if notifier.calls != 0 {
		t.Errorf("notifier called %d times, want 0", notifier.calls)
	}
}

func TestCheckSendFailureIsDroppedNotRetried(t *testing.T) {
	store := schedule.NewStore(repository.NewMemoryScheduleRepository())
	seedDueSoon(t, store)

	notifier := &fakeNotifier{fail: errors.New("channel down")}
	scanner := New(notifier, store, "62812345", 30*time.Minute, 35*time.Minute)

	scanner.check(context.Background())
	if notifier.calls != 1 {
		t.Fatalf("notifier called %d times, want 1 (no retry)", notifier.calls)
	}

	// The next cycle runs independently of the previous failure.
	notifier.fail = nil
	scanner.check(context.Background())
	if len(notifier.sent) != 1 {
		t.Errorf("sent %d notifications after recovery, want 1", len(notifier.sent))
	}
}
