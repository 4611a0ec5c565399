package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bimarsk/jadwalbot/internal/models"
	"github.com/bimarsk/jadwalbot/internal/observability"
	"github.com/bimarsk/jadwalbot/internal/schedule"
)

// Notifier delivers one text to one recipient. Satisfied by *whatsapp.Client.
type Notifier interface {
	SendText(ctx context.Context, recipient, body string) error
}

// Scanner runs the due-soon scan on a fixed cadence and pushes a reminder
// digest to the notification channel when anything is upcoming. A failed
// send is logged and dropped; the next cycle starts fresh.
type Scanner struct {
	notifier      Notifier
	store         *schedule.Store
	recipient     string
	checkInterval time.Duration
	lookahead     time.Duration
	notifyCh      chan struct{}
}

func New(notifier Notifier, store *schedule.Store, recipient string, checkInterval, lookahead time.Duration) *Scanner {
	if checkInterval <= 0 {
		checkInterval = 30 * time.Minute
	}
	if lookahead <= 0 {
		lookahead = schedule.DefaultLookahead
	}
	return &Scanner{
		notifier:      notifier,
		store:         store,
		recipient:     recipient,
		checkInterval: checkInterval,
		lookahead:     lookahead,
		notifyCh:      make(chan struct{}, 1),
	}
}

// Notify triggers an immediate check. Non-blocking if a check is already pending.
func (s *Scanner) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

func (s *Scanner) Start(ctx context.Context) {
	log.Println("Reminder scanner started")
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	// Wait a bit for migrations to complete before first check
	select {
	case <-ctx.Done():
		return
	case <-time.After(2 * time.Second):
	}

	s.check(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Reminder scanner stopped")
			return
		case <-ticker.C:
			s.check(ctx)
		case <-s.notifyCh:
			log.Println("Reminder scanner triggered by notification")
			s.check(ctx)
		}
	}
}

func (s *Scanner) check(ctx context.Context) {
	log.Println("Running schedule check")
	observability.RecordScanCycle()

	upcoming, err := s.store.ScanDueSoon(ctx, s.lookahead)
	if err != nil {
		log.Printf("Failed to scan upcoming schedules: %v", err)
		return
	}

	if len(upcoming) == 0 {
		log.Println("No schedules found, skipping notification")
		return
	}

	log.Printf("Found %d upcoming schedules", len(upcoming))
	if err := s.notifier.SendText(ctx, s.recipient, formatDigest(upcoming)); err != nil {
		observability.RecordNotificationFailed()
		log.Printf("Failed to send schedule notification: %v", err)
		return
	}
	observability.RecordNotificationSent()
}

func formatDigest(upcoming []*models.Schedule) string {
	var b strings.Builder
	b.WriteString("⚠️ *JADWAL MENDATANG :*\n\n")
	for i, s := range upcoming {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, s.Activity, s.Time)
	}
	return b.String()
}
