package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bimarsk/jadwalbot/internal/models"
	"github.com/bimarsk/jadwalbot/internal/observability"
	"github.com/bimarsk/jadwalbot/internal/schedule"
)

// Waker asks the reminder scanner for an immediate check. Satisfied by
// *scheduler.Scanner.
type Waker interface {
	Notify()
}

// Dispatcher is the single entry point for inbound text. It never returns an
// error: every failure becomes reply text, and text that matches no family
// yields an empty reply, which the adapter treats as "send nothing".
type Dispatcher struct {
	store *schedule.Store
	waker Waker
}

// NewDispatcher wires the store and an optional waker; pass nil to run
// without a scanner.
func NewDispatcher(store *schedule.Store, waker Waker) *Dispatcher {
	return &Dispatcher{store: store, waker: waker}
}

// HandleCommand routes a raw inbound text to its command family by prefix,
// tested in fixed order: add, today, week, rename, reschedule, delete.
func (d *Dispatcher) HandleCommand(ctx context.Context, rawText string) string {
	text := strings.ToLower(rawText)

	switch {
	case strings.HasPrefix(text, "tambah"):
		observability.RecordCommand("add")
		return d.handleAdd(ctx, text)
	case strings.HasPrefix(text, "jadwal hari ini"), strings.HasPrefix(text, "hari ini"):
		observability.RecordCommand("today")
		return d.handleToday(ctx)
	case strings.HasPrefix(text, "jadwal minggu ini"), strings.HasPrefix(text, "minggu ini"):
		observability.RecordCommand("week")
		return d.handleWeek(ctx)
	case strings.HasPrefix(text, "ganti nama"), strings.HasPrefix(text, "update nama"):
		observability.RecordCommand("rename")
		return d.handleRename(ctx, text)
	case strings.HasPrefix(text, "ganti tanggal"), strings.HasPrefix(text, "update tanggal"):
		observability.RecordCommand("reschedule")
		return d.handleReschedule(ctx, text)
	case strings.HasPrefix(text, "hapus"):
		observability.RecordCommand("delete")
		return d.handleDelete(ctx, text)
	}

	observability.RecordUnmatched()
	return ""
}

func (d *Dispatcher) handleAdd(ctx context.Context, text string) string {
	cmd, ok := ParseAdd(text)
	if !ok {
		return UsageAdd
	}

	reply, err := d.store.Add(ctx, cmd.Time, cmd.Day, cmd.Month, cmd.Activity)
	if err != nil {
		return errorReply(err)
	}

	// The new activity may already be inside the lookahead window; poke the
	// scanner instead of waiting for the next tick.
	if d.waker != nil {
		d.waker.Notify()
	}
	return reply
}

func (d *Dispatcher) handleToday(ctx context.Context) string {
	dayInfo, schedules, err := d.store.GetToday(ctx)
	if err != nil {
		return errorReply(err)
	}

	if len(schedules) == 0 {
		return fmt.Sprintf("Tidak ada jadwal untuk %s", dayInfo)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Jadwal untuk %s:\n", dayInfo)
	for _, s := range schedules {
		fmt.Fprintf(&b, "- %s: %s\n", s.Time, s.Activity)
	}
	return b.String()
}

func (d *Dispatcher) handleWeek(ctx context.Context) string {
	schedules, err := d.store.GetWeek(ctx)
	if err != nil {
		return errorReply(err)
	}

	if len(schedules) == 0 {
		return "Tidak ada jadwal untuk minggu ini."
	}

	// Group per "<day> <month>" preserving the sorted order from GetWeek.
	var dayKeys []string
	grouped := make(map[string][]*models.Schedule)
	for _, s := range schedules {
		key := fmt.Sprintf("%d %s", s.Day, s.Month)
		if _, seen := grouped[key]; !seen {
			dayKeys = append(dayKeys, key)
		}
		grouped[key] = append(grouped[key], s)
	}

	var b strings.Builder
	b.WriteString("Jadwal minggu ini:\n\n")
	for _, key := range dayKeys {
		fmt.Fprintf(&b, "🗓️ %s:\n", key)
		for _, s := range grouped[key] {
			fmt.Fprintf(&b, "⏰ %s - %s\n", s.Time, s.Activity)
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func (d *Dispatcher) handleRename(ctx context.Context, text string) string {
	cmd, ok := ParseRename(text)
	if !ok {
		return UsageRename
	}

	success, err := d.store.RenameActivity(ctx, cmd.OldActivity, cmd.Day, cmd.Month, cmd.NewActivity)
	if err != nil {
		return errorReply(err)
	}
	if !success {
		return fmt.Sprintf("Jadwal '%s' tidak ditemukan.", cmd.OldActivity)
	}
	return fmt.Sprintf("Jadwal '%s' berhasil diubah menjadi '%s'.", cmd.OldActivity, cmd.NewActivity)
}

func (d *Dispatcher) handleReschedule(ctx context.Context, text string) string {
	cmd, ok := ParseReschedule(text)
	if !ok {
		return UsageReschedule
	}

	success, err := d.store.RescheduleActivity(ctx, cmd.Activity, cmd.Day, cmd.NewDay, cmd.Month)
	if err != nil {
		return errorReply(err)
	}
	if !success {
		return fmt.Sprintf("Jadwal '%s' pada tanggal %d tidak ditemukan.", cmd.Activity, cmd.Day)
	}
	return fmt.Sprintf("Jadwal '%s' berhasil diubah dari tanggal %d ke tanggal %d.", cmd.Activity, cmd.Day, cmd.NewDay)
}

func (d *Dispatcher) handleDelete(ctx context.Context, text string) string {
	cmd, ok := ParseDelete(text)
	if !ok {
		return UsageDelete
	}

	success, err := d.store.RemoveActivity(ctx, cmd.Activity, cmd.Day, cmd.Month)
	if err != nil {
		return errorReply(err)
	}
	if !success {
		return fmt.Sprintf("Aktivitas '%s' tidak ditemukan.", cmd.Activity)
	}
	return fmt.Sprintf("Aktivitas '%s' berhasil dihapus.", cmd.Activity)
}

// errorReply translates store failures into reply text. Duplicates read as
// validation failures to the user, same wording the bot has always used.
func errorReply(err error) string {
	var validationErr *schedule.ValidationError
	if errors.As(err, &validationErr) {
		return "Validation error: " + validationErr.Message
	}
	var duplicateErr *schedule.DuplicateError
	if errors.As(err, &duplicateErr) {
		return "Validation error: " + duplicateErr.Error()
	}
	return "Unexpected error: " + err.Error()
}
