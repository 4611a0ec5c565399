package command

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimarsk/jadwalbot/internal/models"
	"github.com/bimarsk/jadwalbot/internal/repository"
	"github.com/bimarsk/jadwalbot/internal/schedule"
)

func newTestDispatcher() *Dispatcher {
	return NewDispatcher(schedule.NewStore(repository.NewMemoryScheduleRepository()), nil)
}

func todayLabel() string {
	now := time.Now()
	return fmt.Sprintf("%d %s", now.Day(), models.MonthName(int(now.Month())))
}

// skipNearMidnight guards tests that assert on "today": the store reads the
// clock per command, so a date rollover mid-test would shift the expected
// labels.
func skipNearMidnight(t *testing.T) {
	t.Helper()
	now := time.Now()
	if now.Hour() == 23 && now.Minute() >= 55 {
		t.Skip("too close to midnight for same-day assertions")
	}
}

type fakeWaker struct {
	calls int
}

func (f *fakeWaker) Notify() {
	f.calls++
}

func TestHandleCommandAdd(t *testing.T) {
	d := newTestDispatcher()

	reply := d.HandleCommand(context.Background(), "tambah rapat tim jam 09:30")
	assert.Contains(t, reply, "berhasil ditambahkan")
	assert.Contains(t, reply, "09:30")
	assert.Contains(t, reply, "rapat tim")
}

func TestHandleCommandAddWakesScanner(t *testing.T) {
	waker := &fakeWaker{}
	d := NewDispatcher(schedule.NewStore(repository.NewMemoryScheduleRepository()), waker)
	ctx := context.Background()

	require.Contains(t, d.HandleCommand(ctx, "tambah rapat tim jam 09:30"), "berhasil ditambahkan")
	assert.Equal(t, 1, waker.calls)

	// Failed adds leave the scanner alone.
	d.HandleCommand(ctx, "tambah rapat tim jam 09:30") // duplicate
	d.HandleCommand(ctx, "tambah rapat tim")           // usage error
	assert.Equal(t, 1, waker.calls)
}

func TestHandleCommandAddIsCaseInsensitive(t *testing.T) {
	d := newTestDispatcher()

	reply := d.HandleCommand(context.Background(), "Tambah Rapat Tim jam 09:30")
	assert.Contains(t, reply, "berhasil ditambahkan")
	assert.Contains(t, reply, "rapat tim")
}

func TestHandleCommandAddDuplicate(t *testing.T) {
	d := newTestDispatcher()
	ctx := context.Background()

	first := d.HandleCommand(ctx, "tambah rapat tim jam 09:30")
	require.Contains(t, first, "berhasil ditambahkan")

	second := d.HandleCommand(ctx, "tambah rapat tim jam 09:30")
	assert.Equal(t, "Validation error: An activity with the name 'rapat tim' already exists", second)
}

func TestHandleCommandAddBadTime(t *testing.T) {
	d := newTestDispatcher()

	reply := d.HandleCommand(context.Background(), "tambah rapat tim jam 9:30")
	assert.Equal(t, "Validation error: Time must be in HH:MM format (e.g., 09:30)", reply)
}

func TestHandleCommandAddUsage(t *testing.T) {
	d := newTestDispatcher()

	reply := d.HandleCommand(context.Background(), "tambah rapat tim")
	assert.Equal(t, UsageAdd, reply)
}

func TestHandleCommandDeleteMissing(t *testing.T) {
	d := newTestDispatcher()

	reply := d.HandleCommand(context.Background(), "hapus rapat tim")
	assert.Equal(t, "Aktivitas 'rapat tim' tidak ditemukan.", reply)
}

func TestHandleCommandAddThenDelete(t *testing.T) {
	d := newTestDispatcher()
	ctx := context.Background()

	require.Contains(t, d.HandleCommand(ctx, "tambah rapat tim jam 09:30"), "berhasil ditambahkan")
	assert.Equal(t, "Aktivitas 'rapat tim' berhasil dihapus.", d.HandleCommand(ctx, "hapus rapat tim"))
	assert.Equal(t, "Aktivitas 'rapat tim' tidak ditemukan.", d.HandleCommand(ctx, "hapus rapat tim"))
}

func TestHandleCommandRename(t *testing.T) {
	d := newTestDispatcher()
	ctx := context.Background()

	require.Contains(t, d.HandleCommand(ctx, "tambah rapat tim jam 09:30"), "berhasil ditambahkan")

	reply := d.HandleCommand(ctx, "ganti nama rapat tim menjadi rapat divisi")
	assert.Equal(t, "Jadwal 'rapat tim' berhasil diubah menjadi 'rapat divisi'.", reply)

	missing := d.HandleCommand(ctx, "update nama rapat tim menjadi rapat besar")
	assert.Equal(t, "Jadwal 'rapat tim' tidak ditemukan.", missing)
}

func TestHandleCommandReschedule(t *testing.T) {
	skipNearMidnight(t)
	d := newTestDispatcher()
	ctx := context.Background()

	day := time.Now().Day()
	require.Contains(t, d.HandleCommand(ctx, fmt.Sprintf("tambah rapat tim jam 09:30 tanggal %d", day)), "berhasil ditambahkan")

	reply := d.HandleCommand(ctx, fmt.Sprintf("ganti tanggal rapat tim dari %d menjadi %d", day, day))
	assert.Equal(t, fmt.Sprintf("Jadwal 'rapat tim' berhasil diubah dari tanggal %d ke tanggal %d.", day, day), reply)

	missing := d.HandleCommand(ctx, "update tanggal belanja dari 1 menjadi 2")
	assert.Equal(t, "Jadwal 'belanja' pada tanggal 1 tidak ditemukan.", missing)
}

func TestHandleCommandToday(t *testing.T) {
	skipNearMidnight(t)
	d := newTestDispatcher()
	ctx := context.Background()

	empty := d.HandleCommand(ctx, "jadwal hari ini")
	assert.Equal(t, "Tidak ada jadwal untuk "+todayLabel(), empty)

	require.Contains(t, d.HandleCommand(ctx, "tambah rapat tim jam 09:30"), "berhasil ditambahkan")
	require.Contains(t, d.HandleCommand(ctx, "tambah olahraga jam 06:00"), "berhasil ditambahkan")

	reply := d.HandleCommand(ctx, "hari ini")
	lines := strings.Split(strings.TrimSpace(reply), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Jadwal untuk "+todayLabel()+":", lines[0])
	assert.Equal(t, "- 06:00: olahraga", lines[1])
	assert.Equal(t, "- 09:30: rapat tim", lines[2])
}

func TestHandleCommandWeek(t *testing.T) {
	skipNearMidnight(t)
	d := newTestDispatcher()
	ctx := context.Background()

	empty := d.HandleCommand(ctx, "jadwal minggu ini")
	assert.Equal(t, "Tidak ada jadwal untuk minggu ini.", empty)

	require.Contains(t, d.HandleCommand(ctx, "tambah rapat tim jam 09:30"), "berhasil ditambahkan")

	reply := d.HandleCommand(ctx, "minggu ini")
	assert.True(t, strings.HasPrefix(reply, "Jadwal minggu ini:\n\n"), "reply = %q", reply)
	assert.Contains(t, reply, "🗓️ "+todayLabel()+":")
	assert.Contains(t, reply, "⏰ 09:30 - rapat tim")
	assert.Equal(t, strings.TrimSpace(reply), reply)
}

func TestHandleCommandUnmatchedReturnsEmptyReply(t *testing.T) {
	d := newTestDispatcher()

	assert.Equal(t, "", d.HandleCommand(context.Background(), "halo apa kabar"))
}

func TestHandleCommandUsageTemplates(t *testing.T) {
	d := newTestDispatcher()
	ctx := context.Background()

	assert.Equal(t, UsageRename, d.HandleCommand(ctx, "ganti nama rapat tim"))
	assert.Equal(t, UsageReschedule, d.HandleCommand(ctx, "ganti tanggal rapat tim dari 10"))
	assert.Equal(t, UsageDelete, d.HandleCommand(ctx, "hapus"))
}
