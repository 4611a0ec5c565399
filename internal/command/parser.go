// Package command implements the natural-language command protocol: six
// fixed grammar families parsed by anchored regular expressions, and a
// dispatcher that turns parsed commands into store operations and replies.
package command

import (
	"regexp"
	"strconv"
	"strings"
)

// Usage templates returned when a text matches a family prefix but not the
// family grammar. These are user-facing replies, kept byte-identical across
// releases.
const (
	UsageAdd        = "Format pesan salah. Contoh: *Tambah [aktivitas] jam [HH:MM] tanggal [(Opsional)] [Bulan (Opsional)]*"
	UsageRename     = "Format pesan salah. Contoh: *ganti nama [aktivitas lama] menjadi [aktivitas baru] tanggal [DD (Opsional)] [Bulan (Opsional)]*"
	UsageReschedule = "Format pesan salah. Contoh: *ganti tanggal [aktivitas] dari [tanggal lama] menjadi [tanggal baru] [Bulan (Opsional)]*"
	UsageDelete     = "Format pesan salah. Contoh: *hapus [aktivitas] tanggal [(Opsional)] [Bulan (Opsional)]*"
)

// The activity captures are non-greedy so a trailing "tanggal ..." clause is
// never swallowed into the activity text.
var (
	addPattern        = regexp.MustCompile(`(?i)^tambah(\s+.+?)\s+jam\s+(\d{1,2}:\d{2})(?:\s+tanggal\s+(\d{1,2})(?:\s+(\w+))?)?$`)
	renamePattern     = regexp.MustCompile(`(?i)^(?:ganti nama|update nama)\s+(.+?)\s+menjadi\s+(.+?)(?:\s+tanggal\s+(\d{1,2})(?:\s+(\w+))?)?$`)
	reschedulePattern = regexp.MustCompile(`(?i)^(?:ganti tanggal|update tanggal)\s+(.+?)\s+dari\s+(\d{1,2})\s+menjadi\s+(\d{1,2})(?:\s+(\w+))?$`)
	deletePattern     = regexp.MustCompile(`(?i)^hapus\s+(.+?)(?:\s+tanggal\s+(\d{1,2})(?:\s+(\w+))?)?$`)
)

// AddCommand is a parsed "tambah" text. Day 0 and empty Month mean the
// clause was omitted and the store should default them to today.
type AddCommand struct {
	Activity string
	Time     string
	Day      int
	Month    string
}

type RenameCommand struct {
	OldActivity string
	NewActivity string
	Day         int
	Month       string
}

type RescheduleCommand struct {
	Activity string
	Day      int
	NewDay   int
	Month    string
}

type DeleteCommand struct {
	Activity string
	Day      int
	Month    string
}

func ParseAdd(text string) (*AddCommand, bool) {
	m := addPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	return &AddCommand{
		Activity: strings.TrimSpace(m[1]),
		Time:     strings.TrimSpace(m[2]),
		Day:      optionalDay(m[3]),
		Month:    strings.TrimSpace(m[4]),
	}, true
}

func ParseRename(text string) (*RenameCommand, bool) {
	m := renamePattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	return &RenameCommand{
		OldActivity: strings.TrimSpace(m[1]),
		NewActivity: strings.TrimSpace(m[2]),
		Day:         optionalDay(m[3]),
		Month:       strings.TrimSpace(m[4]),
	}, true
}

func ParseReschedule(text string) (*RescheduleCommand, bool) {
	m := reschedulePattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	day, _ := strconv.Atoi(m[2])
	newDay, _ := strconv.Atoi(m[3])
	return &RescheduleCommand{
		Activity: strings.TrimSpace(m[1]),
		Day:      day,
		NewDay:   newDay,
		Month:    strings.TrimSpace(m[4]),
	}, true
}

func ParseDelete(text string) (*DeleteCommand, bool) {
	m := deletePattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	return &DeleteCommand{
		Activity: strings.TrimSpace(m[1]),
		Day:      optionalDay(m[2]),
		Month:    strings.TrimSpace(m[3]),
	}, true
}

func optionalDay(capture string) int {
	if capture == "" {
		return 0
	}
	day, _ := strconv.Atoi(capture)
	return day
}
