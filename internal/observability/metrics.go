package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	commandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jadwalbot",
		Subsystem: "command",
		Name:      "handled_total",
		Help:      "Commands handled, labelled by grammar family.",
	}, []string{"family"})

	unmatchedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jadwalbot",
		Subsystem: "command",
		Name:      "unmatched_total",
		Help:      "Inbound texts that matched no command family.",
	})

	scanCyclesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jadwalbot",
		Subsystem: "scanner",
		Name:      "cycles_total",
		Help:      "Due-soon scan cycles executed.",
	})

	notificationsSentTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jadwalbot",
		Subsystem: "scanner",
		Name:      "notifications_sent_total",
		Help:      "Reminder digests delivered to the channel.",
	})

	notificationsFailedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jadwalbot",
		Subsystem: "scanner",
		Name:      "notifications_failed_total",
		Help:      "Reminder digests the channel rejected or timed out on.",
	})

	schedulesPurgedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jadwalbot",
		Subsystem: "store",
		Name:      "schedules_purged_total",
		Help:      "Outdated schedules removed by the expiry sweep.",
	})
)

func init() {
	prometheus.MustRegister(
		commandsTotal,
		unmatchedTotal,
		scanCyclesTotal,
		notificationsSentTotal,
		notificationsFailedTotal,
		schedulesPurgedTotal,
	)
}

// RecordCommand counts one handled command for a grammar family.
func RecordCommand(family string) {
	commandsTotal.WithLabelValues(family).Inc()
}

// RecordUnmatched counts one inbound text that fell through every family.
func RecordUnmatched() {
	unmatchedTotal.Inc()
}

// RecordScanCycle counts one due-soon scan.
func RecordScanCycle() {
	scanCyclesTotal.Inc()
}

// RecordNotificationSent counts one delivered reminder digest.
func RecordNotificationSent() {
	notificationsSentTotal.Inc()
}

// RecordNotificationFailed counts one failed reminder digest send.
func RecordNotificationFailed() {
	notificationsFailedTotal.Inc()
}

// RecordSchedulesPurged counts schedules removed by the expiry sweep.
func RecordSchedulesPurged(n int64) {
	if n <= 0 {
		return
	}
	schedulesPurgedTotal.Add(float64(n))
}
