package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		subscribersRegisteredTotal,
		telegramCommandsReceivedTotal,
		telegramCallbacksTotal,
	)
}

var (
	subscribersRegisteredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscribers_registered_total",
			Help: "Total number of chats newly registered as broadcast recipients.",
		},
		[]string{"kind"},
	)

	telegramCommandsReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_commands_received_total",
			Help: "Counts incoming commands from chats.",
		},
		[]string{"command"},
	)

	telegramCallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "callbacks_total",
			Help: "Counts button presses by callback kind.",
		},
		[]string{"kind"},
	)
)

func IncSubscriberRegistered(kind string) {
	subscribersRegisteredTotal.WithLabelValues(norm(kind)).Inc()
}

func IncTelegramCommand(command string) {
	telegramCommandsReceivedTotal.WithLabelValues(norm(command)).Inc()
}

func IncCallback(kind string) {
	telegramCallbacksTotal.WithLabelValues(norm(kind)).Inc()
}
