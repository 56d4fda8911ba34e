package main

import (
	"encoding/json"
	"flag"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"crewclock.service/internal/worker/payroll"
)

func main() {
	addr := flag.String("addr", ":8081", "listen address")
	failRate := flag.Float64("fail-rate", 0, "share of requests answered with 503, to exercise the circuit breaker")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		var entry payroll.Entry
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		if rand.Float64() < *failRate {
			log.Warn().Str("entry_id", entry.EntryID).Msg("Simulating payroll outage")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		log.Info().
			Str("entry_id", entry.EntryID).
			Str("worker", entry.Worker).
			Str("project", entry.Project).
			Str("type", entry.Type).
			Time("time", entry.Time).
			Msg("Received clock entry")
		w.WriteHeader(http.StatusOK)
	})

	log.Info().Str("addr", *addr).Msg("Payroll API mock server starting")
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
}
