// Command transcript-viewer shows the transcript events published to Kafka
// in a browser, live over a websocket.
package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"flag"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"speech-demo-clients/internal/config"
	"speech-demo-clients/internal/observability/logging"
)

//go:embed static/*
var staticFiles embed.FS

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// consume reads one topic from partition 0, starting an hour back, until
// ctx is done.
func consume(ctx context.Context, h *hub, brokers []string, topic string, log zerolog.Logger) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   brokers,
		Topic:     topic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	defer reader.Close()

	if err := reader.SetOffsetAt(ctx, time.Now().Add(-time.Hour)); err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("Failed to rewind reader")
	}
	log.Info().Str("topic", topic).Msg("Consuming transcripts")

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Str("topic", topic).Msg("Kafka read failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		var event transcriptEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Warn().Err(err).Str("topic", topic).Msg("Invalid transcript event")
			continue
		}

		log.Debug().
			Str("eventType", event.EventType).
			Str("segmentId", event.SegmentID).
			Str("text", truncate(event.Text, 40)).
			Msg("Transcript received")
		select {
		case h.broadcast <- event:
		case <-ctx.Done():
			return
		}
	}
}

func main() {
	cfg := config.Load()

	port := flag.String("port", "8081", "HTTP server port")
	brokers := flag.String("brokers", strings.Join(cfg.Kafka.Brokers, ","), "Kafka brokers (comma-separated)")
	topicPartial := flag.String("topic-partial", cfg.Kafka.TopicPartial, "Partial transcript topic")
	topicFinal := flag.String("topic-final", cfg.Kafka.TopicFinal, "Final transcript topic")
	flag.Parse()

	logging.Init(logging.Config{Level: cfg.Observability.LogLevel, Format: cfg.Observability.LogFormat})
	log := logging.WithComponent("transcript-viewer")

	brokerList := strings.Split(*brokers, ",")
	if *brokers == "" {
		brokerList = []string{"localhost:9092"}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h := newHub(log)
	go h.run(ctx.Done())
	go consume(ctx, h, brokerList, *topicPartial, log)
	go consume(ctx, h, brokerList, *topicFinal, log)

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load static files")
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/ws", h.serveWS)
	r.Handle("/*", http.FileServer(http.FS(staticFS)))

	srv := &http.Server{Addr: ":" + *port, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Strs("brokers", brokerList).
			Str("topicPartial", *topicPartial).
			Str("topicFinal", *topicFinal).
			Msg("Transcript viewer started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server failed")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown failed")
		os.Exit(1)
	}
}
