// Package main provides the live mood check-in CLI.
//
// It opens the microphone and speaker, connects a live voice session,
// and lets the user talk with the check-in companion. Pressing Enter
// finishes the session, prints the transcript, and generates a short
// written mood reflection.
//
// Environment variables:
//
//	GEMINI_API_KEY          - Required
//	CHECKIN_LIVE_MODEL      - Live model override
//	CHECKIN_ANALYSIS_MODEL  - Reflection model override
//	CHECKIN_VOICE           - Prebuilt voice name
//	CHECKIN_LOG_LEVEL       - debug, info, warn, or error
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/BenjaminWie/emotionalCheckIn/pkg/analysis"
	"github.com/BenjaminWie/emotionalCheckIn/pkg/audio"
	"github.com/BenjaminWie/emotionalCheckIn/pkg/voice"
	"github.com/BenjaminWie/emotionalCheckIn/pkg/voice/livewire"
)

const systemPrompt = `You are a warm, attentive mood check-in companion.
Greet the user briefly, then ask how they are feeling today. Listen more
than you speak. Ask at most one short follow-up question at a time, and
reflect back the emotions you hear in plain language. Keep every reply
under three sentences.`

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY required")
	}

	logger := setupLogger(os.Getenv("CHECKIN_LOG_LEVEL"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	devices, err := audio.OpenDevices()
	if err != nil {
		return err
	}

	client, err := livewire.NewClient(livewire.Config{
		APIKey:            apiKey,
		Model:             envOr("CHECKIN_LIVE_MODEL", "models/gemini-2.5-flash-native-audio-preview-09-2025"),
		SystemInstruction: systemPrompt,
		VoiceName:         envOr("CHECKIN_VOICE", "Aoede"),
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	session := voice.NewSession(client, devices, logger)

	err = session.Start(ctx, voice.Callbacks{
		OnStateChange: func(state voice.SessionState) {
			fmt.Printf("[%s]\n", state)
		},
		OnUserSpeakingChange: func(speaking bool) {
			if speaking {
				fmt.Println("(listening...)")
			}
		},
		OnModelSpeakingChange: func(speaking bool) {
			if speaking {
				fmt.Println("(speaking...)")
			}
		},
	})
	if err != nil {
		return err
	}

	fmt.Println("Talk about how you're feeling. Press Enter to finish, Ctrl+C to cancel.")

	finished := make(chan struct{})
	go func() {
		bufio.NewScanner(os.Stdin).Scan()
		close(finished)
	}()

	select {
	case <-sigChan:
		fmt.Println("\nCancelled.")
		return session.Cancel()
	case <-finished:
	}

	transcript, err := session.Finish()
	if err != nil {
		logger.Warn("session teardown reported errors", "error", err)
	}

	fmt.Println("\n--- Transcript ---")
	fmt.Println(transcript)

	analyzer, err := analysis.NewGeminiAnalyzer(ctx, apiKey, os.Getenv("CHECKIN_ANALYSIS_MODEL"), logger)
	if err != nil {
		return err
	}
	report, err := analyzer.Analyze(ctx, transcript)
	if err != nil {
		return err
	}

	fmt.Println("\n--- Reflection ---")
	fmt.Println(report.Reflection)
	return nil
}

func setupLogger(levelName string) *slog.Logger {
	level := slog.LevelInfo
	switch levelName {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
