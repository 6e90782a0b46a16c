package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"blockfall/client"

	"golang.org/x/term"
)

const (
	hideCursor = "\033[2J\033[?25l" // also clear screen
	showCursor = "\033[24;0H\n\r\033[?25h"
)

func main() {
	address := flag.String("address", "localhost:9000", "address of the server for online games")
	name := flag.String("name", "", "player name shown in the header")
	noGhost := flag.Bool("noghost", false, "hide the ghost piece")
	logFile := flag.String("log", "", "write logs to this file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		log.Fatal("blockfall needs an interactive terminal")
	}

	var w io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("unable to open log file: %v", err)
		}
		defer f.Close()
		w = f
	}
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))

	c, err := client.New(logger, &client.Options{
		NoGhost: *noGhost,
		Address: *address,
		Name:    *name,
	})
	if err != nil {
		log.Fatalf("unable to start client: %v", err)
	}

	fmt.Print(hideCursor)
	c.Start()
	if err := c.Close(); err != nil {
		logger.Error("unable to close keyboard", slog.String("error", err.Error()))
	}
	fmt.Print(showCursor)
}
