package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"rsc.io/getopt"

	"github.com/kabili207/asakusa-tools/internal/config"
	"github.com/kabili207/asakusa-tools/pkg/api"
	"github.com/kabili207/asakusa-tools/pkg/models"
)

func main() {

	cfg := config.Load()

	fs := getopt.NewFlagSet(os.Args[0], flag.ExitOnError)
	cfg.RegisterFlags(fs)

	countPtr := fs.Int("count", 50, "messages to request per page")
	fs.Alias("n", "count")

	limitPtr := fs.Int("limit", 0, "stop after this many messages (0 for the whole room)")
	fs.Alias("l", "limit")

	outPtr := fs.String("out", "history.json", "file to write the messages to")
	fs.Alias("o", "out")

	fs.Parse(os.Args[1:])

	if err := cfg.Validate(true); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := cfg.Logger()
	client, err := api.NewClient(cfg.RootURL, cfg.APIKey, api.WithLogger(logger))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	history, err := collectHistory(context.Background(), client, cfg.RoomID, *countPtr, *limitPtr)
	if err != nil {
		fmt.Println("Error fetching messages:", err)
		if len(history) == 0 {
			os.Exit(1)
		}
		fmt.Printf("Saving the %d messages fetched so far\n", len(history))
	}

	if err := models.SaveToFile(*outPtr, history); err != nil {
		fmt.Println("Error saving messages:", err)
		os.Exit(1)
	}

	fmt.Printf("Saved %d messages to %s\n", len(history), *outPtr)
}
