package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"rsc.io/getopt"

	"github.com/kabili207/asakusa-tools/internal/config"
	"github.com/kabili207/asakusa-tools/pkg/api"
)

func main() {

	cfg := config.Load()

	fs := getopt.NewFlagSet(os.Args[0], flag.ExitOnError)
	cfg.RegisterFlags(fs)

	tokenPtr := fs.String("device-token", "", "hex encoded push token to register instead of printing info")
	deviceNamePtr := fs.String("device-name", "", "name to register the device under")

	fs.Parse(os.Args[1:])

	if err := cfg.Validate(false); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	client, err := api.NewClient(cfg.RootURL, cfg.APIKey, api.WithLogger(cfg.Logger()))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx := context.Background()

	if *tokenPtr != "" {
		token, err := hex.DecodeString(*tokenPtr)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Device token must be hex encoded:", err)
			os.Exit(2)
		}
		if _, err := client.AddDevice(ctx, token, *deviceNamePtr); err != nil {
			fmt.Println("Error registering device:", err)
			os.Exit(1)
		}
		fmt.Println("Device registered")
		return
	}

	report, err := gatherInfo(ctx, client)
	if err != nil {
		fmt.Println("Error fetching info:", err)
		os.Exit(1)
	}
	report.Write(os.Stdout)
}
