package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"rsc.io/getopt"

	"github.com/kabili207/asakusa-tools/internal/config"
	"github.com/kabili207/asakusa-tools/pkg/api"
)

func main() {

	cfg := config.Load()

	fs := getopt.NewFlagSet(os.Args[0], flag.ExitOnError)
	cfg.RegisterFlags(fs)

	messagePtr := fs.String("message", "", "message text (read from stdin when empty and no files are given)")
	fs.Alias("m", "message")

	var files fileList
	fs.Var(&files, "file", "file or directory to attach, may be repeated")
	fs.Alias("f", "file")

	extPtr := fs.String("ext", "", "comma separated extensions to pick from attached directories")

	fs.Parse(os.Args[1:])

	paramError := false
	if err := cfg.Validate(true); err != nil {
		fmt.Fprintln(os.Stderr, err)
		paramError = true
	}

	var exts []string
	if *extPtr != "" {
		for _, e := range strings.Split(*extPtr, ",") {
			e = strings.TrimSpace(e)
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			exts = append(exts, e)
		}
	}

	paths, err := expandPaths(append(files, fs.Args()...), exts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		paramError = true
	}

	message := *messagePtr
	if message == "" && len(paths) == 0 && !paramError {
		message, err = readMessage(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to read message:", err)
			paramError = true
		}
	}
	if message == "" && len(paths) == 0 && !paramError {
		fmt.Fprintln(os.Stderr, "Nothing to post. Pass --message or at least one --file")
		paramError = true
	}

	if paramError {
		os.Exit(2)
	}

	for _, p := range paths {
		info, err := describeFile(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", p, err)
			os.Exit(1)
		}
		fmt.Printf("Attaching %s\n", info)
	}

	client, err := api.NewClient(cfg.RootURL, cfg.APIKey, api.WithLogger(cfg.Logger()))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	post, err := client.PostMessage(context.Background(), message, cfg.RoomID, paths)
	if err != nil {
		fmt.Println("Error posting message:", err)
		os.Exit(1)
	}

	fmt.Println(post.MessageID)
}
