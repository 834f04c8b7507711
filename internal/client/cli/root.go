package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) Root(ctx context.Context) {

	fmt.Fprintln(a.out, "Welcome to DeHug CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Fprint(a.out, "dehug> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Fprintln(a.out, "Available commands: upload, fetch <ref> [save as], meta <tokenId>, stats <wallet>, track <tokenId> <count> [name], exit")

		case "upload":
			a.uploadCommand(ctx)
		case "fetch":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: fetch <reference or gateway URL> [save as]")
				continue
			}
			saveName := ""
			if len(args) > 1 {
				saveName = args[1]
			}
			a.fetchCommand(ctx, args[0], saveName)
		case "stats":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: stats <wallet address>")
				continue
			}
			a.statsCommand(ctx, args[0])
		case "meta":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: meta <tokenId>")
				continue
			}
			a.metaCommand(ctx, args[0])
		case "track":
			if len(args) < 2 {
				fmt.Fprintln(a.out, "Usage: track <tokenId> <new download total> [content name]")
				continue
			}
			name := ""
			if len(args) > 2 {
				name = args[2]
			}
			a.trackCommand(ctx, args[0], args[1], name)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return

		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}
