package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL drives. App implements it.
type execIface interface {
	help() []string
	exec(ctx context.Context, name string, args []string) error
}

// runREPL reads one command per line and dispatches it until EOF, "exit"
// or "quit". Command errors are printed and never end the loop. Commands
// that prompt read from the same reader.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "nk %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help", "?":
			fmt.Fprintln(out, "Available commands:")
			for _, u := range a.help() {
				fmt.Fprintln(out, "  "+u)
			}
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		default:
			err := a.exec(ctx, cmd, args)
			switch {
			case errors.Is(err, errUnknownCommand):
				fmt.Fprintln(out, "Unknown command:", cmd)
			case err != nil:
				fmt.Fprintln(out, "Error:", err)
			}
		}
	}
}
