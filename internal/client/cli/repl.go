package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	Delete(ctx context.Context, name string) error
	Share(ctx context.Context, name string) error
	Open(ctx context.Context, name string) error
}

// runREPL starts a simple read–eval–print loop for the cloud drive CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Signed out:
//	  - help           — show available commands
//	  - login          — authenticate against the identity provider
//	  - exit | quit    — leave the program
//
//	Signed in:
//	  - help             — show available commands
//	  - list | l         — refresh and render the file listing
//	  - upload <path>    — upload one local file
//	  - delete <name>    — delete a stored file (asks for confirmation)
//	  - share <name>     — copy the file's temporary link to the clipboard
//	  - open <name>      — print the file's temporary link
//	  - whoami           — show the signed-in identity
//	  - logout           — sign out
//	  - exit | quit      — leave the program
//
// Any errors returned by command handlers are ignored here; handlers report
// their own outcomes. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("drive> %s > ", statusFn()))
		if !scanner.Scan() {
			return
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
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, upload <path>, delete <name>, share <name>, open <name>, whoami, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "upload":
			if len(args) == 0 {
				printlnFn("Usage: upload <path>")
				continue
			}
			_ = a.Upload(ctx, args[0])

		case "delete":
			if len(args) == 0 {
				printlnFn("Usage: delete <name>")
				continue
			}
			_ = a.Delete(ctx, args[0])

		case "share":
			if len(args) == 0 {
				printlnFn("Usage: share <name>")
				continue
			}
			_ = a.Share(ctx, args[0])

		case "open":
			if len(args) == 0 {
				printlnFn("Usage: open <name>")
				continue
			}
			_ = a.Open(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
