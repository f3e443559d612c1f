package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Add(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Done(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Sync(ctx context.Context) error
	Stats(ctx context.Context) error
	Calendar(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the TaskKeeper CLI.
//
// It reads a line from reader, parses the first token as the command and
// passes the remaining tokens as arguments. The loop exits on EOF or when
// the user types "exit" or "quit".
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - add [title]    — add a task
//	  - edit [#|id]    — change title and time
//	  - done [#|id]    — toggle the done flag
//	  - delete [#|id]  — remove a task that is not done
//	  - (l)ist         — list tasks, * marks unsynced ones
//	  - sync           — push pending tasks now
//	  - stats          — completion and login statistics
//	  - cal [#|id]     — Google Calendar link for today
//	  - export [file]  — download link for all tasks, optionally saved to file
//	  - logout         — log out
//
// Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("tk %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: add, edit, done, delete, (l)ist, sync, stats, cal, export, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "add":
			cmdErr = a.Add(ctx, args)

		case "edit":
			cmdErr = a.Edit(ctx, args)

		case "done":
			cmdErr = a.Done(ctx, args)

		case "delete", "rm":
			cmdErr = a.Delete(ctx, args)

		case "l", "list":
			cmdErr = a.List(ctx)

		case "sync":
			cmdErr = a.Sync(ctx)

		case "stats":
			cmdErr = a.Stats(ctx)

		case "cal", "calendar":
			cmdErr = a.Calendar(ctx, args)

		case "export":
			cmdErr = a.Export(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
		if err != nil {
			return
		}
	}
}
