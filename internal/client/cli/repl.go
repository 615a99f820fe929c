package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// repl runs the read–eval–print loop. The first token is the command, the
// second (where applicable) the resource collection name, the rest ids.
//
// Commands:
//
//	login | logout | status | help | exit
//	list    <resource>
//	add     <resource>
//	edit    <resource> <id>
//	delete  <resource> <id> [<id>...]
//	prefs | setprefs
//	refresh <tle-source-id>
//	upurl    <recording-id>
//	uploaded <recording-id>
//	dlurl    <recording-id>
//
// where <resource> is one of cameras, rigs, rotators, sdrs, satellites,
// tlesources, users, recordings.
func (a *App) repl(ctx context.Context, scanner *bufio.Scanner) {
	printlnFn("Ground station console (type 'help' for commands)")

	for {
		fmt.Fprintf(a.out, "gs %s > ", a.prompt())
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			a.printHelp()

		case "login":
			err = a.login(ctx)

		case "logout":
			a.logout()

		case "status":
			a.showStatus()

		case "list", "l":
			err = a.withResource(args, func(r *resourceActions, _ []int64) error {
				return r.list(ctx)
			})

		case "add":
			err = a.withResource(args, func(r *resourceActions, _ []int64) error {
				if r.add == nil {
					return fmt.Errorf("add is not supported here")
				}
				return r.add(ctx)
			})

		case "edit":
			err = a.withResourceIDs(args, func(r *resourceActions, ids []int64) error {
				if r.edit == nil {
					return fmt.Errorf("edit is not supported here")
				}
				return r.edit(ctx, ids[0])
			})

		case "delete", "del":
			err = a.withResourceIDs(args, func(r *resourceActions, ids []int64) error {
				return r.del(ctx, ids)
			})

		case "prefs":
			err = a.showPreferences(ctx)

		case "setprefs":
			err = a.editPreferences(ctx)

		case "refresh":
			err = a.withID(ctx, args, a.refreshTLESource)

		case "upurl":
			err = a.withID(ctx, args, a.recordingUploadURL)

		case "uploaded":
			err = a.withID(ctx, args, a.recordingUploaded)

		case "dlurl":
			err = a.withID(ctx, args, a.recordingDownloadURL)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}

func (a *App) printHelp() {
	if !a.isLoggedIn() {
		printlnFn("Available commands: login, status, exit")
		return
	}
	printlnFn("Available commands:")
	printlnFn("  list|add|edit|delete <resource> [<id>...]")
	printlnFn("  resources: cameras rigs rotators sdrs satellites tlesources users recordings")
	printlnFn("  prefs, setprefs, refresh <source-id>, upurl|uploaded|dlurl <recording-id>")
	printlnFn("  status, logout, exit")
}

func (a *App) withResource(args []string, fn func(*resourceActions, []int64) error) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: <command> <resource>")
	}
	r, ok := a.actions[args[0]]
	if !ok {
		return fmt.Errorf("unknown resource %q", args[0])
	}

	ids, err := parseIDs(args[1:])
	if err != nil {
		return err
	}
	return fn(r, ids)
}

func (a *App) withResourceIDs(args []string, fn func(*resourceActions, []int64) error) error {
	return a.withResource(args, func(r *resourceActions, ids []int64) error {
		if len(ids) == 0 {
			return fmt.Errorf("usage: <command> <resource> <id> [<id>...]")
		}
		return fn(r, ids)
	})
}

func (a *App) withID(ctx context.Context, args []string, fn func(context.Context, int64) error) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: <command> <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("bad id %q", args[0])
	}
	return fn(ctx, id)
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
