package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/ptscan/ptscan/datatype"
	"github.com/ptscan/ptscan/snapshot"
)

func interactiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Open a REPL for iterative attach/scan/rescan/filters/read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive()
		},
	}
}

func runInteractive() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "ptscan> ",
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("start readline: %w", err)
	}
	defer rl.Close()

	current = newSession()
	ctx := context.Background()
	lastType := ""

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "exit", "quit":
			return nil
		case "help":
			printInteractiveHelp()
		case "attach":
			runAttachVerb(ctx, fields[1:])
		case "scan", "rescan":
			if t, ok := runScanVerb(ctx, fields[1:]); ok {
				lastType = t
			}
		case "filters":
			if lastType == "" && len(fields) < 2 {
				fmt.Println("no scan has run yet; specify a type: filters <type>")
				continue
			}
			t := lastType
			if len(fields) >= 2 {
				t = fields[1]
			}
			printFilters(current.snap, t)
		case "read":
			runReadVerb(ctx, fields[1:])
		default:
			fmt.Printf("unknown command %q (try \"help\")\n", fields[0])
		}
	}
}

func printInteractiveHelp() {
	fmt.Println(`commands:
  attach <pid>
  scan <type> <predicate> [value] [alignment] [length]
  rescan <type> <predicate> [value] [alignment] [length]
  filters [type]
  read <address> <length>
  exit`)
}

func runAttachVerb(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: attach <pid>")
		return
	}
	pid, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Println(err)
		return
	}
	if current.proc != nil {
		current.reader.Detach(current.proc)
	}
	if err := current.attach(ctx, pid); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("attached to pid %d: %d readable regions\n", pid, len(current.snap.Regions))
}

func runScanVerb(ctx context.Context, args []string) (string, bool) {
	if current.proc == nil {
		fmt.Println("attach to a process first")
		return "", false
	}
	if len(args) < 2 {
		fmt.Println("usage: scan <type> <predicate> [value] [alignment] [length]")
		return "", false
	}

	typeID := args[0]
	predicate, err := datatype.ParseScanCompareType(args[1])
	if err != nil {
		fmt.Println(err)
		return "", false
	}

	value := ""
	alignment := 1
	length := 0
	rest := args[2:]
	if len(rest) >= 1 {
		value = rest[0]
	}
	if len(rest) >= 2 {
		if n, err := strconv.Atoi(rest[1]); err == nil {
			alignment = n
		}
	}
	if len(rest) >= 3 {
		if n, err := strconv.Atoi(rest[2]); err == nil {
			length = n
		}
	}

	meta := datatype.DataTypeMetaData{Length: length}
	immediate, delta, err := resolveValue(current.reg, typeID, meta, predicate, value)
	if err != nil {
		fmt.Println(err)
		return "", false
	}

	align := snapshot.Alignment(alignment)
	if !align.Valid() {
		fmt.Printf("invalid alignment %d\n", alignment)
		return "", false
	}

	current.refresh(ctx)
	if err := current.dispatcher.ScanSnapshot(ctx, current.snap, typeID, meta, align, predicate, immediate, delta, datatype.DefaultFloatTolerance); err != nil {
		fmt.Println(err)
		return "", false
	}

	printFilters(current.snap, typeID)
	return typeID, true
}

func runReadVerb(ctx context.Context, args []string) {
	if current.proc == nil {
		fmt.Println("attach to a process first")
		return
	}
	if len(args) != 2 {
		fmt.Println("usage: read <address> <length>")
		return
	}
	address, err := strconv.ParseUint(args[0], 0, 64)
	if err != nil {
		fmt.Println(err)
		return
	}
	length, err := strconv.Atoi(args[1])
	if err != nil || length <= 0 {
		fmt.Println("invalid length")
		return
	}
	buf := make([]byte, length)
	if !current.reader.ReadBytes(ctx, current.proc, address, buf) {
		fmt.Printf("read failed at 0x%x\n", address)
		return
	}
	fmt.Printf("% x\n", buf)
}
