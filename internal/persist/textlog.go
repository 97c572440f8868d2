// Package persist implements command-log (de)serialization formats.
// The concrete on-wire format is a choice of this outer layer; the
// engine package only mandates command order and semantics.
package persist

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/prxssh/mediactl/internal/engine"
)

// Item and Filter are both plain strings at this layer: a media item is
// identified by its URL, and a filter fragment is a whitespace-free
// token concatenated along a path before being handed to an ItemSource.
type (
	Item   = string
	Filter = string
)

// WriteTextLog renders cmds in the recommended textual form (one
// command per line; leading '#' or blank lines are comments).
func WriteTextLog(w io.Writer, cmds []engine.ModifyCmd[Item, Filter]) error {
	bw := bufio.NewWriter(w)
	for _, cmd := range cmds {
		line, err := encodeLine(cmd)
		if err != nil {
			return err
		}
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func encodeLine(cmd engine.ModifyCmd[Item, Filter]) (string, error) {
	switch cmd.Kind {
	case engine.CmdAddBucket:
		return fmt.Sprintf("add-bucket %s", cmd.Parent), nil
	case engine.CmdAddJoint:
		return fmt.Sprintf("add-joint %s", cmd.Parent), nil
	case engine.CmdDeleteEmpty:
		return fmt.Sprintf("delete-empty %s", cmd.Path), nil
	case engine.CmdFillBucket:
		return fmt.Sprintf("fill-bucket %s %s", cmd.Path, strings.Join(cmd.NewContents, " ")), nil
	case engine.CmdSetFilters:
		return fmt.Sprintf("set-filters %s %s", cmd.Path, strings.Join(cmd.NewFilters, " ")), nil
	case engine.CmdSetWeight:
		return fmt.Sprintf("set-weight %s %d", cmd.Path, cmd.Weight), nil
	case engine.CmdSetOrderType:
		return fmt.Sprintf("set-order-type %s %s", cmd.Path, cmd.OrderKind), nil
	default:
		return "", fmt.Errorf("persist: unknown command kind %d", cmd.Kind)
	}
}

// ReadTextLog parses the textual form back into a command sequence,
// suitable for replay via engine.FromCommands. Parse failures are
// reported as *engine.InvalidCommandLineError carrying the offending
// line and 1-based line number.
func ReadTextLog(r io.Reader) ([]engine.ModifyCmd[Item, Filter], error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var cmds []engine.ModifyCmd[Item, Filter]
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cmd, err := decodeLine(line)
		if err != nil {
			return nil, &engine.InvalidCommandLineError{Line: line, LineNumber: lineNo, Cause: err}
		}
		cmds = append(cmds, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("persist: read text log: %w", err)
	}

	return cmds, nil
}

func decodeLine(line string) (engine.ModifyCmd[Item, Filter], error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return engine.ModifyCmd[Item, Filter]{}, fmt.Errorf("persist: empty command")
	}

	keyword, rest := fields[0], fields[1:]

	switch keyword {
	case "add-bucket":
		p, err := requirePath(rest)
		if err != nil {
			return engine.ModifyCmd[Item, Filter]{}, err
		}
		return engine.ModifyCmd[Item, Filter]{Kind: engine.CmdAddBucket, Parent: p}, nil

	case "add-joint":
		p, err := requirePath(rest)
		if err != nil {
			return engine.ModifyCmd[Item, Filter]{}, err
		}
		return engine.ModifyCmd[Item, Filter]{Kind: engine.CmdAddJoint, Parent: p}, nil

	case "delete-empty":
		p, err := requirePath(rest)
		if err != nil {
			return engine.ModifyCmd[Item, Filter]{}, err
		}
		return engine.ModifyCmd[Item, Filter]{Kind: engine.CmdDeleteEmpty, Path: p}, nil

	case "fill-bucket":
		if len(rest) < 1 {
			return engine.ModifyCmd[Item, Filter]{}, fmt.Errorf("persist: fill-bucket requires a path")
		}
		p, err := engine.ParsePath(rest[0])
		if err != nil {
			return engine.ModifyCmd[Item, Filter]{}, err
		}
		return engine.ModifyCmd[Item, Filter]{Kind: engine.CmdFillBucket, Path: p, NewContents: append([]string(nil), rest[1:]...)}, nil

	case "set-filters":
		if len(rest) < 1 {
			return engine.ModifyCmd[Item, Filter]{}, fmt.Errorf("persist: set-filters requires a path")
		}
		p, err := engine.ParsePath(rest[0])
		if err != nil {
			return engine.ModifyCmd[Item, Filter]{}, err
		}
		return engine.ModifyCmd[Item, Filter]{Kind: engine.CmdSetFilters, Path: p, NewFilters: append([]string(nil), rest[1:]...)}, nil

	case "set-weight":
		if len(rest) != 2 {
			return engine.ModifyCmd[Item, Filter]{}, fmt.Errorf("persist: set-weight requires <path> <u32>")
		}
		p, err := engine.ParsePath(rest[0])
		if err != nil {
			return engine.ModifyCmd[Item, Filter]{}, err
		}
		w, err := strconv.ParseUint(rest[1], 10, 32)
		if err != nil {
			return engine.ModifyCmd[Item, Filter]{}, fmt.Errorf("persist: invalid weight %q: %w", rest[1], err)
		}
		return engine.ModifyCmd[Item, Filter]{Kind: engine.CmdSetWeight, Path: p, Weight: engine.Weight(w)}, nil

	case "set-order-type":
		if len(rest) != 2 {
			return engine.ModifyCmd[Item, Filter]{}, fmt.Errorf("persist: set-order-type requires <path> <kind>")
		}
		p, err := engine.ParsePath(rest[0])
		if err != nil {
			return engine.ModifyCmd[Item, Filter]{}, err
		}
		kind, err := engine.ParseOrderKind(rest[1])
		if err != nil {
			return engine.ModifyCmd[Item, Filter]{}, err
		}
		return engine.ModifyCmd[Item, Filter]{Kind: engine.CmdSetOrderType, Path: p, OrderKind: kind}, nil

	default:
		return engine.ModifyCmd[Item, Filter]{}, fmt.Errorf("persist: unknown command keyword %q", keyword)
	}
}

func requirePath(rest []string) (engine.Path, error) {
	if len(rest) != 1 {
		return engine.Path{}, fmt.Errorf("persist: expected exactly one path argument, got %d", len(rest))
	}
	return engine.ParsePath(rest[0])
}
