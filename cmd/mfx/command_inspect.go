package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/shibukawa/mfx/ast"
	"github.com/shibukawa/mfx/document"
	"github.com/shibukawa/mfx/inspect"
)

// InspectCmd resolves scope and the caret's identifier at one or more
// positions in a file.
type InspectCmd struct {
	File      string `arg:"" help:"Path to an M source file"`
	Line      int    `help:"Zero-based line of the caret" default:"-1"`
	Col       int    `help:"Zero-based column of the caret" default:"-1"`
	Positions string `help:"Path to a file of 'line,col' positions, one per line, for batch mode"`
	JSON      bool   `help:"Emit JSON instead of text"`
}

type inspectionOutput struct {
	Line       int      `json:"line"`
	Column     int      `json:"column"`
	Identifier string   `json:"identifier,omitempty"`
	Status     string   `json:"status"`
	ScopeNames []string `json:"scope_names"`
}

// Run executes the inspect command. Batch mode (--positions) inspects every
// requested position concurrently over the same read-only Document, one
// goroutine per position, fanned out with errgroup and joined before
// printing — the node-id map never mutates once parsing finishes, so
// concurrent readers need no locking.
func (cmd *InspectCmd) Run(appCtx *Context) error {
	source, err := os.ReadFile(cmd.File)
	if err != nil {
		return fmt.Errorf("mfx inspect: %w", err)
	}
	if err := appCtx.CheckSize(cmd.File, len(source)); err != nil {
		return fmt.Errorf("mfx inspect: %w", err)
	}
	doc, err := document.New(string(source))
	if err != nil {
		return fmt.Errorf("mfx inspect: %w", err)
	}

	positions, err := cmd.resolvePositions()
	if err != nil {
		return err
	}

	outputs := make([]inspectionOutput, len(positions))
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, pos := range positions {
		g.Go(func() error {
			out, err := inspectOne(doc, pos)
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("mfx inspect: %w", err)
	}

	if appCtx.JSON(cmd.JSON) {
		return json.NewEncoder(os.Stdout).Encode(outputs)
	}
	printInspections(outputs, appCtx.Color)
	return nil
}

func (cmd *InspectCmd) resolvePositions() ([]ast.Position, error) {
	if cmd.Positions != "" {
		return readPositionsFile(cmd.Positions)
	}
	if cmd.Line < 0 || cmd.Col < 0 {
		return nil, fmt.Errorf("mfx inspect: either --positions or both --line and --col are required")
	}
	return []ast.Position{{Line: cmd.Line, Column: cmd.Col}}, nil
}

func readPositionsFile(path string) ([]ast.Position, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mfx inspect: reading positions: %w", err)
	}
	defer f.Close()

	var positions []ast.Position
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("mfx inspect: malformed position %q, want 'line,col'", line)
		}
		l, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("mfx inspect: malformed position %q: %w", line, err)
		}
		c, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("mfx inspect: malformed position %q: %w", line, err)
		}
		positions = append(positions, ast.Position{Line: l, Column: c})
	}
	return positions, scanner.Err()
}

func inspectOne(doc *document.Document, pos ast.Position) (inspectionOutput, error) {
	result, err := inspect.TryFrom(doc.NodeIdMap(), doc.LeafIds(), pos)
	if err != nil {
		return inspectionOutput{}, err
	}

	names := make([]string, 0, len(result.Scope))
	for name := range result.Scope {
		names = append(names, name)
	}
	sort.Strings(names)

	out := inspectionOutput{Line: pos.Line, Column: pos.Column, ScopeNames: names}
	switch id := result.MaybePositionIdentifier.(type) {
	case inspect.Local:
		out.Status = "local"
		out.Identifier = id.Identifier
	case inspect.Undefined:
		out.Status = "undefined"
		out.Identifier = id.Identifier
	default:
		out.Status = "none"
	}
	return out, nil
}

func printInspections(outputs []inspectionOutput, useColor bool) {
	for _, out := range outputs {
		header := fmt.Sprintf("(%d,%d)", out.Line, out.Column)
		if useColor {
			header = color.CyanString(header)
		}
		fmt.Printf("%s scope=%s\n", header, strings.Join(out.ScopeNames, ", "))
		switch out.Status {
		case "local":
			label := "local"
			if useColor {
				label = color.GreenString(label)
			}
			fmt.Printf("  %s %s\n", label, out.Identifier)
		case "undefined":
			label := "undefined"
			if useColor {
				label = color.RedString(label)
			}
			fmt.Printf("  %s %s\n", label, out.Identifier)
		default:
			fmt.Println("  no identifier under the caret")
		}
	}
}
