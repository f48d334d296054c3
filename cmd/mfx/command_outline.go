package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/shibukawa/mfx/document"
	"github.com/shibukawa/mfx/outline"
)

// OutlineCmd prints a file's symbol tree.
type OutlineCmd struct {
	File string `arg:"" help:"Path to an M source file"`
	JSON bool   `help:"Emit JSON instead of text"`
}

// Run executes the outline command.
func (cmd *OutlineCmd) Run(appCtx *Context) error {
	source, err := os.ReadFile(cmd.File)
	if err != nil {
		return fmt.Errorf("mfx outline: %w", err)
	}
	if err := appCtx.CheckSize(cmd.File, len(source)); err != nil {
		return fmt.Errorf("mfx outline: %w", err)
	}
	doc, err := document.New(string(source))
	if err != nil {
		return fmt.Errorf("mfx outline: %w", err)
	}

	root, err := outline.Extract(doc)
	if err != nil {
		return fmt.Errorf("mfx outline: %w", err)
	}

	if appCtx.JSON(cmd.JSON) {
		return json.NewEncoder(os.Stdout).Encode(root)
	}
	printSymbol(root, 0, appCtx.Color)
	return nil
}

func printSymbol(sym *outline.Symbol, depth int, useColor bool) {
	name := sym.Name
	if name == "" {
		name = "(anonymous)"
	}
	if useColor {
		name = color.YellowString(name)
	}
	fmt.Printf("%s%s  %s\n", strings.Repeat("  ", depth), name, sym.Kind.String())
	for _, child := range sym.Children {
		printSymbol(child, depth+1, useColor)
	}
}
