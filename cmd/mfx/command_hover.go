package main

import (
	"fmt"
	"os"

	"github.com/shibukawa/mfx/ast"
	"github.com/shibukawa/mfx/document"
	"github.com/shibukawa/mfx/hover"
)

// HoverCmd renders a Markdown hover card for a single position.
type HoverCmd struct {
	File string `arg:"" help:"Path to an M source file"`
	Line int    `help:"Zero-based line of the caret" required:""`
	Col  int    `help:"Zero-based column of the caret" required:""`
}

// Run executes the hover command.
func (cmd *HoverCmd) Run(appCtx *Context) error {
	source, err := os.ReadFile(cmd.File)
	if err != nil {
		return fmt.Errorf("mfx hover: %w", err)
	}
	if err := appCtx.CheckSize(cmd.File, len(source)); err != nil {
		return fmt.Errorf("mfx hover: %w", err)
	}
	doc, err := document.New(string(source))
	if err != nil {
		return fmt.Errorf("mfx hover: %w", err)
	}

	md, err := hover.Render(doc, ast.Position{Line: cmd.Line, Column: cmd.Col})
	if err != nil {
		return fmt.Errorf("mfx hover: %w", err)
	}
	fmt.Println(md)
	return nil
}
