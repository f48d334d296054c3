// Command mfx inspects Power Query / M formula language source files: what
// is in scope at a position, what an identifier under the caret resolves
// to, and the document's outline of named bindings.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/shibukawa/mfx/mfxconfig"
)

// Context carries the loaded configuration and global flags into every
// subcommand's Run.
type Context struct {
	Config *mfxconfig.Config
	Color  bool
}

// JSON reports whether out should be JSON-encoded: an explicit --json flag
// on the subcommand wins, otherwise the config's output_format decides.
func (c *Context) JSON(explicit bool) bool {
	return explicit || c.Config.OutputFormat == "json"
}

// CheckSize rejects source files larger than the config's document size
// limit before they reach the lexer.
func (c *Context) CheckSize(path string, size int) error {
	if size > c.Config.MaxDocumentBytes {
		return fmt.Errorf("%s is %d bytes, exceeds max_document_bytes %d", path, size, c.Config.MaxDocumentBytes)
	}
	return nil
}

// CLI is the top-level command tree.
var CLI struct {
	Config  string     `help:"Configuration file path" default:".mfx.yaml"`
	NoColor bool       `help:"Disable colored output"`
	Inspect InspectCmd `cmd:"" help:"Report scope and the resolved identifier at a position"`
	Outline OutlineCmd `cmd:"" help:"Print the document's symbol outline"`
	Hover   HoverCmd   `cmd:"" help:"Render a Markdown hover card for a position"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// VersionCmd prints the CLI's version.
type VersionCmd struct{}

// Run executes the version command.
func (cmd *VersionCmd) Run(_ *Context) error {
	fmt.Println("mfx v0.1.0")
	return nil
}

func main() {
	ctx := kong.Parse(&CLI)

	config, err := mfxconfig.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	appCtx := &Context{Config: config, Color: config.Color && !CLI.NoColor}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
