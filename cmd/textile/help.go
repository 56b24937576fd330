package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: textile <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert Textile files to HTML")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "A .textile file or a flag in place of the command runs convert.")
	fmt.Fprintln(w, "Run 'textile help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: textile convert [input] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert Textile files to HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    .textile file or directory; '-' or none reads standard input")
	fmt.Fprintln(w, "           and writes standard output (unless input.defaultDir is set)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output .html file or directory (- = stdout)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Textile:")
	fmt.Fprintln(w, "      --dialect <s>         Output dialect: xhtml, html5")
	fmt.Fprintln(w, "      --restricted          Escape raw HTML (untrusted input)")
	fmt.Fprintln(w, "      --lite                Paragraphs and blockquotes only (with --restricted)")
	fmt.Fprintln(w, "      --no-block-tags       Treat input as inline content only")
	fmt.Fprintln(w, "      --rel <s>             rel attribute for links (e.g., nofollow)")
	fmt.Fprintln(w, "      --link-prefix <s>     Fixed prefix for footnote and note ids")
	fmt.Fprintln(w, "      --max-span-depth <n>  Nesting limit of inline markup (0 = default)")
	fmt.Fprintln(w, "      --sanitize            Filter restricted output through an allow-list")
	fmt.Fprintln(w, "      --allowed-tags <s>    Comma-separated allow-list for --sanitize")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Images:")
	fmt.Fprintln(w, "      --no-images           Leave image markup as text")
	fmt.Fprintln(w, "      --image-sizes         Probe remote images for width and height")
	fmt.Fprintln(w, "      --image-timeout <d>   Probe timeout (e.g., 3s)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Standalone Page:")
	fmt.Fprintln(w, "      --standalone          Wrap output in a complete HTML page")
	fmt.Fprintln(w, "      --style <name>        Stylesheet: default, plain, or one in --asset-path")
	fmt.Fprintln(w, "      --lang <s>            lang attribute (default en)")
	fmt.Fprintln(w, "      --highlight <style>   Chroma style for bc(language-xxx) blocks")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory searched for styles and templates")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  TEXTILE_CONFIG, TEXTILE_DIALECT, TEXTILE_STYLE, TEXTILE_INPUT_DIR,")
	fmt.Fprintln(w, "  TEXTILE_OUTPUT_DIR, TEXTILE_IMAGE_TIMEOUT, TEXTILE_WORKERS")
	fmt.Fprintln(w, "  Flags override environment, environment overrides the config file.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: textile version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: textile help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	return nil
}
