package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2latex [command] [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build      Build the datasheet .tex (and PDF) for each language (default)")
	fmt.Fprintln(w, "  images     List, locate and add datasheet images")
	fmt.Fprintln(w, "  doctor     Check the TeX toolchain and project setup")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2latex help <command>' for details on a specific command.")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2latex build [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Merge the configured markdown sources, convert them to LaTeX, fill the")
	fmt.Fprintln(w, "template with project metadata and compile one PDF per language.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (default: md2latex.yaml if present)")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory")
	fmt.Fprintln(w, "  -l, --lang <list>         Languages to build, e.g. en,es")
	fmt.Fprintln(w, "      --metadata <path>     Metadata file (.yaml, .yml, .toml)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel variants (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Template:")
	fmt.Fprintln(w, "      --template <s>        Embedded template name or .tex path")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with templates/<name>.tex overrides")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compilation:")
	fmt.Fprintln(w, "      --engine <s>          TeX engine: pdflatex, xelatex, lualatex")
	fmt.Fprintln(w, "      --attempts <n>        Compiler passes per document (1-10)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Timeout per document (e.g., 90s, 2m)")
	fmt.Fprintln(w, "      --no-compile          Only write the .tex files")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Extra Outputs:")
	fmt.Fprintln(w, "      --preview             Also write an HTML preview per language")
	fmt.Fprintln(w, "      --dump-metadata <dir> Write the resolved metadata of each variant")
	fmt.Fprintln(w, "      --watch               Rebuild when sources, metadata or images change")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show notes and detailed timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2LATEX_CONFIG, MD2LATEX_OUTPUT_DIR, MD2LATEX_LANGUAGES, MD2LATEX_TEMPLATE,")
	fmt.Fprintln(w, "  MD2LATEX_ENGINE, MD2LATEX_TIMEOUT, MD2LATEX_WORKERS, MD2LATEX_NO_COMPILE,")
	fmt.Fprintln(w, "  MD2LATEX_METADATA override the config file; flags override both.")
}

// printImagesUsage prints usage for the images command.
func printImagesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2latex images <subcommand> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Subcommands:")
	fmt.Fprintln(w, "  locations                  Show the image search directories in priority order")
	fmt.Fprintln(w, "  list [location]            List images with size and dimensions")
	fmt.Fprintln(w, "  add <file> <location>      Copy an image into a location")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -l, --lang <s>            Language for {lang} locations")
	fmt.Fprintln(w, "  -n, --name <s>            File name for the added image")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "build":
		printBuildUsage(env.Stdout)
	case "images":
		printImagesUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: md2latex doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check the TeX engine, template, configuration and output directory.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2latex version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2latex help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
