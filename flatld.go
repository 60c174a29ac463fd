package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ksco/flatld/pkg/linker"
	"github.com/ksco/flatld/pkg/utils"
	"github.com/xyproto/env/v2"
	"go.uber.org/zap"
)

var version string

type options struct {
	dump    bool
	verbose bool
}

func main() {
	ctx := linker.NewContext()
	opts := &options{}
	loadEnv(ctx, opts)
	remaining := parseNonpositionalArgs(ctx, opts)

	if opts.verbose {
		logger, err := zap.NewDevelopment()
		utils.MustNo(err)
		defer logger.Sync()
		ctx.Logger = logger
	}

	if opts.dump {
		utils.MustNo(dumpObjects(ctx, remaining))
		return
	}

	if ctx.Arg.Output == "" {
		if len(remaining) == 0 {
			utils.Fatal("no output file")
		}
		ctx.Arg.Output = remaining[0]
		remaining = remaining[1:]
	}
	if len(remaining) == 0 {
		utils.Fatal("no input files")
	}

	if err := linker.Link(ctx, remaining); err != nil {
		ctx.Logger.Debug("link failed", zap.Stringer("stage", ctx.Stage), zap.Error(err))
		utils.Fatal(err)
	}

	fmt.Printf("Successfully created %s\n", ctx.Arg.Output)
	fmt.Printf("Text Size: %d bytes\n", ctx.TextSize)
	fmt.Printf("Data Size: %d bytes\n", ctx.DataSize)
}

// loadEnv applies FLATLD_* defaults; command-line options override them.
func loadEnv(ctx *linker.Context, opts *options) {
	ctx.Arg.Output = ""
	ctx.Arg.Entry = env.Str("FLATLD_ENTRY", linker.DefaultEntryName)
	opts.verbose = env.Bool("FLATLD_VERBOSE")

	if paths := env.Str("FLATLD_LIBRARY_PATH"); paths != "" {
		for _, dir := range filepath.SplitList(paths) {
			if dir != "" {
				ctx.Arg.LibraryPaths = append(ctx.Arg.LibraryPaths, dir)
			}
		}
	}
}

func dumpObjects(ctx *linker.Context, args []string) error {
	if err := linker.ReadInputFiles(ctx, args); err != nil {
		return err
	}
	for _, obj := range ctx.Objs {
		if err := linker.DumpObjectFile(os.Stdout, obj); err != nil {
			return err
		}
	}
	return nil
}

func parseNonpositionalArgs(ctx *linker.Context, opts *options) []string {
	dashes := func(name string) []string {
		if len(name) == 1 {
			return []string{"-" + name}
		}
		if name[0] == 'o' {
			return []string{"--" + name}
		}
		return []string{"-" + name, "--" + name}
	}

	args := os.Args[1:]
	remaining := make([]string, 0)
	var arg string

	readArg := func(name string) bool {
		for _, opt := range dashes(name) {
			if args[0] == opt {
				if len(args) == 1 {
					utils.Fatal(fmt.Sprintf("option -%s: argument missing", name))
					return false
				}
				arg = args[1]
				args = args[2:]
				return true
			}

			prefix := opt
			if len(name) > 1 {
				prefix += "="
			}

			if strings.HasPrefix(args[0], prefix) {
				arg = args[0][len(prefix):]
				args = args[1:]
				return true
			}
		}
		return false
	}

	readFlag := func(name string) bool {
		for _, opt := range dashes(name) {
			if args[0] == opt {
				args = args[1:]
				return true
			}
		}
		return false
	}

	for len(args) > 0 {
		if readFlag("help") {
			fmt.Printf("Usage: %s [options] <output> <input>...\n", os.Args[0])
			fmt.Printf("       %s -o <output> <input>...\n", os.Args[0])
			fmt.Printf("       %s --dump <object>...\n", os.Args[0])
			os.Exit(0)
		}

		if readArg("o") || readArg("output") {
			ctx.Arg.Output = arg
		} else if readFlag("v") || readFlag("version") {
			fmt.Printf("flatld %s\n", version)
			os.Exit(0)
		} else if readArg("entry") || readArg("e") {
			ctx.Arg.Entry = arg
		} else if readFlag("verbose") {
			opts.verbose = true
		} else if readFlag("dump") {
			opts.dump = true
		} else if readArg("L") || readArg("library-path") {
			ctx.Arg.LibraryPaths = append(ctx.Arg.LibraryPaths, arg)
		} else if readArg("l") {
			remaining = append(remaining, "-l"+arg)
		} else if readFlag("static") {
			// Do nothing.
		} else {
			if args[0][0] == '-' {
				utils.Fatal(fmt.Sprintf("unknown command line option: %s", args[0]))
			}
			remaining = append(remaining, args[0])
			args = args[1:]
		}
	}

	for i, path := range ctx.Arg.LibraryPaths {
		ctx.Arg.LibraryPaths[i] = filepath.Clean(path)
	}

	return remaining
}
