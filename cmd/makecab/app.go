package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
)

const (
	// ExitCodeSuccess is the successful exit code.
	ExitCodeSuccess int = iota

	// ExitCodeFlagParseError is the exit code for a flag parsing error.
	ExitCodeFlagParseError

	// ExitCodeUnknownError is the exit code for any other error.
	ExitCodeUnknownError
)

// ErrFlagParse is a flag parsing or flag value error.
var ErrFlagParse = errors.New("parsing flags")

// ErrUnsupported indicates a requested feature or directive is not supported.
var ErrUnsupported = errors.New("unsupported")

func init() {
	// See github.com/urfave/cli/issues/1809: without this, "makecab --help
	// foo" reports "command foo not found" instead of showing help, since
	// cli treats the first bare arg as a subcommand name when one isn't
	// registered.
	cli.HelpFlag = &cli.BoolFlag{
		Name:               "d41d8cd98f00b204e980",
		DisableDefaultText: true,
	}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  filepath.Base(os.Args[0]),
		Usage: "Create a Microsoft Cabinet file from a single source file.",
		Description: strings.Join([]string{
			"A minimal, MS-ZIP-only reimplementation of Windows makecab.exe.",
			"Only single-file, single-folder cabinets are produced.",
		}, "\n"),
		ArgsUsage:       "<source> [destination]",
		HideHelp:        true,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "F",
				Usage: "directive file (not supported)",
			},
			&cli.StringSliceFlag{
				Name:  "D",
				Usage: "set a directive variable, VAR=VALUE",
			},
			&cli.StringFlag{
				Name:  "L",
				Usage: "destination directory for the cabinet (default: current directory)",
			},
			&cli.BoolFlag{
				Name:               "V",
				Usage:              "print a one-line summary (equivalent to -V1)",
				DisableDefaultText: true,
			},
			&cli.StringFlag{
				Name:   "verbosity-level",
				Hidden: true,
			},
			&cli.BoolFlag{
				Name:               "help",
				Usage:              "print this help text and exit",
				Aliases:            []string{"h"},
				DisableDefaultText: true,
			},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("help") {
				must(cli.ShowAppHelp(c))
				return nil
			}

			if c.IsSet("F") {
				return fmt.Errorf("%w: %s: directive files are not supported", ErrUnsupported, "-F")
			}

			vars, err := parseDirectives(c.StringSlice("D"))
			if err != nil {
				return err
			}

			verbosity, err := parseVerbosity(c.String("verbosity-level"), c.IsSet("verbosity-level"), c.Bool("V"))
			if err != nil {
				return err
			}

			args := c.Args()
			if args.Len() < 1 {
				return fmt.Errorf("%w: missing required <source> argument", ErrFlagParse)
			}
			if args.Len() > 2 {
				return fmt.Errorf("%w: too many arguments", ErrFlagParse)
			}

			mc := makeCab{
				source:      args.Get(0),
				destination: args.Get(1),
				destDir:     c.String("L"),
				directives:  vars,
				verbosity:   verbosity,
				stdout:      c.App.Writer,
			}
			return mc.Run()
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			fmt.Fprintf(c.App.ErrWriter, "%s: %v\n", c.App.Name, err)
			if errors.Is(err, ErrFlagParse) {
				cli.OsExiter(ExitCodeFlagParseError)
				return
			}
			cli.OsExiter(ExitCodeUnknownError)
		},
	}
}
