// Command makecab creates a Microsoft Cabinet file holding a single
// MS-ZIP-compressed file, in the spirit of the Windows makecab.exe tool.
package main

import (
	"os"
	"strings"
)

func main() {
	app := newApp()
	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr
	// app's ExitErrHandler reports every Action error and sets the exit
	// code. Errors cli.App hits while parsing flags are returned from Run
	// without passing through ExitErrHandler, so they exit here.
	if err := app.Run(splitAttachedVerbosity(os.Args)); err != nil {
		os.Exit(ExitCodeFlagParseError)
	}
}

// splitAttachedVerbosity rewrites a "-V2"-style argument, with its level
// digit attached directly to the flag as makecab.exe's "-V[n]" traditionally
// works, into the long-form "--verbosity-level 2" cli.App's flag parser
// understands. A bare "-V" is left alone and handled by the boolean "V"
// flag instead.
func splitAttachedVerbosity(args []string) []string {
	out := make([]string, 0, len(args)+1)
	for _, a := range args {
		if len(a) > 2 && strings.HasPrefix(a, "-V") && a[2] >= '0' && a[2] <= '9' {
			out = append(out, "--verbosity-level", a[2:])
			continue
		}
		out = append(out, a)
	}
	return out
}
