package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/ui"
)

// setCustomUsage configures the flag set with a colored usage function.
func setCustomUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		// Respect NO_COLOR even before app initialization
		t := ui.GetCurrentTheme()
		if v, ok := os.LookupEnv("NO_COLOR"); ok && v != "" {
			t = ui.NoColorTheme
		}

		out := fs.Output()

		// Header
		fmt.Fprintf(out, "\n%sDrive-Thru Order System%s\n", t.Bold, t.Reset)
		fmt.Fprintf(out, "Order lifecycle tracking and event-log analytics.\n\n")
		fmt.Fprintf(out, "%sUsage:%s\n  %s [flags]\n\n%sFlags:%s\n", t.Warning, t.Reset, fs.Name(), t.Warning, t.Reset)

		fs.VisitAll(func(f *flag.Flag) {
			name, usage := flag.UnquoteUsage(f)
			flagSig := fmt.Sprintf("-%s", f.Name)
			if len(name) > 0 {
				flagSig += " " + name
			}

			// Print formatted flag
			fmt.Fprintf(out, "  %s%-25s%s %s", t.Primary, flagSig, t.Reset, usage)

			// Print default value if meaningful
			if f.DefValue != "" && f.DefValue != "0" && f.DefValue != "false" {
				fmt.Fprintf(out, " %s(default %s)%s", t.Secondary, f.DefValue, t.Reset)
			}
			fmt.Fprintln(out)
		})

		// Environment variables section
		fmt.Fprintf(out, "\n%sEnvironment:%s\n", t.Warning, t.Reset)
		fmt.Fprintf(out, "  Flags not set on the command line fall back to %s*-prefixed\n", EnvPrefix)
		fmt.Fprintf(out, "  environment variables (e.g. %sDATA_DIR, %sPORT, %sTIMEOUT).\n\n", EnvPrefix, EnvPrefix, EnvPrefix)
	}
}
