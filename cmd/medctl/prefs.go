package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/abelbrown/medview/internal/store"
	"github.com/abelbrown/medview/internal/theme"
)

func runPrefs(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("prefs", flag.ExitOnError)
	setTheme := fs.String("theme", "", "Set the stored theme: dark or light")
	fs.Parse(args)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("open preferences: %w", err)
	}
	defer st.Close()

	return prefs(st, *setTheme, out)
}

// prefs prints the stored theme, optionally setting it first.
func prefs(st *store.Store, setTheme string, out io.Writer) error {
	switch setTheme {
	case "":
	case "dark", "light":
		if err := st.SetBool(theme.PrefKey, setTheme == "dark"); err != nil {
			return fmt.Errorf("save theme: %w", err)
		}
	default:
		return fmt.Errorf("unknown theme %q (want dark or light)", setTheme)
	}

	dark, ok, err := st.GetBool(theme.PrefKey)
	if err != nil {
		return fmt.Errorf("read theme: %w", err)
	}
	mode := "light"
	if dark {
		mode = "dark"
	}
	if !ok {
		mode += " (default)"
	}
	fmt.Fprintf(out, "%s: %s\n", theme.PrefKey, mode)
	return nil
}
