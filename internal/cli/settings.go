package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/akarpov87/vsnap/internal/store"
)

func (a *App) showSettings(ctx context.Context) {
	settings := a.store.GetAllSettings(ctx)
	if len(settings) == 0 {
		fmt.Fprintln(a.out, "No settings")
		return
	}
	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(a.out, "%s = %v\n", key, settings[key])
	}
}

func (a *App) setSetting(ctx context.Context, args []string) {
	if len(args) < 2 || len(args) > 3 {
		fmt.Fprintln(a.out, "Usage: set <key> <value> [string|bool|int|float]")
		return
	}
	key, value := args[0], args[1]
	dataType := store.TypeString
	if len(args) == 3 {
		switch args[2] {
		case store.TypeString, store.TypeBool, store.TypeInt, store.TypeFloat:
			dataType = args[2]
		default:
			fmt.Fprintln(a.out, "Unknown type:", args[2])
			return
		}
	}
	if err := a.store.SaveSetting(ctx, key, value, dataType); err != nil {
		fmt.Fprintln(a.out, "Error saving setting:", err)
		return
	}
	fmt.Fprintf(a.out, "%s = %s (%s)\n", key, value, dataType)
}
