package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// fieldFlagAliases apply to commands that set task fields.
var fieldFlagAliases = map[string]string{
	"desc": "description",
	"prio": "priority",
}

// filterFlagAliases apply to commands that filter by task fields.
var filterFlagAliases = map[string]string{
	"prio": "priority",
}

func addFlagAliases(aliases map[string]string, cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		aliasFlags(cmd.Flags(), aliases)
	}
}

// aliasFlags makes each alias resolve to its target flag while keeping any
// normalization already installed on flags.
func aliasFlags(flags *pflag.FlagSet, aliases map[string]string) {
	if len(aliases) == 0 {
		return
	}
	next := flags.GetNormalizeFunc()
	flags.SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		target, ok := aliases[name]
		if !ok {
			return next(f, name)
		}
		return next(f, target)
	})
}
