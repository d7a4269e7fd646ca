package main

import (
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/amonks/tock/internal/testsupport"
)

func TestRootCommandName(t *testing.T) {
	if rootCmd.Use != "tock" {
		t.Fatalf("expected root command name tock, got %q", rootCmd.Use)
	}
}

func TestCLIScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/cli",
		Setup: func(env *testscript.Env) error {
			return testsupport.SetupScriptEnv(t, env)
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"envset":    testsupport.CmdEnvSet,
			"taskid":    testsupport.CmdTaskID,
			"taskfield": testsupport.CmdTaskField,
		},
	})
}
