package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "revisionai",
		Short: "Turn course documents into review sheets and a self-graded quiz",
	}

	serve := serveCmd()
	root.AddCommand(serve, generateCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"port":         "port",
	"env":          "env",
	"log-level":    "log_level",
	"lang":         "ui_lang",
	"model":        "gemini.model",
	"answer-store": "answer_store",
}

// viperForCmd binds a command's flags to a fresh viper instance. Environment
// variables and the optional config file are layered in by config.Load.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
	return v
}

func addCommonFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("env", "development", "Environment (development, production)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("model", "gemini-2.5-flash", "Gemini model name")
}
