package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/fKV/cmd/kv"
	"github.com/ValentinKolb/fKV/cmd/util"
	"github.com/ValentinKolb/fKV/lib/common"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "fkv",
		Short: "typed flat-file key-value store",
		Long: fmt.Sprintf(`fKV (v%s)

An embedded, typed key-value store that keeps all entries in memory
(list or hash storage) and persists them to a single flat file.`, Version),
		SilenceUsage:      true,
		PersistentPreRunE: setupCommand,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of fKV",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("fKV v%s\n", Version)
		},
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	kv.AddCommands(RootCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	util.SetupStoreFlags(RootCmd)
}

// setupCommand binds the flags and configures the loggers before any command runs
func setupCommand(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	return common.InitLoggers(util.GetConfig())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
