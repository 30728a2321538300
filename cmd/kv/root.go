package kv

import (
	"os"

	"github.com/ValentinKolb/fKV/cmd/util"
	"github.com/ValentinKolb/fKV/lib/common"
	"github.com/ValentinKolb/fKV/lib/store"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
)

var (
	log = logger.GetLogger(common.LogCmd)

	fileStore store.IStore
	config    common.Config
)

// AddCommands registers the key-value commands on the root command
func AddCommands(root *cobra.Command) {
	for _, cmd := range []*cobra.Command{putCmd, getCmd, delCmd, printCmd, infoCmd} {
		cmd.PreRunE = openStore
		cmd.PostRunE = closeStore
		root.AddCommand(cmd)
	}
	root.AddCommand(perfTestCmd)
}

// openStore creates the configured store and loads the database file
func openStore(_ *cobra.Command, _ []string) error {
	config = util.GetConfig()

	// PostRunE is skipped when a command fails
	if fileStore != nil {
		_ = fileStore.Close()
		fileStore = nil
	}

	s, err := util.OpenStore(config)
	if err != nil {
		return err
	}
	fileStore = s
	return nil
}

// closeStore prints the metrics if requested and releases the store
func closeStore(_ *cobra.Command, _ []string) error {
	if fileStore == nil {
		return nil
	}
	if config.PrintMetrics {
		fileStore.WriteMetrics(os.Stdout)
	}
	err := fileStore.Close()
	fileStore = nil
	return err
}

// saveStore writes the store back to the database file
func saveStore() error {
	if err := fileStore.Save(config.File); err != nil {
		log.Errorf("failed to save %s: %v", config.File, err)
		return err
	}
	return nil
}
