package kv

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	putCmd = &cobra.Command{
		Use:   "put [key] [value] [type]",
		Short: "Sets the value and type for a key",
		Long: `Sets the value and type for a key. Valid types are
int8, int16, int32, int64, float, double, bool and string.

In the text format every entry is stored as one line
"<type>:<key>=<value>;". An entry whose line does not fit into
--line-buffer (including the newline) can not be saved: the command
fails and the file is left unchanged. Floats and doubles are rendered with fixed decimals, so very
large values (e.g. 1e300 as double) need a larger line buffer.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := fileStore.Put(args[0], args[1], args[2]); err != nil {
				return err
			}
			if err := saveStore(); err != nil {
				return err
			}
			fmt.Println("put successfully")
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := fileStore.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, type=%s, value=%s\n", e.Key(), e.Type(), e.Value())
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key value pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := fileStore.Delete(args[0]); err != nil {
				return err
			}
			if err := saveStore(); err != nil {
				return err
			}
			fmt.Println("delete successfully")
			return nil
		},
	}
	printCmd = &cobra.Command{
		Use:   "print",
		Short: "Prints all entries (type, key, value) in storage order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fileStore.Print(os.Stdout)
		},
	}
	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Prints the configuration and statistics of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := fileStore.GetDBInfo()
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(config.String())
			fmt.Println(string(data))
			return nil
		},
	}
)
