package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cloudapi/identity/internal/config"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Fetch the configured key set and list the usable signing keys",
	RunE:  runKeys,
}

func init() {
	rootCmd.AddCommand(keysCmd)
}

func runKeys(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	keySet, err := loadKeySet(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to load JWKS: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KID\tALG\tBITS")
	for _, key := range keySet.Keys() {
		fmt.Fprintf(w, "%s\t%s\t%d\n", key.ID, key.Algorithm, key.PublicKey.N.BitLen())
	}
	return w.Flush()
}
