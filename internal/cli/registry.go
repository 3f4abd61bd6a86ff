package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/clearhull/claimwatch/internal/registry"
)

// registryCmd groups the registry inspection commands
var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect the claim registry",
}

var registryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered claims in insertion order",
	RunE:  runRegistryList,
}

var registryShowCmd = &cobra.Command{
	Use:   "show <claim-number>",
	Short: "Show one registered claim as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegistryShow,
}

func init() {
	rootCmd.AddCommand(registryCmd)
	registryCmd.AddCommand(registryListCmd)
	registryCmd.AddCommand(registryShowCmd)
}

func openRegistry() (*registry.Registry, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	return registry.Open(cfg.RegistryPath(), logger)
}

func runRegistryList(cmd *cobra.Command, args []string) error {
	claims, err := openRegistry()
	if err != nil {
		return err
	}

	snapshot := claims.Snapshot()
	if len(snapshot) == 0 {
		fmt.Println("Registry is empty")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CLAIM\tINSURED PARTY\tAMOUNT\tFRAUD\tPROCESSED")
	for _, reg := range snapshot {
		fmt.Fprintf(w, "%s\t%s\t%.2f %s\t%.2f\t%s\n",
			reg.ClaimID,
			reg.Entry.Analysis.InsuredParty,
			reg.Entry.Analysis.ClaimAmount,
			reg.Entry.Analysis.Currency,
			reg.Entry.FraudScore,
			reg.Entry.ProcessedAt)
	}
	return w.Flush()
}

func runRegistryShow(cmd *cobra.Command, args []string) error {
	claims, err := openRegistry()
	if err != nil {
		return err
	}

	claimID := args[0]
	for _, reg := range claims.Snapshot() {
		if reg.ClaimID == claimID {
			data, err := json.MarshalIndent(reg.Entry, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}
	}
	return fmt.Errorf("claim %q is not registered", claimID)
}
