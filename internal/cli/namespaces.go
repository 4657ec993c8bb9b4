package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roleatlas/roleatlas/internal/app/catalog"
	"github.com/roleatlas/roleatlas/internal/cli/ui"
)

var (
	namespacesProvider string
	namespacesFilter   string
	namespacesLimit    int
)

var namespacesCmd = &cobra.Command{
	Use:   "namespaces",
	Short: "List namespaces or the operations within one",
	Long: `List the provider namespaces present across the role catalog. With
--namespace, list the distinct operations under that namespace instead.

Examples:
  roleatlas namespaces
  roleatlas namespaces --namespace Microsoft.Compute`,
	RunE: runNamespaces,
}

func init() {
	rootCmd.AddCommand(namespacesCmd)

	namespacesCmd.Flags().StringVar(&namespacesProvider, "provider", "azure", "role catalog provider (azure or entra)")
	namespacesCmd.Flags().StringVar(&namespacesFilter, "namespace", "", "list operations under this namespace")
	namespacesCmd.Flags().IntVar(&namespacesLimit, "limit", 0, "maximum operations (0 = default)")
}

func runNamespaces(cmd *cobra.Command, args []string) error {
	provider, err := catalog.ParseProvider(namespacesProvider)
	if err != nil {
		return err
	}

	svc, err := newResolverService()
	if err != nil {
		return err
	}

	if namespacesFilter != "" {
		ops, err := svc.Operations(cmd.Context(), provider, namespacesFilter, namespacesLimit)
		if err != nil {
			return err
		}
		if len(ops) == 0 {
			ui.Warning(fmt.Sprintf("No operations found under %s.", namespacesFilter))
			return nil
		}
		for _, op := range ops {
			fmt.Println(op)
		}
		if !IsQuiet() {
			ui.Info(fmt.Sprintf("%d operation(s)", len(ops)))
		}
		return nil
	}

	namespaces, err := svc.Namespaces(cmd.Context(), provider)
	if err != nil {
		return err
	}
	if len(namespaces) == 0 {
		ui.Warning("Catalog contains no namespaces.")
		return nil
	}
	for _, ns := range namespaces {
		fmt.Println(ns)
	}
	if !IsQuiet() {
		ui.Info(fmt.Sprintf("%d namespace(s)", len(namespaces)))
	}

	return nil
}
