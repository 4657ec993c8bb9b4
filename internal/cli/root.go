package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roleatlas/roleatlas/internal/app/catalog"
	"github.com/roleatlas/roleatlas/internal/app/resolver"
	"github.com/roleatlas/roleatlas/internal/cli/ui"
)

var (
	cfgFile string
	verbose bool
	quiet   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "roleatlas",
	Short: "Resolve least-privilege Azure and Entra roles",
	Long: `RoleAtlas resolves the least-privileged built-in roles that cover a
set of required permissions.

Given the control-plane and data-plane actions a workload needs, it
matches them against the Azure RBAC or Entra role catalog, filters out
roles that cannot cover every action, and ranks the remainder from most
to least specific.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := initConfig(); err != nil {
			if verbose {
				ui.Error(fmt.Sprintf("Error loading config: %v", err))
			}
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(func() {
		_ = initConfig()
	})

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.roleatlas.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "quiet output (errors only)")

	// Bind flags to viper
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		// Search config in home directory with name ".roleatlas" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".roleatlas")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			ui.Info(fmt.Sprintf("Using config file: %s", viper.ConfigFileUsed()))
		}
	}

	return nil
}

// IsVerbose returns whether verbose mode is enabled
func IsVerbose() bool {
	return viper.GetBool("verbose")
}

// IsQuiet returns whether quiet mode is enabled
func IsQuiet() bool {
	return viper.GetBool("quiet")
}

// newResolverService assembles the catalog stores from configuration.
//
// Configured keys per provider:
//
//	azure.catalog       path to an exported role definition file (JSON/YAML)
//	azure.subscription  subscription ID for live ARM fetching
//	entra.catalog       path to an exported Entra role file
//	catalog.ttl         snapshot lifetime, e.g. "6h"
//
// A file path wins over live fetching when both are set.
func newResolverService() (*resolver.Service, error) {
	ttl := catalog.DefaultTTL
	if raw := viper.GetString("catalog.ttl"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid catalog.ttl %q: %w", raw, err)
		}
		ttl = parsed
	}

	var stores []*catalog.Store

	azureLoader, err := azureCatalogLoader()
	if err != nil {
		return nil, err
	}
	if azureLoader != nil {
		stores = append(stores, catalog.NewStore(catalog.ProviderAzure, azureLoader, ttl))
	}

	if path := viper.GetString("entra.catalog"); path != "" {
		loader := catalog.NewFileLoader(path, catalog.ProviderEntra)
		stores = append(stores, catalog.NewStore(catalog.ProviderEntra, loader, ttl))
	}

	if len(stores) == 0 {
		return nil, fmt.Errorf("no catalog configured: set azure.catalog, azure.subscription, or entra.catalog")
	}

	return resolver.NewService(stores...), nil
}

func azureCatalogLoader() (catalog.Loader, error) {
	if path := viper.GetString("azure.catalog"); path != "" {
		return catalog.NewFileLoader(path, catalog.ProviderAzure), nil
	}
	if sub := viper.GetString("azure.subscription"); sub != "" {
		loader, err := catalog.NewARMLoader(sub, nil)
		if err != nil {
			return nil, fmt.Errorf("azure credential setup failed: %w", err)
		}
		return loader, nil
	}
	return nil, nil
}
