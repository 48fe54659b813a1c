package main

import (
	"os"

	"github.com/aq2208/gorder-storefront/configs"
	"github.com/aq2208/gorder-storefront/internal/adapter/catalog"
	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configDir string
	env       string
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:          "storefrontctl",
		Short:        "Inspect storefront pricing configuration",
		SilenceUsage: true,
	}
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	root.PersistentFlags().StringVar(&f.configDir, "config-dir", "configs", "directory holding base.yaml and <env>.yaml")
	root.PersistentFlags().StringVar(&f.env, "env", env, "config overlay to apply")

	root.AddCommand(newMenuCmd(f), newRatesCmd(f), newQuoteCmd(f))
	return root
}

func (f *rootFlags) load() (configs.Config, error) {
	return configs.Load(f.configDir, f.env)
}

// catalogFrom mirrors the API: an empty catalog.items section means the stock menu.
func catalogFrom(cfg configs.Config) (*domain.Catalog, error) {
	items, err := cfg.MenuItems()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		items = catalog.DefaultMenu()
	}
	return domain.NewCatalog(items)
}
