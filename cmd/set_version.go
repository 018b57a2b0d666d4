package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"opsinstall/internal/installer"
	"opsinstall/internal/logger"
	"opsinstall/internal/tools"
)

// newLocator builds the modulefile locator on Lmod.
var newLocator = func() *installer.ModuleLocator {
	return &installer.ModuleLocator{Modules: tools.Lmod{Runner: newRunner()}, Ext: cfg.DescriptorExt}
}

// setVersionCmd sets a registered modulefile version as the product default.
// Without a version it prints the current default.
var setVersionCmd = &cobra.Command{
	Use:   "set-version PRODUCT [VERSION]",
	Short: "Set a modulefile version as default",
	Long: `Set a modulefile version as default. PRODUCT may be given as
PRODUCT/VERSION. Without a version the current default is printed.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		product, version := installer.SplitModule(args[0])
		if len(args) == 2 {
			if version != "" {
				return fmt.Errorf("version given twice: %s and %s", args[0], args[1])
			}
			version = args[1]
		}

		locator := newLocator()
		if version == "" {
			path, err := locator.DefaultPath(cmd.Context(), product)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Default modulefile path:", path)
			return nil
		}

		link, err := locator.PromoteVersion(cmd.Context(), product, version)
		if err != nil {
			return err
		}
		logger.Info("[INFO] Created default symlink %s\n", link)
		return nil
	},
}
