package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"opsinstall/internal/installer"
	"opsinstall/internal/logger"
	"opsinstall/internal/prompt"
	"opsinstall/internal/state"
	"opsinstall/internal/tools"
)

// installFlags holds the flags of `opsinstall install`.
type installFlags struct {
	clone       bool
	archive     bool
	branch      string
	tag         string
	environment string
	dir         string
	modulepath  string
}

var installOpts installFlags

// newWorkflow builds the install workflow on the real external tools.
var newWorkflow = func(p prompt.Prompter) *installer.Workflow {
	runner := newRunner()
	pyenv := tools.Pyenv{Runner: runner}
	return &installer.Workflow{
		Prompt:     p,
		VM:         pyenv,
		Git:        tools.Git{Runner: runner},
		Packager:   tools.Pip{Env: pyenv},
		BasePython: cfg.BasePython,
	}
}

// installCmd installs a product and registers its modulefile.
var installCmd = &cobra.Command{
	Use:   "install PRODUCT",
	Short: "Install a product into its own environment and create a modulefile",
	Long: `PRODUCT is a package spec such as "numpy>=1.20" by default, a git remote
("org/repo", "git@host:org/repo") with --clone, or a distribution archive
path with --archive.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := installOpts.request(args[0])
		if err != nil {
			return err
		}
		p, err := newPrompter()
		if err != nil {
			return err
		}

		logger.Debug("[DEBUG] Install request: %+v\n", req)
		res, err := newWorkflow(p).Run(cmd.Context(), req)
		if err != nil {
			return err
		}

		rec := state.InstallRecord{
			Product:     res.Name,
			Version:     res.Version,
			Environment: res.Environment.Name,
			Descriptor:  res.Descriptor.TargetPath,
			Default:     res.DefaultLink != "",
			InstalledAt: time.Now().UTC(),
		}
		if res.Source != nil {
			rec.Source = res.Source.LocalPath
			rec.Immutable = res.Source.IsImmutable
		}
		if err := state.Record(cfg.StateFile, rec); err != nil {
			logger.Warn("[WARN] Could not record install in %s: %v\n", cfg.StateFile, err)
		}

		logger.Info("[INFO] Installed %s %s in environment %s.\n", res.Name, res.Version, res.Environment.Name)
		if res.DefaultLink != "" {
			logger.Info("[INFO] Created default symlink %s\n", res.DefaultLink)
		}
		return nil
	},
}

// request turns the flags and config into a workflow request. Flags override config.
func (f installFlags) request(product string) (installer.Request, error) {
	req := installer.Request{
		Product:           product,
		Mode:              installer.ModePackage,
		Branch:            f.branch,
		Tag:               f.tag,
		Environment:       f.environment,
		EnvironmentPrefix: cfg.EnvironmentPrefix,
		ProductDir:        cfg.ProductDir,
		ModulesRoot:       cfg.ModulesRoot,
		DescriptorExt:     cfg.DescriptorExt,
	}
	switch {
	case f.clone:
		req.Mode = installer.ModeRepo
	case f.archive:
		req.Mode = installer.ModeArchive
	}
	if f.tag != "" && req.Mode != installer.ModeRepo {
		return installer.Request{}, fmt.Errorf("--tag requires --clone")
	}

	if f.dir != "" {
		if err := isDir(f.dir); err != nil {
			return installer.Request{}, err
		}
		req.ProductDir = f.dir
	}
	if f.modulepath != "" {
		if err := isDir(f.modulepath); err != nil {
			return installer.Request{}, err
		}
		req.ModulesRoot = f.modulepath
	}
	return req, nil
}

func isDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

func init() {
	flags := installCmd.Flags()
	flags.BoolVar(&installOpts.clone, "clone", false, "Clone a git repository")
	flags.BoolVar(&installOpts.archive, "archive", false, "Extract a distribution archive")
	flags.StringVarP(&installOpts.branch, "branch", "b", "main", "Branch to checkout")
	flags.StringVarP(&installOpts.tag, "tag", "t", "", "Tag to checkout; the checkout is sealed")
	flags.StringVarP(&installOpts.environment, "environment", "e", "", "Name of the virtual environment")
	flags.StringVarP(&installOpts.dir, "dir", "d", "", "Root of the products directory")
	flags.StringVarP(&installOpts.modulepath, "modulepath", "m", "", "Root of the modulefiles path")
	installCmd.MarkFlagsMutuallyExclusive("clone", "archive")
}
