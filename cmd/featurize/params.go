package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/meganhong98/demand-forecasting/internal/config"
	"github.com/meganhong98/demand-forecasting/internal/files"
	"github.com/meganhong98/demand-forecasting/internal/infrastructure"
)

func newParamsCmd(root *rootOptions) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "params [product group]",
		Short: "Show the best hyperparameters of a product group",
		Long: `Params reads best_hyperparameters.csv from the model directory of a
product group. The directory name is the product group with spaces and
other unsafe characters replaced by underscores.

Examples:
  featurize params "Trousers Black Solid"
  featurize params --list`,
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			paths, err := config.ResolvePaths(cfg.Paths)
			if err != nil {
				return err
			}
			logger := infrastructure.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
			fm := files.NewManager(paths, logger)

			if list {
				return listModelGroups(cmd.OutOrStdout(), fm)
			}
			return showHyperparameters(cmd.OutOrStdout(), fm, args[0])
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list the product groups that have hyperparameters")
	return cmd
}

func listModelGroups(out io.Writer, fm *files.Manager) error {
	groups, err := fm.ModelGroups()
	if err != nil {
		return err
	}
	for _, g := range groups {
		fmt.Fprintln(out, g.Name)
	}
	return nil
}

func showHyperparameters(out io.Writer, fm *files.Manager, productGroup string) error {
	params, ok := fm.Hyperparameters(productGroup)
	if !ok {
		return errors.New("no hyperparameters for " + productGroup + " in " + fm.GroupDir(productGroup))
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, k := range keys {
		v := params[k]
		if v == nil {
			v = "-"
		}
		fmt.Fprintf(tw, "%s\t%v\n", k, v)
	}
	return tw.Flush()
}
