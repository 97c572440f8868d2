package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/prxssh/mediactl/internal/config"
	"github.com/prxssh/mediactl/internal/engine"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Inspect and mutate the selection network",
}

func init() {
	networkCmd.AddCommand(
		addBucketCmd,
		addJointCmd,
		deleteEmptyCmd,
		fillBucketCmd,
		setFiltersCmd,
		setWeightCmd,
		setOrderTypeCmd,
		viewCmd,
	)
}

func withNetwork(fn func(cfg *config.Config, n *engine.Network[string, string]) error) error {
	cfg := config.Load()
	n, err := loadNetwork(cfg)
	if err != nil {
		return err
	}
	if err := fn(cfg, n); err != nil {
		return err
	}
	return saveNetwork(cfg, n)
}

var addBucketCmd = &cobra.Command{
	Use:   "add-bucket <parent-path>",
	Short: "Add a bucket under parent-path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withNetwork(func(cfg *config.Config, n *engine.Network[string, string]) error {
			parent, err := engine.ParsePath(args[0])
			if err != nil {
				return err
			}
			return n.Modify(engine.ModifyCmd[string, string]{Kind: engine.CmdAddBucket, Parent: parent})
		})
	},
}

var addJointCmd = &cobra.Command{
	Use:   "add-joint <parent-path>",
	Short: "Add a joint under parent-path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withNetwork(func(cfg *config.Config, n *engine.Network[string, string]) error {
			parent, err := engine.ParsePath(args[0])
			if err != nil {
				return err
			}
			return n.Modify(engine.ModifyCmd[string, string]{Kind: engine.CmdAddJoint, Parent: parent})
		})
	},
}

var deleteEmptyCmd = &cobra.Command{
	Use:   "delete-empty <path>",
	Short: "Delete an empty bucket or joint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withNetwork(func(cfg *config.Config, n *engine.Network[string, string]) error {
			p, err := engine.ParsePath(args[0])
			if err != nil {
				return err
			}
			return n.Modify(engine.ModifyCmd[string, string]{Kind: engine.CmdDeleteEmpty, Path: p})
		})
	},
}

var fillBucketCmd = &cobra.Command{
	Use:   "fill-bucket <path> <item...>",
	Short: "Replace a bucket's contents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withNetwork(func(cfg *config.Config, n *engine.Network[string, string]) error {
			p, err := engine.ParsePath(args[0])
			if err != nil {
				return err
			}
			return n.Modify(engine.ModifyCmd[string, string]{Kind: engine.CmdFillBucket, Path: p, NewContents: args[1:]})
		})
	},
}

var setFiltersCmd = &cobra.Command{
	Use:   "set-filters <path> <filter...>",
	Short: "Replace a node's filter set",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withNetwork(func(cfg *config.Config, n *engine.Network[string, string]) error {
			p, err := engine.ParsePath(args[0])
			if err != nil {
				return err
			}
			return n.Modify(engine.ModifyCmd[string, string]{Kind: engine.CmdSetFilters, Path: p, NewFilters: args[1:]})
		})
	},
}

var setWeightCmd = &cobra.Command{
	Use:   "set-weight <path> <weight>",
	Short: "Set a node's weight",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withNetwork(func(cfg *config.Config, n *engine.Network[string, string]) error {
			p, err := engine.ParsePath(args[0])
			if err != nil {
				return err
			}
			var w uint32
			if _, err := fmt.Sscanf(args[1], "%d", &w); err != nil {
				return fmt.Errorf("invalid weight %q: %w", args[1], err)
			}
			return n.Modify(engine.ModifyCmd[string, string]{Kind: engine.CmdSetWeight, Path: p, Weight: engine.Weight(w)})
		})
	},
}

var setOrderTypeCmd = &cobra.Command{
	Use:   "set-order-type <path> <in-order|random|shuffle>",
	Short: "Set a node's ordering discipline",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withNetwork(func(cfg *config.Config, n *engine.Network[string, string]) error {
			p, err := engine.ParsePath(args[0])
			if err != nil {
				return err
			}
			kind, err := engine.ParseOrderKind(args[1])
			if err != nil {
				return err
			}
			return n.Modify(engine.ModifyCmd[string, string]{Kind: engine.CmdSetOrderType, Path: p, OrderKind: kind})
		})
	},
}

var (
	viewMaxDepth int
	viewMaxWidth int
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Render the network as a table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		n, err := loadNetwork(cfg)
		if err != nil {
			return err
		}

		view, err := n.ViewTable(engine.ViewParams{MaxDepth: viewMaxDepth, MaxWidth: viewMaxWidth})
		if err != nil {
			return err
		}
		printTable(view)
		return nil
	},
}

func init() {
	viewCmd.Flags().IntVar(&viewMaxDepth, "max-depth", 0, "render at most this many rows, abbreviating joints on the last one (0 = unbounded)")
	viewCmd.Flags().IntVar(&viewMaxWidth, "max-width", 0, "truncate rows wider than this (0 = unbounded)")
}

func printTable(view *engine.TableView) {
	bold := color.New(color.Bold).SprintFunc()
	for depth, row := range view.Rows {
		fmt.Printf("%s ", bold(fmt.Sprintf("[%d]", depth)))
		for _, cell := range row.Cells {
			switch cell.Kind {
			case engine.CellNode:
				label := cell.Path.String()
				if cell.Active {
					label = color.GreenString(label)
				}
				fmt.Printf("%s(w=%d) ", label, cell.DisplayWidth)
			case engine.CellContinuation:
				fmt.Print("... ")
			default:
				fmt.Print("  ")
			}
		}
		fmt.Println()
	}
}
