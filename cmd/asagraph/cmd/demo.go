/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/neurago/asagraph/pkg/asagraph"
)

// demoCmd represents the demo command
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Insert seeded random values into an order-3 graph and print it",
	Long: `Build an order-3 integer graph, feed it seeded random values and dump
the tree level by level, one "||key:counter|...| " block per node.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inserts, _ := cmd.Flags().GetInt("inserts")
		keySpace, _ := cmd.Flags().GetInt("key-space")
		seed, _ := cmd.Flags().GetInt64("seed")

		graph, err := asagraph.NewNumeric[int]("demo", 3)
		if err != nil {
			return err
		}
		graph.SetLogger(newLogger(cmd))

		rng := rand.New(rand.NewSource(seed))
		for i := 0; i < inserts; i++ {
			graph.Insert(rng.Intn(keySpace))
		}

		graph.PrintTree()
		fmt.Printf("unique=%d aggregated=%d range=%g\n",
			graph.CountUnique(), graph.CountAgg(), graph.Range())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().Int("inserts", 1128, "Number of random insertions")
	demoCmd.Flags().Int("key-space", 128, "Keys are drawn from [0, key-space)")
	demoCmd.Flags().Int64("seed", 35, "RNG seed")
}
