package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/sciezk/Demolito/internal/board"
	"github.com/sciezk/Demolito/internal/storage"
	"github.com/sciezk/Demolito/internal/uci"
)

var (
	hashMB    int
	storePath string
)

var rootCmd = &cobra.Command{
	Use:   "demolito-uci",
	Short: "Demolito board-state and memoization core, UCI shell",
	RunE: func(cmd *cobra.Command, args []string) error {
		protocol := uci.New(hashMB)

		if storePath != "" {
			store, err := storage.Open(storePath)
			if err != nil {
				return fmt.Errorf("open analysis store: %w", err)
			}
			defer func() {
				if err := store.Close(); err != nil {
					log.Printf("storage: close: %v", err)
				}
			}()
			protocol.SetStore(store)
		}

		protocol.Run(os.Stdin)
		return nil
	},
}

var keyCmd = &cobra.Command{
	Use:   "key <fen>",
	Short: "Print the Zobrist fingerprint of a position",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fen := args[0]
		if len(args) > 1 {
			// Allow an unquoted FEN split across arguments
			for _, a := range args[1:] {
				fen += " " + a
			}
		}

		pos, err := board.ParseFEN(fen)
		if err != nil {
			return err
		}

		fmt.Printf("%016x\n", pos.Key)
		return nil
	},
}

func init() {
	rootCmd.Flags().IntVar(&hashMB, "hash", 64, "transposition table size in MB")
	rootCmd.Flags().StringVar(&storePath, "store", "", "directory for the persistent analysis store (empty disables)")
	rootCmd.AddCommand(keyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
