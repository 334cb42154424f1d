package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/card"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/config"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/db"
	"github.com/spf13/cobra"
)

// cli tiene config e logger condivisi dai sottocomandi.
type cli struct {
	logger *slog.Logger
	cfg    config.Config
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	c := &cli{logger: logger}

	root := &cobra.Command{
		Use:           "catalog-ctl",
		Short:         "Manage the tarot card catalog database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
	}

	root.AddCommand(c.migrateCmd(), c.seedCmd(), c.cardsCmd())
	return root
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate <file.sql> [file2.sql...]",
		Short: "Run SQL files against the database, one transaction per file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := c.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer database.Close()

			for _, file := range args {
				if err := db.ExecSQLFile(cmd.Context(), database, file); err != nil {
					return err
				}
				c.logger.Info("sql eseguito", "file", file)
			}
			return nil
		},
	}
}

func (c *cli) seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the seed catalog into the database, skipping existing cards",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cards, err := card.LoadSeed(file)
			if err != nil {
				return err
			}
			database, err := c.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer database.Close()

			inserted, skipped, err := seedStore(cmd.Context(), card.NewPostgresStore(database, c.logger), cards)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted=%d skipped=%d\n", inserted, skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "seed YAML file (default: embedded catalog)")
	return cmd
}

func (c *cli) cardsCmd() *cobra.Command {
	var backend string
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Print the card catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if backend == "" {
				backend = c.cfg.CardStore
			}

			var store card.Store
			switch backend {
			case config.StoreMemory:
				seed, err := card.LoadSeed(c.cfg.CardSeedFile)
				if err != nil {
					return err
				}
				store = card.NewMemoryStore(seed)
			case config.StorePostgres:
				database, err := c.openDB(cmd.Context())
				if err != nil {
					return err
				}
				defer database.Close()
				store = card.NewPostgresStore(database, c.logger)
			default:
				return fmt.Errorf("unknown store %q", backend)
			}

			cards, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			return printCards(cmd, cards)
		},
	}
	cmd.Flags().StringVar(&backend, "store", "", "memory or postgres (default: CARD_STORE)")
	return cmd
}

func (c *cli) openDB(ctx context.Context) (*sql.DB, error) {
	if c.cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN or DB_HOST/DB_USER/DB_NAME are required")
	}
	return db.Open(ctx, c.cfg.DBDSN)
}

// seedStore inserisce le carte mancanti; quelle gia' presenti sono saltate.
func seedStore(ctx context.Context, store card.Store, cards []card.Card) (inserted, skipped int, err error) {
	for _, c := range cards {
		err := store.Insert(ctx, c)
		switch {
		case err == nil:
			inserted++
		case errors.Is(err, card.ErrCardExists):
			skipped++
		default:
			return inserted, skipped, fmt.Errorf("insert %s: %w", c.ID, err)
		}
	}
	return inserted, skipped, nil
}

func printCards(cmd *cobra.Command, cards []card.Card) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tARCANA\tSUIT\tCOST\tATK\tHP")
	for _, c := range cards {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n", c.ID, c.Name, c.Arcana, c.Suit, c.Cost, c.Attack, c.Health)
	}
	fmt.Fprintf(w, "\ntotal=%d\n", len(cards))
	return w.Flush()
}
