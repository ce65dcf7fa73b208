package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/d60-Lab/foodgram/config"
	"github.com/d60-Lab/foodgram/internal/cache"
	"github.com/d60-Lab/foodgram/internal/service"
	"github.com/d60-Lab/foodgram/pkg/database"
	"github.com/d60-Lab/foodgram/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "importer",
		Short:         "Load catalog data (ingredients, tags) from CSV files",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newIngredientsCmd(), newTagsCmd())
	return root
}

func newIngredientsCmd() *cobra.Command {
	var (
		path       string
		clearFirst bool
	)
	cmd := &cobra.Command{
		Use:   "ingredients",
		Short: "Import name,measurement_unit rows into the ingredient catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withImporter(cmd.Context(), func(ctx context.Context, im *service.Importer) (service.ImportReport, error) {
				f, err := os.Open(path)
				if err != nil {
					return service.ImportReport{}, err
				}
				defer f.Close()
				return im.ImportIngredients(ctx, f, service.ImportOptions{Clear: clearFirst})
			}, cmd)
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "data/ingredients.csv", "CSV file to import")
	cmd.Flags().BoolVar(&clearFirst, "clear", false, "delete every ingredient before importing")
	return cmd
}

func newTagsCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Import name,slug rows into the tag catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withImporter(cmd.Context(), func(ctx context.Context, im *service.Importer) (service.ImportReport, error) {
				f, err := os.Open(path)
				if err != nil {
					return service.ImportReport{}, err
				}
				defer f.Close()
				return im.ImportTags(ctx, f)
			}, cmd)
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "data/tags.csv", "CSV file to import")
	return cmd
}

type importFunc func(ctx context.Context, im *service.Importer) (service.ImportReport, error)

func withImporter(ctx context.Context, run importFunc, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	var catalog cache.Catalog = cache.Passthrough{}
	if cfg.Redis.Enabled {
		var rdb *redis.Client
		if rdb, err = cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
			logger.Warn("redis unavailable, catalog cache will not be invalidated", zap.Error(err))
		} else {
			defer func() { _ = rdb.Close() }()
			catalog = cache.NewRedisCatalog(rdb, cfg.Redis.CatalogTTL)
		}
	}

	repos := service.NewRepositories(db)
	report, err := run(ctx, service.NewImporter(repos.Tags, repos.Ingredients, catalog))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), report.String())
	return nil
}
