package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/promptart/backend/internal/config"
	"github.com/promptart/backend/internal/fetch"
	"github.com/promptart/backend/internal/models"
	"github.com/promptart/backend/internal/services"
)

// galleryctl is the operator CLI: it talks to the same collections as the
// API server and is used for inspection and one-off maintenance.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.New()

	app := &cli.App{
		Name:  "galleryctl",
		Usage: "gallery maintenance tool",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list art pieces, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page-size", Value: 20, Usage: "items per page"},
					&cli.IntFlag{Name: "pages", Value: 1, Usage: "number of pages to fetch"},
					&cli.BoolFlag{Name: "all", Usage: "include unpublished pieces"},
				},
				Action: func(c *cli.Context) error {
					return runList(c, cfg)
				},
			},
			{
				Name:  "stats",
				Usage: "print the gallery summary counters",
				Action: func(c *cli.Context) error {
					return runStats(c, cfg)
				},
			},
			{
				Name:  "stats-init",
				Usage: "create the stats summary document if missing",
				Action: func(c *cli.Context) error {
					return runStatsInit(c, cfg)
				},
			},
			{
				Name:      "set-role",
				Usage:     "change a user's role",
				ArgsUsage: "<uid> <role>",
				Action: func(c *cli.Context) error {
					return runSetRole(c, cfg)
				},
			},
			{
				Name:      "delete-art",
				Usage:     "delete an art piece and its stored images",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					return runDeleteArt(c, cfg)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openFirestore(ctx context.Context, cfg *config.Config) (*services.ArtService, *services.StatsService, *services.UserService, func(), error) {
	fs, err := models.InitFirestore(ctx, cfg)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	statsService := services.NewStatsService(fs)
	artService := services.NewArtService(fs, statsService)
	userService := services.NewUserService(fs)
	return artService, statsService, userService, func() { fs.Close() }, nil
}

func runList(c *cli.Context, cfg *config.Config) error {
	ctx := c.Context
	artService, _, _, closeFn, err := openFirestore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	publishedOnly := !c.Bool("all")
	pager := fetch.NewPager(func(ctx context.Context, pageSize int, cursor string) ([]*models.ArtPiece, string, error) {
		return artService.ListArtPieces(ctx, pageSize, cursor, publishedOnly)
	}, c.Int("page-size"))

	pager.Load(ctx)
	for page := 1; page < c.Int("pages") && pager.HasMore(); page++ {
		pager.LoadMore(ctx)
	}
	if err := pager.Err(); err != nil {
		return err
	}

	for _, art := range pager.Items() {
		fmt.Printf("%-24s %-10s likes=%-5d views=%-5d %s\n",
			art.ID, art.Date, art.LikeCount(), art.ViewCount(), art.Title)
	}
	if pager.HasMore() {
		fmt.Println("(more pages available)")
	}
	return nil
}

func runStats(c *cli.Context, cfg *config.Config) error {
	ctx := c.Context
	_, statsService, _, closeFn, err := openFirestore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	fetcher := fetch.NewStatsFetcher(statsService)
	fetcher.Load(ctx)
	if err := fetcher.Err(); err != nil {
		return err
	}

	stats, ok := fetcher.Value()
	if !ok || stats == nil {
		fmt.Println("stats summary not initialized")
		return nil
	}

	fmt.Printf("art pieces: %d\n", stats.TotalArtPieces)
	fmt.Printf("users:      %d\n", stats.TotalUsers)
	fmt.Printf("likes:      %d\n", stats.TotalLikes)
	fmt.Printf("views:      %d\n", stats.TotalViews)
	fmt.Printf("updated:    %s\n", stats.LastUpdated)
	return nil
}

func runStatsInit(c *cli.Context, cfg *config.Config) error {
	ctx := c.Context
	_, statsService, _, closeFn, err := openFirestore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := statsService.InitializeStats(ctx); err != nil {
		return err
	}
	fmt.Println("stats summary ready")
	return nil
}

func runSetRole(c *cli.Context, cfg *config.Config) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: set-role <uid> <role>")
	}
	uid := c.Args().Get(0)
	role := models.UserRole(c.Args().Get(1))

	ctx := c.Context
	_, _, userService, closeFn, err := openFirestore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := userService.UpdateUserRole(ctx, uid, role); err != nil {
		return err
	}
	fmt.Printf("user %s role set to %s\n", uid, role)
	return nil
}

func runDeleteArt(c *cli.Context, cfg *config.Config) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: delete-art <id>")
	}
	id := c.Args().Get(0)

	ctx := c.Context
	artService, _, _, closeFn, err := openFirestore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	blobService, err := services.NewBlobService(cfg)
	if err != nil {
		return err
	}

	art, err := artService.GetArtPiece(ctx, id)
	if err != nil {
		return err
	}
	if art == nil {
		return fmt.Errorf("art piece %s not found", id)
	}

	blobService.DeleteMultiple(ctx, art.ImageURLs)
	blobService.DeleteMultiple(ctx, art.OriginalURLs)
	if err := artService.DeleteArtPiece(ctx, id); err != nil {
		return err
	}
	fmt.Printf("deleted %s (%s)\n", id, art.Title)
	return nil
}
