package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/shrink-ray/pkg/adapters/repository"
	"github.com/wadjakorntonsri/shrink-ray/pkg/config"
	"github.com/wadjakorntonsri/shrink-ray/pkg/core/domain"
	"github.com/wadjakorntonsri/shrink-ray/pkg/logger"
	"github.com/wadjakorntonsri/shrink-ray/pkg/ports"
)

const usage = "expected 'export', 'import' or 'grant' subcommands"

// exportedLink is the file format shared by export and import.
type exportedLink struct {
	LinkID         string    `json:"linkId"`
	OriginalURL    string    `json:"originalUrl"`
	NumHits        int64     `json:"numHits"`
	LastAccessedOn time.Time `json:"lastAccessedOn"`
	UserID         string    `json:"userId"`
	Username       string    `json:"username"`
}

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importFile := importCmd.String("file", "", "JSON file to import")
	grantCmd := flag.NewFlagSet("grant", flag.ExitOnError)
	grantUser := grantCmd.String("username", "", "account to update")
	grantAdmin := grantCmd.Bool("admin", false, "mark the account as admin")
	grantPro := grantCmd.Bool("pro", false, "mark the account as pro")

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	// Logs go to stderr so export output stays clean.
	log := logger.New(cfg.LogLevel, cfg.AppEnv).Output(zerolog.ConsoleWriter{Out: os.Stderr})

	store, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to db")
	}
	defer store.Close()

	ctx := context.Background()
	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		err = doExport(ctx, store, os.Stdout)
	case "import":
		importCmd.Parse(os.Args[2:])
		if *importFile == "" {
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		var f *os.File
		if f, err = os.Open(*importFile); err == nil {
			var imported, skipped int
			imported, skipped, err = doImport(ctx, store, f, &log)
			f.Close()
			log.Info().Int("imported", imported).Int("skipped", skipped).Msg("import finished")
		}
	case "grant":
		grantCmd.Parse(os.Args[2:])
		if *grantUser == "" {
			grantCmd.PrintDefaults()
			os.Exit(1)
		}
		err = doGrant(ctx, store, *grantUser, *grantAdmin, *grantPro)
		if err == nil {
			log.Info().Str("username", *grantUser).Bool("admin", *grantAdmin).Bool("pro", *grantPro).Msg("flags updated")
		}
	default:
		fmt.Println(usage)
		os.Exit(1)
	}

	if err != nil {
		log.Fatal().Err(err).Str("command", os.Args[1]).Msg("command failed")
	}
}

func doExport(ctx context.Context, store ports.LinkRepository, w io.Writer) error {
	links, err := store.Dump(ctx)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	out := make([]exportedLink, 0, len(links))
	for _, l := range links {
		out = append(out, exportedLink{
			LinkID:         l.ID,
			OriginalURL:    l.OriginalURL,
			NumHits:        l.NumHits,
			LastAccessedOn: l.LastAccessedOn,
			UserID:         l.Owner.ID,
			Username:       l.Owner.Username,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// doImport recreates links whose owner already exists. Ids already present
// are skipped.
func doImport(ctx context.Context, store ports.LinkRepository, r io.Reader, log *zerolog.Logger) (imported, skipped int, err error) {
	var links []exportedLink
	if err := json.NewDecoder(r).Decode(&links); err != nil {
		return 0, 0, fmt.Errorf("decode: %w", err)
	}

	for _, l := range links {
		existing, err := store.FindLinkByID(ctx, l.LinkID)
		if err != nil {
			return imported, skipped, err
		}
		if existing != nil {
			log.Debug().Str("linkId", l.LinkID).Msg("skipping existing link")
			skipped++
			continue
		}

		err = store.CreateLink(ctx, &domain.Link{
			ID:             l.LinkID,
			OriginalURL:    l.OriginalURL,
			Owner:          domain.Owner{ID: l.UserID, Username: l.Username},
			NumHits:        l.NumHits,
			LastAccessedOn: l.LastAccessedOn,
		})
		var ce *domain.ConstraintError
		if errors.As(err, &ce) && ce.Kind == domain.ConstraintForeignKey {
			log.Warn().Str("linkId", l.LinkID).Str("userId", l.UserID).Msg("skipping link of unknown user")
			skipped++
			continue
		}
		if err != nil {
			return imported, skipped, fmt.Errorf("import %s: %w", l.LinkID, err)
		}
		imported++
	}
	return imported, skipped, nil
}

func doGrant(ctx context.Context, store ports.UserRepository, username string, isAdmin, isPro bool) error {
	user, err := store.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user %q", domain.ErrNotFound, username)
	}
	return store.SetFlags(ctx, user.ID, isAdmin, isPro)
}
