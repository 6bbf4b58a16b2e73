package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"mesto/internal/auth"
	"mesto/internal/cache"
	"mesto/internal/config"
	"mesto/internal/db"
	apperrors "mesto/internal/errors"
	"mesto/internal/logger"
	"mesto/internal/repository"
	"mesto/internal/service"
	"mesto/internal/validation"
)

// SeedCard is one card of a seeded user.
type SeedCard struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// SeedUser is one user entry of the seed file.
type SeedUser struct {
	Name     string     `json:"name"`
	About    string     `json:"about"`
	Avatar   string     `json:"avatar"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Cards    []SeedCard `json:"cards"`
}

// SeedFile is the seed file layout.
type SeedFile struct {
	Users []SeedUser `json:"users"`
}

type seedStats struct {
	usersCreated int
	usersSkipped int
	cardsCreated int
	cardsSkipped int
}

func main() {
	path := flag.String("file", "seed.json", "path to the JSON seed file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting seed", zap.String("file", *path))

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal("open seed file", zap.Error(err))
	}
	data, err := readSeedFile(f)
	_ = f.Close()
	if err != nil {
		log.Fatal("read seed file", zap.Error(err))
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("connect to database", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("run migrations", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()

	validate := validation.New()
	authService := service.NewAuthService(
		repository.NewUserRepository(gormDB),
		auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL),
		auth.NewTokenStore(cacheClient),
		validate,
	)
	cardService := service.NewCardService(repository.NewCardRepository(gormDB), validate)

	ctx := logger.NewContext(context.Background(), log)
	stats, err := seed(ctx, authService, cardService, data)
	if err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}

	log.Info("seed completed",
		zap.Int("users_created", stats.usersCreated),
		zap.Int("users_skipped", stats.usersSkipped),
		zap.Int("cards_created", stats.cardsCreated),
		zap.Int("cards_skipped", stats.cardsSkipped),
	)
}

func readSeedFile(r io.Reader) (*SeedFile, error) {
	var data SeedFile
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	return &data, nil
}

// seed registers users and publishes their cards through the services, so
// validation, hashing and ownership rules apply. Existing or invalid
// entries are skipped; only unclassified failures abort the run.
func seed(ctx context.Context, authService service.AuthService, cardService service.CardService, data *SeedFile) (seedStats, error) {
	log := logger.FromContext(ctx)
	var stats seedStats

	for _, u := range data.Users {
		user, err := authService.Register(ctx, service.RegisterInput{
			Name:     u.Name,
			About:    u.About,
			Avatar:   u.Avatar,
			Email:    u.Email,
			Password: u.Password,
		})
		if err != nil {
			if apperrors.IsKind(err, apperrors.KindInternal) {
				return stats, fmt.Errorf("register %s: %w", u.Email, err)
			}
			log.Warn("skipping user", zap.String("email", u.Email), zap.Error(err))
			stats.usersSkipped++
			stats.cardsSkipped += len(u.Cards)
			continue
		}
		stats.usersCreated++

		for _, c := range u.Cards {
			if _, err := cardService.CreateCard(ctx, user.ID.String(), c.Name, c.Link); err != nil {
				if apperrors.IsKind(err, apperrors.KindInternal) {
					return stats, fmt.Errorf("create card %q: %w", c.Name, err)
				}
				log.Warn("skipping card", zap.String("email", u.Email), zap.String("card", c.Name), zap.Error(err))
				stats.cardsSkipped++
				continue
			}
			stats.cardsCreated++
		}
	}

	return stats, nil
}
