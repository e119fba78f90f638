package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"dormhop/backend/config"
	"dormhop/backend/internal/model"
	"dormhop/backend/internal/repository"
	"dormhop/backend/pkg/database"
	applogger "dormhop/backend/pkg/logger"
)

var (
	seedDorms = []string{
		"Barbara McClintock Hall",
		"Balch Hall",
		"Mary Donlon Hall",
		"Mews Hall",
		"Clara Dickson Hall",
	}
	seedAmenities = []string{"lake view", "gorge view", "private bath", "big closet", "quiet"}
	seedGenders   = []string{model.GenderMale, model.GenderFemale}
	seedYears     = []int{2025, 2026, 2027, 2028}
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to config.yaml")
	count := pflag.IntP("count", "n", 20, "number of users to create")
	randSeed := pflag.Int64("seed", time.Now().UnixNano(), "random seed")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to get sql.DB", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	repo := repository.NewRepository(db)
	rng := rand.New(rand.NewSource(*randSeed))

	created, err := seed(context.Background(), repo, rng, *count)
	if err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("seed finished", zap.Int("created", created), zap.Int("requested", *count))
}

// seed creates count listed users with rooms; existing emails are skipped
func seed(ctx context.Context, repo *repository.Repository, rng *rand.Rand, count int) (int, error) {
	created := 0
	err := repo.Transaction(ctx, func(tx *repository.Repository) error {
		for i := 0; i < count; i++ {
			email := "cornellian" + strconv.Itoa(i) + "@cornell.edu"
			if _, err := tx.User.GetByEmail(ctx, email); err == nil {
				continue
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			gender := seedGenders[rng.Intn(len(seedGenders))]
			user := &model.User{
				Email:        email,
				FullName:     fmt.Sprintf("Test User %d", i),
				ClassYear:    seedYears[rng.Intn(len(seedYears))],
				Gender:       gender,
				IsRoomListed: true,
			}
			if err := tx.User.Create(ctx, user); err != nil {
				return fmt.Errorf("create %s: %w", email, err)
			}

			desc := "Auto-seeded room"
			picks := rng.Perm(len(seedAmenities))[:2]
			room := &model.Room{
				OwnerID:     user.UserID,
				Dorm:        seedDorms[rng.Intn(len(seedDorms))],
				RoomNumber:  strconv.Itoa(100 + rng.Intn(400)),
				Occupancy:   1 + rng.Intn(3),
				Amenities:   []string{seedAmenities[picks[0]], seedAmenities[picks[1]]},
				Description: &desc,
				Gender:      gender,
			}
			if err := tx.Room.Create(ctx, room); err != nil {
				return fmt.Errorf("create room for %s: %w", email, err)
			}
			created++
		}
		return nil
	})
	return created, err
}
