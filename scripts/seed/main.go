// Seed adds todos for one owner. Run from project root: go run ./scripts/seed
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"todo-services/internal/config"
	"todo-services/internal/database"
	"todo-services/internal/models"
	"todo-services/internal/repository"

	"github.com/google/uuid"
)

func main() {
	_ = config.LoadEnvFile(".env")
	cfg := config.Get()

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.DatabaseURL, cfg.DBPoolSize)
	if err != nil {
		fmt.Fprintln(os.Stderr, "DB connection failed:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, database.TodosSchema); err != nil {
		fmt.Fprintln(os.Stderr, "Schema failed:", err)
		os.Exit(1)
	}

	ownerID := os.Getenv("SEED_OWNER_ID")
	if ownerID == "" {
		ownerID = "seed-user"
	}
	total := 1000
	if n, err := strconv.Atoi(os.Getenv("SEED_COUNT")); err == nil && n > 0 {
		total = n
	}

	repo := repository.NewTodoRepository(db)
	start := time.Now()
	base := start.UTC().Add(-time.Duration(total) * time.Second)
	for i := 0; i < total; i++ {
		at := base.Add(time.Duration(i) * time.Second)
		t := &models.Todo{
			ID:        uuid.New().String(),
			Content:   fmt.Sprintf("Todo %d", i+1),
			Completed: i%3 == 0,
			OwnerID:   ownerID,
			CreatedAt: at,
			UpdatedAt: at,
		}
		if err := repo.Create(ctx, t); err != nil {
			fmt.Fprintln(os.Stderr, "Insert failed:", err)
			os.Exit(1)
		}
		if (i+1)%100 == 0 {
			fmt.Printf("\rInserted %d / %d", i+1, total)
		}
	}

	fmt.Printf("\nDone: %d todos for %s in %v\n", total, ownerID, time.Since(start))
}
