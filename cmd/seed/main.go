package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/salesdeck/salesdeck/internal/adapter/lock"
	"github.com/salesdeck/salesdeck/internal/adapter/persistence"
	"github.com/salesdeck/salesdeck/internal/config"
	"github.com/salesdeck/salesdeck/internal/domain"
	"github.com/salesdeck/salesdeck/internal/service/password"
	"github.com/salesdeck/salesdeck/internal/usecase"
)

// Seeds a demo tenant: an organization with the default pipeline, one user,
// two contacts and two deals that have already moved through a few stages.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	email := getenvDefault("SEED_USER_EMAIL", "demo@salesdeck.dev")
	plaintext := getenvDefault("SEED_USER_PASSWORD", "Demo1234!")

	ctx := context.Background()
	db, err := persistence.Open(ctx, persistence.Config{
		Host:           cfg.Database.Host,
		Port:           cfg.Database.Port,
		User:           cfg.Database.User,
		Password:       cfg.Database.Password,
		DBName:         cfg.Database.DBName,
		SSLMode:        cfg.Database.SSLMode,
		MaxConnections: 2,
		MaxIdleTime:    time.Minute,
		ConnectTimeout: cfg.Database.ConnectTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	logger := logrus.New()

	orgRepo := persistence.NewPostgresOrganizationRepository(db)
	userRepo := persistence.NewPostgresUserRepository(db)
	workflowRepo := persistence.NewPostgresWorkflowRepository(db)
	contactRepo := persistence.NewPostgresContactRepository(db)
	dealRepo := persistence.NewPostgresDealRepository(db)
	historyRepo := persistence.NewPostgresStageHistoryRepository(db)
	txManager := persistence.NewTxManager(db)

	if existing, err := userRepo.FindByEmail(ctx, email); err == nil && existing != nil {
		log.Printf("Seed user %s already exists, nothing to do", email)
		return
	}

	hash, err := password.NewBcryptService(cfg.Security.BcryptCost).HashPassword(plaintext)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	org := domain.NewOrganization("Demo Organization")
	user := domain.NewUser(org.ID, "Demo User", email, hash)
	workflow := domain.NewWorkflow(org.ID, "Sales Pipeline")
	for _, seed := range domain.DefaultPipelineStages() {
		workflow.Stages = append(workflow.Stages, *domain.NewStage(workflow.ID, seed.Name, seed.Position, seed.Color))
	}

	if err := orgRepo.Create(ctx, org); err != nil {
		log.Fatalf("Failed to create organization: %v", err)
	}
	if err := workflowRepo.Create(ctx, workflow); err != nil {
		log.Fatalf("Failed to create workflow: %v", err)
	}
	if err := userRepo.Create(ctx, user); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	aliceEmail := "alice@example.com"
	alice := domain.NewContact(org.ID, "Alice Johnson", &aliceEmail, nil)
	bobEmail := "bob@example.com"
	bob := domain.NewContact(org.ID, "Bob Smith", &bobEmail, nil)
	for _, c := range []*domain.Contact{alice, bob} {
		if err := contactRepo.Create(ctx, c); err != nil {
			log.Fatalf("Failed to create contact: %v", err)
		}
	}

	historyUC := usecase.NewStageHistoryUseCase(historyRepo, lock.NewMemoryDealLocker(), logger)
	dealUC := usecase.NewDealUseCase(dealRepo, historyUC, lock.NewMemoryDealLocker(), txManager, logger)

	lead := workflow.Stages[0].ID
	deal1, err := dealUC.CreateDeal(ctx, org.ID, user.ID, usecase.CreateDealInput{
		ContactID: &alice.ID,
		StageID:   &lead,
		Title:     "Acme Corp expansion",
		Value:     25000,
	})
	if err != nil {
		log.Fatalf("Failed to create deal: %v", err)
	}
	deal2, err := dealUC.CreateDeal(ctx, org.ID, user.ID, usecase.CreateDealInput{
		ContactID: &bob.ID,
		StageID:   &lead,
		Title:     "Globex renewal",
		Value:     9500,
	})
	if err != nil {
		log.Fatalf("Failed to create deal: %v", err)
	}

	// Walk the first deal to Proposal and the second to Qualified so the
	// analytics endpoints return something.
	for _, stageID := range []string{workflow.Stages[1].ID, workflow.Stages[2].ID} {
		id := stageID
		if _, err := dealUC.UpdateDeal(ctx, deal1.ID, org.ID, user.ID, usecase.UpdateDealInput{
			StageID: domain.NullableStringOf(&id),
		}); err != nil {
			log.Fatalf("Failed to move deal: %v", err)
		}
	}
	qualified := workflow.Stages[1].ID
	if _, err := dealUC.UpdateDeal(ctx, deal2.ID, org.ID, user.ID, usecase.UpdateDealInput{
		StageID: domain.NullableStringOf(&qualified),
	}); err != nil {
		log.Fatalf("Failed to move deal: %v", err)
	}

	log.Printf("Seeded organization %s with user %s", org.ID, email)
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
