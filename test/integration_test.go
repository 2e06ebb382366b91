package test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookora/be-booking-access/internal/repository"
	"github.com/bookora/be-booking-access/internal/service"
	jwtpkg "github.com/bookora/be-booking-access/pkg/jwt"
	"github.com/bookora/be-booking-access/pkg/kvstore"
	"github.com/bookora/be-booking-access/pkg/logger"
)

// Requires a database seeded by scripts/bootstrap.go. Skipped unless
// DATABASE_URL is set.
func setupTestEnv(t *testing.T) (*service.AuthService, *service.AssignmentService, *service.WorkingPointService) {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration tests")
	}

	dbPool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	t.Cleanup(dbPool.Close)

	log := logger.New(logger.Config{
		Level:       "error", // Reduce noise in tests
		ServiceName: "booking-access-test",
	})

	privateKeyPEM, publicKeyPEM, err := jwtpkg.GenerateKeyPair()
	if err != nil {
		t.Fatalf("Failed to generate JWT keys: %v", err)
	}
	jwtManager, err := jwtpkg.NewManager(privateKeyPEM, publicKeyPEM, 15*time.Minute, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("Failed to create JWT manager: %v", err)
	}

	userRepo := repository.NewUserRepository(dbPool, log)
	operatorRepo := repository.NewOperatorRepository(dbPool, log)
	servicePointRepo := repository.NewServicePointRepository(dbPool, log)
	assignmentRepo := repository.NewAssignmentRepository(dbPool, log)

	authService := service.NewAuthService(userRepo, jwtManager, log)
	assignmentService := service.NewAssignmentService(operatorRepo, servicePointRepo, assignmentRepo, log)
	workingPointService := service.NewWorkingPointService(assignmentRepo, kvstore.NewMemoryStore(), log)

	return authService, assignmentService, workingPointService
}

func TestLoginFlow(t *testing.T) {
	authService, _, _ := setupTestEnv(t)
	ctx := context.Background()

	t.Run("successful login with operator user", func(t *testing.T) {
		resp, err := authService.Login(ctx, &service.LoginRequest{
			Email:    "operator@bookora.dev",
			Password: "Password123!",
		})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}

		if resp.AccessToken == "" {
			t.Error("Login returned empty access token")
		}
		if resp.RefreshToken == "" {
			t.Error("Login returned empty refresh token")
		}

		claims, err := authService.ValidateToken(resp.AccessToken)
		if err != nil {
			t.Fatalf("Failed to validate access token: %v", err)
		}
		if claims.Role != "operator" {
			t.Errorf("Token role = %v, want operator", claims.Role)
		}
		if claims.OperatorID == nil {
			t.Error("Token missing operator id")
		}
	})

	t.Run("failed login with invalid password", func(t *testing.T) {
		_, err := authService.Login(ctx, &service.LoginRequest{
			Email:    "operator@bookora.dev",
			Password: "WrongPassword",
		})
		if err == nil {
			t.Error("Login should have failed with invalid password")
		}
	})

	t.Run("failed login with non-existent user", func(t *testing.T) {
		_, err := authService.Login(ctx, &service.LoginRequest{
			Email:    "nonexistent@bookora.dev",
			Password: "SomePassword",
		})
		if err == nil {
			t.Error("Login should have failed with non-existent user")
		}
	})
}

func TestAssignmentAndSelectionFlow(t *testing.T) {
	authService, assignmentService, workingPointService := setupTestEnv(t)
	ctx := context.Background()

	resp, err := authService.Login(ctx, &service.LoginRequest{
		Email:    "operator@bookora.dev",
		Password: "Password123!",
	})
	if err != nil {
		t.Fatalf("Failed to login: %v", err)
	}
	claims, err := authService.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}
	if claims.OperatorID == nil {
		t.Fatal("seeded operator user carries no operator id")
	}
	operatorID := *claims.OperatorID

	t.Run("bootstrap assignments are visible", func(t *testing.T) {
		assignments, err := assignmentService.ListAssignments(ctx, operatorID, true)
		if err != nil {
			t.Fatalf("ListAssignments failed: %v", err)
		}
		if len(assignments) == 0 {
			t.Fatal("seeded operator should have active assignments")
		}
	})

	t.Run("working point selection round trip", func(t *testing.T) {
		ids, err := assignmentService.ActiveServicePointIDs(ctx, operatorID)
		if err != nil {
			t.Fatalf("ActiveServicePointIDs failed: %v", err)
		}
		if len(ids) == 0 {
			t.Fatal("seeded operator should have active service points")
		}

		if err := workingPointService.SetSelection(ctx, operatorID, &ids[0]); err != nil {
			t.Fatalf("SetSelection failed: %v", err)
		}
		got, err := workingPointService.GetSelection(ctx, operatorID)
		if err != nil {
			t.Fatalf("GetSelection failed: %v", err)
		}
		if got == nil || *got != ids[0] {
			t.Errorf("GetSelection = %v, want %d", got, ids[0])
		}
	})

	t.Run("duplicate assignment is rejected", func(t *testing.T) {
		assignments, err := assignmentService.ListAssignments(ctx, operatorID, true)
		if err != nil {
			t.Fatalf("ListAssignments failed: %v", err)
		}
		if len(assignments) == 0 {
			t.Skip("no active assignments to duplicate")
		}

		if _, err := assignmentService.Assign(ctx, operatorID, assignments[0].ServicePointID); err == nil {
			t.Error("Assign should have failed for an already assigned pair")
		}
	})
}
