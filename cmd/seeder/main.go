// Command seeder creates the first branch so an admin can log in and
// register the rest. It is a no-op when the branch already exists.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository"
	serviceAuth "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	name := flag.String("name", cfg.Bootstrap.BranchName, "branch name")
	password := flag.String("password", cfg.Bootstrap.BranchPassword, "branch admin password")
	timezone := flag.String("timezone", cfg.Bootstrap.BranchTimezone, "IANA timezone of the branch")
	flag.Parse()

	if *name == "" || *password == "" {
		log.Fatal("branch name and password are required (flags or BOOTSTRAP_BRANCH_NAME/BOOTSTRAP_BRANCH_PASSWORD)")
	}
	if cfg.Store.Driver == config.StoreDriverMemory {
		log.Fatal("seeding the memory store has no effect; set STORE_DRIVER to postgres or mongo")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	repos, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Fatal("Error opening record store: ", err)
	}
	defer repos.Close(context.Background())

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		log.Fatal("Failed to initialize JWT service: ", err)
	}
	authService := serviceAuth.NewAuthService(repos.Branches, repos.Employees, JWTService, cfg.Attendance.DefaultTimezone)

	created, err := serviceAuth.EnsureBranch(ctx, authService, branch.RegisterBranchRequest{
		Name:     *name,
		Password: *password,
		Timezone: *timezone,
	})
	if err != nil {
		log.Fatal("Failed to seed branch: ", err)
	}
	if created {
		slog.Info("seeded branch", "branch", *name)
	}
}
