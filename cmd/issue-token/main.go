// Command issue-token mints an access token for an operator when the registry
// runs with AUTH_ENABLED and no external identity provider is wired in.
package main

import (
	"flag"
	"fmt"
	"os"

	"patient-registry/config"
	"patient-registry/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func main() {
	email := flag.String("email", "", "operator email")
	role := flag.String("role", jwt.RoleStaff, "operator role (admin or staff)")
	userID := flag.String("user-id", "", "operator id; a random one is generated when empty")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		logrus.Fatal("JWT_SECRET is not set")
	}
	if *role != jwt.RoleAdmin && *role != jwt.RoleStaff {
		logrus.Fatalf("Unknown role %q", *role)
	}

	id := uuid.New()
	if *userID != "" {
		id, err = uuid.Parse(*userID)
		if err != nil {
			logrus.Fatalf("Invalid user id: %v", err)
		}
	}

	token, tokenID, err := jwt.NewJWTService(cfg.JWT).GenerateAccessToken(id, *email, *role)
	if err != nil {
		logrus.Fatalf("Failed to sign token: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  id,
		"role":     *role,
		"token_id": tokenID,
		"expires":  cfg.JWT.AccessExpiry.String(),
	}).Info("Access token issued")
	fmt.Fprintln(os.Stdout, token)
}
