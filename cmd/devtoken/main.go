// Command devtoken mints an access token with the configured secret for local
// testing against the API. Production tokens come from the login service.
//
//	go run ./cmd/devtoken -role tutor -user T042
package main

import (
	"flag"
	"fmt"
	"os"

	"od-portal/backend/config"
	"od-portal/backend/pkg/jwt"
)

func main() {
	role := flag.String("role", jwt.RoleAdmin, "admin | tutor | student")
	user := flag.String("user", "", "student_id or tutor_id carried in the token")
	cfgPath := flag.String("config", "", "config file (default: config/config.yaml)")
	flag.Parse()

	switch *role {
	case jwt.RoleAdmin, jwt.RoleTutor, jwt.RoleStudent:
	default:
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}
	if *user == "" {
		fmt.Fprintln(os.Stderr, "-user is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	token, err := jwt.NewManager(&cfg.Auth).GenerateAccessToken(*user, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
