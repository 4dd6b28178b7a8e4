package main

import (
	"flag"
	"fmt"
	"log"

	"botanicaltour/internal/config"
	jwtsvc "botanicaltour/internal/pkg/jwt"
)

// admintoken prints a bearer token for the /api/v1/admin endpoints.
func main() {
	subject := flag.String("subject", "ops", "token subject")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	token, err := jwtsvc.New(cfg.JWTSecret, cfg.AdminTokenTTL).GenerateToken(*subject, jwtsvc.RoleAdmin)
	if err != nil {
		log.Fatalf("sign token failed: %v", err)
	}
	fmt.Println(token)
}
