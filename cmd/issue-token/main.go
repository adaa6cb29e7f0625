// Command issue-token mints a signed editor token for the admin routes, using
// the auth settings of the server configuration.
//
// Usage:
//
//	issue-token --subject=alice [--role=admin] [--ttl=1h] [--config=path]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/heartmarshall/polyglot-dictionary/internal/auth"
	"github.com/heartmarshall/polyglot-dictionary/internal/config"
)

func main() {
	subject := flag.String("subject", "", "editor name recorded in the token")
	role := flag.String("role", "", "role claim (default: configured admin role)")
	ttl := flag.Duration("ttl", 0, "token lifetime (default: configured access token TTL)")
	configPath := flag.String("config", "", "config file (default: $CONFIG_PATH or ./config.yaml)")
	flag.Parse()

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "Usage: issue-token --subject=alice [--role=admin] [--ttl=1h]")
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if *role == "" {
		*role = cfg.Auth.AdminRole
	}
	if *ttl > 0 {
		cfg.Auth.AccessTokenTTL = *ttl
	}
	lifetime := cfg.Auth.AccessTokenTTL

	tokens := auth.NewJWTManager(cfg.Auth)
	token, err := tokens.GenerateAccessToken(*subject, *role)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", time.Now().Add(lifetime).Format(time.RFC3339))
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}
