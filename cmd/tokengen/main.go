package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/spec-kit/storage-gateway/internal/auth"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		secret         string
		days           int
		generateSecret bool
		subject        string
		issuer         string
	)

	flagSet := pflag.NewFlagSet("tokengen", pflag.ContinueOnError)
	flagSet.StringVar(&secret, "secret", "", "signing secret (a new one is generated when omitted)")
	flagSet.IntVar(&days, "days", auth.DefaultHorizonDays, "number of days until the token expires")
	flagSet.BoolVar(&generateSecret, "generate-secret", false, "only generate a new secret, without minting a token")
	flagSet.StringVar(&subject, "subject", auth.DefaultSubject, "sub claim to embed in the token")
	flagSet.StringVar(&issuer, "issuer", auth.DefaultIssuer, "iss claim to embed in the token")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if generateSecret {
		fresh, err := auth.GenerateSecret()
		if err != nil {
			return fmt.Errorf("generate secret: %w", err)
		}
		fmt.Println("Generated new signing secret:")
		fmt.Printf("  %s\n", fresh)
		return nil
	}

	generated := false
	if secret == "" {
		var err error
		secret, err = auth.GenerateSecret()
		if err != nil {
			return fmt.Errorf("generate secret: %w", err)
		}
		generated = true
		fmt.Println("Generated new signing secret:")
		fmt.Printf("  %s\n", secret)
		fmt.Println()
	}

	tokens, err := auth.NewTokenManager(secret)
	if err != nil {
		return err
	}

	token, claims, err := tokens.Mint(subject, issuer, days, time.Now())
	if err != nil {
		return err
	}

	fmt.Println("Token minted:")
	fmt.Printf("  %s\n", token)
	fmt.Println()
	fmt.Printf("Expires at: %s (%d days)\n", claims.ExpiresAt.Time.UTC().Format(time.RFC3339), days)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  curl -H \"Authorization: Bearer %s\" http://localhost:8080/api/storage/buckets\n", token)
	if generated {
		fmt.Println()
		fmt.Println("Provision the secret to the gateway as AUTH_JWT_SECRET; verification fails without it.")
	}
	return nil
}
