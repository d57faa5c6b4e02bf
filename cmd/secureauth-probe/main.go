// Command secureauth-probe is a smoke-test CLI for a running SecureAuth API.
//
// It logs in with the given credentials, reports session state, optionally
// lists users and roles (when the account carries the ADMIN role), and logs
// out. Configuration comes from flags with .env fallbacks:
//
//	SECUREAUTH_BASE_URL   API base URL (default http://localhost:8080/api/v1)
//	SECUREAUTH_USERNAME   login username
//	SECUREAUTH_PASSWORD   login password
//	SECUREAUTH_STATE_FILE optional path for a persistent session file
//
// Run:
//
//	go run ./cmd/secureauth-probe -username admin -password 'secret'
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	secureauth "github.com/secureauth/secureauth-go"
	"github.com/secureauth/secureauth-go/store"
)

func main() {
	// Missing .env is fine; flags and real env still apply.
	_ = godotenv.Load()

	var (
		baseURL   = flag.String("base-url", envOr("SECUREAUTH_BASE_URL", "http://localhost:8080/api/v1"), "API base URL")
		username  = flag.String("username", os.Getenv("SECUREAUTH_USERNAME"), "login username")
		password  = flag.String("password", os.Getenv("SECUREAUTH_PASSWORD"), "login password")
		stateFile = flag.String("state-file", os.Getenv("SECUREAUTH_STATE_FILE"), "persistent session file (default: in-memory)")
		timeout   = flag.Duration("timeout", 15*time.Second, "per-run timeout")
	)
	flag.Parse()

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "username and password are required")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	builder := secureauth.New().WithBaseURL(*baseURL)
	if *stateFile != "" {
		fileStore, err := store.NewFile(*stateFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "state file: %v\n", err)
			os.Exit(1)
		}
		builder = builder.WithStore(fileStore)
	}

	client, err := builder.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build client: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	result, err := client.Login(ctx, *username, *password)
	switch {
	case errors.Is(err, secureauth.ErrTwoFactorRequired):
		code, err := promptCode()
		if err != nil {
			fmt.Fprintf(os.Stderr, "read code: %v\n", err)
			os.Exit(1)
		}
		result, err = client.VerifyLoginTwoFactor(ctx, *username, result.TempToken, code)
		if err != nil {
			fmt.Fprintf(os.Stderr, "two-factor verification: %v\n", err)
			os.Exit(1)
		}
	case errors.Is(err, secureauth.ErrInvalidCredentials):
		fmt.Fprintln(os.Stderr, "login rejected: invalid credentials")
		os.Exit(1)
	case err != nil:
		fmt.Fprintf(os.Stderr, "login: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("login ok: %s (%s), roles %v\n",
		result.Profile.Username, result.Profile.DisplayName(), result.Profile.Roles)
	if result.MustChangePassword {
		fmt.Println("note: a password change is pending for this account")
	}
	fmt.Printf("authenticated: %v\n", client.IsAuthenticated(ctx))

	if client.HasRole(ctx, secureauth.RoleAdmin) {
		if page, err := client.ListUsers(ctx, secureauth.ListOptions{Size: 5}); err == nil {
			fmt.Printf("users: %d total, first page of %d\n", page.TotalElements, len(page.Content))
		} else {
			fmt.Fprintf(os.Stderr, "list users: %v\n", err)
		}
		if roles, err := client.ListRoles(ctx); err == nil {
			names := make([]string, 0, len(roles))
			for _, role := range roles {
				names = append(names, role.Name)
			}
			fmt.Printf("roles: %s\n", strings.Join(names, ", "))
		} else {
			fmt.Fprintf(os.Stderr, "list roles: %v\n", err)
		}
	}

	if err := client.Logout(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "logout: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("logout ok")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func promptCode() (string, error) {
	fmt.Print("two-factor code: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
