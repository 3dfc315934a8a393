package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/edgeflare/supago/pkg/auth"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in and inspect users",
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Register a new user",
	Run:   runSignup,
}

var signinCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in with email and password, printing the session",
	Run:   runSignin,
}

func init() {
	for _, c := range []*cobra.Command{signupCmd, signinCmd} {
		c.Flags().StringP("email", "e", "", "User email")
		c.Flags().StringP("password", "p", "", "User password")
	}
	authCmd.AddCommand(signupCmd, signinCmd)
	rootCmd.AddCommand(authCmd)
}

func credentials(cmd *cobra.Command) (string, string) {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	if email == "" && cfg != nil {
		email = cfg.Auth.Email
	}
	if password == "" && cfg != nil {
		password = cfg.Auth.Password
	}
	if email == "" || password == "" {
		log.Fatal("--email and --password required (or auth.email / auth.password in config)")
	}
	return email, password
}

func runSignup(cmd *cobra.Command, args []string) {
	client := newClient()
	email, password := credentials(cmd)

	session, err := client.Auth.Signup(context.Background(), auth.EmailIdentity(email), password, nil)
	if err != nil {
		log.Fatalf("Signup failed: %v", err)
	}
	printSession(session)
}

func runSignin(cmd *cobra.Command, args []string) {
	client := newClient()
	email, password := credentials(cmd)

	session, err := client.Auth.SigninWithPassword(context.Background(), auth.EmailIdentity(email), password)
	if err != nil {
		log.Fatalf("Signin failed: %v", err)
	}
	printSession(session)
}

func printSession(session *auth.Session) {
	out, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		log.Fatalf("Failed to render session: %v", err)
	}
	fmt.Fprintln(os.Stdout, string(out))
}
