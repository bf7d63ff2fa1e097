package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
	actor   string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ledger-cli",
		Short: "Ledger CLI tool",
		Long:  `A command line interface for interacting with the ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "cli", "Actor recorded in the audit trail")

	rootCmd.AddCommand(accountCmd())
	rootCmd.AddCommand(movementCmd())
	rootCmd.AddCommand(ledgerCmd())

	return rootCmd
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	balanceCmd := &cobra.Command{
		Use:   "balance <account-id>",
		Short: "Show the current balance of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiGet("/api/v1/accounts/" + args[0] + "/balance")
		},
	}

	summaryCmd := &cobra.Command{
		Use:   "summary <account-id>",
		Short: "Show entry and exit totals for an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiGet("/api/v1/accounts/" + args[0] + "/summary")
		},
	}

	cmd.AddCommand(balanceCmd)
	cmd.AddCommand(summaryCmd)

	return cmd
}

func movementCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "movement",
		Short: "Movement operations",
	}

	var reason string

	voidCmd := &cobra.Command{
		Use:   "void <movement-id>",
		Short: "Void a movement by creating a compensating reversal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiPost("/api/v1/movements/"+args[0]+"/void", map[string]string{
				"reason": reason,
			})
		},
	}
	voidCmd.Flags().StringVar(&reason, "reason", "", "Reason for voiding the movement")
	_ = voidCmd.MarkFlagRequired("reason")

	cmd.AddCommand(voidCmd)

	return cmd
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check that every balance matches its movement history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiGet("/api/v1/ledger/consistency")
		},
	}

	cmd.AddCommand(consistencyCmd)

	return cmd
}

func apiGet(path string) error {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Get(baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func apiPost(path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor", actor)

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		fmt.Println(string(body))
		return nil
	}

	printJSON(parsed)
	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%+v\n", v)
		return
	}
	fmt.Println(string(out))
}
