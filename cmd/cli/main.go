package main

import (
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
	userID  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "splitemate-cli",
		Short: "SpliteMate ledger CLI tool",
		Long:  `A command line interface for interacting with the SpliteMate ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "Acting user ID (sent as X-User-ID)")

	// Balance commands
	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Balance operations",
	}

	pairCmd := &cobra.Command{
		Use:   "pair <user_a> <user_b>",
		Short: "Show the balance between two users",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON(fmt.Sprintf("/api/v1/balances/pair?user_a=%s&user_b=%s", args[0], args[1]))
		},
	}

	netCmd := &cobra.Command{
		Use:   "net <user_id>",
		Short: "Show a user's net balance",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/users/" + args[0] + "/balance")
		},
	}

	ledgerCmd := &cobra.Command{
		Use:   "ledger <user_id>",
		Short: "Show a user's per-counterparty ledger",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/users/" + args[0] + "/ledger")
		},
	}

	balanceCmd.AddCommand(pairCmd, netCmd, ledgerCmd)
	rootCmd.AddCommand(balanceCmd)

	// Transaction commands
	transactionCmd := &cobra.Command{
		Use:   "transaction",
		Short: "Transaction operations",
	}

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a transaction with its splits",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/transactions/" + args[0])
		},
	}

	activityCmd := &cobra.Command{
		Use:   "activity <id>",
		Short: "Show a transaction's audit trail, newest first",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/transactions/" + args[0] + "/activity")
		},
	}

	transactionCmd.AddCommand(getCmd, activityCmd)
	rootCmd.AddCommand(transactionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func getJSON(path string) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var pretty any
	if err := json.Unmarshal(body, &pretty); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(pretty, "", "  ")
	fmt.Println(string(out))
}
