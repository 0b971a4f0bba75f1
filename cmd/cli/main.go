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

	"github.com/truckparts/backend/internal/infrastructure/postgres"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "truckparts-cli",
		Short: "Truck parts backend CLI tool",
		Long:  `A command line interface for interacting with the truck parts API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	stockCmd := &cobra.Command{
		Use:   "stock",
		Short: "Stock ledger operations",
	}
	stockCmd.AddCommand(stockGetCmd(), stockAdjustCmd(), stockReconcileCmd())

	productsCmd := &cobra.Command{
		Use:   "products",
		Short: "Catalog operations",
	}
	productsCmd.AddCommand(productsListCmd())

	cloverCmd := &cobra.Command{
		Use:   "clover",
		Short: "Clover integration operations",
	}
	cloverCmd.AddCommand(cloverSyncCmd())

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Schema migration operations",
	}
	migrateCmd.AddCommand(migrateUpCmd(), migrateRollbackCmd())

	rootCmd.AddCommand(stockCmd, productsCmd, cloverCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func stockGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <product-id>",
		Short: "Show the current quantity for a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := apiGet("/api/v1/stock/" + args[0])
			if err != nil {
				return err
			}
			return printResponse(body)
		},
	}
}

func stockAdjustCmd() *cobra.Command {
	var (
		delta     int64
		reason    string
		reference string
	)

	cmd := &cobra.Command{
		Use:   "adjust <product-id>",
		Short: "Apply a manual stock movement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := json.Marshal(map[string]any{
				"delta":     delta,
				"reason":    reason,
				"reference": reference,
			})
			if err != nil {
				return err
			}

			body, err := apiPost("/api/v1/stock/"+args[0]+"/movements", payload)
			if err != nil {
				return err
			}
			return printResponse(body)
		},
	}

	cmd.Flags().Int64Var(&delta, "delta", 0, "Signed quantity change")
	cmd.Flags().StringVar(&reason, "reason", "manual_adjustment", "Movement reason")
	cmd.Flags().StringVar(&reference, "reference", "", "External reference")

	return cmd
}

func stockReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile [product-id]",
		Short: "Check stock quantities against the movement log",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/stock/reconcile"
			if len(args) == 1 {
				path = "/api/v1/stock/" + args[0] + "/reconcile"
			}

			body, err := apiPost(path, nil)
			if err != nil {
				return err
			}
			return printResponse(body)
		},
	}
}

func productsListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog products",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := apiGet(fmt.Sprintf("/api/v1/products?limit=%d", limit))
			if err != nil {
				return err
			}
			return printResponse(body)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of products")

	return cmd
}

func cloverSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync <merchant-id>",
		Short: "Pull the merchant's Clover catalog into the product table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := apiPost("/api/v1/integrations/clover/"+args[0]+"/sync", nil)
			if err != nil {
				return err
			}
			return printResponse(body)
		},
	}
}

func migrateUpCmd() *cobra.Command {
	var (
		databaseURL    string
		migrationsPath string
	)

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postgres.RunMigrations(databaseURL, migrationsPath)
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres connection URL")
	cmd.Flags().StringVar(&migrationsPath, "migrations", "migrations", "Path to migration files")

	return cmd
}

func migrateRollbackCmd() *cobra.Command {
	var (
		databaseURL    string
		migrationsPath string
	)

	cmd := &cobra.Command{
		Use:   "rollback",
		Short: "Undo the most recent schema migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postgres.RollbackLast(databaseURL, migrationsPath)
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres connection URL")
	cmd.Flags().StringVar(&migrationsPath, "migrations", "migrations", "Path to migration files")

	return cmd
}

func apiGet(path string) ([]byte, error) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return readResponse(resp)
}

func apiPost(path string, payload []byte) ([]byte, error) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return readResponse(resp)
}

func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}

func printResponse(body []byte) error {
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		fmt.Println(string(body))
		return nil
	}

	printJSON(value)
	return nil
}

func printJSON(value any) {
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		fmt.Printf("failed to format response: %v\n", err)
		return
	}
	fmt.Println(string(out))
}
