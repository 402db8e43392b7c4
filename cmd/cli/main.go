package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/gofinance/internal/adapter/http/dto"
	"github.com/iho/gofinance/internal/infrastructure/config"
	"github.com/iho/gofinance/internal/infrastructure/logger"
	"github.com/iho/gofinance/internal/infrastructure/postgres"
)

const tokenEnv = "GOFINANCE_TOKEN"

var (
	baseURL string
	timeout time.Duration
	token   string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gofinance-cli",
		Short:         "GoFinance CLI tool",
		Long:          `A command line interface for interacting with the GoFinance API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GoFinance API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv(tokenEnv), "Session token (defaults to $"+tokenEnv+")")

	transactionsCmd := &cobra.Command{
		Use:   "transactions",
		Short: "Transaction operations",
	}
	transactionsCmd.AddCommand(transactionsListCmd())

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}
	migrateCmd.AddCommand(migrateUpCmd(), migrateDownCmd())

	rootCmd.AddCommand(loginCmd(), dashboardCmd(), reconcileCmd(), transactionsCmd, migrateCmd)
	return rootCmd
}

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := json.Marshal(dto.LoginRequest{Email: email, Password: password})
			if err != nil {
				return err
			}

			var session dto.SessionResponse
			if err := newClient().do(http.MethodPost, "/login", bytes.NewReader(body), &session); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), session.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func dashboardCmd() *cobra.Command {
	var year, month int
	var raw bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the monthly dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if year > 0 {
				q.Set("year", strconv.Itoa(year))
			}
			if month > 0 {
				q.Set("month", strconv.Itoa(month))
			}

			var dash dto.DashboardResponse
			if err := newClient().do(http.MethodGet, withQuery("/dashboard", q), nil, &dash); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if raw {
				return printJSON(out, dash)
			}

			fmt.Fprintf(out, "Period:   %s\n", dash.Period)
			fmt.Fprintf(out, "Balance:  %s\n", dash.GlobalBalanceDisplay)
			fmt.Fprintf(out, "Income:   %s\n", dash.TotalIncomeDisplay)
			fmt.Fprintf(out, "Expenses: %s\n", dash.TotalExpenseDisplay)
			fmt.Fprintf(out, "Net:      %s\n", dash.NetDisplay)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year (defaults to the current year)")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12 (defaults to the current month)")
	cmd.Flags().BoolVar(&raw, "json", false, "Print the raw JSON response")
	return cmd
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Check stored balances against the transaction history",
		RunE: func(cmd *cobra.Command, args []string) error {
			var report dto.ReconciliationReportResponse
			if err := newClient().do(http.MethodGet, "/reconciliation", nil, &report); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Accounts checked: %d\n", report.TotalAccounts)
			fmt.Fprintf(out, "Reconciled:       %d\n", report.ReconciledAccounts)

			if !report.Consistent {
				for _, r := range report.Results {
					if !r.IsReconciled {
						fmt.Fprintf(out, "  %s (%s) recorded=%s calculated=%s difference=%s\n",
							r.AccountName, r.AccountID, r.RecordedBalance, r.CalculatedBalance, r.Difference)
					}
				}
				return errors.New("reconciliation FAILED")
			}

			fmt.Fprintln(out, "Reconciliation PASSED")
			return nil
		},
	}
}

func transactionsListCmd() *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if year > 0 {
				q.Set("year", strconv.Itoa(year))
			}
			if month > 0 {
				q.Set("month", strconv.Itoa(month))
			}

			var txs []*dto.TransactionResponse
			if err := newClient().do(http.MethodGet, withQuery("/transactions", q), nil, &txs); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tTYPE\tAMOUNT\tCATEGORY\tDESCRIPTION")
			for _, t := range txs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.Date, t.Type, t.Amount, t.Category, truncate(t.Description, 40))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Filter by year")
	cmd.Flags().IntVar(&month, "month", 0, "Filter by month 1-12")
	return cmd
}

func migrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			return m.Up()
		},
	}
}

func migrateDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			return m.Down()
		},
	}
}

func newMigrator() (*postgres.Migrator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console"})
	return postgres.NewMigrator(cfg.DatabaseURL, log), nil
}

type apiClient struct {
	http    *http.Client
	baseURL string
	token   string
}

func newClient() *apiClient {
	return &apiClient{
		http: &http.Client{
			Timeout: timeout,
			// The server answers unauthenticated requests with a redirect to
			// the login page; surface it instead of following it.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

func (c *apiClient) do(method, path string, body io.Reader, out any) error {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusSeeOther:
		return fmt.Errorf("not authenticated: run login and pass --token or set $%s", tokenEnv)
	case resp.StatusCode >= 400:
		var apiErr dto.ErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
