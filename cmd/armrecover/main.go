package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/armrecover/armrecover/internal/promptpass"
	"github.com/armrecover/armrecover/internal/util"
	"github.com/armrecover/armrecover/pkg/client"
)

// version is set at build time.
// Build with: go build -ldflags "-X main.version=$(cat VERSION)"
var version = "dev"

// showFirstRunMessage displays a welcome message for first-time users.
func showFirstRunMessage() {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return
	}

	appDir := filepath.Join(configDir, "armrecover")
	if err := os.MkdirAll(appDir, 0o750); err != nil {
		return
	}

	firstRunFile := filepath.Join(appDir, ".installed")
	if _, err := os.Stat(firstRunFile); err == nil {
		return
	}

	fmt.Println("\narmrecover installed successfully!")
	fmt.Printf("Version: %s\n", version)
	fmt.Println("\nNext steps:")
	fmt.Println("  armrecover --help                         # Show all available commands")
	fmt.Println("  armrecover recover -w wallet.bin --mode Check  # Dry-run a recovery")
	fmt.Println()

	if file, err := os.Create(firstRunFile); err == nil {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close marker file: %v\n", closeErr)
		}
	}
}

func main() {
	showFirstRunMessage()

	rootCmd := &cobra.Command{
		Use:     "armrecover",
		Version: version,
		Short:   "armrecover - fail-safe recovery for deterministic Armory-format wallets",
		Long:    `A standalone CLI for recovering damaged or partially corrupted deterministic wallet files.`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := cmd.Help(); err != nil {
				fmt.Printf("Error showing help: %v\n", err)
			}
		},
	}

	var (
		walletFile string
		outputFile string
		modeFlag   string
		password   string
		useYAML    bool
	)

	recoverCmd := &cobra.Command{
		Use:   "recover",
		Short: "Recover a wallet file",
		Long: `Parse and recover a deterministic wallet file.

Modes: Stripped, Bare (default), Full, Meta, Check.`,
		Run: func(cmd *cobra.Command, args []string) {
			if walletFile == "" {
				fmt.Println("Wallet file is required.")
				return
			}
			absPath, err := filepath.Abs(walletFile)
			if err != nil {
				fmt.Printf("Error getting absolute path: %v\n", err)
				return
			}

			pass := []byte(password)
			if password == "" && modeFlag != "Check" && modeFlag != "Meta" {
				if p, err := promptpass.Prompt(os.Stdout, int(os.Stdin.Fd()), "Passphrase (leave blank if unencrypted): "); err == nil {
					pass = p
				}
			}

			result, comments, err := client.RecoverWalletWithOptions(absPath, pass, modeFlag, outputFile, nil)
			if err != nil {
				fmt.Printf("Recovery failed: %v\n", err)
				os.Exit(1)
			}

			if comments != nil {
				format := "yaml"
				if !useYAML {
					format = "json"
				}
				if err := util.OutputResult(comments, format, os.Stdout); err != nil {
					fmt.Printf("Error writing output: %v\n", err)
				}
				return
			}

			fmt.Printf("Recovery finished with code %d\n", result.Code)
			if result.RecoveredWallet != "" {
				fmt.Printf("Recovered wallet: %s\n", result.RecoveredWallet)
			}
		},
	}
	recoverCmd.Flags().StringVarP(&walletFile, "wallet", "w", "", "Path to the wallet file (required)")
	recoverCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Path for the recovered wallet (default: alongside the input)")
	recoverCmd.Flags().StringVarP(&modeFlag, "mode", "m", "Bare", "Recovery mode: Stripped, Bare, Full, Meta, Check")
	recoverCmd.Flags().StringVar(&password, "password", "", "Passphrase for an encrypted wallet (alternative to interactive prompt)")
	recoverCmd.Flags().BoolVar(&useYAML, "yaml", true, "Output Meta-mode comment map as YAML instead of JSON")
	if err := recoverCmd.MarkFlagRequired("wallet"); err != nil {
		fmt.Printf("Error setting up CLI flags: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(recoverCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
