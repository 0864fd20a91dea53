// Package commands implements the CLI commands for contacts-extract.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "contacts-extract",
	Short: "Export macOS Contacts to Google Sheets with resumable checkpoints",
	Long: `contacts-extract reads every person record from the macOS Contacts
application, flattens multi-valued fields (emails, phones, addresses,
URLs) into numbered spreadsheet columns, and uploads the result to a
Google Sheets spreadsheet.

Progress is checkpointed to a local file, so an interrupted export
resumes exactly where it stopped. Local JSON and CSV backups are always
written before any upload.

Examples:
  # Full export with upload
  contacts-extract export --spreadsheet-id 1AbC... --token token.json

  # Export in slices of 500 records per invocation
  contacts-extract export --max-records 500 --skip-upload

  # Inspect a paused export
  contacts-extract status

  # Re-upload an earlier backup without touching Contacts
  contacts-extract upload --file exports/contacts_20260830_101500.json \
      --spreadsheet-id 1AbC... --token token.json`,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.contacts-extract.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".contacts-extract")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("CONTACTS_EXTRACT")
	viper.AutomaticEnv()

	// Also check common Google Sheets env vars
	_ = viper.BindEnv("spreadsheet_id", "GOOGLE_SHEET_ID")
	_ = viper.BindEnv("sheet_name", "SHEET_NAME")

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
