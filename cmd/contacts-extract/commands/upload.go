package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robertrahardja/mac-contacts-extract/internal/backup"
	"github.com/robertrahardja/mac-contacts-extract/internal/logger"
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a previously written JSON backup to Google Sheets",
	Long: `Upload the flattened table from an earlier export without touching
the Contacts application. Useful after a failed upload, or to push the
same export to a different spreadsheet.`,
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	flags := uploadCmd.Flags()
	flags.StringP("file", "f", "", "JSON backup file to upload (required)")
	addSheetFlags(flags)

	_ = uploadCmd.MarkFlagRequired("file")
}

func runUpload(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	path := mustString(cmd, "file")
	table, err := backup.Load(path)
	if err != nil {
		logError("%v", err)
		return err
	}
	logger.Info("backup loaded",
		"path", path,
		"rows", humanize.Comma(int64(table.Len())),
		"columns", table.Columns.Len())

	uploader, err := buildUploader(ctx, cmd)
	if err != nil {
		logError("%v", err)
		return err
	}
	if err := uploader.Upload(ctx, table.Rectangle()); err != nil {
		logError("upload failed: %v", err)
		return err
	}

	logger.Info("upload complete",
		"rows", humanize.Comma(int64(table.Len())),
		"spreadsheet_id", viper.GetString("spreadsheet_id"))
	return nil
}
