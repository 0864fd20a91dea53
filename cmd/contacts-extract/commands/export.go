package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/robertrahardja/mac-contacts-extract/internal/backup"
	"github.com/robertrahardja/mac-contacts-extract/internal/logger"
	"github.com/robertrahardja/mac-contacts-extract/pkg/checkpoint"
	"github.com/robertrahardja/mac-contacts-extract/pkg/contacts"
	"github.com/robertrahardja/mac-contacts-extract/pkg/exporter"
	"github.com/robertrahardja/mac-contacts-extract/pkg/sink"
	"github.com/robertrahardja/mac-contacts-extract/pkg/source"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all contacts, with checkpointed resume",
	Long: `Export every contact from the macOS Contacts application.

Each record is fetched under its own time budget; a hung or unreadable
record is logged as failed and skipped, never aborting the run. Progress
is checkpointed so interrupting the export (Ctrl-C, --max-records cap)
leaves a resume point; running export again continues from it.

On completion, JSON and CSV backups are written locally before the table
is uploaded to Google Sheets in bounded chunks.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	flags := exportCmd.Flags()

	// Extraction settings
	flags.Duration("timeout", 5*time.Second, "per-record fetch time budget")
	flags.Duration("pace", 100*time.Millisecond, "delay between record fetches")
	flags.String("keep-policy", string(contacts.KeepContactData),
		"which records get a row: contact-data, name-or-org, any-field")

	// Checkpoint settings
	flags.String("checkpoint", ".contacts-checkpoint.json", "checkpoint file path")
	flags.Int("checkpoint-interval", 50, "records between checkpoint saves")
	flags.Int("max-records", 0, "max records per invocation (0=all; run ends paused at the cap)")
	flags.Int("max-failures", 25, "consecutive record failures before pausing")

	// Backup settings
	flags.String("backup-dir", "exports", "directory for JSON/CSV backups")
	flags.Bool("backup-yaml", false, "also write a YAML backup")

	// Upload settings
	flags.Bool("skip-upload", false, "write backups only, no Sheets upload")
	addSheetFlags(flags)
}

// addSheetFlags registers the Google Sheets flags shared by export and
// upload.
func addSheetFlags(flags *pflag.FlagSet) {
	flags.String("spreadsheet-id", "", "Google Sheets spreadsheet ID")
	flags.String("sheet-name", "Sheet1", "sheet (tab) name")
	flags.String("credentials", "", "service account credentials JSON file")
	flags.String("token", "", "saved OAuth token JSON file")
	flags.Int("chunk-size", 1000, "max rows per upload request")
	flags.Duration("chunk-delay", 500*time.Millisecond, "delay between upload chunks")

	_ = viper.BindPFlag("spreadsheet_id", flags.Lookup("spreadsheet-id"))
	_ = viper.BindPFlag("sheet_name", flags.Lookup("sheet-name"))
	_ = viper.BindPFlag("credentials", flags.Lookup("credentials"))
	_ = viper.BindPFlag("token", flags.Lookup("token"))
}

func runExport(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	keepPolicy, err := contacts.ParseKeepPolicy(mustString(cmd, "keep-policy"))
	if err != nil {
		logError("%v", err)
		return err
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	pace, _ := cmd.Flags().GetDuration("pace")
	interval, _ := cmd.Flags().GetInt("checkpoint-interval")
	maxRecords, _ := cmd.Flags().GetInt("max-records")
	maxFailures, _ := cmd.Flags().GetInt("max-failures")
	checkpointPath := mustString(cmd, "checkpoint")

	src := source.NewAppleScript(source.WithTimeout(timeout))
	store := checkpoint.NewStore(checkpointPath)

	exp, err := exporter.New(src, store,
		exporter.WithCheckpointInterval(interval),
		exporter.WithMaxRecords(maxRecords),
		exporter.WithMaxConsecutiveFailures(maxFailures),
		exporter.WithKeepPolicy(keepPolicy),
		exporter.WithPace(pace),
	)
	if err != nil {
		logError("%v", err)
		return err
	}

	res, err := exp.Run(ctx)
	if err != nil {
		logError("export failed: %v", err)
		return err
	}

	logger.Info("summary",
		"state", string(res.State),
		"processed", humanize.Comma(int64(res.Stats.Processed)),
		"rows", humanize.Comma(int64(res.Table.Len())),
		"dropped", res.Stats.Dropped,
		"failed", res.Stats.Failed)

	if res.State == exporter.StatePaused {
		logger.Info("run export again to resume", "checkpoint", checkpointPath)
		return nil
	}

	// Completed: durable backups first, upload after. A failed upload
	// never loses extracted data.
	backupDir := mustString(cmd, "backup-dir")
	jsonPath, csvPath, err := backup.WriteFiles(res.Table, backupDir, time.Now())
	if err != nil {
		logError("%v", err)
		return err
	}
	logger.Info("backups written", "json", jsonPath, "csv", csvPath)

	if yamlToo, _ := cmd.Flags().GetBool("backup-yaml"); yamlToo {
		if err := writeYAMLBackup(res.Table, jsonPath); err != nil {
			logger.Warn("yaml backup failed", "error", err)
		}
	}

	if err := exp.ClearCheckpoint(); err != nil {
		logger.Warn("could not remove checkpoint", "error", err)
	}

	if skip, _ := cmd.Flags().GetBool("skip-upload"); skip {
		logger.Info("upload skipped")
		return nil
	}

	uploader, err := buildUploader(ctx, cmd)
	if err != nil {
		logError("%v", err)
		return err
	}
	if err := uploader.Upload(ctx, res.Table.Rectangle()); err != nil {
		logError("upload failed (backups are safe in %s): %v", backupDir, err)
		return err
	}

	logger.Info("upload complete",
		"rows", humanize.Comma(int64(res.Table.Len())),
		"columns", res.Table.Columns.Len(),
		"spreadsheet_id", viper.GetString("spreadsheet_id"))
	return nil
}

// buildUploader assembles the Sheets sink from flags/config.
func buildUploader(ctx context.Context, cmd *cobra.Command) (*sink.Uploader, error) {
	cfg := sink.SheetsConfig{
		SpreadsheetID:   viper.GetString("spreadsheet_id"),
		SheetName:       viper.GetString("sheet_name"),
		CredentialsFile: viper.GetString("credentials"),
		TokenFile:       viper.GetString("token"),
	}
	s, err := sink.NewSheets(ctx, cfg)
	if err != nil {
		return nil, err
	}

	chunkSize, _ := cmd.Flags().GetInt("chunk-size")
	chunkDelay, _ := cmd.Flags().GetDuration("chunk-delay")
	return sink.NewUploader(s, cfg.SheetName, chunkSize, chunkDelay), nil
}

// writeYAMLBackup writes the YAML variant next to the JSON backup.
func writeYAMLBackup(table *contacts.Table, jsonPath string) error {
	path := jsonPath[:len(jsonPath)-len(".json")] + ".yaml"
	f, err := os.Create(path) //#nosec G304 -- derived from the backup dir
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := backup.NewYAMLWriter(f)
	if err := w.Write(table); err != nil {
		return err
	}
	logger.Info("yaml backup written", "path", path)
	return nil
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}
