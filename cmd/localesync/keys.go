package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/schaermu/localesync/internal/errors"
	"github.com/schaermu/localesync/internal/keys"
	"github.com/schaermu/localesync/internal/keyusage"
)

var (
	jsonOutput bool

	usageLocaleFile string
	usagePagesDir   string
	usageOutput     string
)

var commonKeysCmd = &cobra.Command{
	Use:   "common-keys",
	Short: "List the translation keys present in every configured document",
	Long: `Common-keys loads each document listed under compare.files, flattens nested
objects into dotted key paths and prints the keys shared by all of them.

Documents that cannot be read or parsed are reported and left out. At least
two documents must load for a comparison.`,
	RunE: runCommonKeys,
}

var keyUsageCmd = &cobra.Command{
	Use:   "key-usage",
	Short: "Report which translation keys are used by the pages of a project",
	Long: `Key-usage flattens a locale file into dotted key paths, scans the pages
directory for $t, $tc, $te and $d calls and reports for every used key the
files and routes it appears in, plus the keys that are never used.`,
	RunE: runKeyUsage,
}

func init() {
	commonKeysCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the result as JSON")

	keyUsageCmd.Flags().StringVar(&usageLocaleFile, "locale", "", "locale file (overrides key_usage.locale_file)")
	keyUsageCmd.Flags().StringVar(&usagePagesDir, "pages", "", "pages directory (overrides key_usage.pages_dir)")
	keyUsageCmd.Flags().StringVarP(&usageOutput, "output", "o", "", "write the JSON report to this file (overrides key_usage.output)")
}

func runCommonKeys(cmd *cobra.Command, args []string) error {
	logger := setupLogger(cmd.ErrOrStderr())
	printer := newPrinter(cmd)

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	docs := make([]keys.Named, 0, len(cfg.Compare.Files))
	for _, f := range cfg.Compare.Files {
		docs = append(docs, keys.Named{Name: f.Name, Path: f.Path})
	}

	res := keys.Compare(docs, logger)

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	for _, f := range res.Failed {
		printer.Warning("%s (%s) skipped: %s", f.Name, f.Path, f.Error)
	}
	if res.Insufficient {
		printer.Warning("Need at least two readable documents, got %d", res.Loaded)
		return nil
	}

	printer.Heading(fmt.Sprintf("%d common keys", res.CommonCount))
	for i, k := range res.Common {
		printer.Plain("%3d. %s", i+1, k)
	}

	rows := make([][]string, 0, len(res.Files))
	for _, f := range res.Files {
		rows = append(rows, []string{f.Name, strconv.Itoa(f.Total), strconv.Itoa(f.Common), strconv.Itoa(f.Unique)})
	}
	printer.Heading("Documents")
	printer.Table([]string{"Name", "Total", "Common", "Unique"}, rows)
	return nil
}

func runKeyUsage(cmd *cobra.Command, args []string) error {
	logger := setupLogger(cmd.ErrOrStderr())
	printer := newPrinter(cmd)

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	localeFile := firstNonEmpty(usageLocaleFile, cfg.KeyUsage.LocaleFile)
	pagesDir := firstNonEmpty(usagePagesDir, cfg.KeyUsage.PagesDir)
	output := firstNonEmpty(usageOutput, cfg.KeyUsage.Output)
	if localeFile == "" || pagesDir == "" {
		return errors.ConfigError("key usage needs a locale file and a pages directory",
			fmt.Errorf("locale_file=%q pages_dir=%q", localeFile, pagesDir))
	}
	localeFile = cfg.Resolve(localeFile)
	pagesDir = cfg.Resolve(pagesDir)

	doc, err := keys.Load(localeFile)
	if err != nil {
		return err
	}

	report, err := keyusage.Scan(pagesDir, keys.Flatten(doc), cfg.KeyUsage.Extensions)
	if err != nil {
		return err
	}
	report.LocaleFile = localeFile

	logger.Debug("key usage scanned", "pages_dir", pagesDir, "used", report.UsedCount, "total", report.TotalKeys)

	printer.Heading("Key usage")
	printer.Table([]string{"Total", "Used", "Unused"}, [][]string{{
		strconv.Itoa(report.TotalKeys),
		strconv.Itoa(report.UsedCount),
		strconv.Itoa(len(report.Unused)),
	}})

	if output == "" {
		for _, k := range report.Unused {
			printer.Plain("  unused: %s", k)
		}
		return nil
	}

	output = cfg.Resolve(output)
	if err := report.WriteJSON(output); err != nil {
		return err
	}
	printer.Success("Report written to %s", output)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
