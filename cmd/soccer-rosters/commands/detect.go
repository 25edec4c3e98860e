package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/soccer-rosters/internal/output"
	"github.com/jmylchreest/soccer-rosters/pkg/dispatch"
	"github.com/jmylchreest/soccer-rosters/pkg/fetcher"
	"github.com/jmylchreest/soccer-rosters/pkg/roster"
)

var detectCmd = &cobra.Command{
	Use:   "detect [url]",
	Short: "Show which roster template a page uses",
	Long: `Fetch a single roster page, or read one from disk, and report the
detected template format, the number of records extracted, field coverage
and whether the page names the season.

Examples:
  soccer-rosters detect https://goheels.com/sports/mens-soccer/roster/2025
  soccer-rosters detect --file roster.html --base-url https://goheels.com --records`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)

	flags := detectCmd.Flags()
	flags.StringP("file", "f", "", "read the page from a file instead of fetching")
	flags.String("base-url", "", "URL that relative profile links in --file resolve against")
	flags.StringP("season", "s", "", "season to check the page heading for")
	flags.String("format", "", "try this template format first")
	flags.Bool("render", false, "render the page in a headless browser")
	flags.Bool("records", false, "also print the extracted records as JSON")
	flags.Duration("timeout", 30*time.Second, "request timeout")
}

func runDetect(cmd *cobra.Command, args []string) error {
	initLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	path, _ := cmd.Flags().GetString("file")
	if (path == "") == (len(args) == 0) {
		return fmt.Errorf("give either a URL or --file")
	}

	season, _ := cmd.Flags().GetString("season")
	formatName, _ := cmd.Flags().GetString("format")
	format, err := roster.ParseFormat(formatName)
	if err != nil {
		return err
	}
	policy := roster.Policy{Format: format}

	var html, pageURL string
	var f fetcher.Fetcher
	if path != "" {
		data, err := os.ReadFile(path) //#nosec G304 -- user-specified page file
		if err != nil {
			return fmt.Errorf("failed to read page: %w", err)
		}
		html = string(data)
		pageURL, _ = cmd.Flags().GetString("base-url")
		// Profile enrichment needs a fetcher.
		noEnrich := false
		policy.Enrich = &noEnrich
	} else {
		render, _ := cmd.Flags().GetBool("render")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		mode := fetcher.ModeStatic
		if render {
			mode = fetcher.ModeDynamic
		}
		f, err = fetcher.New(mode, fetcher.Config{UserAgent: viper.GetString("user_agent"), Timeout: timeout})
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()

		content, err := f.Fetch(ctx, args[0], fetcher.Options{})
		if err != nil {
			return err
		}
		html, pageURL = content.HTML, coalesce(content.URL, args[0])
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("failed to parse page: %w", err)
	}

	d := dispatch.New(f, nil, nil, dispatch.DefaultConfig())
	team := roster.Team{ID: "-", Name: "-", Season: season, BaseURL: pageURL}
	res := d.ExtractDocument(ctx, doc, team, policy)

	out := cmd.OutOrStdout()
	printDiagnostics(out, res, len(html))

	if showRecords, _ := cmd.Flags().GetBool("records"); showRecords {
		w, err := output.NewWriter(out, output.FormatJSON)
		if err != nil {
			return err
		}
		if err := w.WriteAll(res.Records); err != nil {
			return err
		}
		return w.Close()
	}
	return nil
}

func printDiagnostics(w io.Writer, res dispatch.Result, size int) {
	diag := res.Diagnostics
	cov := diag.Coverage

	fmt.Fprintf(w, "page:      %s (%s)\n", coalesce(diag.URL, "-"), humanize.Bytes(uint64(size))) //#nosec G115 -- length is non-negative
	fmt.Fprintf(w, "detected:  %s\n", diag.Detected)
	if len(diag.Tried) > 0 {
		tried := make([]string, len(diag.Tried))
		for i, f := range diag.Tried {
			tried[i] = string(f)
		}
		fmt.Fprintf(w, "tried:     %s\n", strings.Join(tried, " -> "))
	}
	fmt.Fprintf(w, "format:    %s\n", diag.Format)
	fmt.Fprintf(w, "outcome:   %s\n", diag.Outcome)
	fmt.Fprintf(w, "records:   %d\n", len(res.Records))
	fmt.Fprintf(w, "coverage:  name %.0f%%  jersey %.0f%%  position %.0f%%  class %.0f%%  hometown %.0f%%\n",
		cov.Name*100, cov.Jersey*100, cov.Position*100, cov.AcademicYear*100, cov.Hometown*100)
	fmt.Fprintf(w, "season:    %v\n", diag.SeasonVerified)
	if diag.Enriched > 0 {
		fmt.Fprintf(w, "enriched:  %d\n", diag.Enriched)
	}
	if diag.Error != "" {
		fmt.Fprintf(w, "error:     %s\n", diag.Error)
	}
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
