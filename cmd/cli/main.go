package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"resume-parser/internal/batch"
	"resume-parser/internal/bootstrap"
	"resume-parser/internal/export"
	"resume-parser/internal/extract"
	"resume-parser/internal/parser"
	"resume-parser/internal/shared/config"
)

func main() {
	var (
		filePath = flag.String("file", "", "path to a single resume (txt, pdf or docx)")
		batchDir = flag.String("batch", "", "directory of resumes to process")
		outPath  = flag.String("output", "", "write results to this file instead of stdout")
		format   = flag.String("format", "text", "output format for -file: text, json or markdown")
		noCache  = flag.Bool("no-cache", false, "bypass the extraction cache")
		verbose  = flag.Bool("verbose", false, "print per-file details during batch runs")
	)
	flag.Parse()

	if (*filePath == "") == (*batchDir == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -file or -batch is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if cfg.GeminiAPIKey == "" {
		color.Red("GEMINI_API_KEY is required")
		os.Exit(1)
	}
	if *noCache {
		cfg.UseCache = false
	}

	ctx := context.Background()
	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		color.Red("startup failed: %v", err)
		os.Exit(1)
	}

	var exitCode int
	if *filePath != "" {
		exitCode = runSingle(ctx, app, *filePath, *format, *outPath)
	} else {
		exitCode = runBatch(ctx, app, *batchDir, *outPath, *verbose)
	}
	os.Exit(exitCode)
}

func runSingle(ctx context.Context, app *bootstrap.App, path, format, outPath string) int {
	text, err := extractFile(path, app.Config.MaxFileSizeBytes)
	if err != nil {
		color.Red("%s: %v", filepath.Base(path), err)
		return 1
	}

	result, err := app.Parser.Parse(ctx, text)
	if err != nil {
		color.Red("%s: %v", filepath.Base(path), err)
		return 1
	}

	rendered, err := renderResult(filepath.Base(path), result, format)
	if err != nil {
		color.Red("%v", err)
		return 1
	}
	return emit(rendered, outPath)
}

func runBatch(ctx context.Context, app *bootstrap.App, dir, outPath string, verbose bool) int {
	paths, err := listResumes(dir)
	if err != nil {
		color.Red("%v", err)
		return 1
	}
	if len(paths) == 0 {
		color.Yellow("no supported resume files found in %s", dir)
		return 1
	}

	preFailed := make([]*batch.ItemOutcome, len(paths))
	items := make([]batch.Item, 0, len(paths))
	for i, path := range paths {
		name := filepath.Base(path)
		text, err := extractFile(path, app.Config.MaxFileSizeBytes)
		if err != nil {
			if verbose {
				color.Red("%s: %v", name, err)
			}
			preFailed[i] = &batch.ItemOutcome{
				FileName: name,
				Success:  false,
				Error:    err.Error(),
				Code:     parser.ErrorCode(err),
			}
			continue
		}
		items = append(items, batch.Item{Name: name, Text: text})
	}

	bar := newProgressBar(len(items), fmt.Sprintf("Parsing %d resumes", len(items)))
	app.Coordinator.OnProgress = func(p batch.Progress) {
		_ = bar.Add(1)
		if verbose && p.Err != nil {
			color.Red("\n%s: %v", p.FileName, p.Err)
		}
	}

	run, runErr := app.Coordinator.Run(ctx, items)
	_ = bar.Finish()
	fmt.Println()

	outcome := batch.MergeOutcomes(run, preFailed)
	if outcome.Failed == 0 {
		color.Green("%s", export.BatchSummary(outcome))
	} else {
		color.Yellow("%s", export.BatchSummary(outcome))
	}

	rendered, err := export.JSON(outcome)
	if err != nil {
		color.Red("render results: %v", err)
		return 1
	}
	if code := emit(string(rendered), outPath); code != 0 {
		return code
	}
	if runErr != nil {
		color.Red("batch interrupted: %v", runErr)
		return 1
	}
	if outcome.Failed > 0 {
		return 1
	}
	return 0
}

func extractFile(path string, maxSize int64) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > maxSize {
		return "", fmt.Errorf("file exceeds the maximum allowed size (%d bytes)", maxSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return extract.ExtractTextFromBytes(data, filepath.Base(path))
}

func listResumes(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !extract.Supported(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func renderResult(fileName string, result parser.ParsedResult, format string) (string, error) {
	switch format {
	case "json":
		data, err := export.JSON(result)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case "markdown":
		return export.Markdown(fileName, result), nil
	case "text", "":
		return export.Text(result), nil
	default:
		return "", fmt.Errorf("unknown format %q (expected text, json or markdown)", format)
	}
}

func emit(content, outPath string) int {
	if outPath == "" {
		fmt.Println(content)
		return 0
	}
	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		color.Red("write %s: %v", outPath, err)
		return 1
	}
	color.Green("Results written to %s", outPath)
	return 0
}

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}
