package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"github.com/rimsha-sudo/RAG-Chatbot/internal/models"
	cfgPkg "github.com/rimsha-sudo/RAG-Chatbot/pkg/config"
	"github.com/rimsha-sudo/RAG-Chatbot/pkg/extractor"
	"github.com/rimsha-sudo/RAG-Chatbot/pkg/pipeline"
)

func main() {
	var configPath, filePath string

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&filePath, "file", "", "Document to ingest on startup (txt, pdf, docx, html)")
	flag.Parse()

	if err := run(configPath, filePath); err != nil {
		log.Fatal(err)
	}
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("chunks"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func run(configPath, filePath string) error {
	// Best effort; a missing .env is fine.
	_ = godotenv.Load()

	cfg, err := cfgPkg.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("config: %v", e)
		}
		return fmt.Errorf("invalid configuration")
	}

	var bar *progressbar.ProgressBar
	p, cleanup, err := pipeline.FromConfig(cfg, func(done, total int) {
		if bar == nil {
			bar = getProgressBar(total, "Embedding chunks...")
		}
		bar.Set(done)
	})
	if err != nil {
		return fmt.Errorf("failed to initialize pipeline: %v", err)
	}
	defer cleanup()

	ctx := context.Background()

	if filePath != "" {
		if err := ingestFile(ctx, p, filePath, &bar); err != nil {
			return err
		}
	}

	color.Cyan("\nAsk questions about your document (type 'exit' to quit, 'load <path>' to switch documents)")

	scanner := bufio.NewScanner(os.Stdin)
	userPrompt := color.New(color.FgGreen).PrintfFunc()
	answerPrompt := color.New(color.FgCyan).PrintfFunc()

	for {
		userPrompt("\nYou: ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "exit") {
			break
		}

		if path, ok := strings.CutPrefix(line, "load "); ok {
			if err := ingestFile(ctx, p, strings.TrimSpace(path), &bar); err != nil {
				color.Red("Error: %v", err)
			}
			continue
		}

		spinner := getSpinner("Searching document...")
		answer, err := p.Ask(ctx, line)
		spinner.Finish()
		fmt.Print("\r")

		if err != nil {
			color.Red("Error: %v", err)
			continue
		}

		answerPrompt("Answer: %s\n", answer.Text)
		if answer.LowConfidence {
			color.Yellow("  (low confidence: %.2f)", answer.Confidence)
		} else {
			fmt.Printf("  confidence %.2f, chunk %d\n", answer.Confidence, answer.SourceChunkID)
		}
	}

	return nil
}

func ingestFile(ctx context.Context, p *pipeline.Pipeline, path string, bar **progressbar.ProgressBar) error {
	format, ok := extractor.FormatFromPath(path)
	if !ok {
		return fmt.Errorf("unsupported file type: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %v", path, err)
	}

	*bar = nil
	err = p.Ingest(ctx, models.Document{
		Name:   path,
		Format: format,
		Data:   data,
	})
	if *bar != nil {
		(*bar).Finish()
	}
	if err != nil {
		return fmt.Errorf("failed to ingest %s: %w", path, err)
	}

	color.Green("\n✓ Ingested %s\n", path)
	return nil
}
