package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"revisionai/internal/config"
	"revisionai/internal/extract"
	"revisionai/internal/gemini"
	"revisionai/internal/logger"
	"revisionai/internal/models"

	"github.com/spf13/cobra"
)

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate FILE",
		Short: "Generate review sheets and a quiz for a local document and print them as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runGenerate,
	}
	addCommonFlags(cmd)
	f := cmd.Flags()
	f.StringP("subject", "s", "", "Subject used to frame the material")
	f.Bool("text-only", false, "Print the extracted text instead of calling Gemini")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnvFile(); err != nil {
		return err
	}
	cfg, err := config.Load(viperForCmd(cmd))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Env, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	path := args[0]
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !slices.Contains(cfg.Upload.AllowedExtensions, ext) {
		return fmt.Errorf("%s: extension %q is not one of %v", path, ext, cfg.Upload.AllowedExtensions)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	text, err := extract.NewPDFExtractor(extract.MaxChars, log).Extract(ctx, data)
	if err != nil {
		return fmt.Errorf("extract %s: %w", path, err)
	}

	out := json.NewEncoder(cmd.OutOrStdout())
	out.SetIndent("", "  ")

	if textOnly, _ := cmd.Flags().GetBool("text-only"); textOnly {
		return out.Encode(map[string]any{"chars": len([]rune(text)), "text": text})
	}

	client := gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, log)
	defer client.Close()

	subject, _ := cmd.Flags().GetString("subject")
	return writeGeneration(out, func() (*models.GenerationResult, error) {
		return client.Generate(ctx, text, subject)
	})
}

// writeGeneration prints the generation result, which is the fallback payload
// when generation failed, and then reports the failure.
func writeGeneration(out *json.Encoder, generate func() (*models.GenerationResult, error)) error {
	result, genErr := generate()
	if result != nil {
		if err := out.Encode(result); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}
	return genErr
}
