package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"smart-ats/internal/analyses"
	"smart-ats/internal/bootstrap"
	"smart-ats/internal/shared/config"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a resume against a job description",
	Long:  "Extracts the resume text, computes similarity and skill overlap, asks the configured model for an evaluation and prints the report.",
	RunE:  runAnalyze,
}

var (
	analyzeResumeFile string
	analyzeJD         string
	analyzeJDFile     string
	analyzeEndpoint   string
	analyzeModel      string
	analyzeProvider   string
	analyzeJSON       bool
)

// newService is replaced in tests.
var newService = func(ctx context.Context, cfg config.Config) (*analyses.Service, error) {
	return bootstrap.NewService(ctx, cfg, analyses.NewMemoryRepo(1))
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResumeFile, "resume", "r", "", "Path to the resume (PDF, DOCX or text) (required)")
	analyzeCmd.Flags().StringVarP(&analyzeJD, "jd", "j", "", "Job description text")
	analyzeCmd.Flags().StringVar(&analyzeJDFile, "jd-file", "", "Path to a file holding the job description")
	analyzeCmd.Flags().StringVar(&analyzeEndpoint, "endpoint", "", "Model endpoint override")
	analyzeCmd.Flags().StringVarP(&analyzeModel, "model", "m", "", "Model name override")
	analyzeCmd.Flags().StringVar(&analyzeProvider, "provider", "", "LLM provider (ollama, openai, gemini); defaults to LLM_PROVIDER")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the analysis as JSON instead of the text report")

	_ = analyzeCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	jd, err := jobDescription()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(analyzeResumeFile)
	if err != nil {
		return fmt.Errorf("read resume: %w", err)
	}

	cfg := config.Load()
	if p := strings.TrimSpace(analyzeProvider); p != "" {
		cfg.LLMProvider = strings.ToLower(p)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, err := newService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build service: %w", err)
	}

	analysis, err := svc.Analyze(ctx, analyses.Submission{
		JobDescription: jd,
		FileName:       filepath.Base(analyzeResumeFile),
		Data:           data,
		Endpoint:       analyzeEndpoint,
		Model:          analyzeModel,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if analyzeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}
	return analysis.Report.Render(out)
}

func jobDescription() (string, error) {
	if analyzeJDFile != "" {
		if analyzeJD != "" {
			return "", fmt.Errorf("use either --jd or --jd-file, not both")
		}
		raw, err := os.ReadFile(analyzeJDFile)
		if err != nil {
			return "", fmt.Errorf("read job description: %w", err)
		}
		return string(raw), nil
	}
	return analyzeJD, nil
}
