package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"slices"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cv-ranker/internal/candidate"
	"github.com/spigell/cv-ranker/internal/document"
	"github.com/spigell/cv-ranker/internal/extraction"
	"github.com/spigell/cv-ranker/internal/filtering"
	"github.com/spigell/cv-ranker/internal/logger"
	"github.com/spigell/cv-ranker/internal/screening"
	"github.com/spigell/cv-ranker/internal/secrets"
	"github.com/spigell/cv-ranker/internal/source"
	"github.com/spigell/cv-ranker/internal/tagger"
	"github.com/spigell/cv-ranker/internal/tagger/gemini"
)

const (
	PromptDetails             = "Show candidate details"
	PromptAppendToExcludeFile = "Append shown candidates to exclude file"
	PromptCandidatesToFile    = "Dump candidates to file"
	PromptExit                = "Exit"
	PromptBack                = "back"
)

var errExit = errors.New("exit requested")

var rankCmd = &cobra.Command{
	Use:   "rank [file|dir|s3://bucket/key|s3://bucket/prefix/]...",
	Short: "Extract candidates from resumes and rank them against the job profile",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rank(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringSlice("skills", nil, "required skills, case-sensitive")
	rankCmd.Flags().Float64("min-experience", 0, "minimum years of experience")
	rankCmd.Flags().Float64P("threshold", "t", 0, "hide candidates below this match percentage (0-100)")
	rankCmd.Flags().IntP("limit", "k", 0, "how many top candidates to keep (default 5)")
	rankCmd.Flags().IntP("workers", "w", 0, "documents processed in parallel (default 4)")
	rankCmd.Flags().StringP("exclude-file", "e", "", "special file with already reviewed candidates. Default is unset.")
	rankCmd.Flags().BoolP("auto-approve", "y", false, "print the ranking and exit without prompting")

	bindFlag("job.skills", "skills")
	bindFlag("job.min-experience", "min-experience")
	bindFlag("ranking.minimum-match", "threshold")
	bindFlag("ranking.limit", "limit")
	bindFlag("workers", "workers")
	bindFlag("exclude-file", "exclude-file")
}

// bindFlag binds a flag to a config key. Unchanged flags leave config values intact.
func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rankCmd.Flags().Lookup(flag)); err != nil {
		log.Fatalf("binding %s flag: %v", flag, err)
	}
}

// rank is the main command for the cli.
func rank(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig(viper.GetViper())
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the cv-ranker", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if len(config.Job.RequiredSkills) == 0 {
		logger.Warn("no required skills configured, skill match will be 0 for everyone",
			zap.String("hint", "set job.skills in the config or pass --skills"),
		)
	}

	store, err := newObjectStore(ctx, config.S3, args)
	if err != nil {
		logger.Fatal("preparing object storage", zap.Error(err))
	}

	loader := source.NewLoader(store)
	refs, err := loader.Expand(ctx, args)
	if err != nil {
		logger.Fatal("resolving documents", zap.Error(err))
	}

	if len(refs) == 0 {
		logger.Info("exiting", zap.String("reason", "no documents found"))
		return
	}

	logger.Info("screening documents", zap.Int("count", len(refs)))

	entityTagger, err := newTagger(ctx, config.Tagger, logger)
	if err != nil {
		logger.Warn("skipping entity tagger, names are taken from the resume header only", zap.Error(err))
		entityTagger = tagger.Nop{}
	}

	extractor := extraction.New(&extraction.Config{
		FuzzyThreshold: config.Extraction.FuzzyThreshold,
		NameBlocklist:  config.Extraction.NameBlocklist,
	}, extraction.Deps{
		Tagger: entityTagger,
		Logger: logger,
	})

	filterConfig := &filtering.Config{
		MinimumMatch: config.Ranking.MinimumMatch,
		ExcludeFile:  config.ExcludeFile,
	}

	preRank := filtering.PreRanking()
	if strings.TrimSpace(config.ExcludeFile) == "" {
		filtering.DisableByName(preRank, "exclude_file", "exclude file is not configured")
	}

	screener := screening.New(
		screening.Options{Workers: config.Workers, Limit: config.Ranking.Limit, Filters: filterConfig},
		screening.Deps{
			Loader:    loader,
			Converter: document.NewTextConverter(),
			Extractor: extractor,
			PreRank:   preRank,
			Logger:    logger,
		},
	)

	report, err := screener.Screen(ctx, refs, config.Job, config.Vocabulary)
	if err != nil {
		logger.Fatal("screening candidates", zap.Error(err))
	}

	if report.ConversionFailures > 0 {
		logger.Warn("some documents could not be converted to text",
			zap.Int("failed", report.ConversionFailures),
			zap.Int("total", report.Total),
		)
	}

	if report.Excluded > 0 {
		logger.Info("skipped already reviewed candidates",
			zap.Int("excluded", report.Excluded),
			zap.String("exclude_file", config.ExcludeFile),
		)
	}

	postRank := filtering.PostRanking()
	candidates, err := applyFilters(ctx, filterConfig, logger, postRank, report.Ranked)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	logFilterStatus(logger, append(preRank, postRank...))

	if candidates.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return
	}

	if err := renderTable(os.Stdout, candidates); err != nil {
		logger.Fatal("rendering candidates", zap.Error(err))
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		return
	}

	for {
		items := []string{PromptDetails, PromptCandidatesToFile, PromptExit}
		if config.ExcludeFile != "" {
			items = []string{PromptDetails, PromptAppendToExcludeFile, PromptCandidatesToFile, PromptExit}
		}

		prompt := promptui.Select{
			Label: "What next?",
			Items: items,
		}

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, config, candidates, os.Stdout); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, config *Config, candidates *candidate.Candidates, out io.Writer) error {
	switch action {
	case PromptDetails:
		return showDetails(candidates, out)
	case PromptAppendToExcludeFile:
		if err := appendToExcludeFile(config.ExcludeFile, candidates); err != nil {
			return fmt.Errorf("append to exclude file: %w", err)
		}
		logger.Info("appended to exclude file",
			zap.String("filename", config.ExcludeFile),
			zap.Int("count", candidates.Len()),
		)
		return errExit
	case PromptCandidatesToFile:
		filename, err := candidates.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func showDetails(candidates *candidate.Candidates, out io.Writer) error {
	items := make([]string, 0, candidates.Len()+1)
	for i, p := range candidates.Items {
		items = append(items, candidateLabel(i+1, p))
	}

	candidatePrompt := promptui.Select{
		Label: "Choose a candidate and press ENTER",
		Items: append(items, PromptBack),
	}

	_, selected, err := candidatePrompt.Run()
	if err != nil {
		return err
	}

	if selected == PromptBack {
		return nil
	}

	id := strings.Split(selected, " ")[0]
	p := candidates.FindByID(id)
	if p == nil {
		return fmt.Errorf("there is no such candidate id %s", id)
	}

	return renderDetails(out, p)
}

// appendToExcludeFile records the candidates as reviewed so later runs skip them.
func appendToExcludeFile(path string, candidates *candidate.Candidates) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("exclude file is not configured")
	}

	excluded, err := candidate.GetExcludedCandidatesFromFile(path)
	if err != nil {
		return err
	}

	excluded.Append(candidates.ToExcluded())

	return excluded.ToFile(path)
}

// applyFilters runs the post-ranking steps on a copy of the ranked list.
func applyFilters(ctx context.Context, cfg *filtering.Config, logger *zap.Logger, steps []filtering.Filter, ranked *candidate.Candidates) (*candidate.Candidates, error) {
	return filtering.Run(ctx, cfg, filtering.Deps{Logger: logger}, steps,
		&candidate.Candidates{Items: slices.Clone(ranked.Items)})
}

func logFilterStatus(logger *zap.Logger, steps []filtering.Filter) {
	for _, status := range filtering.Describe(steps) {
		logger.Debug("filter status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}
}

// newTagger builds the entity tagger used as the name fallback.
func newTagger(ctx context.Context, cfg *TaggerConfig, baseLogger *zap.Logger) (tagger.Tagger, error) {
	if cfg == nil || !cfg.Enabled {
		return tagger.Nop{}, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported tagger provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when the tagger is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set tagger.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	genLogger := logger.WithFields(baseLogger, logger.TaggerFields("gemini", cfg.Gemini.Model)...).
		With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewTagger(generator, cfg.Gemini.MaxLogLength, genLogger), nil
}

// newObjectStore connects to S3 only when one of the references needs it.
func newObjectStore(ctx context.Context, cfg *S3Config, refs []string) (source.ObjectStore, error) {
	needed := false
	for _, ref := range refs {
		if strings.HasPrefix(strings.TrimSpace(ref), "s3://") {
			needed = true
			break
		}
	}
	if !needed {
		return nil, nil
	}

	if cfg == nil {
		cfg = &S3Config{}
	}

	accessKey, err := secrets.Load(secrets.Source{
		Name:     "s3 access key",
		File:     cfg.AccessKeyFile,
		Env:      "AWS_ACCESS_KEY_ID",
		Optional: true,
	})
	if err != nil {
		return nil, err
	}

	secretKey, err := secrets.Load(secrets.Source{
		Name:     "s3 secret key",
		File:     cfg.SecretKeyFile,
		Env:      "AWS_SECRET_ACCESS_KEY",
		Optional: true,
	})
	if err != nil {
		return nil, err
	}

	store, err := source.NewS3Store(ctx, source.S3Config{
		Endpoint:  cfg.Endpoint,
		Region:    cfg.Region,
		AccessKey: accessKey,
		SecretKey: secretKey,
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}
