package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/cv-ranker/internal/candidate"
	"github.com/spigell/cv-ranker/internal/extraction"
	"github.com/spigell/cv-ranker/internal/scoring"
	"github.com/spigell/cv-ranker/internal/screening"
)

const (
	app       = "cv-ranker"
	envPrefix = "CV_RANKER"
)

// defaultVocabulary is used when the config does not list skills to look for.
var defaultVocabulary = []string{"Python", "Machine Learning", "SQL", "Data Science", "NLP", "Data Analysis"}

type Config struct {
	Job         *candidate.JobRequirement `mapstructure:"job" validate:"required"`
	Vocabulary  []string                  `mapstructure:"vocabulary" validate:"min=1,dive,required"`
	Extraction  *ExtractionConfig         `mapstructure:"extraction" validate:"required"`
	Ranking     *RankingConfig            `mapstructure:"ranking" validate:"required"`
	Workers     int                       `mapstructure:"workers" validate:"gte=0"`
	ExcludeFile string                    `mapstructure:"exclude-file"`
	Tagger      *TaggerConfig             `mapstructure:"tagger"`
	S3          *S3Config                 `mapstructure:"s3"`
}

type ExtractionConfig struct {
	FuzzyThreshold float64  `mapstructure:"fuzzy-threshold" validate:"gte=0,lte=100"`
	NameBlocklist  []string `mapstructure:"name-blocklist"`
}

type RankingConfig struct {
	Limit        int     `mapstructure:"limit" validate:"gte=0"`
	MinimumMatch float64 `mapstructure:"minimum-match" validate:"gte=0,lte=100"`
}

type TaggerConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type S3Config struct {
	Endpoint      string `mapstructure:"endpoint"`
	Region        string `mapstructure:"region"`
	AccessKeyFile string `mapstructure:"access-key-file"`
	SecretKeyFile string `mapstructure:"secret-key-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cv-ranker extracts candidate details from resumes and ranks them against a job profile",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cv-ranker.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("job.skills", []string{})
	v.SetDefault("job.min-experience", 0.0)
	v.SetDefault("vocabulary", defaultVocabulary)
	v.SetDefault("extraction.fuzzy-threshold", float64(extraction.DefaultFuzzyThreshold))
	v.SetDefault("extraction.name-blocklist", extraction.DefaultNameBlocklist)
	v.SetDefault("ranking.limit", scoring.DefaultLimit)
	v.SetDefault("ranking.minimum-match", 0.0)
	v.SetDefault("workers", screening.DefaultWorkers)
	v.SetDefault("exclude-file", "")
	v.SetDefault("tagger.enabled", false)
	v.SetDefault("tagger.provider", "gemini")
	v.SetDefault("tagger.gemini.api-key-file", "")
	v.SetDefault("tagger.gemini.model", "gemini-2.5-flash")
	v.SetDefault("tagger.gemini.max-retries", 2)
	v.SetDefault("tagger.gemini.max-log-length", 500)
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "auto")
	v.SetDefault("s3.access-key-file", "")
	v.SetDefault("s3.secret-key-file", "")
}

// bindEnv maps keys such as ranking.minimum-match to CV_RANKER_RANKING_MINIMUM_MATCH.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

func initConfig() {
	// Config needed only for rank command now. If there is no config, we can skip initialization
	if rankCmd.CalledAs() == "" {
		return
	}

	_ = godotenv.Load()

	bindEnv(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Without an explicit --config everything may come from flags and env.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		// We can't proceed if the config file parsed with error.
		log.Fatal(err)
	}
}

func getConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if config == nil {
		return nil, fmt.Errorf("config is empty")
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return config, nil
}
