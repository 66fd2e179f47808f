package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "quote-ranker"

	defaultLocale = "en"
)

type Config struct {
	VendorsFile string          `mapstructure:"vendors-file"`
	ExcludeFile string          `mapstructure:"exclude-file"`
	Taxonomy    *TaxonomyConfig `mapstructure:"taxonomy"`
	Ranking     *RankingConfig  `mapstructure:"ranking"`
	Exclude     *struct {
		Vendors []string `mapstructure:"vendors"`
	} `mapstructure:"exclude"`
}

type TaxonomyConfig struct {
	// Dir overrides the built-in taxonomy. Empty means built-in.
	Dir string `mapstructure:"dir"`
}

type RankingConfig struct {
	// Locale selects the collation for vendor names. Empty compares bytes.
	Locale string `mapstructure:"locale"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "quote-ranker orders vendors by how well they fit the tags of an asset",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("vendors-file", "QUOTE_RANKER_VENDORS_FILE"); err != nil {
		log.Fatalf("binding QUOTE_RANKER_VENDORS_FILE environment variable: %v", err)
	}
	viper.SetDefault("ranking.locale", defaultLocale)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is quote-ranker.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("vendors", "", "vendors file (json or yaml)")
	rootCmd.PersistentFlags().StringP("exclude-file", "e", "", "file with vendors already asked for a quote. Default is unset.")
	rootCmd.PersistentFlags().String("taxonomy-dir", "", "directory with taxonomy files. Default is the built-in taxonomy.")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("vendors-file", rootCmd.PersistentFlags().Lookup("vendors"))
	viper.BindPFlag("exclude-file", rootCmd.PersistentFlags().Lookup("exclude-file"))
	viper.BindPFlag("taxonomy.dir", rootCmd.PersistentFlags().Lookup("taxonomy-dir"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless it was given explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Taxonomy == nil {
		config.Taxonomy = &TaxonomyConfig{}
	}
	if config.Ranking == nil {
		config.Ranking = &RankingConfig{}
	}

	return config, nil
}

func (c *Config) excludedVendors() []string {
	if c == nil || c.Exclude == nil {
		return nil
	}
	return c.Exclude.Vendors
}
