package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/unidoc/unipdf/v3/common/license"

	"localmind/src/infrastructure/log"
)

var debug bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "localmind",
	Short: "Ask questions about your local documents",
	Long: `localMind ingests local documents (PDF, text, Markdown) into a Chroma
vector store and answers questions about them with a local Ollama model,
grounding every answer on the most relevant document chunks.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initRuntime)

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	settingDefaultConfig()
}

func initRuntime() {
	if debug {
		log.SetDebug()
	}

	// The PDF extractor refuses to run without a license key.
	if key := viper.GetString("unidoc.license_key"); key != "" {
		if err := license.SetMeteredKey(key); err != nil {
			log.Error(err, "failed to set unidoc license key, PDF ingestion will fail")
		}
	} else {
		log.Info("UNIDOC_LICENSE_KEY is not set, PDF ingestion will fail")
	}
}
