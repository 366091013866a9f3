package cmd

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"localmind/src/infrastructure/log"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest [paths...]",
	Short: "Ingest documents into the vector store",
	Long: `The ingest command loads the given files or directories, splits them
into overlapping chunks and stores them in the Chroma collection. With no
arguments it ingests the configured documents directory.`,
	Run: RunIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func RunIngest(cmd *cobra.Command, args []string) {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		log.Error(err, "failed to initialize services")
		os.Exit(1)
	}
	defer rt.close()

	paths := args
	if len(paths) == 0 {
		paths = []string{viper.GetString("documents.dir")}
	}

	bar := progressbar.Default(-1, "ingesting documents")
	rt.ingestService.Progress = func(path string) {
		bar.Add(1)
	}

	result, err := rt.ingestService.IngestPaths(cmd.Context(), paths)
	bar.Finish()
	if err != nil {
		log.Error(err, "ingestion failed")
		os.Exit(1)
	}

	fmt.Printf("Added %d chunks\n", result.ChunksAdded)
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "warning: %s\n", e)
	}
}
