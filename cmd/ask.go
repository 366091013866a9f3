package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"localmind/src/core/rag"
	"localmind/src/infrastructure/log"
)

var noStream bool

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about the ingested documents",
	Long: `The ask command retrieves the chunks most relevant to the question,
builds a grounded prompt and streams the model's answer to stdout, followed
by the sources the answer was grounded on.`,
	Args: cobra.MinimumNArgs(1),
	Run:  RunAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().BoolVar(&noStream, "no-stream", false, "wait for the complete answer instead of streaming")
}

func RunAsk(cmd *cobra.Command, args []string) {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		log.Error(err, "failed to initialize services")
		os.Exit(1)
	}
	defer rt.close()

	question := strings.Join(args, " ")
	ctx := cmd.Context()

	if noStream {
		answer, sources, err := rt.ragService.Ask(ctx, question)
		if err != nil {
			log.Error(err, "failed to answer question")
			os.Exit(1)
		}
		fmt.Println(answer)
		printSources(sources)
		return
	}

	sources, err := rt.ragService.AskStream(ctx, question, func(fragment string) error {
		fmt.Print(fragment)
		return nil
	})
	if err != nil {
		log.Error(err, "failed to answer question")
		os.Exit(1)
	}
	fmt.Println()
	printSources(sources)
}

func printSources(sources []rag.RetrievedChunk) {
	if len(sources) == 0 {
		return
	}

	fmt.Println("\nSources:")
	for _, s := range sources {
		line := "  - " + s.Metadata.Source()
		if page, ok := s.Metadata.Page(); ok {
			line += fmt.Sprintf(", page %d", page)
		}
		fmt.Printf("%s (distance %.3f)\n", line, s.Distance)
	}
}
