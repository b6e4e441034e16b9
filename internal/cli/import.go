package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kbtools/url2kb/internal/importer"
	"github.com/spf13/cobra"
)

var (
	importCollection    string
	importLLMRepair     bool
	importClustering    bool
	importRepairProv    string
	importSummarizeProv string
	importEmbeddingProv string
	importChunkSize     int
	importChunkOverlap  int
	importMaxWait       time.Duration
	importNoProgress    bool
)

var importCmd = &cobra.Command{
	Use:   "import <url>",
	Short: "Convert a URL into knowledge-base chunks",
	Long: `Import submits a URL to the conversion server, waits for the
asynchronous task to finish, and uploads the extracted summaries into a
collection as individual text chunks.

Chunk uploads are best-effort: a failed chunk never stops the rest of
the batch, and the final message reports how many made it.

Examples:
  url2kb import https://example.com/post -c articles
  url2kb import https://example.com/post -c articles --llm-repair --clustering-summary
  url2kb import https://example.com/post -c articles --chunk-size 512 --chunk-overlap 64
  url2kb import https://example.com/post -c articles --max-wait 10m --no-progress`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	f := importCmd.Flags()
	f.StringVarP(&importCollection, "collection", "c", "", "target collection name")
	f.BoolVar(&importLLMRepair, "llm-repair", false, "repair extracted text with an LLM")
	f.BoolVar(&importClustering, "clustering-summary", false, "cluster topics and summarize each cluster")
	f.StringVar(&importRepairProv, "repair-provider", "", "provider id for text repair")
	f.StringVar(&importSummarizeProv, "summarize-provider", "", "provider id for summarization")
	f.StringVar(&importEmbeddingProv, "embedding-provider", "", "provider id for embeddings")
	f.IntVar(&importChunkSize, "chunk-size", 0, "server-side chunk size (0 uses the server default)")
	f.IntVar(&importChunkOverlap, "chunk-overlap", -1, "server-side chunk overlap (-1 uses the server default)")
	f.DurationVar(&importMaxWait, "max-wait", 0, "give up waiting after this long (0 waits forever)")
	f.BoolVar(&importNoProgress, "no-progress", false, "plain output instead of the progress UI")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	var url string
	if len(args) == 1 {
		url = args[0]
	}

	collection := importCollection
	if collection == "" {
		collection = cfg.DefaultCollection
	}
	if collection == "" {
		return fmt.Errorf("no collection specified (use --collection or set a default)")
	}

	maxWait := importMaxWait
	if maxWait == 0 {
		maxWait = cfg.MaxWait
	}

	runner := &importer.Runner{
		Client:   apiClient,
		Logger:   slog.Default(),
		Interval: cfg.PollInterval,
		MaxWait:  maxWait,
	}
	opts := buildOptions()

	if importNoProgress {
		runner.Notifier = newTermNotifier(apiClient)
		if _, err := runner.Run(cmd.Context(), url, collection, opts); err != nil {
			// Already reported through the notifier.
			cmd.SilenceErrors = true
			return err
		}
		return nil
	}

	return runImportProgress(cmd, runner, url, collection, opts)
}

// buildOptions merges import flags with configured defaults. Provider
// defaults apply only when the matching flag was left empty, mirroring a
// one-time "first configured provider" defaulting rule.
func buildOptions() importer.Options {
	opts := importer.Options{
		UseLLMRepair:         importLLMRepair,
		UseClusteringSummary: importClustering,
		RepairProviderID:     importRepairProv,
		SummarizeProviderID:  importSummarizeProv,
		EmbeddingProviderID:  importEmbeddingProv,
	}
	if opts.RepairProviderID == "" {
		opts.RepairProviderID = cfg.RepairProviderID
	}
	if opts.SummarizeProviderID == "" {
		opts.SummarizeProviderID = cfg.SummarizeProviderID
	}
	if opts.EmbeddingProviderID == "" {
		opts.EmbeddingProviderID = cfg.EmbeddingProviderID
	}

	chunkSize := importChunkSize
	if chunkSize <= 0 {
		chunkSize = cfg.ChunkSize
	}
	if chunkSize > 0 {
		opts.ChunkSize = &chunkSize
	}

	chunkOverlap := importChunkOverlap
	if chunkOverlap < 0 {
		chunkOverlap = cfg.ChunkOverlap
	}
	if chunkOverlap >= 0 {
		opts.ChunkOverlap = &chunkOverlap
	}

	return opts
}
