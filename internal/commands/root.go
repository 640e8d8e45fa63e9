package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/moonshotai/kimi-tokenizer/internal/bpe"
	"github.com/moonshotai/kimi-tokenizer/internal/errors"
	"github.com/moonshotai/kimi-tokenizer/internal/fileops"
	"github.com/moonshotai/kimi-tokenizer/internal/topk"
	"github.com/moonshotai/kimi-tokenizer/internal/ui"
	kimitok "github.com/moonshotai/kimi-tokenizer"
)

var (
	noColor bool
	verbose bool
)

type rootOptions struct {
	tokenizerDir string
	repo         string
	revision     string
	cacheDir     string
	matching     string
	jsonOutput   bool
	allowSpecial bool
	recursive    bool
	top          int
}

// Execute runs the root command with the given version string.
func Execute(version string) {
	if err := newRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "kimitok",
		Version: version,
		Short:   "Byte-level BPE tokenizer compatible with the TikToken family and Kimi-K2 artifacts",
		Long: `kimitok encodes and decodes text using a byte-level BPE tokenizer,
loading its rank table and special tokens from a local tiktoken.model /
tokenizer_config.json pair, the same artifact shape Kimi-K2-family
models are distributed with.`,
		Example: `  kimitok encode --tokenizer-dir ./vocabdata doc.txt
  kimitok decode --tokenizer-dir ./vocabdata 0 2
  kimitok scan --tokenizer-dir ./vocabdata -r ./src --top 5
  kimitok inspect --tokenizer-dir ./vocabdata
  kimitok encode --repo moonshotai/kimi-k2 --revision main doc.txt`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				lipgloss.SetColorProfile(termenv.Ascii)
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable color output")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose output")
	cmd.PersistentFlags().StringVar(&opts.tokenizerDir, "tokenizer-dir", "", "directory containing tiktoken.model (and optional tokenizer_config.json)")
	cmd.PersistentFlags().StringVar(&opts.repo, "repo", "", "repo name to resolve through a local huggingface_hub-style cache, as an alternative to --tokenizer-dir")
	cmd.PersistentFlags().StringVar(&opts.revision, "revision", "main", "repo revision, used with --repo")
	cmd.PersistentFlags().StringVar(&opts.cacheDir, "cache-dir", "", "cache root for --repo lookups (defaults to the user cache dir's huggingface/hub)")
	cmd.PersistentFlags().StringVar(&opts.matching, "matching", "parity", "special-token overlap discipline: parity or longest")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output in JSON format")
	cmd.PersistentFlags().BoolVar(&opts.allowSpecial, "allow-special", true, "recognize special token literals in input instead of encoding them as ordinary text")
	cmd.MarkFlagsMutuallyExclusive("tokenizer-dir", "repo")

	cmd.AddCommand(newEncodeCmd(opts))
	cmd.AddCommand(newDecodeCmd(opts))
	cmd.AddCommand(newScanCmd(opts))
	cmd.AddCommand(newInspectCmd(opts))

	return cmd
}

func matchingFromFlag(s string) (bpe.SpecialTokenMatching, error) {
	switch strings.ToLower(s) {
	case "", "parity":
		return bpe.Parity, nil
	case "longest":
		return bpe.Longest, nil
	default:
		return 0, fmt.Errorf("invalid --matching %q, want parity or longest", s)
	}
}

func loadEncoding(opts *rootOptions) (*bpe.Encoding, error) {
	matching, err := matchingFromFlag(opts.matching)
	if err != nil {
		return nil, err
	}

	if opts.repo != "" {
		cacheDir := opts.cacheDir
		if cacheDir == "" {
			cacheDir, err = defaultCacheDir()
			if err != nil {
				return nil, errors.Wrap(err, "resolving default cache directory")
			}
		}
		enc, err := kimitok.LoadRepo(cacheDir, opts.repo, opts.revision, "", matching)
		if err != nil {
			return nil, errors.Wrap(err, "loading tokenizer artifacts").
				WithField("repo", opts.repo).WithField("revision", opts.revision).WithField("cache_dir", cacheDir)
		}
		return enc, nil
	}

	if opts.tokenizerDir == "" {
		return nil, errors.Validation("either --tokenizer-dir or --repo must be set")
	}

	enc, err := kimitok.LoadDir(opts.tokenizerDir, "", matching)
	if err != nil {
		return nil, errors.Wrap(err, "loading tokenizer artifacts").WithField("dir", opts.tokenizerDir)
	}
	return enc, nil
}

// defaultCacheDir returns the default huggingface_hub-style cache root,
// <user cache dir>/huggingface/hub, used when --repo is set without an
// explicit --cache-dir.
func defaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "huggingface", "hub"), nil
}

func newEncodeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <file>",
		Short: "Encode a file's contents into token ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd.Context(), args[0], opts)
		},
	}
}

func runEncode(ctx context.Context, path string, opts *rootOptions) error {
	display := ui.New(noColor, verbose)

	enc, err := loadEncoding(opts)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.IO("reading file", err).WithField("path", path)
	}

	ids, err := enc.Encode(content, opts.allowSpecial)
	if err != nil {
		return errors.Wrap(err, "encoding").WithField("path", path)
	}

	if verbose {
		display.Info("encoded %s: %d bytes -> %d tokens", path, len(content), len(ids))
	}

	if opts.jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"path":   path,
			"tokens": ids,
			"count":  len(ids),
		})
	}

	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = strconv.Itoa(id)
	}
	fmt.Println(strings.Join(strs, " "))
	return nil
}

func newDecodeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <id> [id...]",
		Short: "Decode token ids back into bytes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(args, opts)
		},
	}
}

func runDecode(args []string, opts *rootOptions) error {
	enc, err := loadEncoding(opts)
	if err != nil {
		return err
	}

	ids := make([]int, len(args))
	for i, a := range args {
		id, err := strconv.Atoi(a)
		if err != nil {
			return errors.Validation("token id must be an integer").WithField("value", a)
		}
		ids[i] = id
	}

	out, err := enc.Decode(ids)
	if err != nil {
		return errors.Wrap(err, "decoding")
	}

	if opts.jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{"text": string(out)})
	}

	os.Stdout.Write(out)
	if len(out) == 0 || out[len(out)-1] != '\n' {
		fmt.Println()
	}
	return nil
}

func newScanCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Walk a directory and report per-file token counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context(), args[0], opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false, "recurse into subdirectories (required)")
	cmd.Flags().IntVar(&opts.top, "top", 0, "only show the N heaviest files by token count (0 = show all)")
	return cmd
}

type fileTokens struct {
	Path   string `json:"path"`
	Tokens int    `json:"tokens"`
}

func runScan(ctx context.Context, dir string, opts *rootOptions) error {
	display := ui.New(noColor, verbose)

	if !opts.recursive {
		return errors.Validation("scan requires --recursive").WithField("path", dir)
	}

	enc, err := loadEncoding(opts)
	if err != nil {
		return err
	}

	walkResult, err := fileops.WalkDirectory(ctx, dir)
	if err != nil {
		return errors.IO("walking directory", err).WithField("path", dir)
	}
	if len(walkResult.Files) == 0 {
		return errors.NotFound("text files in directory").WithField("path", dir)
	}
	if verbose {
		display.Info("found %d text files (skipped %d binary, %d ignored)",
			len(walkResult.Files), walkResult.SkippedBinary, walkResult.SkippedIgnore)
	}

	results := make([]fileTokens, 0, len(walkResult.Files))
	total := 0
	for _, f := range walkResult.Files {
		content, err := os.ReadFile(f)
		if err != nil {
			return errors.IO("reading file", err).WithField("path", f)
		}
		ids, err := enc.Encode(content, opts.allowSpecial)
		if err != nil {
			return errors.Wrap(err, "encoding").WithField("path", f)
		}
		results = append(results, fileTokens{Path: f, Tokens: len(ids)})
		total += len(ids)
	}

	if opts.top > 0 && opts.top < len(results) {
		h := topk.New(len(results), func(a, b fileTokens) int { return a.Tokens - b.Tokens })
		for _, r := range results {
			h.Insert(r)
		}
		results = h.Top(opts.top)
	} else {
		sort.Slice(results, func(i, j int) bool { return results[i].Tokens > results[j].Tokens })
	}

	if opts.jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"files":        results,
			"total_tokens": total,
			"file_count":   len(walkResult.Files),
		})
	}

	return outputScanTable(results, total, len(walkResult.Files))
}

func outputScanTable(results []fileTokens, total, fileCount int) error {
	titleStyle, sectionStyle, labelStyle, _ := styles()

	fmt.Println(titleStyle.Render("Token Scan Report"))
	fmt.Println()
	fmt.Printf("  %s %s\n", labelStyle.Render("Files:"), formatInt(fileCount))
	fmt.Printf("  %s %s\n", labelStyle.Render("Total tokens:"), formatInt(total))
	fmt.Println()

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.Path, formatInt(r.Tokens)})
	}

	purple := lipgloss.Color("99")
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(purple).Align(lipgloss.Center)
	cellStyle := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
	tokenCellStyle := cellStyle.Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(purple)).
		Headers("File", "Tokens").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 1 {
				return tokenCellStyle
			}
			return cellStyle
		})

	fmt.Println(sectionStyle.Render("By File"))
	fmt.Println(t)
	return nil
}

func newInspectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Print metadata about a loaded tokenizer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts)
		},
	}
}

func runInspect(opts *rootOptions) error {
	enc, err := loadEncoding(opts)
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"vocab_size":    enc.VocabSize(),
			"special_count": len(enc.SpecialTokens()),
			"pattern":       enc.PatternSource(),
		})
	}

	titleStyle, _, labelStyle, valStyle := styles()
	fmt.Println(titleStyle.Render("Tokenizer Inspection"))
	fmt.Println()
	fmt.Printf("  %s %s\n", labelStyle.Render("Rank table size:"), valStyle.Render(formatInt(enc.VocabSize())))
	fmt.Printf("  %s %s\n", labelStyle.Render("Special tokens:"), valStyle.Render(formatInt(len(enc.SpecialTokens()))))
	fmt.Printf("  %s %s\n", labelStyle.Render("Pattern:"), valStyle.Render(enc.PatternSource()))
	return nil
}

// styles returns lipgloss styles for output rendering.
func styles() (title, section, label, valStyle lipgloss.Style) {
	purple := lipgloss.Color("99")
	dim := lipgloss.Color("245")

	title = lipgloss.NewStyle().Bold(true).Foreground(purple)
	section = lipgloss.NewStyle().Bold(true).Foreground(purple)
	label = lipgloss.NewStyle().Foreground(dim)
	valStyle = lipgloss.NewStyle()
	return
}

// formatInt formats an integer with comma thousand separators.
func formatInt(n int) string {
	if n < 0 {
		return "-" + formatInt(-n)
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		b.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
