package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-faker-file/internal/catalog"
	"github.com/nerdneilsfield/go-faker-file/internal/config"
	"github.com/nerdneilsfield/go-faker-file/pkg/fakefile"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

var (
	// generate 命令的标志
	genCount            int
	genPrefix           string
	genBasename         string
	genMaxNbChars       int
	genWrapCharsAfter   int
	genContent          string
	genTemplate         []string
	genGenerator        string
	genGeneratorOptions []string
	genFormat           string
	genInner            []string
	genInnerCount       int
	genDirectory        string
	genBatch            bool
	genSet              []string
)

// flagOptions 标志名到提供者选项键
var flagOptions = map[string]string{
	"prefix":           "prefix",
	"basename":         "basename",
	"max-nb-chars":     "max_nb_chars",
	"wrap-chars-after": "wrap_chars_after",
	"generator":        "generator",
	"format":           "format",
	"inner-count":      "count",
	"directory":        "directory",
}

// NewGenerateCommand 创建 generate 命令
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <provider>",
		Short: "Generate fake files of one provider",
		Long: `Generate fake files of one provider.

Options a provider does not know are rejected. Use --set for options without a
dedicated flag, e.g. --set title=Report or --set compression=gz.

Template steps are modifier names (paragraph, heading, picture, table,
page_break) or the shorthands h0 to h6 and title.

Examples:
  fakefile generate docx -t title -t paragraph -t picture -t page_break -t table
  fakefile generate image --format png --generator canvas
  fakefile generate mp3 --generator openai --generator-option voice=nova
  fakefile generate tar --set compression=zst --inner txt --inner-count 2
  fakefile generate eml --inner pdf --inner data --batch`,
		Args: cobra.ExactArgs(1),
		RunE: runGenerate,
	}

	flags := cmd.Flags()
	flags.IntVarP(&genCount, "count", "n", 1, "Number of files to generate")
	flags.StringVar(&genPrefix, "prefix", "", "Filename prefix, a random suffix is appended")
	flags.StringVar(&genBasename, "basename", "", "Exact filename without extension")
	flags.IntVar(&genMaxNbChars, "max-nb-chars", 0, "Maximum characters of generated text")
	flags.IntVar(&genWrapCharsAfter, "wrap-chars-after", 0, "Wrap generated text after this many characters")
	flags.StringVar(&genContent, "content", "", "Content template, e.g. \"{{name}} lives in {{address}}\"")
	flags.StringSliceVarP(&genTemplate, "template", "t", nil, "Template steps, in order")
	flags.StringVar(&genGenerator, "generator", "", "Generator strategy of pdf, image or mp3")
	flags.StringArrayVar(&genGeneratorOptions, "generator-option", nil, "Generator strategy option as key=value")
	flags.StringVar(&genFormat, "format", "", "Output format of image or data files")
	flags.StringSliceVar(&genInner, "inner", nil, "Inner providers of a container")
	flags.IntVar(&genInnerCount, "inner-count", 0, "Number of inner files of a container")
	flags.StringVar(&genDirectory, "directory", "", "Directory of inner files inside a container")
	flags.BoolVar(&genBatch, "batch", false, "Use every inner provider once, in order, instead of picking at random")
	flags.StringArrayVar(&genSet, "set", nil, "Other provider option as key=value")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	name := args[0]
	b, err := catalog.Get(name)
	if err != nil {
		return unknownProviderError(name, err)
	}
	for _, inner := range genInner {
		if _, err := catalog.Get(inner); err != nil {
			return unknownProviderError(inner, err)
		}
	}
	if genCount < 1 {
		return fmt.Errorf("--count must be at least 1")
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close(context.WithoutCancel(cmd.Context()))

	rec, err := recipeFromFlags(cmd, b, s.cfg)
	if err != nil {
		return err
	}
	fn, err := catalog.Build(rec)
	if err != nil {
		return err
	}

	files, err := runN(cmd, s, name, genCount, fn)
	if err != nil {
		return err
	}
	renderFiles(cmd.OutOrStdout(), files)
	printSuccess(cmd.OutOrStdout(), "generated %d %s file(s)", len(files), name)
	return nil
}

// recipeFromFlags 由标志组装配方；只使用显式给出的标志
func recipeFromFlags(cmd *cobra.Command, b catalog.Builder, cfg *config.Config) (config.Recipe, error) {
	options, err := parseKeyValues(genSet)
	if err != nil {
		return config.Recipe{}, err
	}

	flags := cmd.Flags()
	for flag, key := range flagOptions {
		if !flags.Changed(flag) {
			continue
		}
		// 数值标志以字符串传入，解码时按目标字段类型转换
		options[key] = flags.Lookup(flag).Value.String()
	}
	if flags.Changed("content") {
		options["content"] = genContent
	}
	if len(genGeneratorOptions) > 0 {
		gopts, err := parseKeyValues(genGeneratorOptions)
		if err != nil {
			return config.Recipe{}, err
		}
		options["generator_options"] = gopts
	}

	rec := config.Recipe{Provider: b.Name, Batch: genBatch}
	for _, step := range genTemplate {
		rec.Template = append(rec.Template, template.ParseStep(step))
	}
	for _, inner := range genInner {
		rec.Inner = append(rec.Inner, config.Recipe{Provider: inner})
	}

	applyGenerationDefaults(b, &rec, options, cfg.Generation)
	if len(options) > 0 {
		rec.Options = options
	}
	return rec, nil
}

// applyGenerationDefaults 把配置中的生成默认值补进未设置的选项
func applyGenerationDefaults(b catalog.Builder, rec *config.Recipe, options map[string]any, gen config.GenerationConfig) {
	if _, ok := options["max_nb_chars"]; !ok && b.Content && gen.DefaultMaxNbChars > 0 && len(rec.Template) == 0 {
		options["max_nb_chars"] = gen.DefaultMaxNbChars
	}
	if _, ok := options["count"]; !ok && b.Container && len(rec.Inner) > 0 && gen.DefaultCount > 0 {
		options["count"] = gen.DefaultCount
	}
}

// runN 调用 fn n 次并显示进度
func runN(cmd *cobra.Command, s *session, name string, n int, fn providers.GenerateFunc) ([]*fakefile.File, error) {
	bar := newProgressBar(cmd.ErrOrStderr(), n, "generating "+name)
	files := make([]*fakefile.File, 0, n)
	for i := 0; i < n; i++ {
		f, err := fn(cmd.Context(), s.env)
		if err != nil {
			_ = bar.Exit()
			s.log.Error("generation failed",
				zap.String("provider", name),
				zap.Int("index", i),
				zap.Error(err))
			return files, fmt.Errorf("file %d of %d: %w", i+1, n, err)
		}
		files = append(files, f)
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	return files, nil
}
