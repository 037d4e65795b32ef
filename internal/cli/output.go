package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mattn/go-runewidth"
	"github.com/pterm/pterm"
	"github.com/schollz/progressbar/v3"
	"gopkg.in/yaml.v3"

	"github.com/nerdneilsfield/go-faker-file/internal/catalog"
	"github.com/nerdneilsfield/go-faker-file/pkg/fakefile"
)

// previewWidth 结果表中内容预览的显示宽度
const previewWidth = 48

// maxSuggestions 未知提供者时最多给出的候选数
const maxSuggestions = 3

// newProgressBar 创建生成进度条，总数不超过 1 时不显示
func newProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	if total <= 1 || quiet {
		return progressbar.DefaultSilent(int64(total))
	}
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionOnCompletion(func() { _, _ = fmt.Fprintln(w) }),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// renderFiles 输出生成结果表
func renderFiles(w io.Writer, files []*fakefile.File) {
	if quiet {
		for _, f := range files {
			_, _ = fmt.Fprintln(w, f.Path)
		}
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"#", "Path", "Inner", "Content"})
	for i, f := range files {
		inner := ""
		if n := len(f.Data.Files); n > 0 {
			inner = fmt.Sprintf("%d", n)
		}
		tw.AppendRow(table.Row{i + 1, f.Path, inner, preview(f.Data.Content)})
	}
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	tw.Render()
}

// preview 取内容首行并按显示宽度截断
func preview(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return runewidth.Truncate(s, previewWidth, "...")
}

// printSuccess 输出成功提示
func printSuccess(w io.Writer, format string, args ...any) {
	if quiet {
		return
	}
	pterm.Success.WithWriter(w).Printfln(format, args...)
}

// suggestProviders 为拼错的提供者名给出候选
func suggestProviders(name string) []string {
	ranks := fuzzy.RankFindFold(name, catalog.List())
	sort.Sort(ranks)

	out := make([]string, 0, maxSuggestions)
	for _, r := range ranks {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, r.Target)
	}
	if len(out) > 0 {
		return out
	}

	// 子序列匹配失败时退回到编辑距离，只保留最接近的候选
	type scored struct {
		name     string
		distance int
		shared   int
	}
	lower := strings.ToLower(name)
	var candidates []scored
	for _, candidate := range catalog.List() {
		if d := fuzzy.LevenshteinDistance(lower, candidate); d <= 2 {
			candidates = append(candidates, scored{candidate, d, sharedRunes(lower, candidate)})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		if a.shared != b.shared {
			return a.shared > b.shared
		}
		return a.name < b.name
	})
	for _, c := range candidates {
		best := candidates[0]
		if c.distance != best.distance || c.shared != best.shared {
			break
		}
		out = append(out, c.name)
	}
	return out
}

// sharedRunes 两个字符串共有的字符数（按多重集合计）
func sharedRunes(a, b string) int {
	counts := make(map[rune]int)
	for _, r := range a {
		counts[r]++
	}
	n := 0
	for _, r := range b {
		if counts[r] > 0 {
			counts[r]--
			n++
		}
	}
	return n
}

// unknownProviderError 附带候选提示的未知提供者错误
func unknownProviderError(name string, err error) error {
	suggestions := suggestProviders(name)
	if len(suggestions) == 0 {
		return fmt.Errorf("%w (run %s to see all providers)", err, color.CyanString("fakefile list"))
	}
	highlighted := make([]string, len(suggestions))
	for i, s := range suggestions {
		highlighted[i] = color.YellowString(s)
	}
	return fmt.Errorf("%w, did you mean %s?", err, strings.Join(highlighted, ", "))
}

// parseKeyValues 解析 key=value 列表，值按 YAML 标量推断类型
func parseKeyValues(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid option %q, expected key=value", pair)
		}
		out[key] = scalar(raw)
	}
	return out, nil
}

func scalar(raw string) any {
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return raw
	}
	switch v.(type) {
	case map[string]any, []any:
		return raw
	}
	return v
}
