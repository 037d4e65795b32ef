package cli

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nerdneilsfield/go-faker-file/internal/catalog"
	"github.com/nerdneilsfield/go-faker-file/pkg/content"
	"github.com/nerdneilsfield/go-faker-file/pkg/generator"
)

var listTokens bool

// NewListCommand 创建 list 命令
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List providers, their extensions and generator strategies",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
	cmd.Flags().BoolVar(&listTokens, "tokens", false, "List the {{token}} placeholders of content templates instead")
	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	if listTokens {
		faker, err := content.New()
		if err != nil {
			return err
		}
		tw.AppendHeader(table.Row{"Token"})
		for _, token := range faker.Tokens() {
			tw.AppendRow(table.Row{"{{" + token + "}}"})
		}
		tw.Render()
		return nil
	}

	tw.AppendHeader(table.Row{"Provider", "Extensions", "Template", "Inner", "Strategies", "Description"})
	for _, b := range catalog.DefaultRegistry.Builders() {
		strategies := ""
		if b.Family != "" {
			strategies = strings.Join(generator.Names(b.Family), ", ")
		}
		tw.AppendRow(table.Row{
			b.Name,
			strings.Join(b.Extensions, ", "),
			yesNo(b.Content),
			yesNo(b.Container),
			strategies,
			b.Description,
		})
	}
	tw.Render()
	return nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return ""
}
