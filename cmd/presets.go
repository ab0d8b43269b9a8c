package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shouni/dream-canvas-kit/pkg/catalog"
)

// presetsCmd は、選べる画風・比率・サンプルプロンプトの一覧を表示するのだ。
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "画風・比率・サンプルプロンプトの一覧を表示しますなのだ。",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "styles:")
		for _, s := range catalog.Styles() {
			fmt.Fprintf(out, "  %-10s %s: %s\n", s.ID, s.Name, s.Description)
		}
		fmt.Fprintln(out, "ratios:")
		for _, r := range catalog.Ratios() {
			fmt.Fprintf(out, "  %-10s %s (%dx%d): %s\n", r.ID, r.Label, r.Width, r.Height, r.Description)
		}
		fmt.Fprintln(out, "quick prompts:")
		for i, p := range catalog.QuickPrompts() {
			fmt.Fprintf(out, "  %d. %s\n", i+1, p)
		}
	},
}
