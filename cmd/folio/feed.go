package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/internal/feed"
)

var feedOutput string

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Write the RSS feed to stdout or a file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := mustApp(ctx)

		out, err := feed.Build(a.site, a.posts.List(ctx), a.posts.Render)
		if err != nil {
			fatal("Error building feed", err)
		}

		if feedOutput == "" || feedOutput == "-" {
			if _, err := os.Stdout.Write(out); err != nil {
				fatal("Error writing feed", err)
			}
			return
		}
		if err := os.WriteFile(feedOutput, out, 0644); err != nil {
			fatal("Error writing feed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(feedCmd)
	feedCmd.Flags().StringVarP(&feedOutput, "output", "o", "", "Write to file instead of stdout")
}
