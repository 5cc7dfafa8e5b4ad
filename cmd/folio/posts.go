package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/internal/posts"
)

var (
	postsJSON bool
	postsTag  string
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Inspect blog posts",
}

var postsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List published posts, newest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := mustApp(ctx)

		var list []posts.Post
		if postsTag != "" {
			list = a.posts.ByTag(ctx, postsTag)
		} else {
			list = a.posts.List(ctx)
		}

		if postsJSON {
			summaries := make([]posts.Post, 0, len(list))
			for _, p := range list {
				summaries = append(summaries, p.Summary())
			}
			printJSON(summaries)
			return
		}
		for _, p := range list {
			fmt.Printf("%s  %-30s %s\n", p.Published.Format("2006-01-02"), p.Slug, p.Title)
		}
	},
}

var postsShowCmd = &cobra.Command{
	Use:   "show [slug]",
	Short: "Print a post's front-matter and Markdown body",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := mustApp(ctx)

		p, ok := a.posts.Get(ctx, args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "Post not found: %s\n", args[0])
			os.Exit(1)
		}
		if postsJSON {
			printJSON(p)
			return
		}

		fmt.Printf("Title:   %s\n", p.Title)
		fmt.Printf("Date:    %s\n", p.Published.Format("2006-01-02"))
		if p.Author != "" {
			fmt.Printf("Author:  %s\n", p.Author)
		}
		if len(p.Tags) > 0 {
			fmt.Printf("Tags:    %s\n", strings.Join(p.Tags, ", "))
		}
		if p.Draft {
			fmt.Println("Draft:   yes")
		}
		fmt.Printf("Reading: %d min\n\n", p.ReadingTime)
		fmt.Print(p.Content)
	},
}

var postsRenderCmd = &cobra.Command{
	Use:   "render [slug]",
	Short: "Print a post rendered as HTML",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := mustApp(ctx)

		html, ok := a.posts.RenderHTML(ctx, args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "Post not found: %s\n", args[0])
			os.Exit(1)
		}
		fmt.Print(html)
	},
}

func init() {
	rootCmd.AddCommand(postsCmd)
	postsCmd.AddCommand(postsListCmd, postsShowCmd, postsRenderCmd)
	postsCmd.PersistentFlags().BoolVar(&postsJSON, "json", false, "Output in JSON format")
	postsListCmd.Flags().StringVar(&postsTag, "tag", "", "Filter posts by tag")
}
