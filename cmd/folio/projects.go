package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aretw0/folio/internal/projects"
)

var (
	projectsJSON     bool
	projectsTag      string
	projectsCategory string
	projectsFrom     int
	projectsTo       int
	projectsFeatured bool
	relatedLimit     int
)

var titleCaser = cases.Title(language.English)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Inspect portfolio projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects, featured first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := mustApp(ctx)

		var list []projects.Project
		switch {
		case projectsFeatured:
			list = a.projects.Featured(ctx, 0)
		case projectsTag != "":
			list = a.projects.ByTag(ctx, projectsTag, projects.Category(projectsCategory))
		case cmd.Flags().Changed("from") || cmd.Flags().Changed("to"):
			list = a.projects.ByYearRange(ctx, projectsFrom, projectsTo)
		default:
			list = a.projects.List(ctx)
		}
		printProjects(list)
	},
}

var projectsSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search titles, descriptions, keywords and tags",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		printProjects(mustApp(ctx).projects.Search(ctx, args[0]))
	},
}

var projectsShowCmd = &cobra.Command{
	Use:   "show [slug]",
	Short: "Print one project",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		p, ok := mustApp(ctx).projects.BySlug(ctx, args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "Project not found: %s\n", args[0])
			os.Exit(1)
		}
		if projectsJSON {
			printJSON(p)
			return
		}

		fmt.Printf("%s (%s)\n", p.Title, p.Slug)
		if p.ShortDescription != "" {
			fmt.Printf("%s\n", p.ShortDescription)
		}
		fmt.Println()
		if p.Status.Current != "" {
			fmt.Printf("Status:     %s\n", titleCaser.String(string(p.Status.Current)))
		}
		if p.Metadata.Difficulty != "" {
			fmt.Printf("Difficulty: %s\n", titleCaser.String(string(p.Metadata.Difficulty)))
		}
		if y := p.Year(); y > 0 {
			fmt.Printf("Started:    %d\n", y)
		}
		if len(p.Tags) > 0 {
			names := make([]string, 0, len(p.Tags))
			for _, t := range p.Tags {
				names = append(names, fmt.Sprintf("%s (%s)", t.Name, t.Category))
			}
			fmt.Printf("Tags:       %s\n", strings.Join(names, ", "))
		}
		for _, l := range p.Links {
			fmt.Printf("Link:       %s %s\n", l.Type, l.URL)
		}
	},
}

var projectsRelatedCmd = &cobra.Command{
	Use:   "related [slug]",
	Short: "Rank other projects by shared tags",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		related, ok := mustApp(ctx).projects.RelatedTo(ctx, args[0], relatedLimit)
		if !ok {
			fmt.Fprintf(os.Stderr, "Project not found: %s\n", args[0])
			os.Exit(1)
		}
		if projectsJSON {
			printJSON(related)
			return
		}
		for _, r := range related {
			fmt.Printf("%3d  %s\n", r.Score, r.Project.Slug)
		}
	},
}

var projectsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the portfolio",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		s := mustApp(ctx).projects.Stats(ctx)
		if projectsJSON {
			printJSON(s)
			return
		}

		fmt.Printf("Total:        %d\n", s.Total)
		fmt.Printf("Featured:     %d\n", s.Featured)
		fmt.Printf("Open source:  %d\n", s.OpenSource)
		fmt.Printf("With images:  %d\n", s.WithImages)
		fmt.Printf("Years:        %d-%d\n", s.Years.Min, s.Years.Max)
		fmt.Printf("Tags/project: %.1f\n", s.AverageTags)

		statuses := make([]string, 0, len(s.ByStatus))
		for status := range s.ByStatus {
			statuses = append(statuses, status)
		}
		sort.Strings(statuses)
		for _, status := range statuses {
			fmt.Printf("  %-11s %d\n", titleCaser.String(status)+":", s.ByStatus[status])
		}
	},
}

func printProjects(list []projects.Project) {
	if projectsJSON {
		printJSON(list)
		return
	}
	for _, p := range list {
		marker := " "
		if p.Featured {
			marker = "*"
		}
		fmt.Printf("%s %4d  %-28s %s\n", marker, p.Year(), p.Slug, p.Title)
	}
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	projectsCmd.AddCommand(projectsListCmd, projectsSearchCmd, projectsShowCmd, projectsRelatedCmd, projectsStatsCmd)
	projectsCmd.PersistentFlags().BoolVar(&projectsJSON, "json", false, "Output in JSON format")

	projectsListCmd.Flags().StringVar(&projectsTag, "tag", "", "Filter by tag name")
	projectsListCmd.Flags().StringVar(&projectsCategory, "category", "", "Restrict --tag to a tag category")
	projectsListCmd.Flags().IntVar(&projectsFrom, "from", 0, "First start year")
	projectsListCmd.Flags().IntVar(&projectsTo, "to", 0, "Last start year (default current year)")
	projectsListCmd.Flags().BoolVar(&projectsFeatured, "featured", false, "Only featured projects")

	projectsRelatedCmd.Flags().IntVar(&relatedLimit, "limit", projects.DefaultRelatedLimit, "Maximum number of results")
}
