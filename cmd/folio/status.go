package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/core"
)

var statusJSON bool

type statusReport struct {
	Service  core.ServiceState `json:"service"`
	Posts    loadReport        `json:"posts"`
	Projects loadReport        `json:"projects"`
	Contact  bool              `json:"contact_configured"`
}

type loadReport struct {
	Loaded  int          `json:"loaded"`
	Skipped []skipReport `json:"skipped,omitempty"`
}

type skipReport struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the content store state and any skipped files",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := mustApp(ctx)

		var report statusReport

		postList, postSkipped, err := a.posts.Load(ctx)
		if err != nil {
			fatal("Error loading posts", err)
		}
		report.Posts = newLoadReport(len(postList), postSkipped)

		projectList, projectSkipped, err := a.projects.Load(ctx)
		if err != nil {
			fatal("Error loading projects", err)
		}
		report.Projects = newLoadReport(len(projectList), projectSkipped)

		report.Service = a.service.State().(core.ServiceState)
		report.Contact = a.contact.Configured()

		if statusJSON {
			printJSON(report)
			return
		}

		fmt.Printf("%-12s %s\n", "Repository:", titleCaser.String(report.Service.RepositoryType))
		if st, ok := report.Service.RepositoryState.(fs.RepositoryState); ok {
			fmt.Printf("%-12s %s\n", "Path:", st.Path)
			fmt.Printf("%-12s %d cached\n", "Cache:", st.CacheSize)
			fmt.Printf("%-12s %v\n", "Formats:", st.Serializers)
		}
		fmt.Printf("%-12s %v\n", "Contact:", report.Contact)
		printLoad("Posts", report.Posts)
		printLoad("Projects", report.Projects)
	},
}

func newLoadReport(loaded int, skipped []core.Skipped) loadReport {
	r := loadReport{Loaded: loaded}
	for _, s := range skipped {
		r.Skipped = append(r.Skipped, skipReport{ID: s.ID, Reason: s.Reason.Error()})
	}
	return r
}

func printLoad(label string, r loadReport) {
	fmt.Printf("%-12s %d loaded, %d skipped\n", label+":", r.Loaded, len(r.Skipped))
	for _, s := range r.Skipped {
		fmt.Printf("  - %s: %s\n", s.ID, s.Reason)
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
}
