package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spigell/tutorhub/internal/listing"
	"github.com/spigell/tutorhub/internal/marketplace"
)

const latestPosts = 5

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the dashboard for your role",
	Run: func(cmd *cobra.Command, _ []string) {
		dashboard(cmd)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func dashboard(cmd *cobra.Command) {
	e := setup()
	user := e.requireRole("")
	ctx := context.Background()
	out := cmd.OutOrStdout()

	role := e.session.Role()
	switch dashboardRole(role) {
	case marketplace.RoleStudent:
		posts, err := e.api.GetMyPosts(ctx)
		if err != nil {
			e.fail("getting your posts", err)
		}

		fmt.Fprintf(out, "Welcome back, %s. You have %d post(s).\n\n", user.Name, len(posts))
		if len(posts) == 0 {
			fmt.Fprintln(out, "You have not posted anything yet.")
			return
		}

		records := make([]*listing.Record, 0, len(posts))
		for _, p := range posts {
			records = append(records, p.Record())
		}
		renderRecords(out, listing.Sort(records, listing.SortNewest))

	case marketplace.RoleTeacher:
		profile, err := e.api.CurrentUser(ctx)
		if err != nil {
			e.fail("getting your profile", err)
		}
		renderProfile(out, profile)

		page, err := e.api.GetAllPosts(ctx, 1, latestPosts)
		if err != nil {
			e.fail("getting the latest posts", err)
		}

		fmt.Fprintf(out, "\nLatest job posts (%d in total):\n", page.Total)
		if page.Len() == 0 {
			fmt.Fprintln(out, "No job posts yet.")
			return
		}
		renderRecords(out, listing.Sort(page.Records, listing.SortNewest))

	default:
		e.logger.Fatal(fmt.Sprintf("no dashboard for role %q", role))
	}
}

// dashboardRole normalises a session role to one of the known roles.
// Unknown roles come back empty.
func dashboardRole(role string) string {
	switch r := strings.ToLower(strings.TrimSpace(role)); r {
	case marketplace.RoleStudent, marketplace.RoleTeacher:
		return r
	default:
		return ""
	}
}
