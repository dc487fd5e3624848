package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/spigell/tutorhub/internal/browse"
	"github.com/spigell/tutorhub/internal/filtering"
	"github.com/spigell/tutorhub/internal/listing"
	"github.com/spigell/tutorhub/internal/logger"
	"github.com/spigell/tutorhub/internal/marketplace"
)

// filterFlags maps command line flags to filter keys.
var filterFlags = []struct {
	flag  string
	key   filtering.Key
	usage string
}{
	{flag: "subject", key: filtering.KeySubject, usage: "subject name contains"},
	{flag: "location", key: filtering.KeyLocation, usage: "location contains"},
	{flag: "min-budget", key: filtering.KeyMinBudget, usage: "budget or hourly rate at least"},
	{flag: "max-budget", key: filtering.KeyMaxBudget, usage: "budget or hourly rate at most"},
	{flag: "service-type", key: filtering.KeyServiceType, usage: "service type contains"},
	{flag: "employment-type", key: filtering.KeyEmploymentType, usage: "employment type contains"},
	{flag: "meeting-options", key: filtering.KeyMeetingOptions, usage: "meeting option contains (online, in person)"},
	{flag: "language", key: filtering.KeyLanguage, usage: "teaching language contains"},
}

// listingKind describes one remote listing the cli can browse.
type listingKind struct {
	name     string
	endpoint string
	fetcher  func(api *marketplace.Client) browse.Fetcher
}

var (
	postsKind = listingKind{
		name:     "posts",
		endpoint: "/posts",
		fetcher: func(api *marketplace.Client) browse.Fetcher {
			return browse.FetchFunc(api.GetAllPosts)
		},
	}
	tutorsKind = listingKind{
		name:     "tutors",
		endpoint: "/teachers",
		fetcher: func(api *marketplace.Client) browse.Fetcher {
			return browse.FetchFunc(api.GetAllTeachers)
		},
	}
)

var postsCmd = newListingCmd(postsKind, "posts", "Browse job posts from students")

var tutorsCmd = newListingCmd(tutorsKind, "tutors", "Browse tutor profiles")

func init() {
	rootCmd.AddCommand(postsCmd, tutorsCmd)

	postsCmd.Flags().Bool("mine", false, "list your own posts (students only)")
}

func newListingCmd(kind listingKind, use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Run: func(cmd *cobra.Command, _ []string) {
			runListing(cmd, kind)
		},
	}

	flags := cmd.Flags()
	flags.Int("page", 1, "page to show")
	flags.Int("limit", 0, fmt.Sprintf("items per page, one of %v (default from config or %d)", listing.PageSizes, listing.DefaultItemsPerPage))
	flags.String("sort", "", fmt.Sprintf("sort order, one of %v", listing.SortKeys))
	flags.BoolP("interactive", "i", false, "browse pages, filters and sort order interactively")
	for _, f := range filterFlags {
		flags.String(f.flag, "", f.usage)
	}

	return cmd
}

func runListing(cmd *cobra.Command, kind listingKind) {
	e := setup()
	log := logger.WithListing(e.logger, kind.name, kind.endpoint)
	flags := cmd.Flags()

	if mine, _ := flags.GetBool("mine"); mine {
		myPosts(cmd, e)
		return
	}

	b, err := newBrowser(e, log, kind, flags)
	if err != nil {
		log.Fatal("preparing the listing", zap.Error(err))
	}

	ctx := context.Background()

	if interactive, _ := flags.GetBool("interactive"); interactive {
		if err := runBrowser(ctx, cmd.OutOrStdout(), kind.name, b); err != nil {
			log.Fatal("exiting", zap.Error(err))
		}
		return
	}

	if err := b.Load(ctx); err != nil {
		e.fail("getting "+kind.name, err)
	}

	renderView(cmd.OutOrStdout(), kind.name, b.View())
}

func newBrowser(e *env, log *zap.Logger, kind listingKind, flags *pflag.FlagSet) (*browse.Browser, error) {
	page, _ := flags.GetInt("page")

	limit, _ := flags.GetInt("limit")
	if limit == 0 {
		limit = e.config.Listing.PageSize
	}

	sortName, _ := flags.GetString("sort")
	if sortName == "" {
		sortName = e.config.Listing.Sort
	}
	sortKey := listing.SortNewest
	if sortName != "" {
		parsed, err := listing.ParseSortKey(sortName)
		if err != nil {
			return nil, err
		}
		sortKey = parsed
	}

	locale := language.English
	if e.config.Listing.Locale != "" {
		tag, err := language.Parse(e.config.Listing.Locale)
		if err != nil {
			return nil, fmt.Errorf("listing.locale: %w", err)
		}
		locale = tag
	}

	b, err := browse.New(kind.fetcher(e.api), browse.Options{
		Page:         page,
		ItemsPerPage: limit,
		Sort:         sortKey,
		Locale:       locale,
		Logger:       log,
	})
	if err != nil {
		return nil, err
	}

	for _, f := range filterFlags {
		value, _ := flags.GetString(f.flag)
		if strings.TrimSpace(value) == "" {
			continue
		}
		if err := b.SetFilter(f.key, value); err != nil {
			return nil, err
		}
	}

	return b, nil
}

func myPosts(cmd *cobra.Command, e *env) {
	e.requireRole(marketplace.RoleStudent)

	posts, err := e.api.GetMyPosts(context.Background())
	if err != nil {
		e.fail("getting your posts", err)
	}

	if len(posts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "You have not posted anything yet.")
		return
	}

	records := make([]*listing.Record, 0, len(posts))
	for _, p := range posts {
		records = append(records, p.Record())
	}
	renderRecords(cmd.OutOrStdout(), listing.Sort(records, listing.SortNewest))
}
