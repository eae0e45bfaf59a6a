package search

import (
	"fmt"
	"sort"

	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/conf"
	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/datastore"
	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/logging"
	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/tracking"
	"github.com/spf13/cobra"
)

// Command creates the search command for querying the chamber corpus.
func Command(settings *conf.Settings) *cobra.Command {
	var exact bool
	var ranked bool

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search services by chamber",
		Long:  `Search the persisted chamber lists for a fragment. Wrap the query in quotes to force exact matching.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(settings, args[0], exact, ranked)
		},
	}

	cmd.Flags().BoolVarP(&exact, "exact", "e", false, "Require an exact normalized-key match")
	cmd.Flags().BoolVarP(&ranked, "ranked", "r", settings.Tracking.Search.Ranked, "Rank fuzzy matches by score")

	return cmd
}

func runSearch(settings *conf.Settings, query string, exact, ranked bool) error {
	store, err := datastore.New(settings)
	if err != nil {
		return err
	}
	if err := store.Open(); err != nil {
		return err
	}
	defer store.Close()

	searcher := tracking.NewSearcher(store, tracking.SearchOptions{
		MinFragment: settings.Tracking.Search.MinFragment,
	}, logging.ForService("search"))

	if ranked {
		matches, err := searcher.SearchRanked(query)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Println("Sin coincidencias")
			return nil
		}
		for _, match := range matches {
			fmt.Printf("%s (score %d)\n", match.ServiceID, match.Score)
		}
		return nil
	}

	matches, err := searcher.Search(query, exact)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println("Sin coincidencias")
		return nil
	}
	sort.Strings(matches)
	for _, serviceID := range matches {
		fmt.Println(serviceID)
	}
	return nil
}
