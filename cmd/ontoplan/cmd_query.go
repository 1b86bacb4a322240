package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ontoplan/internal/query"
)

// queryCmd groups the query tools as CLI subcommands, exercised
// directly against the graph projection without going through the
// HTTP surface.
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run a query tool operation directly",
}

var objectInfoCmd = &cobra.Command{
	Use:   "object-info <id> [id...]",
	Short: "Print classes, data properties, and relationships for one or more individuals",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("querying object info", zap.Strings("ids", args))

		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.Close()

		infos, err := query.GetObjectInfo(a.store, args)
		if err != nil {
			return err
		}
		return printJSON(infos)
	},
}

var (
	filterClass string
	filterCat   string
)

var filterObjectsCmd = &cobra.Command{
	Use:   "filter",
	Short: "List individuals matching a class/category filter",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("filtering objects", zap.String("class", filterClass), zap.String("category", filterCat))

		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.Close()

		infos, err := query.FilterObjects(a.store, query.Filter{ClassName: filterClass, Category: filterCat})
		if err != nil {
			return err
		}
		return printJSON(infos)
	},
}

var pathCmd = &cobra.Command{
	Use:   "path <from-id> <to-id>",
	Short: "Find the shortest space-to-space path between two individuals",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("finding path", zap.String("from", args[0]), zap.String("to", args[1]))

		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := query.FindPath(a.store, args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var (
	searchTopK int
	searchType string
)

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Run a semantic search against the category or description index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("running semantic search", zap.String("query", args[0]), zap.String("type", searchType), zap.Int("top_k", searchTopK))

		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.Close()

		searcher := query.NewSearcher(a.engine, a.binder, a.store)
		categories, objects, err := searcher.Search(context.Background(), args[0], searchTopK, searchType)
		if err != nil {
			return err
		}
		if len(categories) > 0 {
			return printJSON(categories)
		}
		return printJSON(objects)
	},
}

func init() {
	filterObjectsCmd.Flags().StringVar(&filterClass, "class", "", "Class name to filter on")
	filterObjectsCmd.Flags().StringVar(&filterCat, "category", "", "Category data-property value to filter on")

	searchCmd.Flags().IntVar(&searchTopK, "top-k", 5, "Number of results to return")
	searchCmd.Flags().StringVar(&searchType, "type", "description", "Search index: \"category\" or \"description\"")

	queryCmd.AddCommand(objectInfoCmd, filterObjectsCmd, pathCmd, searchCmd)
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
