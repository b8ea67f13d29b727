package cmd

import (
	"encoding/json"
	"net/url"

	"github.com/spf13/cobra"

	"admitad/internal/config"
	"admitad/pkg/publisher"
)

// newMeCmd prints the account profile and balance.
func newMeCmd(opts *rootOptions) *cobra.Command {
	var extended bool

	cmd := &cobra.Command{
		Use:   "me",
		Short: "Show the account profile and balance",
		Long: `Show the profile and balance of the account the stored token belongs to.
An expired access token is refreshed automatically and the new pair is saved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd, config.RequireClient)
			if err != nil {
				return err
			}
			p, err := opts.printer(cmd)
			if err != nil {
				return err
			}

			pub, err := newPublisher(cfg)
			if err != nil {
				return err
			}
			defer pub.Close()

			ctx := cmd.Context()
			profile, err := pub.User.Profile(ctx)
			if err != nil {
				return err
			}
			if err := p.Print(profile); err != nil {
				return err
			}

			if extended {
				balance, err := pub.User.ExtendedBalance(ctx)
				if err != nil {
					return err
				}
				return p.Print(balance)
			}
			balance, err := pub.User.Balance(ctx)
			if err != nil {
				return err
			}
			return p.Print(balance)
		},
	}

	cmd.Flags().BoolVar(&extended, "extended", false, "Show the extended balance (processing, today, stalled)")
	return cmd
}

// newProgramsCmd lists affiliate programs.
func newProgramsCmd(opts *rootOptions) *cobra.Command {
	var (
		query   publisher.ProgramsQuery
		website int64
		status  string
	)

	cmd := &cobra.Command{
		Use:   "programs",
		Short: "List affiliate programs",
		Long: `List affiliate programs. With --website the programs are listed for that
website, including the connection status.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd, config.RequireClient)
			if err != nil {
				return err
			}
			p, err := opts.printer(cmd)
			if err != nil {
				return err
			}

			pub, err := newPublisher(cfg)
			if err != nil {
				return err
			}
			defer pub.Close()

			var page *publisher.Paginated[publisher.Program]
			if website > 0 {
				page, err = pub.Programs.ListForWebsite(cmd.Context(), website, publisher.WebsiteProgramsQuery{
					Pagination:       query.Pagination,
					ConnectionStatus: status,
					HasTool:          query.HasTool,
				})
			} else {
				page, err = pub.Programs.List(cmd.Context(), query)
			}
			if err != nil {
				return err
			}
			return p.Print(page)
		},
	}

	cmd.Flags().IntVar(&query.Limit, "limit", publisher.DefaultLimit, "Page size (at most 500)")
	cmd.Flags().IntVar(&query.Offset, "offset", publisher.DefaultOffset, "Page offset")
	cmd.Flags().Int64Var(&website, "website", 0, "List programs for this website ID")
	cmd.Flags().StringVar(&status, "connection-status", "", "With --website: active, pending or declined")
	cmd.Flags().StringVar(&query.HasTool, "has-tool", "", "Only programs offering this tool, e.g. deeplink")
	return cmd
}

// newCategoriesCmd lists program categories.
func newCategoriesCmd(opts *rootOptions) *cobra.Command {
	var (
		query publisher.CategoriesQuery
		tree  bool
	)

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List program categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd, config.RequireClient)
			if err != nil {
				return err
			}
			p, err := opts.printer(cmd)
			if err != nil {
				return err
			}

			pub, err := newPublisher(cfg)
			if err != nil {
				return err
			}
			defer pub.Close()

			page, err := pub.Auxiliary.Categories(cmd.Context(), query)
			if err != nil {
				return err
			}
			if tree {
				return p.PrintCategoryTree(publisher.BuildCategoryTree(page.Results))
			}
			return p.Print(page)
		},
	}

	cmd.Flags().IntVar(&query.Limit, "limit", publisher.MaxLimit, "Page size (at most 500)")
	cmd.Flags().IntVar(&query.Offset, "offset", publisher.DefaultOffset, "Page offset")
	cmd.Flags().BoolVar(&tree, "tree", false, "Render categories as a tree")
	return cmd
}

// newGetCmd performs an authenticated GET on an arbitrary endpoint.
func newGetCmd(opts *rootOptions) *cobra.Command {
	var params map[string]string

	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "Send an authenticated GET request to an API path",
		Long: `Send a GET request to any API path with the stored credential and print
the JSON response.

Examples:
  admitad get me/
  admitad get advcampaigns/ --param limit=5 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd, config.RequireClient)
			if err != nil {
				return err
			}
			p, err := opts.printer(cmd)
			if err != nil {
				return err
			}

			client, err := newClient(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			query := url.Values{}
			for k, v := range params {
				query.Set(k, v)
			}

			var out json.RawMessage
			if err := client.Get(cmd.Context(), args[0], query, &out); err != nil {
				return err
			}
			return p.Print(out)
		},
	}

	cmd.Flags().StringToStringVar(&params, "param", nil, "Query parameter key=value (repeatable)")
	return cmd
}
