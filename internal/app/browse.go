package app

import (
	"github.com/spf13/cobra"

	"github.com/presenttv/client/internal/present"
)

func (c *cli) userCommand() *cobra.Command {
	var ref present.UserRef
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Show a user by id or username",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.deps.Client.User(cmd.Context(), ref)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), user)
		},
	}
	userRefFlags(cmd, &ref)
	return cmd
}

func (c *cli) usersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users",
	}

	var newPage, popularPage, searchPage present.PageRequest
	var byUsername bool

	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Recently joined users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := c.deps.Client.NewUsers(cmd.Context(), newPage)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), page)
		},
	}
	pageFlags(newCmd, &newPage)

	popularCmd := &cobra.Command{
		Use:   "popular",
		Short: "Popular users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := c.deps.Client.PopularUsers(cmd.Context(), popularPage)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), page)
		},
	}
	pageFlags(popularCmd, &popularPage)

	searchCmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search users by name, or by username with --by-username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			search := c.deps.Client.SearchUsers
			if byUsername {
				search = c.deps.Client.SearchUsersByUsername
			}
			page, err := search(cmd.Context(), args[0], searchPage)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), page)
		},
	}
	pageFlags(searchCmd, &searchPage)
	searchCmd.Flags().BoolVar(&byUsername, "by-username", false, "Match usernames only")

	cmd.AddCommand(newCmd, popularCmd, searchCmd)
	return cmd
}

func (c *cli) activitiesCommand() *cobra.Command {
	var page present.PageRequest
	cmd := &cobra.Command{
		Use:   "activities",
		Short: "Show the logged in user's activity feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			activities, err := c.deps.Client.Activities(cmd.Context(), sc, page)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), activities)
		},
	}
	pageFlags(cmd, &page)
	return cmd
}

func (c *cli) videosCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "videos",
		Short: "Browse videos",
	}

	var homePage, popularPage, newPage, userPage, searchPage present.PageRequest
	var ref present.UserRef

	homeCmd := &cobra.Command{
		Use:   "home",
		Short: "The logged in user's home feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			page, err := c.deps.Client.HomeVideos(cmd.Context(), sc, homePage)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), page)
		},
	}
	pageFlags(homeCmd, &homePage)

	popularCmd := &cobra.Command{
		Use:   "popular",
		Short: "Popular videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := c.deps.Client.PopularVideos(cmd.Context(), popularPage)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), page)
		},
	}
	pageFlags(popularCmd, &popularPage)

	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Recent videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := c.deps.Client.NewVideos(cmd.Context(), newPage)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), page)
		},
	}
	pageFlags(newCmd, &newPage)

	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Videos created by a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := c.deps.Client.UserVideos(cmd.Context(), ref, userPage)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), page)
		},
	}
	pageFlags(userCmd, &userPage)
	userRefFlags(userCmd, &ref)

	searchCmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search videos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := c.deps.Client.SearchVideos(cmd.Context(), args[0], searchPage)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), page)
		},
	}
	pageFlags(searchCmd, &searchPage)

	showCmd := &cobra.Command{
		Use:   "show VIDEO_ID",
		Short: "Show a single video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			video, err := c.deps.Client.Video(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), video)
		},
	}

	cmd.AddCommand(homeCmd, popularCmd, newCmd, userCmd, searchCmd, showCmd)
	return cmd
}

func (c *cli) demandsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demands",
		Short: "List, make and remove demands",
	}

	var page present.PageRequest
	var ref present.UserRef
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Demands made by a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			demands, err := c.deps.Client.ListForwardDemands(cmd.Context(), ref, page)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), demands)
		},
	}
	pageFlags(listCmd, &page)
	userRefFlags(listCmd, &ref)

	makeCmd := &cobra.Command{
		Use:   "make USERNAME",
		Short: "Demand a video from a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.deps.Client.MakeDemand(cmd.Context(), sc, args[0]); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]string{"demanded": args[0]})
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove USERNAME",
		Short: "Withdraw a demand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.deps.Client.RemoveDemand(cmd.Context(), sc, args[0]); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]string{"removed": args[0]})
		},
	}

	cmd.AddCommand(listCmd, makeCmd, removeCmd)
	return cmd
}
