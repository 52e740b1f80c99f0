package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/BloggingApp/post-web/internal/model"
	"github.com/BloggingApp/post-web/internal/service"
	"github.com/spf13/cobra"
)

func formatDate(date string) string {
	if len(date) >= 10 {
		return date[:10]
	}
	return date
}

func (a *app) postsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "posts [page]",
		Short: "List posts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			page := 1
			if len(args) == 1 {
				page = service.ParsePage(args[0])
			}

			ctrl := a.services.NewController(a.session.State())
			defer ctrl.Close()

			err := ctrl.GoToPage(cmd.Context(), page)
			if errors.Is(err, service.ErrSessionExpired) {
				return a.check(cmd.Context(), err)
			}

			snapshot := ctrl.Snapshot()
			if err != nil && snapshot.View.Posts == nil {
				return err
			}

			printPosts(cmd.OutOrStdout(), snapshot)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", err.Error())
			}
			return nil
		},
	}
}

func printPosts(w io.Writer, snapshot service.Snapshot) {
	if !snapshot.Role.Valid() {
		fmt.Fprintln(w, "There is no posts view for your account.")
		return
	}

	view := snapshot.View
	if snapshot.Role == model.RoleAdmin {
		fmt.Fprintf(w, "Total Account: %d  Total Post: %d  My Post: %d\n\n",
			view.TotalAccounts(), view.TotalPosts(), view.MyPostCount())
	}

	if view.Empty() {
		fmt.Fprintln(w, "No posts yet.")
	} else {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDATE\tTITLE\tTAGS")
		for _, post := range view.Posts.Data {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", post.ID, formatDate(post.Date), post.Title, strings.Join(post.Tags, ","))
		}
		tw.Flush()
	}

	total := 0
	if view.Posts != nil {
		total = view.Posts.TotalPages
	}
	fmt.Fprintf(w, "\npage %d of %d\n", snapshot.Page, total)
}

func (a *app) viewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view ID",
		Short: "Show one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			post, err := a.services.Post.View(cmd.Context(), a.session.State().Token, args[0])
			if err != nil {
				return a.check(cmd.Context(), service.Classify(err))
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s\n%s", post.Title, formatDate(post.Date))
			if len(post.Tags) > 0 {
				fmt.Fprintf(w, "  [%s]", strings.Join(post.Tags, ", "))
			}
			fmt.Fprintf(w, "\n\n%s\n", post.Body)
			return nil
		},
	}
}
