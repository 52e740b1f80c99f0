package cli

import (
	"fmt"
	"strings"

	"github.com/BloggingApp/post-web/internal/service"
	"github.com/spf13/cobra"
)

func (a *app) createCmd() *cobra.Command {
	var form service.PostForm

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			ctrl := a.services.NewController(a.session.State())
			defer ctrl.Close()

			ctrl.OpenCreate()
			if err := ctrl.SubmitCreate(cmd.Context(), form); err != nil {
				return a.check(cmd.Context(), err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Post created")
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Title, "title", "", "post title")
	cmd.Flags().StringVar(&form.Body, "body", "", "post body (Markdown)")
	cmd.Flags().StringSliceVar(&form.Tags, "tag", nil, "tag, repeatable: "+strings.Join(service.FilterTags(""), ", "))

	return cmd
}

func (a *app) editCmd() *cobra.Command {
	var (
		title     string
		body      string
		tags      []string
		clearTags bool
	)

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a post, keeping fields that are not given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			ctrl := a.services.NewController(a.session.State())
			defer ctrl.Close()

			if err := ctrl.OpenByID(cmd.Context(), service.ModalEdit, args[0]); err != nil {
				return a.check(cmd.Context(), err)
			}

			form := ctrl.Snapshot().EditForm
			flags := cmd.Flags()
			if flags.Changed("title") {
				form.Title = title
			}
			if flags.Changed("body") {
				form.Body = body
			}
			if flags.Changed("tag") {
				form.Tags = tags
			}
			if clearTags {
				form.Tags = []string{}
			}

			if err := ctrl.SubmitEdit(cmd.Context(), form); err != nil {
				return a.check(cmd.Context(), err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Post updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&body, "body", "", "new body (Markdown)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "replace the tags, repeatable")
	cmd.Flags().BoolVar(&clearTags, "clear-tags", false, "remove all tags")

	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			ctrl := a.services.NewController(a.session.State())
			defer ctrl.Close()

			if err := ctrl.OpenByID(cmd.Context(), service.ModalDelete, args[0]); err != nil {
				return a.check(cmd.Context(), err)
			}

			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "Delete %q? [y/N] ", ctrl.Snapshot().Current.Title)
				answer, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				if reply := strings.ToLower(strings.TrimSpace(answer)); reply != "y" && reply != "yes" {
					ctrl.Cancel()
					return ErrNotConfirmed
				}
			}

			if err := ctrl.ConfirmDelete(cmd.Context()); err != nil {
				return a.check(cmd.Context(), err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Post deleted")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}
