package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Truella/Framez/internal/feed"
	"github.com/Truella/Framez/internal/prefs"
)

func printPosts(w io.Writer, posts []feed.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(w, "no posts")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tAUTHOR\tWHEN\tLIKES\t\tCONTENT")
	for _, p := range posts {
		marks := ""
		if p.IsLiked {
			marks += "♥"
		}
		if p.IsSaved {
			marks += "★"
		}
		content := strings.ReplaceAll(p.Content, "\n", " ")
		if p.ImageURL != "" {
			content = strings.TrimSpace(content + " [" + p.ImageURL + "]")
		}
		fmt.Fprintf(tw, "%s\t@%s\t%s\t%d\t%s\t%s\n",
			p.ID, p.Author.Username, p.CreatedAt.Local().Format(time.DateTime), p.LikeCount, marks, content)
	}
	_ = tw.Flush()
}

func newFeedCmd(e *env) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show the feed, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uid, err := e.viewer()
			if err != nil {
				return err
			}
			if force {
				if err := e.app.Feed.LoadAll(cmd.Context(), uid, true); err != nil {
					return err
				}
			}
			printPosts(cmd.OutOrStdout(), e.app.Feed.Feed())
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "refetch even if the feed was just loaded")
	return cmd
}

func newMineCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "mine [user-id]",
		Short: "Show your posts, or another user's",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := e.viewer()
			if err != nil {
				return err
			}
			owner := uid
			if len(args) == 1 {
				owner = args[0]
			}
			if err := e.app.Feed.LoadUserPosts(cmd.Context(), owner, uid); err != nil {
				return err
			}
			printPosts(cmd.OutOrStdout(), e.app.Feed.UserPosts())
			return nil
		},
	}
}

func newSavedCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "saved",
		Short: "Show saved posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uid, err := e.viewer()
			if err != nil {
				return err
			}
			if err := e.app.Feed.LoadSaved(cmd.Context(), uid); err != nil {
				return err
			}
			printPosts(cmd.OutOrStdout(), e.app.Feed.Saved())
			return nil
		},
	}
}

func newLikeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "like <post-id>",
		Short: "Like or unlike a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := e.viewer()
			if err != nil {
				return err
			}
			res, err := e.app.Feed.ToggleLike(cmd.Context(), uid, args[0])
			if err != nil {
				return err
			}
			verb := "unliked"
			if res.Liked {
				verb = "liked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d likes)\n", verb, args[0], res.Count)
			return nil
		},
	}
}

func newSaveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "save <post-id>",
		Short: "Save or unsave a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := e.viewer()
			if err != nil {
				return err
			}
			saved, err := e.app.Feed.ToggleSave(cmd.Context(), uid, args[0])
			if err != nil {
				return err
			}
			verb := "unsaved"
			if saved {
				verb = "saved"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, args[0])
			return nil
		},
	}
}

func newPostCmd(e *env) *cobra.Command {
	var text, image string
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Publish a post with text, an image, or both",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uid, err := e.viewer()
			if err != nil {
				return err
			}
			p, err := e.app.Feed.CreatePost(cmd.Context(), uid, text, image)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "posted %s\n", p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "post text")
	cmd.Flags().StringVar(&image, "image", "", "path to a local image")
	return cmd
}

func newDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <post-id>",
		Short: "Delete one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := e.viewer(); err != nil {
				return err
			}
			return e.app.Feed.DeletePost(cmd.Context(), args[0])
		},
	}
}

func newThemeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|auto]",
		Short:     "Show or change the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(prefs.ThemeLight), string(prefs.ThemeDark), string(prefs.ThemeAuto)},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				t, err := prefs.ParseTheme(args[0])
				if err != nil {
					return err
				}
				if err := e.app.Theme.Set(cmd.Context(), t); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.app.Theme.Current())
			return nil
		},
	}
}
