package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/presenttv/client/internal/models"
	"github.com/presenttv/client/internal/present"
	"github.com/presenttv/client/internal/sessions"
)

// readPassword takes the flag value or, when empty, the first line of in.
func readPassword(flag string, in io.Reader) (string, error) {
	if flag != "" {
		return flag, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password is required (use --password or pass it on stdin)")
	}
	return password, nil
}

func (c *cli) loginCommand() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login USERNAME",
		Short: "Create a session context and store it under the profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(password, cmd.InOrStdin())
			if err != nil {
				return err
			}
			sc, err := c.deps.Client.CreateSessionContext(cmd.Context(), args[0], pw)
			if err != nil {
				return err
			}
			if err := c.deps.Sessions.Save(cmd.Context(), c.profile, sc); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), sc.User)
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Password (read from stdin when omitted)")
	return cmd
}

func (c *cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate the stored session context",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.deps.Client.InvalidateSessionContext(cmd.Context(), sc); err != nil {
				return err
			}
			if err := c.deps.Sessions.Delete(cmd.Context(), c.profile); err != nil && !errors.Is(err, sessions.ErrSessionNotFound) {
				return fmt.Errorf("delete session: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "logged out of profile %s\n", c.profile)
			return err
		},
	}
}

func (c *cli) signupCommand() *cobra.Command {
	var password, email string
	cmd := &cobra.Command{
		Use:   "signup USERNAME",
		Short: "Register a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(password, cmd.InOrStdin())
			if err != nil {
				return err
			}
			user, err := c.deps.Client.CreateUser(cmd.Context(), args[0], pw, email)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), user)
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Password (read from stdin when omitted)")
	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) meCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			user, err := c.deps.Client.Me(cmd.Context(), sc)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), user)
		},
	}
}

func (c *cli) updateCommand() *cobra.Command {
	var fullName, description, gender, location, website, email, phone string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the logged in user's profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var update present.UserUpdate
			flags := cmd.Flags()
			for name, dst := range map[string]**string{
				"full-name":   &update.FullName,
				"description": &update.Description,
				"location":    &update.Location,
				"website":     &update.Website,
				"email":       &update.Email,
				"phone":       &update.PhoneNumber,
			} {
				if flags.Changed(name) {
					v, _ := flags.GetString(name)
					*dst = &v
				}
			}
			if flags.Changed("gender") {
				g := models.ParseGender(gender)
				update.Gender = &g
			}

			sc, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			user, err := c.deps.Client.UpdateUser(cmd.Context(), sc, update)
			if err != nil {
				return err
			}
			if err := c.deps.Sessions.Save(cmd.Context(), c.profile, *sc); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), user)
		},
	}
	cmd.Flags().StringVar(&fullName, "full-name", "", "Full name")
	cmd.Flags().StringVar(&description, "description", "", "Profile description")
	cmd.Flags().StringVar(&gender, "gender", "", "Gender (male, female or empty)")
	cmd.Flags().StringVar(&location, "location", "", "Location")
	cmd.Flags().StringVar(&website, "website", "", "Website url")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	return cmd
}

func (c *cli) inviteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "invite EMAIL",
		Short: "Send an invitation email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.deps.Client.Invite(cmd.Context(), sc, args[0]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "invited %s\n", args[0])
			return err
		},
	}
}

func (c *cli) resetPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password USERNAME",
		Short: "Request a password reset email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.deps.Client.RequestPasswordReset(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "password reset requested for %s\n", args[0])
			return err
		},
	}
}
