package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

const healthTimeout = 2 * time.Second

const (
	actionRegister = "register"
	actionUsers    = "users"
	actionUpload   = "upload"
	actionDatasets = "datasets"
	actionView     = "view"
	actionExit     = "exit"
)

func newMenuCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := st.checkHealth(cmd.Context()); err != nil {
				return err
			}
			return st.runMenu(cmd)
		},
	}
}

func (st *cliState) checkHealth(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if _, err := st.client.Health(ctx); err != nil {
		return fmt.Errorf("cannot reach registry at %s: %w", st.client.BaseURL(), err)
	}
	return nil
}

func (st *cliState) runMenu(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, styles.Box.Render("Dataset registry  "+styles.Muted.Render(st.client.BaseURL())))

	for {
		var action string
		err := huh.NewSelect[string]().
			Title("What would you like to do?").
			Options(
				huh.NewOption("Register a user", actionRegister),
				huh.NewOption("List users", actionUsers),
				huh.NewOption("Upload a CSV dataset", actionUpload),
				huh.NewOption("List a user's datasets", actionDatasets),
				huh.NewOption("View a dataset", actionView),
				huh.NewOption("Exit", actionExit),
			).
			Value(&action).
			Run()
		if errors.Is(err, huh.ErrUserAborted) || action == actionExit {
			printMuted(out, "Bye.")
			return nil
		}
		if err != nil {
			return err
		}

		if err := st.runAction(cmd, action); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				continue
			}
			// The menu keeps running after a failed request.
			printError(cmd.ErrOrStderr(), err)
		}
		fmt.Fprintln(out)
	}
}

func (st *cliState) runAction(cmd *cobra.Command, action string) error {
	switch action {
	case actionRegister:
		user, err := promptInput("Username", validateNotEmpty)
		if err != nil {
			return err
		}
		return newRegisterCmd(st).RunE(cmd, []string{user})
	case actionUsers:
		return newUsersCmd(st).RunE(cmd, nil)
	case actionUpload:
		var user, dataset, path string
		err := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Username").Value(&user).Validate(validateNotEmpty),
			huh.NewInput().Title("Dataset name").Value(&dataset).Validate(validateNotEmpty),
			huh.NewInput().Title("Path to CSV file").Value(&path).Validate(validateCSVPath),
		)).Run()
		if err != nil {
			return err
		}
		return st.upload(cmd, user, dataset, path)
	case actionDatasets:
		user, err := promptInput("Username", validateNotEmpty)
		if err != nil {
			return err
		}
		return newDatasetsCmd(st).RunE(cmd, []string{user})
	case actionView:
		user, err := promptInput("Username", validateNotEmpty)
		if err != nil {
			return err
		}
		return st.get(cmd, user, "")
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

func promptInput(title string, validate func(string) error) (string, error) {
	var value string
	err := huh.NewInput().Title(title).Value(&value).Validate(validate).Run()
	return value, err
}
