package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"dataset-registry-service/internal/client"
	"dataset-registry-service/pkg/security"
)

const (
	defaultServer = "http://127.0.0.1:8000"
	envServer     = "REGISTRY_SERVER"
)

// pickDataset chooses a dataset when `get` is run without one. Replaced in tests.
var pickDataset = func(user string, datasets []string) (string, error) {
	var choice string
	err := huh.NewSelect[string]().
		Title(fmt.Sprintf("Datasets of %s", user)).
		Options(huh.NewOptions(datasets...)...).
		Value(&choice).
		Run()
	return choice, err
}

type cliState struct {
	server  string
	timeout time.Duration
	client  *client.Client
}

func newRootCmd() *cobra.Command {
	st := &cliState{}

	rootCmd := &cobra.Command{
		Use:           "registry-cli",
		Short:         "Client for the dataset registry service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			server := st.server
			if !cmd.Flags().Changed("server") {
				if env := os.Getenv(envServer); env != "" {
					server = env
				}
			}
			c, err := client.New(server)
			if err != nil {
				return err
			}
			st.client = c
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&st.server, "server", defaultServer, "registry service base URL (env "+envServer+")")
	rootCmd.PersistentFlags().DurationVar(&st.timeout, "timeout", client.DefaultTimeout, "request timeout")

	rootCmd.AddCommand(
		newRegisterCmd(st),
		newUsersCmd(st),
		newUploadCmd(st),
		newDatasetsCmd(st),
		newGetCmd(st),
		newMenuCmd(st),
	)

	// Errors are rendered once here so every subcommand reports them the same way.
	wrapRun(rootCmd)
	return rootCmd
}

func wrapRun(cmd *cobra.Command) {
	for _, sub := range cmd.Commands() {
		run := sub.RunE
		if run == nil {
			continue
		}
		sub.RunE = func(c *cobra.Command, args []string) error {
			err := run(c, args)
			if err == nil || errors.Is(err, huh.ErrUserAborted) {
				return err
			}
			printError(c.ErrOrStderr(), err)
			return renderedError{err}
		}
	}
}

// renderedError marks an error that was already shown to the user.
type renderedError struct{ error }

func (e renderedError) Unwrap() error { return e.error }

func (st *cliState) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), st.timeout)
}

func newRegisterCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "register <username>",
		Short: "Register a new user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := st.context(cmd)
			defer cancel()
			resp, err := st.client.Register(ctx, args[0])
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), fmt.Sprintf("%s: %s", resp.Message, resp.Username))
			return nil
		},
	}
}

func newUsersCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List registered users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := st.context(cmd)
			defer cancel()
			users, err := st.client.ListUsers(ctx)
			if err != nil {
				return err
			}
			printList(cmd.OutOrStdout(), "Registered users", users, "No users registered yet.")
			return nil
		},
	}
}

func newUploadCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <username> <dataset> <file.csv>",
		Short: "Upload a CSV file as a dataset",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.upload(cmd, args[0], args[1], args[2])
		},
	}
}

func (st *cliState) upload(cmd *cobra.Command, user, dataset, path string) error {
	if err := validateCSVPath(path); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ctx, cancel := st.context(cmd)
	defer cancel()
	resp, err := st.client.Upload(ctx, user, dataset, filepath.Base(path), f)
	if err != nil {
		return err
	}
	printSuccess(cmd.OutOrStdout(), fmt.Sprintf("%s: %d rows stored as %s/%s",
		resp.Message, resp.RowsProcessed, resp.Username, resp.DatasetName))
	return nil
}

func newDatasetsCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "datasets <username>",
		Short: "List the datasets of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := st.context(cmd)
			defer cancel()
			datasets, err := st.client.ListDatasets(ctx, args[0])
			if err != nil {
				return err
			}
			printList(cmd.OutOrStdout(), "Datasets of "+args[0], datasets, "No datasets uploaded yet.")
			return nil
		},
	}
}

func newGetCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "get <username> [dataset]",
		Short: "Print the rows of a dataset",
		Long:  "Print the rows of a dataset as JSON. Without a dataset name you pick one from the user's datasets.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset := ""
			if len(args) == 2 {
				dataset = args[1]
			}
			return st.get(cmd, args[0], dataset)
		},
	}
}

func (st *cliState) get(cmd *cobra.Command, user, dataset string) error {
	if dataset == "" {
		picked, err := st.pick(cmd, user)
		if err != nil || picked == "" {
			return err
		}
		dataset = picked
	}

	// --timeout bounds the request, not the time spent in the picker
	ctx, cancel := st.context(cmd)
	defer cancel()
	records, err := st.client.GetDataset(ctx, user, dataset)
	if err != nil {
		return err
	}
	printTitle(cmd.OutOrStdout(), fmt.Sprintf("%s/%s (%d rows)", user, dataset, len(records)))
	return printJSON(cmd.OutOrStdout(), records)
}

// pick lists the datasets of user and asks which one to show. It returns an
// empty name when there is nothing to choose from.
func (st *cliState) pick(cmd *cobra.Command, user string) (string, error) {
	ctx, cancel := st.context(cmd)
	datasets, err := st.client.ListDatasets(ctx, user)
	cancel()
	if err != nil {
		return "", err
	}
	if len(datasets) == 0 {
		printMuted(cmd.OutOrStdout(), "No datasets uploaded yet.")
		return "", nil
	}
	return pickDataset(user, datasets)
}

func validateNotEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("value cannot be empty")
	}
	return nil
}

func validateCSVPath(path string) error {
	if err := validateNotEmpty(path); err != nil {
		return err
	}
	if !security.IsCSVFilename(filepath.Base(path)) {
		return errors.New("file must have a .csv extension")
	}
	return nil
}
