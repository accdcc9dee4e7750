package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"purchasing_manager/internal/auth"
	"purchasing_manager/internal/engine"
	"purchasing_manager/internal/purchasing"
	"purchasing_manager/internal/secrets"
	"purchasing_manager/internal/server"
	"purchasing_manager/internal/sheets"
	"purchasing_manager/internal/slack"
	"purchasing_manager/internal/status"
	"purchasing_manager/internal/store"
)

// app holds the shared clients every command builds on.
type app struct {
	secrets  *secrets.Config
	client   *sheets.Client
	catalog  *sheets.Catalog
	registry *sheets.UserRegistry
}

func newApp(ctx context.Context, secretsPath string) (*app, error) {
	cfg, err := secrets.Load(secretsPath)
	if err != nil {
		return nil, err
	}

	client, err := sheets.NewClient(ctx, cfg.CredentialsFile, cfg.SpreadsheetID)
	if err != nil {
		return nil, err
	}

	return &app{
		secrets:  cfg,
		client:   client,
		catalog:  sheets.NewCatalog(client),
		registry: sheets.NewUserRegistry(client),
	}, nil
}

// engineFor builds a transition engine bound to one project sheet, with the
// Slack composer wired in.
func (a *app) engineFor(ctx context.Context, sheetName string) (*engine.Engine, *sheets.SheetStore, error) {
	if sheetName == "" {
		return nil, nil, errors.New("a project sheet must be named with --sheet")
	}

	isProject, err := a.catalog.IsProjectSheet(ctx, sheetName)
	if err != nil {
		return nil, nil, err
	}
	if !isProject {
		return nil, nil, fmt.Errorf("%q is not a project sheet; this action may only be performed in a project sheet", sheetName)
	}

	st := sheets.NewStore(a.client, sheetName)
	project, err := a.catalog.Project(ctx, sheetName)
	if err != nil {
		return nil, nil, err
	}

	composer := slack.NewComposer(st, a.registry, a.secrets, slack.NewClient())
	return engine.New(st, composer, project), st, nil
}

// currentUser resolves the acting user, prompting for Slack ID and full name
// the first time an email is seen.
func (a *app) currentUser(ctx context.Context, st *sheets.SheetStore, email string) (auth.User, error) {
	if email == "" {
		return auth.User{}, errors.New("an acting user email is required (--user or USER_EMAIL)")
	}
	session := auth.NewSession(email, st, a.registry, &auth.PromptResolver{In: os.Stdin, Out: os.Stdout})
	return session.CurrentUser(ctx)
}

// lookupStatus resolves a registry key, including the diagnostic TEST status.
func lookupStatus(key string) (*status.Status, error) {
	key = strings.ToUpper(key)
	if key == status.TestStatus.Key {
		return status.TestStatus, nil
	}
	if st := status.Get(key); st != nil {
		return st, nil
	}

	keys := make([]string, 0, len(status.Registry))
	for k := range status.Registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return nil, fmt.Errorf("unknown status %q (known: %s, TEST)", key, strings.Join(keys, ", "))
}

func newRootCommand() *cobra.Command {
	var secretsPath string
	var sheetName string
	var userEmail string

	root := &cobra.Command{
		Use:           "purchasing_manager",
		Short:         "Purchasing request workflow over the SOAR purchasing database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&secretsPath, "secrets", getEnvWithDefault("SECRETS_FILE", "secrets.yaml"), "path to the secrets YAML file")
	root.PersistentFlags().StringVar(&sheetName, "sheet", os.Getenv("PROJECT_SHEET"), "project sheet to operate on")
	root.PersistentFlags().StringVar(&userEmail, "user", os.Getenv("USER_EMAIL"), "email of the acting user")

	root.AddCommand(
		newMarkCommand(&secretsPath, &sheetName, &userEmail),
		newFastForwardCommand(&secretsPath, &sheetName, &userEmail),
		newOrderSheetCommand(&secretsPath, &sheetName, &userEmail),
		newServeCommand(&secretsPath),
		newStatusesCommand(),
	)

	return root
}

func newMarkCommand(secretsPath, sheetName, userEmail *string) *cobra.Command {
	var rowsSpec string
	var all bool

	cmd := &cobra.Command{
		Use:   "mark STATUS",
		Short: "Mark selected rows with a status and notify Slack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, err := lookupStatus(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(ctx, *secretsPath)
			if err != nil {
				return err
			}
			eng, sheetStore, err := a.engineFor(ctx, *sheetName)
			if err != nil {
				return err
			}
			user, err := a.currentUser(ctx, sheetStore, *userEmail)
			if err != nil {
				return err
			}

			var result *engine.Result
			if all {
				result, err = eng.MarkAllItems(ctx, st, user)
			} else {
				ranges, perr := store.ParseRowRanges(rowsSpec)
				if perr != nil {
					return perr
				}
				result, err = eng.MarkItems(ctx, st, ranges, user)
			}

			var notifyErr *engine.NotifyError
			if errors.As(err, &notifyErr) {
				// The sheet is already updated; report the delivery failure
				// without claiming the marking failed.
				log.Warn().Err(notifyErr.Err).Msg("Items were marked, but the Slack notification failed")
				err = nil
			}
			if err != nil {
				return err
			}

			for _, warning := range result.Warnings {
				log.Warn().Msg(warning)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %d item(s) as %q.\n", result.Marked, st.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&rowsSpec, "rows", "", "row selection, e.g. 4:6,9")
	cmd.Flags().BoolVar(&all, "all", false, "mark every data row in the sheet")
	return cmd
}

func newFastForwardCommand(secretsPath, sheetName, userEmail *string) *cobra.Command {
	var rowsSpec string

	cmd := &cobra.Command{
		Use:   "fast-forward STATUS",
		Short: "Jump selected rows to a status, back-filling skipped columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, err := lookupStatus(args[0])
			if err != nil {
				return err
			}
			ranges, err := store.ParseRowRanges(rowsSpec)
			if err != nil {
				return err
			}

			a, err := newApp(ctx, *secretsPath)
			if err != nil {
				return err
			}
			eng, sheetStore, err := a.engineFor(ctx, *sheetName)
			if err != nil {
				return err
			}
			user, err := a.currentUser(ctx, sheetStore, *userEmail)
			if err != nil {
				return err
			}

			count, err := eng.FastForwardItems(ctx, st, ranges, user)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Fast-forwarded %d item(s) to %q.\n", count, st.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&rowsSpec, "rows", "", "row selection, e.g. 4:6,9")
	return cmd
}

func newOrderSheetCommand(secretsPath, sheetName, userEmail *string) *cobra.Command {
	var rowsSpec string

	cmd := &cobra.Command{
		Use:   "order-sheet",
		Short: "Generate a purchasing form spreadsheet from selected rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ranges, err := store.ParseRowRanges(rowsSpec)
			if err != nil {
				return err
			}

			a, err := newApp(ctx, *secretsPath)
			if err != nil {
				return err
			}
			if *sheetName == "" {
				return errors.New("a project sheet must be named with --sheet")
			}
			sheetStore := sheets.NewStore(a.client, *sheetName)
			user, err := a.currentUser(ctx, sheetStore, *userEmail)
			if err != nil {
				return err
			}

			generator := purchasing.NewGenerator(a.client, a.catalog)
			result, err := generator.Generate(ctx, sheetStore, *sheetName, ranges, user)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %q with %d item(s).\nSheet:  %s\nFolder: %s\n",
				result.Title, result.NumItems, result.SpreadsheetURL, result.FolderURL)
			return nil
		},
	}

	cmd.Flags().StringVar(&rowsSpec, "rows", "", "row selection, e.g. 4:6,9")
	return cmd
}

func newServeCommand(secretsPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Slack slash command and interactive endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *secretsPath)
			if err != nil {
				return err
			}
			return server.New(a.catalog).Start(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", getEnvWithDefault("LISTEN_ADDR", ":8080"), "listen address")
	return cmd
}

func newStatusesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "statuses",
		Short: "List the status registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := make([]string, 0, len(status.Registry))
			for key := range status.Registry {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			for _, key := range keys {
				st := status.Registry[key]
				from := make([]string, len(st.AllowedPrevious))
				for i, prev := range st.AllowedPrevious {
					from[i] = fmt.Sprintf("%q", string(prev))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-36q from: %s\n", key, st.Text, strings.Join(from, ", "))
			}
			return nil
		},
	}
}
