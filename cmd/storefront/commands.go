package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/storefront/internal/config"
	"github.com/LISSConsulting/storefront/internal/session"
)

// withApp opens the app for cmd, runs fn under a signal-aware context and
// closes the app afterwards.
func withApp(cmd *cobra.Command, opts appOptions, fn func(ctx context.Context, a *app) error) error {
	a, err := openApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()
	return fn(ctx, a)
}

func shopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shop",
		Short: "Browse the catalog and manage the cart in the terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShop(cmd)
		},
	}
}

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				products, err := a.catalogSource().Products(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatCatalog(products))
				return nil
			})
		},
	}
}

func cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				cart, err := a.cart.Cart(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatCart(cart))
				return nil
			})
		},
	}

	cmd.AddCommand(
		cartAddCmd(),
		cartIDCmd("remove <id>", "Remove a product from the cart", func(ctx context.Context, cs session.CartStore, id session.ProductID) (session.Cart, error) {
			return cs.Remove(ctx, id)
		}),
		cartIDCmd("inc <id>", "Increase a line's quantity by one", session.Increment),
		cartIDCmd("dec <id>", "Decrease a line's quantity by one, removing it at zero", session.Decrement),
		cartQtyCmd(),
		cartClearCmd(),
	)
	return cmd
}

func cartAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <id>",
		Short: "Add a product from the catalog to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := session.ParseProductID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, appOptions{record: true}, func(ctx context.Context, a *app) error {
				p, err := a.findProduct(ctx, id)
				if err != nil {
					return err
				}
				cart, err := a.cart.Add(ctx, p)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Added %s\n", p.Title)
				fmt.Fprint(out, formatCart(cart))
				return nil
			})
		},
	}
}

// cartIDCmd builds a cart subcommand that applies op to one product id.
func cartIDCmd(use, short string, op func(context.Context, session.CartStore, session.ProductID) (session.Cart, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := session.ParseProductID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, appOptions{record: true}, func(ctx context.Context, a *app) error {
				cart, err := op(ctx, a.cart, id)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatCart(cart))
				return nil
			})
		},
	}
}

func cartQtyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "qty <id> <quantity>",
		Short: "Set a line's quantity; zero or less removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := session.ParseProductID(args[0])
			if err != nil {
				return err
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			return withApp(cmd, appOptions{record: true}, func(ctx context.Context, a *app) error {
				cart, err := a.cart.SetQuantity(ctx, id, qty)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatCart(cart))
				return nil
			})
		},
	}
}

func cartClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every line from the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{record: true}, func(ctx context.Context, a *app) error {
				cart, err := a.cart.Clear(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatCart(cart))
				return nil
			})
		},
	}
}

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in; the name defaults to the part of the email before @",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			return signIn(cmd, args[0], name)
		},
	}
	cmd.Flags().String("name", "", "display name")
	return cmd
}

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <email> <name>",
		Short: "Create a session for a new user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return signIn(cmd, args[0], args[1])
		},
	}
}

func signIn(cmd *cobra.Command, email, name string) error {
	u, err := session.NewUser(email, name)
	if err != nil {
		return err
	}
	return withApp(cmd, appOptions{record: true}, func(_ context.Context, a *app) error {
		a.store.Dispatch(session.SetUser{User: u})
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", u.Name, u.Email)
		return nil
	})
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{record: true}, func(_ context.Context, a *app) error {
				prev := a.store.State().User
				if prev == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
					return nil
				}
				a.store.Dispatch(session.Logout{})
				fmt.Fprintf(cmd.OutOrStdout(), "Signed out %s\n", prev.Name)
				return nil
			})
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the signed-in user and cart summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				cart, err := a.cart.Cart(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatStatus(a.store.State().User, cart, a.cfg))
				return nil
			})
		},
	}
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the most recent journaled session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(_ context.Context, a *app) error {
				return showHistory(cmd.OutOrStdout(), a.cfg.JournalDir())
			})
		},
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create storefront.toml and ignore the session directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			created, err := config.Scaffold(dir)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatScaffoldResult(created))
			return nil
		},
	}
}

func serveCartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve-cart",
		Short: "Run the reference cart service used by remote cart mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.Server.Addr = addr
			}
			if dsn, _ := cmd.Flags().GetString("dsn"); dsn != "" {
				cfg.Server.DSN = dsn
			}
			ctx, cancel := signalContext()
			defer cancel()
			err = serveCart(ctx, cfg, cmd.ErrOrStderr())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	cmd.Flags().String("dsn", "", "Postgres DSN (overrides server.dsn; empty keeps lines in memory)")
	return cmd
}
