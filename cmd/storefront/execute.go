package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/LISSConsulting/storefront/internal/cartserver"
	"github.com/LISSConsulting/storefront/internal/catalog"
	"github.com/LISSConsulting/storefront/internal/config"
	"github.com/LISSConsulting/storefront/internal/journal"
	"github.com/LISSConsulting/storefront/internal/logging"
	"github.com/LISSConsulting/storefront/internal/session"
	"github.com/LISSConsulting/storefront/internal/tui"
)

// runShop starts the catalog fetch and runs the TUI until the user quits.
func runShop(cmd *cobra.Command) error {
	a, err := openApp(cmd, appOptions{tui: true, record: true})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	feed := tui.NewFeed()
	unsubscribe := a.store.Subscribe(feed.Listener())
	defer unsubscribe()
	defer feed.Close()

	done := catalog.Start(ctx, a.catalogSource(), a.store, a.log)

	model := tui.New(ctx, tui.Options{
		Store:       a.store,
		Cart:        a.cart,
		Feed:        feed,
		CatalogDone: done,
		Accent:      a.cfg.TUI.AccentColor,
		Mode:        a.cfg.Cart.Mode,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		<-ctx.Done()
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	if a.journal != nil {
		fmt.Fprint(cmd.OutOrStdout(), formatSummary(a.journal.Summary()))
	}
	return nil
}

// serveCart runs the reference cart service until ctx is cancelled.
func serveCart(ctx context.Context, cfg *config.Config, logOut io.Writer) error {
	log := logging.Console(cfg.Log.Level, logOut)

	var repo cartserver.Repository = cartserver.NewMemory()
	if cfg.Server.DSN != "" {
		pg, err := cartserver.OpenPostgres(ctx, cfg.Server.DSN)
		if err != nil {
			return err
		}
		defer pg.Close()
		repo = pg
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           cartserver.NewHandler(repo, log).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Bool("postgres", cfg.Server.DSN != "").Msg("cart service listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve-cart: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("serve-cart: shutdown: %w", err)
	}
	log.Info().Msg("cart service stopped")
	return nil
}

// showHistory prints the most recent journal in dir.
func showHistory(out io.Writer, dir string) error {
	path, err := journal.Latest(dir)
	if errors.Is(err, journal.ErrNoJournal) {
		fmt.Fprintln(out, "No journal found. Run 'storefront' or a cart command first.")
		return nil
	}
	if err != nil {
		return err
	}

	entries, skipped, err := journal.ReadFile(path)
	if err != nil {
		return err
	}
	sessionID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	fmt.Fprint(out, formatHistory(journal.Summarize(sessionID, entries), entries, skipped))
	return nil
}

func formatPrice(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// formatCatalog renders products as an aligned table.
func formatCatalog(products []session.Product) string {
	if len(products) == 0 {
		return "No products available.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%5s  %-48s %10s  %s\n", "ID", "Title", "Price", "Rating")
	for _, p := range products {
		fmt.Fprintf(&b, "%5d  %-48s %10s  %d/5 (%d reviews)\n",
			p.ID, truncate(p.Title, 48), formatPrice(p.Price), p.Rating, p.Reviews)
	}
	return b.String()
}

// formatCart renders cart lines and totals.
func formatCart(cart session.Cart) string {
	if len(cart.Items) == 0 {
		return "Your cart is empty.\n"
	}
	var b strings.Builder
	for _, l := range cart.Items {
		fmt.Fprintf(&b, "%5d  %-40s %3d × %-10s %10s\n",
			l.ID, truncate(l.Title, 40), l.Quantity, formatPrice(l.Price), formatPrice(l.Subtotal()))
	}
	fmt.Fprintf(&b, "%d item(s), subtotal %s\n", cart.ItemCount, formatPrice(cart.Total))
	return b.String()
}

// formatStatus renders the signed-in user, cart mode and cart summary.
func formatStatus(user *session.User, cart session.Cart, cfg *config.Config) string {
	var b strings.Builder
	b.WriteString("Storefront Status\n")
	b.WriteString("─────────────────\n")
	if user != nil {
		fmt.Fprintf(&b, "  %-12s %s <%s>\n", "User:", user.Name, user.Email)
	} else {
		fmt.Fprintf(&b, "  %-12s %s\n", "User:", "not signed in")
	}
	mode := cfg.Cart.Mode
	if mode == config.ModeRemote {
		mode += " (" + cfg.Cart.RemoteURL + ")"
	}
	fmt.Fprintf(&b, "  %-12s %s\n", "Cart mode:", mode)
	fmt.Fprintf(&b, "  %-12s %d\n", "Lines:", len(cart.Items))
	fmt.Fprintf(&b, "  %-12s %d\n", "Items:", cart.ItemCount)
	fmt.Fprintf(&b, "  %-12s %s\n", "Subtotal:", formatPrice(cart.Total))
	fmt.Fprintf(&b, "  %-12s %s\n", "Storage:", cfg.StorageDir())
	return b.String()
}

// formatSummary renders the one-line summary printed when the TUI exits.
func formatSummary(s journal.Summary) string {
	if s.Actions == 0 {
		return ""
	}
	return fmt.Sprintf("Session %s: %d action(s), cart %d item(s) %s\n",
		s.SessionID, s.Actions, s.ItemCount, formatPrice(s.Total))
}

// formatHistory renders a journal summary followed by its entries.
func formatHistory(s journal.Summary, entries []journal.Entry, skipped int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session %s\n", s.SessionID)
	b.WriteString("────────────────────────\n")
	if !s.StartedAt.IsZero() {
		fmt.Fprintf(&b, "  %-12s %s\n", "Started:", s.StartedAt.Local().Format(time.DateTime))
	}
	fmt.Fprintf(&b, "  %-12s %d\n", "Actions:", s.Actions)

	kinds := make([]string, 0, len(s.ByAction))
	for k := range s.ByAction {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(&b, "    %-18s %d\n", k, s.ByAction[k])
	}
	fmt.Fprintf(&b, "  %-12s %d item(s), %s\n", "Final cart:", s.ItemCount, formatPrice(s.Total))
	if skipped > 0 {
		fmt.Fprintf(&b, "  %-12s %d malformed line(s)\n", "Skipped:", skipped)
	}

	if len(entries) > 0 {
		b.WriteString("\n")
	}
	for _, e := range entries {
		fmt.Fprintf(&b, "  %s  %-18s %s\n", e.Time.Local().Format(time.TimeOnly), e.Action, describeEntry(e))
	}
	return b.String()
}

// describeEntry renders the action-specific part of a journal line.
func describeEntry(e journal.Entry) string {
	switch {
	case e.User != "":
		return e.User
	case e.Products > 0:
		return fmt.Sprintf("%d product(s)", e.Products)
	case e.Title != "":
		return fmt.Sprintf("#%d %s ×%d", e.ProductID, e.Title, e.Quantity)
	case e.ProductID != 0 && e.Quantity > 0:
		return fmt.Sprintf("#%d ×%d", e.ProductID, e.Quantity)
	case e.ProductID != 0:
		return fmt.Sprintf("#%d", e.ProductID)
	}
	return ""
}

// formatScaffoldResult formats the output of config.Scaffold for display.
func formatScaffoldResult(created []string) string {
	if len(created) == 0 {
		return "All files already exist, nothing to create.\n"
	}
	var b strings.Builder
	for _, f := range created {
		fmt.Fprintf(&b, "Created %s\n", f)
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
