package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/LISSConsulting/storefront/internal/catalog"
	"github.com/LISSConsulting/storefront/internal/config"
	"github.com/LISSConsulting/storefront/internal/journal"
	"github.com/LISSConsulting/storefront/internal/logging"
	"github.com/LISSConsulting/storefront/internal/notify"
	"github.com/LISSConsulting/storefront/internal/remotecart"
	"github.com/LISSConsulting/storefront/internal/session"
	"github.com/LISSConsulting/storefront/internal/storage"
)

// appOptions selects which optional collaborators openApp wires.
type appOptions struct {
	// tui sends logs to the configured log file instead of stderr.
	tui bool
	// record journals and notifies dispatched actions.
	record bool
}

// app holds everything a command needs, composed from config.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	store    *session.Store
	cart     session.CartStore
	journal  *journal.Journal
	notifier *notify.Notifier
	closers  []func()
}

// openApp loads config and wires the session store, cart store, journal and
// notifier for cmd.
func openApp(cmd *cobra.Command, opts appOptions) (*app, error) {
	ephemeral, _ := cmd.Flags().GetBool("ephemeral")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}

	if opts.tui {
		log, closer, logErr := logging.File(cfg.Log.Level, cfg.Resolve(cfg.Log.File))
		if logErr != nil {
			return nil, logErr
		}
		a.log = log
		a.closers = append(a.closers, func() { _ = closer.Close() })
	} else {
		a.log = logging.Console(cfg.Log.Level, cmd.ErrOrStderr())
	}

	var kv session.KV
	if ephemeral {
		kv = storage.NewMemory()
	} else {
		kv = storage.NewFile(cfg.StorageDir())
	}
	a.store = session.Open(kv, a.log)

	a.cart, err = newCartStore(cfg, a.store)
	if err != nil {
		a.Close()
		return nil, err
	}

	if opts.record {
		a.wireRecorders()
	}
	return a, nil
}

// loadConfig loads the config named by --config, or the discovered one, and
// validates it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newCartStore picks the cart implementation for cfg.Cart.Mode.
func newCartStore(cfg *config.Config, st *session.Store) (session.CartStore, error) {
	if cfg.Cart.Mode == config.ModeRemote {
		return remotecart.New(cfg.Cart.RemoteURL, cfg.CartTimeout())
	}
	return session.NewLocalCart(st), nil
}

// wireRecorders subscribes the journal and notifier. Journal failures are
// logged and the app runs without one.
func (a *app) wireRecorders() {
	if a.cfg.Journal.Enabled {
		dir := a.cfg.JournalDir()
		j, err := journal.Open(dir)
		if err != nil {
			a.log.Warn().Err(err).Msg("journal disabled")
		} else {
			a.journal = j
			unsubscribe := a.store.Subscribe(j.Listener(a.log))
			a.closers = append(a.closers, func() {
				unsubscribe()
				_ = j.Close()
				if err := journal.EnforceRetention(dir, a.cfg.Journal.Retention); err != nil {
					a.log.Warn().Err(err).Msg("journal retention")
				}
			})
		}
	}

	n := a.cfg.Notifications
	if n.URL != "" && (n.OnLogin || n.OnCartChange) {
		a.notifier = notify.New(n.URL, "storefront", n.OnLogin, n.OnCartChange)
		unsubscribe := a.store.Subscribe(a.notifier.Listener())
		notifier := a.notifier
		a.closers = append(a.closers, func() {
			unsubscribe()
			notifier.Wait()
		})
	}
}

// catalogSource returns the configured product source.
func (a *app) catalogSource() catalog.Source {
	if a.cfg.Catalog.Source == config.SourceSample {
		return catalog.Sample
	}
	return catalog.NewHTTP(a.cfg.Catalog.URL, a.cfg.CatalogTimeout(), a.log)
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// findProduct fetches the catalog and returns the product with id.
func (a *app) findProduct(ctx context.Context, id session.ProductID) (session.Product, error) {
	if err := catalog.Populate(ctx, a.catalogSource(), a.store, a.log); err != nil {
		return session.Product{}, fmt.Errorf("load catalog: %w", err)
	}
	p, ok := a.store.State().Product(id)
	if !ok {
		return session.Product{}, fmt.Errorf("product %d not found in catalog", id)
	}
	return p, nil
}
